package calldata

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// ProposalDescriptor identifies a proposal by the 256-bit hash of its
// encoded call bytes and their length. The pair must exactly match what the
// preimage registration indexes by, or runtime dispatch fails later at
// execution time.
type ProposalDescriptor struct {
	Hash [32]byte
	Len  uint32
}

// DescribeProposal computes the descriptor of encoded proposal bytes.
func DescribeProposal(proposal []byte) ProposalDescriptor {
	return ProposalDescriptor{
		Hash: blake2b.Sum256(proposal),
		Len:  uint32(len(proposal)),
	}
}

// MismatchedDescriptor is a deliberately wrong descriptor: an all-zero hash
// that matches no noted preimage and an unrelated length. Submitting a
// referendum with it succeeds, but its simulated execution reports dispatch
// failure when the runtime fails the preimage lookup.
func MismatchedDescriptor() ProposalDescriptor {
	return ProposalDescriptor{Len: 999}
}

// submitArgs encodes the Referenda submit arguments after the proposal
// origin: the Lookup bounded-call variant (hash ++ u32 length) and the
// After(0) enactment moment.
func submitArgs(origin []byte, d ProposalDescriptor) []byte {
	out := make([]byte, 0, len(origin)+1+32+4+1+4)
	out = append(out, origin...)

	// Bounded::Lookup { hash, len }
	out = append(out, 0x02)
	out = append(out, d.Hash[:]...)
	out = binary.LittleEndian.AppendUint32(out, d.Len)

	// DispatchTime::After(0): immediately after approval
	out = append(out, 0x01)
	out = binary.LittleEndian.AppendUint32(out, 0)

	return out
}
