package calldata

import (
	"fmt"
	"log"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/pkg/errors"

	"github.com/opengov-tools/referenda-harness/pkg/storagekey"
	"github.com/opengov-tools/referenda-harness/pkg/tracks"
)

// CallSet is a noted preimage plus the referendum submission referencing
// it, both as 0x-hex call data ready for the simulation tool.
type CallSet struct {
	PreimageHex string
	SubmitHex   string
}

// NotePreimage wraps payload as the argument to Preimage.note_preimage.
func (e *Encoder) NotePreimage(payload []byte) ([]byte, error) {
	args, err := codec.Encode(payload)
	if err != nil {
		return nil, errors.Wrap(err, "encode preimage payload")
	}

	return e.EncodeCall("Preimage", "note_preimage", args)
}

// SubmitReferendum builds the referendum submission call on the given
// referenda pallet. The enactment moment is fixed to immediately after
// approval.
func (e *Encoder) SubmitReferendum(pallet string, origin Origin, d ProposalDescriptor) ([]byte, error) {
	originBytes, err := e.OriginBytes(origin)
	if err != nil {
		return nil, err
	}

	return e.EncodeCall(pallet, "submit", submitArgs(originBytes, d))
}

// AuthorizeUpgrade builds System.authorize_upgrade for a code hash.
func (e *Encoder) AuthorizeUpgrade(codeHash [32]byte) ([]byte, error) {
	return e.EncodeCall("System", "authorize_upgrade", codeHash[:])
}

// Remark builds System.remark with the given payload.
func (e *Encoder) Remark(payload []byte) ([]byte, error) {
	args, err := codec.Encode(payload)
	if err != nil {
		return nil, errors.Wrap(err, "encode remark payload")
	}

	return e.EncodeCall("System", "remark", args)
}

// referendumCallSet notes the proposal's preimage and submits a referendum
// referencing it with the given origin.
func (e *Encoder) referendumCallSet(pallet string, origin Origin, proposal []byte) (*CallSet, error) {
	preimage, err := e.NotePreimage(proposal)
	if err != nil {
		return nil, err
	}

	d := DescribeProposal(proposal)
	log.Printf("proposal hash: %s, len: %d", storagekey.Hex(d.Hash[:]), d.Len)

	submit, err := e.SubmitReferendum(pallet, origin, d)
	if err != nil {
		return nil, err
	}

	return &CallSet{
		PreimageHex: storagekey.Hex(preimage),
		SubmitHex:   storagekey.Hex(submit),
	}, nil
}

// GovernanceCallData builds call data for a Root-origin referendum whose
// proposal is System.authorize_upgrade with a dummy code hash.
func (e *Encoder) GovernanceCallData() (*CallSet, error) {
	var dummyCodeHash [32]byte
	for i := range dummyCodeHash {
		dummyCodeHash[i] = 1
	}

	proposal, err := e.AuthorizeUpgrade(dummyCodeHash)
	if err != nil {
		return nil, err
	}
	log.Printf("authorize_upgrade call data: %d bytes", len(proposal))

	return e.referendumCallSet("Referenda", RootOrigin(), proposal)
}

// RemarkReferendumCallData builds call data for a Root-origin referendum
// whose proposal is System.remark, exercising a non-upgrade proposal body.
func (e *Encoder) RemarkReferendumCallData() (*CallSet, error) {
	proposal, err := e.Remark([]byte("integration-test-remark"))
	if err != nil {
		return nil, err
	}

	return e.referendumCallSet("Referenda", RootOrigin(), proposal)
}

// WrongPreimageCallData notes a valid preimage but submits the referendum
// with a mismatched descriptor. The referendum is created successfully and
// its simulated execution reports dispatch failure.
func (e *Encoder) WrongPreimageCallData() (*CallSet, error) {
	var dummyCodeHash [32]byte
	for i := range dummyCodeHash {
		dummyCodeHash[i] = 1
	}

	proposal, err := e.AuthorizeUpgrade(dummyCodeHash)
	if err != nil {
		return nil, err
	}

	preimage, err := e.NotePreimage(proposal)
	if err != nil {
		return nil, err
	}

	wrong := MismatchedDescriptor()
	log.Printf("negative test: using wrong proposal hash %s, len %d", storagekey.Hex(wrong.Hash[:]), wrong.Len)

	submit, err := e.SubmitReferendum("Referenda", RootOrigin(), wrong)
	if err != nil {
		return nil, err
	}

	return &CallSet{
		PreimageHex: storagekey.Hex(preimage),
		SubmitHex:   storagekey.Hex(submit),
	}, nil
}

// FellowshipCallData builds call data for a Fellows-origin fellowship
// referendum with a System.remark proposal. The outer variant name differs
// by topology: "FellowshipOrigins" on the collectives parachain, "Origins"
// where the fellowship pallets live on the relay chain.
func (e *Encoder) FellowshipCallData(outerVariant string) (*CallSet, error) {
	proposal, err := e.Remark([]byte("integration-test"))
	if err != nil {
		return nil, err
	}

	origin := Origin{Outer: outerVariant, Inner: "Fellows"}

	return e.referendumCallSet("FellowshipReferenda", origin, proposal)
}

// GovernanceTrackCallData builds call data for any governance track, with a
// System.remark proposal naming the track.
func (e *Encoder) GovernanceTrackCallData(track tracks.GovernanceTrack) (*CallSet, error) {
	proposal, err := e.Remark([]byte(fmt.Sprintf("gov-track-%s-test", track.Name)))
	if err != nil {
		return nil, err
	}

	origin := RootOrigin()
	if !track.IsRoot {
		origin = Origin{Outer: tracks.GovernanceOuterVariant, Inner: track.OriginVariant}
	}

	return e.referendumCallSet("Referenda", origin, proposal)
}

// FellowshipTrackCallData builds call data for any fellowship track.
func (e *Encoder) FellowshipTrackCallData(track tracks.FellowshipTrack, outerVariant string) (*CallSet, error) {
	proposal, err := e.Remark([]byte(fmt.Sprintf("fellowship-track-%s-test", track.Name)))
	if err != nil {
		return nil, err
	}

	origin := Origin{Outer: outerVariant, Inner: track.OriginVariant}

	return e.referendumCallSet("FellowshipReferenda", origin, proposal)
}

// PreCallRemarkHex builds a System.remark suitable for the tool's pre-call
// flag.
func (e *Encoder) PreCallRemarkHex() (string, error) {
	call, err := e.Remark([]byte("pre-call-test"))
	if err != nil {
		return "", err
	}

	return storagekey.Hex(call), nil
}
