package submitter

import (
	"context"
	"fmt"
	"log"

	"github.com/pkg/errors"

	"github.com/opengov-tools/referenda-harness/pkg/calldata"
	"github.com/opengov-tools/referenda-harness/pkg/tracks"
)

// CallBuilder is the call assembly surface Flow needs. *calldata.Encoder
// satisfies it.
type CallBuilder interface {
	NotePreimage(payload []byte) ([]byte, error)
	SubmitReferendum(pallet string, origin calldata.Origin, d calldata.ProposalDescriptor) ([]byte, error)
	Remark(payload []byte) ([]byte, error)
}

// Flow drives the direct on-chain referendum path: note the proposal
// preimage, submit the referendum, then recover the referendum index from
// the pallet counter. The counter read relies on this harness being the
// only submitter on the chain.
type Flow struct {
	sub *Submitter
	enc CallBuilder
}

// NewFlow builds a Flow over an established connection.
func NewFlow(sub *Submitter, enc CallBuilder) *Flow {
	return &Flow{sub: sub, enc: enc}
}

// SubmitReferendum notes the proposal preimage, submits a referendum for it
// on the given referenda pallet and returns the new referendum's index and
// the block that finalized the submission.
func (f *Flow) SubmitReferendum(ctx context.Context, pallet string, origin calldata.Origin, proposal []byte) (*Submitted, error) {
	preimage, err := f.enc.NotePreimage(proposal)
	if err != nil {
		return nil, err
	}

	if _, err := f.sub.SubmitAndTrack(ctx, preimage); err != nil {
		return nil, errors.Wrap(err, "note preimage")
	}
	log.Printf("preimage noted on %s", pallet)

	submit, err := f.enc.SubmitReferendum(pallet, origin, calldata.DescribeProposal(proposal))
	if err != nil {
		return nil, err
	}

	res, err := f.sub.SubmitAndTrack(ctx, submit)
	if err != nil {
		return nil, errors.Wrap(err, "submit referendum")
	}

	count, err := f.sub.conn.ReadCounter(ctx, pallet, "ReferendumCount")
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errors.Errorf("%s.ReferendumCount is zero after submission", pallet)
	}

	id := count - 1
	log.Printf("referendum %d submitted in block %d", id, res.BlockNumber)

	return &Submitted{ID: id, BlockNumber: res.BlockNumber}, nil
}

// SubmitGovernanceReferendum submits a remark referendum on the governance
// chain's Referenda pallet for the given track.
func (f *Flow) SubmitGovernanceReferendum(ctx context.Context, track tracks.GovernanceTrack) (*Submitted, error) {
	proposal, err := f.enc.Remark([]byte(fmt.Sprintf("bynum-gov-%s", track.Name)))
	if err != nil {
		return nil, err
	}

	origin := calldata.RootOrigin()
	if !track.IsRoot {
		origin = calldata.Origin{Outer: tracks.GovernanceOuterVariant, Inner: track.OriginVariant}
	}

	return f.SubmitReferendum(ctx, "Referenda", origin, proposal)
}

// SubmitFellowshipReferendum submits a remark referendum on the fellowship
// chain's FellowshipReferenda pallet for the given track.
func (f *Flow) SubmitFellowshipReferendum(ctx context.Context, track tracks.FellowshipTrack, outerVariant string) (*Submitted, error) {
	proposal, err := f.enc.Remark([]byte(fmt.Sprintf("bynum-fell-%s", track.Name)))
	if err != nil {
		return nil, err
	}

	origin := calldata.Origin{Outer: outerVariant, Inner: track.OriginVariant}

	return f.SubmitReferendum(ctx, "FellowshipReferenda", origin, proposal)
}
