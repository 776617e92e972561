// Package submitter signs, submits and tracks extrinsics against a live
// node, then derives assigned entity IDs from on-chain counters. The
// counter-minus-one derivation is valid only while exactly one controlled
// signer submits to a given chain at a time; the Submitter serializes its
// own submissions to uphold that.
package submitter

import (
	"context"
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
)

// Stage identifies the phase a submission failed in, so callers can
// distinguish "never reached the chain" from "reached the chain but was
// rejected".
type Stage string

const (
	// StageSubmit covers signing and handing the extrinsic to the node.
	StageSubmit Stage = "submit"
	// StageInclusion covers waiting for the extrinsic to enter a block.
	StageInclusion Stage = "inclusion"
	// StageFinalization covers waiting for the including block to finalize.
	StageFinalization Stage = "finalization"
	// StageDispatch covers the dispatch outcome inside the finalized block.
	StageDispatch Stage = "dispatch"
)

// SubmitError tags a submission failure with its stage.
type SubmitError struct {
	Stage Stage
	Err   error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

func stageErr(stage Stage, err error) error {
	return &SubmitError{Stage: stage, Err: err}
}

// StageOf extracts the failure stage from an error chain, or "" if the
// error did not originate in a submission.
func StageOf(err error) Stage {
	var se *SubmitError
	if errors.As(err, &se) {
		return se.Stage
	}

	return ""
}

// EventKind classifies extrinsic lifecycle events.
type EventKind uint8

const (
	EventOther EventKind = iota
	EventReady
	EventInBlock
	EventFinalized
	EventRetracted
	EventDropped
	EventInvalid
	EventUsurped
)

func (k EventKind) String() string {
	switch k {
	case EventReady:
		return "ready"
	case EventInBlock:
		return "in block"
	case EventFinalized:
		return "finalized"
	case EventRetracted:
		return "retracted"
	case EventDropped:
		return "dropped"
	case EventInvalid:
		return "invalid"
	case EventUsurped:
		return "usurped"
	default:
		return "other"
	}
}

// StatusEvent is one extrinsic lifecycle event. BlockHash is set for
// in-block, finalized and retracted events.
type StatusEvent struct {
	Kind      EventKind
	BlockHash types.Hash
}

// Watch follows one submitted extrinsic through its lifecycle.
type Watch interface {
	Events() <-chan StatusEvent
	Err() <-chan error
	Unsubscribe()
}

// Conn is the node surface the Submitter needs. NodeConn implements it
// over RPC.
type Conn interface {
	// Submit signs the call bytes with the controlled signer and submits
	// the extrinsic, returning a watch over its lifecycle.
	Submit(ctx context.Context, call []byte) (Watch, error)
	// BlockNumber resolves a block hash to its number.
	BlockNumber(ctx context.Context, blockHash types.Hash) (uint32, error)
	// DispatchOutcome reports whether the extrinsic carrying the given call
	// dispatched successfully within the given block.
	DispatchOutcome(ctx context.Context, blockHash types.Hash, call []byte) error
	// ReadCounter reads a monotonically increasing u32 storage counter.
	ReadCounter(ctx context.Context, pallet string, item string) (uint32, error)
}

// TrackResult is the confirmed landing place of one extrinsic.
type TrackResult struct {
	BlockHash   types.Hash
	BlockNumber uint32
}

// Submitted is a successfully created on-chain entity.
type Submitted struct {
	// ID assigned by the chain, recovered as counter minus one.
	ID uint32
	// BlockNumber of the block the creating extrinsic finalized in.
	BlockNumber uint32
}

// Submitter tracks extrinsics for one chain with one controlled signer.
type Submitter struct {
	conn Conn
	// inFlight guards the single-writer discipline: nonce ordering and
	// counter-based ID derivation assume strictly sequential submission.
	inFlight atomic.Bool
}

// New creates a Submitter over a node connection.
func New(conn Conn) *Submitter {
	return &Submitter{conn: conn}
}

// SubmitAndTrack submits call bytes and waits, in strict order, for
// inclusion in a block, finalization of that block, and successful
// dispatch. Any stage failing aborts with a stage-tagged error.
func (s *Submitter) SubmitAndTrack(ctx context.Context, call []byte) (*TrackResult, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, stageErr(StageSubmit, errors.New("concurrent submission from the same signer"))
	}
	defer s.inFlight.Store(false)

	watch, err := s.conn.Submit(ctx, call)
	if err != nil {
		return nil, stageErr(StageSubmit, err)
	}
	defer watch.Unsubscribe()

	if _, err := s.await(ctx, watch, StageInclusion, EventInBlock); err != nil {
		return nil, err
	}

	finalized, err := s.await(ctx, watch, StageFinalization, EventFinalized)
	if err != nil {
		return nil, err
	}

	if err := s.conn.DispatchOutcome(ctx, finalized, call); err != nil {
		return nil, stageErr(StageDispatch, err)
	}

	number, err := s.conn.BlockNumber(ctx, finalized)
	if err != nil {
		return nil, stageErr(StageDispatch, errors.Wrap(err, "resolve finalized block number"))
	}

	return &TrackResult{BlockHash: finalized, BlockNumber: number}, nil
}

// await consumes lifecycle events until the wanted kind arrives. Terminal
// pool events before that point fail the given stage.
func (s *Submitter) await(ctx context.Context, watch Watch, stage Stage, want EventKind) (types.Hash, error) {
	for {
		select {
		case ev, ok := <-watch.Events():
			if !ok {
				return types.Hash{}, stageErr(stage, errors.New("status stream closed"))
			}
			switch ev.Kind {
			case want:
				return ev.BlockHash, nil
			case EventDropped, EventInvalid, EventUsurped:
				return types.Hash{}, stageErr(stage, errors.Errorf("extrinsic %s", ev.Kind))
			}
		case err := <-watch.Err():
			return types.Hash{}, stageErr(stage, err)
		case <-ctx.Done():
			return types.Hash{}, stageErr(stage, ctx.Err())
		}
	}
}
