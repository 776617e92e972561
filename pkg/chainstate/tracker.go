// Package chainstate tracks the fork point of each independently
// progressing chain: the endpoint plus the block number a simulation run
// forks from. Nodes prune old state, so a stored fork block must be
// refreshed before reuse.
package chainstate

import (
	"context"
	"fmt"
	"log"

	"github.com/pkg/errors"
)

// FastRuntimeEpochLength is the session length of the fast runtimes used by
// the harness networks.
const FastRuntimeEpochLength uint32 = 20

// HeadReader reports the number of a chain's latest block.
type HeadReader interface {
	LatestBlockNumber(ctx context.Context) (uint32, error)
}

// Tracker holds the current fork block of one chain.
type Tracker struct {
	name        string
	endpoint    string
	head        HeadReader
	epochLength uint32
	forkBlock   uint32
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithEpochLength enables session-boundary avoidance: a refreshed block
// number that is an exact multiple of the epoch length is decremented by
// one before storing. The downstream forking engine cannot resolve preimage
// availability exactly at an epoch boundary. Used for chains whose
// fellowship pallets live on a fixed-length-epoch chain.
func WithEpochLength(n uint32) Option {
	return func(t *Tracker) {
		t.epochLength = n
	}
}

// NewTracker creates a tracker for one chain endpoint.
func NewTracker(name string, endpoint string, head HeadReader, opts ...Option) *Tracker {
	t := &Tracker{
		name:     name,
		endpoint: endpoint,
		head:     head,
	}
	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Refresh fetches the latest block number and replaces the stored fork
// block, applying boundary avoidance when configured.
func (t *Tracker) Refresh(ctx context.Context) error {
	number, err := t.head.LatestBlockNumber(ctx)
	if err != nil {
		return errors.Wrapf(err, "fetch latest block of %s", t.name)
	}

	adjusted := t.adjust(number)
	if adjusted != number {
		log.Printf("adjusted %s fork block to avoid session boundary: %d", t.name, adjusted)
	}
	t.forkBlock = adjusted

	return nil
}

func (t *Tracker) adjust(number uint32) uint32 {
	if t.epochLength > 0 && number > 0 && number%t.epochLength == 0 {
		return number - 1
	}

	return number
}

// ForkBlock returns the stored fork block number.
func (t *Tracker) ForkBlock() uint32 {
	return t.forkBlock
}

// Endpoint returns the chain's endpoint URL.
func (t *Tracker) Endpoint() string {
	return t.endpoint
}

// Name returns the chain's harness name.
func (t *Tracker) Name() string {
	return t.name
}

// ForkAddress composes the address string consumed by the simulation tool:
// "<endpoint-url>,<block-number>". This format is a boundary contract.
func (t *Tracker) ForkAddress() string {
	return fmt.Sprintf("%s,%d", t.endpoint, t.forkBlock)
}
