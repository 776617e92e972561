package chainstate

import (
	"context"
	"log"
)

// GovernanceContext bundles the trackers of a governance-only suite:
// relay plus the asset hub carrying the Referenda pallet.
type GovernanceContext struct {
	Governance *Tracker
}

// GovernanceForkAddress returns the governance chain address for the tool.
func (c *GovernanceContext) GovernanceForkAddress() string {
	return c.Governance.ForkAddress()
}

// RefreshForkBlocks re-fetches the fork blocks so the forking engine does
// not start from a block whose state the node has already pruned.
func (c *GovernanceContext) RefreshForkBlocks(ctx context.Context) error {
	if err := c.Governance.Refresh(ctx); err != nil {
		return err
	}
	log.Printf("refreshed fork blocks: %s=#%d", c.Governance.Name(), c.Governance.ForkBlock())

	return nil
}

// MultiChainContext bundles the trackers of a multi-chain suite: relay,
// the asset hub carrying Referenda, and the collectives chain carrying
// FellowshipReferenda.
type MultiChainContext struct {
	Relay       *Tracker
	Governance  *Tracker
	Collectives *Tracker
}

func (c *MultiChainContext) GovernanceForkAddress() string {
	return c.Governance.ForkAddress()
}

func (c *MultiChainContext) FellowshipForkAddress() string {
	return c.Collectives.ForkAddress()
}

func (c *MultiChainContext) RelayForkAddress() string {
	return c.Relay.ForkAddress()
}

// RefreshForkBlocks re-fetches every member chain's fork block.
func (c *MultiChainContext) RefreshForkBlocks(ctx context.Context) error {
	for _, t := range []*Tracker{c.Relay, c.Governance, c.Collectives} {
		if err := t.Refresh(ctx); err != nil {
			return err
		}
	}
	log.Printf("refreshed fork blocks: %s=#%d, %s=#%d, %s=#%d",
		c.Relay.Name(), c.Relay.ForkBlock(),
		c.Governance.Name(), c.Governance.ForkBlock(),
		c.Collectives.Name(), c.Collectives.ForkBlock())

	return nil
}

// RelayFellowshipContext bundles the trackers of a topology where the
// fellowship pallets live on the relay chain itself, so the relay doubles
// as the fellowship chain. The relay tracker must be created with
// WithEpochLength so fork points avoid session boundaries.
type RelayFellowshipContext struct {
	Relay      *Tracker
	Governance *Tracker
}

// GovernanceForkAddress returns the asset hub address (Referenda pallet).
func (c *RelayFellowshipContext) GovernanceForkAddress() string {
	return c.Governance.ForkAddress()
}

// FellowshipForkAddress returns the relay address (FellowshipReferenda
// pallet lives on the relay in this topology).
func (c *RelayFellowshipContext) FellowshipForkAddress() string {
	return c.Relay.ForkAddress()
}

// RefreshForkBlocks re-fetches both fork blocks.
func (c *RelayFellowshipContext) RefreshForkBlocks(ctx context.Context) error {
	for _, t := range []*Tracker{c.Relay, c.Governance} {
		if err := t.Refresh(ctx); err != nil {
			return err
		}
	}
	log.Printf("refreshed fork blocks: %s=#%d, %s=#%d",
		c.Relay.Name(), c.Relay.ForkBlock(),
		c.Governance.Name(), c.Governance.ForkBlock())

	return nil
}
