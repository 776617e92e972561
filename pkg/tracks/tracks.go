// Package tracks holds the referendum track tables for the supported
// networks. The origin variant names must exactly match the runtime's
// OriginCaller enum variants.
package tracks

// GovernanceTrack is a governance referendum track on an asset hub.
type GovernanceTrack struct {
	ID   uint16
	Name string
	// OriginVariant is the inner variant name of the proposal origin.
	// For Root: "Root" (with outer variant "system").
	// For all others: the variant name under "Origins".
	OriginVariant string
	// IsRoot marks the track that proposes with the bare system Root origin.
	IsRoot bool
}

// FellowshipTrack is a fellowship referendum track.
type FellowshipTrack struct {
	ID   uint16
	Name string
	// OriginVariant is the inner variant name of the proposal origin
	// (e.g. "Fellows", "Members").
	OriginVariant string
	// MinRank is the minimum rank associated with this track's origin.
	MinRank uint8
}

// GovernanceTracks are shared by Polkadot and Kusama asset hubs (same IDs,
// same names).
var GovernanceTracks = []GovernanceTrack{
	{ID: 0, Name: "Root", OriginVariant: "Root", IsRoot: true},
	{ID: 1, Name: "WhitelistedCaller", OriginVariant: "WhitelistedCaller"},
	{ID: 2, Name: "WishForChange", OriginVariant: "WishForChange"},
	{ID: 10, Name: "StakingAdmin", OriginVariant: "StakingAdmin"},
	{ID: 11, Name: "Treasurer", OriginVariant: "Treasurer"},
	{ID: 12, Name: "LeaseAdmin", OriginVariant: "LeaseAdmin"},
	{ID: 13, Name: "FellowshipAdmin", OriginVariant: "FellowshipAdmin"},
	{ID: 14, Name: "GeneralAdmin", OriginVariant: "GeneralAdmin"},
	{ID: 15, Name: "AuctionAdmin", OriginVariant: "AuctionAdmin"},
	{ID: 20, Name: "ReferendumCanceller", OriginVariant: "ReferendumCanceller"},
	{ID: 21, Name: "ReferendumKiller", OriginVariant: "ReferendumKiller"},
	{ID: 30, Name: "SmallTipper", OriginVariant: "SmallTipper"},
	{ID: 31, Name: "BigTipper", OriginVariant: "BigTipper"},
	{ID: 32, Name: "SmallSpender", OriginVariant: "SmallSpender"},
	{ID: 33, Name: "MediumSpender", OriginVariant: "MediumSpender"},
	{ID: 34, Name: "BigSpender", OriginVariant: "BigSpender"},
}

// PolkadotFellowshipTracks are the fellowship tracks on the Polkadot
// Collectives parachain. Origin caller outer variant: "FellowshipOrigins".
var PolkadotFellowshipTracks = []FellowshipTrack{
	{ID: 1, Name: "Members", OriginVariant: "Members", MinRank: 1},
	{ID: 2, Name: "Fellowship2Dan", OriginVariant: "Fellowship2Dan", MinRank: 2},
	{ID: 3, Name: "Fellows", OriginVariant: "Fellows", MinRank: 3},
	{ID: 4, Name: "Architects", OriginVariant: "Architects", MinRank: 4},
	{ID: 5, Name: "Fellowship5Dan", OriginVariant: "Fellowship5Dan", MinRank: 5},
	{ID: 6, Name: "Fellowship6Dan", OriginVariant: "Fellowship6Dan", MinRank: 6},
	{ID: 7, Name: "Masters", OriginVariant: "Masters", MinRank: 7},
	{ID: 8, Name: "Fellowship8Dan", OriginVariant: "Fellowship8Dan", MinRank: 8},
	{ID: 9, Name: "Fellowship9Dan", OriginVariant: "Fellowship9Dan", MinRank: 9},
	{ID: 11, Name: "RetainAt1Dan", OriginVariant: "RetainAt1Dan", MinRank: 1},
	{ID: 12, Name: "RetainAt2Dan", OriginVariant: "RetainAt2Dan", MinRank: 2},
	{ID: 13, Name: "RetainAt3Dan", OriginVariant: "RetainAt3Dan", MinRank: 3},
	{ID: 14, Name: "RetainAt4Dan", OriginVariant: "RetainAt4Dan", MinRank: 4},
	{ID: 15, Name: "RetainAt5Dan", OriginVariant: "RetainAt5Dan", MinRank: 5},
	{ID: 16, Name: "RetainAt6Dan", OriginVariant: "RetainAt6Dan", MinRank: 6},
	{ID: 21, Name: "PromoteTo1Dan", OriginVariant: "PromoteTo1Dan", MinRank: 1},
	{ID: 22, Name: "PromoteTo2Dan", OriginVariant: "PromoteTo2Dan", MinRank: 2},
	{ID: 23, Name: "PromoteTo3Dan", OriginVariant: "PromoteTo3Dan", MinRank: 3},
	{ID: 24, Name: "PromoteTo4Dan", OriginVariant: "PromoteTo4Dan", MinRank: 4},
	{ID: 25, Name: "PromoteTo5Dan", OriginVariant: "PromoteTo5Dan", MinRank: 5},
	{ID: 26, Name: "PromoteTo6Dan", OriginVariant: "PromoteTo6Dan", MinRank: 6},
	{ID: 31, Name: "FastPromoteTo1Dan", OriginVariant: "FastPromoteTo1Dan", MinRank: 1},
	{ID: 32, Name: "FastPromoteTo2Dan", OriginVariant: "FastPromoteTo2Dan", MinRank: 2},
	{ID: 33, Name: "FastPromoteTo3Dan", OriginVariant: "FastPromoteTo3Dan", MinRank: 3},
}

// KusamaFellowshipTracks are the fellowship tracks on the Kusama relay
// chain, where the fellowship pallets live on the relay itself.
// Origin caller outer variant: "Origins".
var KusamaFellowshipTracks = []FellowshipTrack{
	{ID: 0, Name: "FellowshipInitiates", OriginVariant: "FellowshipInitiates", MinRank: 0},
	{ID: 1, Name: "Fellowship1Dan", OriginVariant: "Fellowship1Dan", MinRank: 1},
	{ID: 2, Name: "Fellowship2Dan", OriginVariant: "Fellowship2Dan", MinRank: 2},
	{ID: 3, Name: "Fellows", OriginVariant: "Fellows", MinRank: 3},
	{ID: 4, Name: "Fellowship4Dan", OriginVariant: "Fellowship4Dan", MinRank: 4},
	{ID: 5, Name: "FellowshipExperts", OriginVariant: "FellowshipExperts", MinRank: 5},
	{ID: 6, Name: "Fellowship6Dan", OriginVariant: "Fellowship6Dan", MinRank: 6},
	{ID: 7, Name: "FellowshipMasters", OriginVariant: "FellowshipMasters", MinRank: 7},
	{ID: 8, Name: "Fellowship8Dan", OriginVariant: "Fellowship8Dan", MinRank: 8},
	{ID: 9, Name: "Fellowship9Dan", OriginVariant: "Fellowship9Dan", MinRank: 9},
}

// Outer OriginCaller variant names per topology.
const (
	// SystemOuterVariant wraps the bare Root origin.
	SystemOuterVariant = "system"
	// GovernanceOuterVariant wraps non-Root governance origins on both
	// Polkadot and Kusama asset hubs.
	GovernanceOuterVariant = "Origins"
	// PolkadotFellowshipOuterVariant wraps fellowship origins on the
	// Polkadot Collectives parachain.
	PolkadotFellowshipOuterVariant = "FellowshipOrigins"
	// KusamaFellowshipOuterVariant wraps fellowship origins on the Kusama
	// relay chain.
	KusamaFellowshipOuterVariant = "Origins"
)
