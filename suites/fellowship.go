package suites

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/opengov-tools/referenda-harness/pkg/toolrunner"
	"github.com/opengov-tools/referenda-harness/pkg/tracks"
)

// FellowshipSuite exercises fellowship referenda alongside governance ones.
// On Polkadot the fellowship pallets live on the collectives parachain; on
// Kusama they live on the relay chain, which changes the outer origin
// variant and the fork addresses but not the scenario shape.
type FellowshipSuite struct {
	Tool  ToolInvoker
	Calls CallDataSource
	Flow  ReferendumSubmitter

	GovernanceForkAddress func() string
	FellowshipForkAddress func() string
	// AdditionalForkAddress optionally names a third chain to monitor
	// during the multi-chain happy path. Empty disables it.
	AdditionalForkAddress func() string

	// LiveFellowshipEndpoint is the raw websocket endpoint of the
	// fellowship chain node for by-number submissions.
	LiveFellowshipEndpoint string

	// OuterVariant is the runtime's OriginCaller variant holding the
	// fellowship origins.
	OuterVariant string
	Tracks       []tracks.FellowshipTrack

	Ports PortSource
}

// Run executes all fellowship scenario sub-tests sequentially.
func (s *FellowshipSuite) Run(ctx context.Context) []toolrunner.SubTestResult {
	results := []toolrunner.SubTestResult{
		{Name: "multichain_happy_path", Err: s.MultiChainHappyPath(ctx)},
		{Name: "fellowship_only", Err: s.FellowshipOnly(ctx)},
		{Name: "fellowship_create_no_preimage", Err: s.CreateNoPreimage(ctx)},
		{Name: "nonexistent_referendum", Err: s.NonexistentReferendum(ctx)},
	}

	for _, track := range s.Tracks {
		results = append(results, toolrunner.SubTestResult{
			Name: fmt.Sprintf("fell_create_%s", track.Name),
			Err:  s.TrackCreate(ctx, track),
		})
	}
	if s.Flow != nil {
		for _, track := range s.Tracks {
			results = append(results, toolrunner.SubTestResult{
				Name: fmt.Sprintf("fell_bynum_%s", track.Name),
				Err:  s.TrackByNumber(ctx, track),
			})
		}
	}

	return results
}

// MultiChainHappyPath runs governance and fellowship referenda in one tool
// invocation and, when a third chain is configured, verifies its events are
// reported too.
func (s *FellowshipSuite) MultiChainHappyPath(ctx context.Context) error {
	gov, err := s.Calls.GovernanceCallData()
	if err != nil {
		return err
	}
	fell, err := s.Calls.FellowshipCallData(s.OuterVariant)
	if err != nil {
		return err
	}

	args := toolrunner.Args{
		GovernanceChainURL:                  s.GovernanceForkAddress(),
		FellowshipChainURL:                  s.FellowshipForkAddress(),
		CreateGovernanceReferendumCall:      gov.SubmitHex,
		NotePreimageForGovernanceReferendum: gov.PreimageHex,
		CreateFellowshipReferendumCall:      fell.SubmitHex,
		NotePreimageForFellowshipReferendum: fell.PreimageHex,
		Port:                                ports(s.Ports)(),
		Verbose:                             true,
	}
	monitored := s.AdditionalForkAddress != nil && s.AdditionalForkAddress() != ""
	if monitored {
		args.AdditionalChains = s.AdditionalForkAddress()
	}

	out, err := s.Tool.Run(ctx, args)
	if err != nil {
		return err
	}

	if err := checkExecuted(out); err != nil {
		return err
	}
	if monitored {
		if err := out.CheckStdoutContains("Additional Chain Events"); err != nil {
			return err
		}

		return out.CheckStdoutContains("Block #")
	}

	return nil
}

// FellowshipOnly simulates a fellowship referendum without a governance one.
func (s *FellowshipSuite) FellowshipOnly(ctx context.Context) error {
	calls, err := s.Calls.FellowshipCallData(s.OuterVariant)
	if err != nil {
		return err
	}

	out, err := s.Tool.Run(ctx, toolrunner.Args{
		FellowshipChainURL:                  s.FellowshipForkAddress(),
		CreateFellowshipReferendumCall:      calls.SubmitHex,
		NotePreimageForFellowshipReferendum: calls.PreimageHex,
		Port:                                ports(s.Ports)(),
		Verbose:                             true,
	})
	if err != nil {
		return err
	}

	return checkExecuted(out)
}

// CreateNoPreimage creates a fellowship referendum without its preimage.
func (s *FellowshipSuite) CreateNoPreimage(ctx context.Context) error {
	calls, err := s.Calls.FellowshipCallData(s.OuterVariant)
	if err != nil {
		return err
	}

	out, err := s.Tool.Run(ctx, toolrunner.Args{
		FellowshipChainURL:             s.FellowshipForkAddress(),
		CreateFellowshipReferendumCall: calls.SubmitHex,
		Port:                           ports(s.Ports)(),
		Verbose:                        true,
	})
	if err != nil {
		return err
	}

	if err := out.CheckFailure(); err != nil {
		return err
	}

	return out.CheckStdoutContains("execution failed")
}

// NonexistentReferendum asks the tool to simulate a referendum index that
// does not exist on the fork.
func (s *FellowshipSuite) NonexistentReferendum(ctx context.Context) error {
	out, err := s.Tool.Run(ctx, toolrunner.Args{
		GovernanceChainURL: s.GovernanceForkAddress(),
		Referendum:         "999",
		Port:               ports(s.Ports)(),
		Verbose:            true,
	})
	if err != nil {
		return err
	}

	return out.CheckFailure()
}

// TrackCreate creates and simulates a fellowship referendum on one track.
func (s *FellowshipSuite) TrackCreate(ctx context.Context, track tracks.FellowshipTrack) error {
	log.Printf(">>> fell_create_%s (track_id=%d)", track.Name, track.ID)

	calls, err := s.Calls.FellowshipTrackCallData(track, s.OuterVariant)
	if err != nil {
		return err
	}

	out, err := s.Tool.Run(ctx, toolrunner.Args{
		GovernanceChainURL:                  s.GovernanceForkAddress(),
		FellowshipChainURL:                  s.FellowshipForkAddress(),
		CreateFellowshipReferendumCall:      calls.SubmitHex,
		NotePreimageForFellowshipReferendum: calls.PreimageHex,
		Port:                                ports(s.Ports)(),
		Verbose:                             true,
	})
	if err != nil {
		return err
	}

	return checkExecuted(out)
}

// TrackByNumber submits a fellowship referendum directly on the live chain,
// then simulates it by number from a fork at the submission block.
func (s *FellowshipSuite) TrackByNumber(ctx context.Context, track tracks.FellowshipTrack) error {
	log.Printf(">>> fell_bynum_%s (track_id=%d)", track.Name, track.ID)

	submitted, err := s.Flow.SubmitFellowshipReferendum(ctx, track, s.OuterVariant)
	if err != nil {
		return err
	}

	out, err := s.Tool.Run(ctx, toolrunner.Args{
		GovernanceChainURL: s.GovernanceForkAddress(),
		FellowshipChainURL: fmt.Sprintf("%s,%d", s.LiveFellowshipEndpoint, submitted.BlockNumber),
		Fellowship:         strconv.FormatUint(uint64(submitted.ID), 10),
		Port:               ports(s.Ports)(),
		Verbose:            true,
	})
	if err != nil {
		return err
	}

	return checkExecuted(out)
}
