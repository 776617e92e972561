package suites

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/opengov-tools/referenda-harness/pkg/toolrunner"
	"github.com/opengov-tools/referenda-harness/pkg/tracks"
)

// GovernanceSuite exercises governance referenda on a single chain: a
// simulation fork of the governance chain plus, for by-number sub-tests, a
// live node to submit on.
type GovernanceSuite struct {
	Tool  ToolInvoker
	Calls CallDataSource
	Flow  ReferendumSubmitter

	// ForkAddress returns the "endpoint,block" fork point of the
	// governance chain.
	ForkAddress func() string
	// LiveEndpoint is the raw websocket endpoint of the governance chain
	// node, used to fork at the block a by-number submission finalized in.
	LiveEndpoint string

	Ports PortSource
}

// Run executes all governance scenario sub-tests sequentially; direct
// submissions share one signing account, so they must not interleave.
func (s *GovernanceSuite) Run(ctx context.Context) []toolrunner.SubTestResult {
	results := []toolrunner.SubTestResult{
		{Name: "gov_happy_path", Err: s.HappyPath(ctx)},
		{Name: "gov_remark_proposal", Err: s.RemarkProposal(ctx)},
		{Name: "gov_dispatch_failure", Err: s.DispatchFailure(ctx)},
		{Name: "gov_invalid_hex", Err: s.InvalidHex(ctx)},
		{Name: "gov_create_no_preimage", Err: s.CreateNoPreimage(ctx)},
		{Name: "gov_pre_call_remark", Err: s.PreCallRemark(ctx)},
		{Name: "gov_pre_call_non_root_origin", Err: s.PreCallNonRootOrigin(ctx)},
		{Name: "gov_pre_call_invalid_origin", Err: s.PreCallInvalidOrigin(ctx)},
	}

	for _, track := range tracks.GovernanceTracks {
		results = append(results, toolrunner.SubTestResult{
			Name: fmt.Sprintf("gov_create_%s", track.Name),
			Err:  s.TrackCreate(ctx, track),
		})
	}
	if s.Flow != nil {
		for _, track := range tracks.GovernanceTracks {
			results = append(results, toolrunner.SubTestResult{
				Name: fmt.Sprintf("gov_bynum_%s", track.Name),
				Err:  s.TrackByNumber(ctx, track),
			})
		}
	}

	return results
}

func (s *GovernanceSuite) simulateCreate(ctx context.Context, preimageHex, submitHex string, extra func(*toolrunner.Args)) (*toolrunner.Output, error) {
	args := toolrunner.Args{
		GovernanceChainURL:                  s.ForkAddress(),
		CreateGovernanceReferendumCall:      submitHex,
		NotePreimageForGovernanceReferendum: preimageHex,
		Port:                                ports(s.Ports)(),
		Verbose:                             true,
	}
	if extra != nil {
		extra(&args)
	}

	return s.Tool.Run(ctx, args)
}

func checkExecuted(out *toolrunner.Output) error {
	if err := out.CheckSuccess(); err != nil {
		return err
	}

	return out.CheckStdoutContains("executed successfully")
}

// HappyPath creates and simulates a System.authorize_upgrade referendum.
func (s *GovernanceSuite) HappyPath(ctx context.Context) error {
	calls, err := s.Calls.GovernanceCallData()
	if err != nil {
		return err
	}

	out, err := s.simulateCreate(ctx, calls.PreimageHex, calls.SubmitHex, nil)
	if err != nil {
		return err
	}

	return checkExecuted(out)
}

// RemarkProposal simulates a referendum whose proposal is System.remark.
func (s *GovernanceSuite) RemarkProposal(ctx context.Context) error {
	calls, err := s.Calls.RemarkReferendumCallData()
	if err != nil {
		return err
	}

	out, err := s.simulateCreate(ctx, calls.PreimageHex, calls.SubmitHex, nil)
	if err != nil {
		return err
	}

	return checkExecuted(out)
}

// DispatchFailure submits a referendum whose descriptor does not match the
// noted preimage. The referendum is created but its execution fails.
func (s *GovernanceSuite) DispatchFailure(ctx context.Context) error {
	calls, err := s.Calls.WrongPreimageCallData()
	if err != nil {
		return err
	}

	out, err := s.simulateCreate(ctx, calls.PreimageHex, calls.SubmitHex, nil)
	if err != nil {
		return err
	}

	if err := out.CheckFailure(); err != nil {
		return err
	}

	return out.CheckStdoutContains("execution failed")
}

// InvalidHex passes garbage call data and expects an early failure.
func (s *GovernanceSuite) InvalidHex(ctx context.Context) error {
	out, err := s.Tool.Run(ctx, toolrunner.Args{
		GovernanceChainURL:             s.ForkAddress(),
		CreateGovernanceReferendumCall: "0xDEADBEEFCAFE",
		Port:                           ports(s.Ports)(),
		Verbose:                        true,
	})
	if err != nil {
		return err
	}

	return out.CheckFailure()
}

// CreateNoPreimage creates a referendum without noting its preimage, so the
// simulated execution has nothing to dispatch.
func (s *GovernanceSuite) CreateNoPreimage(ctx context.Context) error {
	calls, err := s.Calls.GovernanceCallData()
	if err != nil {
		return err
	}

	out, err := s.Tool.Run(ctx, toolrunner.Args{
		GovernanceChainURL:             s.ForkAddress(),
		CreateGovernanceReferendumCall: calls.SubmitHex,
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

func (s *GovernanceSuite) preCall(ctx context.Context, origin string) (*toolrunner.Output, error) {
	calls, err := s.Calls.GovernanceCallData()
	if err != nil {
		return nil, err
	}
	preCallHex, err := s.Calls.PreCallRemarkHex()
	if err != nil {
		return nil, err
	}

	return s.simulateCreate(ctx, calls.PreimageHex, calls.SubmitHex, func(args *toolrunner.Args) {
		args.PreCall = preCallHex
		args.PreOrigin = origin
	})
}

// PreCallRemark executes a System.remark pre-call before the referendum.
func (s *GovernanceSuite) PreCallRemark(ctx context.Context) error {
	out, err := s.preCall(ctx, "")
	if err != nil {
		return err
	}

	if err := out.CheckSuccess(); err != nil {
		return err
	}
	if err := out.CheckStdoutContains("Executing Pre-Call"); err != nil {
		return err
	}

	return out.CheckStdoutContains("executed successfully")
}

// PreCallNonRootOrigin runs the pre-call under the Treasurer origin.
func (s *GovernanceSuite) PreCallNonRootOrigin(ctx context.Context) error {
	out, err := s.preCall(ctx, "Treasurer")
	if err != nil {
		return err
	}

	if err := out.CheckSuccess(); err != nil {
		return err
	}
	if err := out.CheckStdoutContains("Executing Pre-Call"); err != nil {
		return err
	}

	return out.CheckStdoutContains("executed successfully")
}

// PreCallInvalidOrigin runs the pre-call under a nonexistent origin and
// expects the tool to reject it.
func (s *GovernanceSuite) PreCallInvalidOrigin(ctx context.Context) error {
	out, err := s.preCall(ctx, "NonExistentOrigin")
	if err != nil {
		return err
	}

	if err := out.CheckFailure(); err != nil {
		return err
	}

	return out.CheckAnyOutputContains("unknown origin")
}

// TrackCreate creates and simulates a referendum on the given track.
func (s *GovernanceSuite) TrackCreate(ctx context.Context, track tracks.GovernanceTrack) error {
	log.Printf(">>> gov_create_%s (track_id=%d)", track.Name, track.ID)

	calls, err := s.Calls.GovernanceTrackCallData(track)
	if err != nil {
		return err
	}

	out, err := s.simulateCreate(ctx, calls.PreimageHex, calls.SubmitHex, nil)
	if err != nil {
		return err
	}

	return checkExecuted(out)
}

// TrackByNumber submits a referendum directly on the live chain, then
// simulates it by number from a fork at the submission block.
func (s *GovernanceSuite) TrackByNumber(ctx context.Context, track tracks.GovernanceTrack) error {
	log.Printf(">>> gov_bynum_%s (track_id=%d)", track.Name, track.ID)

	submitted, err := s.Flow.SubmitGovernanceReferendum(ctx, track)
	if err != nil {
		return err
	}

	out, err := s.Tool.Run(ctx, toolrunner.Args{
		GovernanceChainURL: fmt.Sprintf("%s,%d", s.LiveEndpoint, submitted.BlockNumber),
		Referendum:         strconv.FormatUint(uint64(submitted.ID), 10),
		Port:               ports(s.Ports)(),
		Verbose:            true,
	})
	if err != nil {
		return err
	}

	return checkExecuted(out)
}
