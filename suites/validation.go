package suites

import (
	"context"
	"sync"

	"github.com/opengov-tools/referenda-harness/pkg/toolrunner"
)

// ValidationSuite exercises the tool's CLI argument validation. No network
// is required: every sub-test fails before a connection is attempted, so
// they all run concurrently.
type ValidationSuite struct {
	Tool ToolInvoker
}

// Run executes all validation sub-tests concurrently and collects their
// results in a fixed order.
func (s *ValidationSuite) Run(ctx context.Context) []toolrunner.SubTestResult {
	subtests := []struct {
		name string
		run  func(context.Context) error
	}{
		{"no_args", s.noArgs},
		{"mutually_exclusive_gov", s.mutuallyExclusiveGov},
		{"mutually_exclusive_fellowship", s.mutuallyExclusiveFellowship},
		{"missing_governance_url", s.missingGovernanceURL},
		{"missing_fellowship_url", s.missingFellowshipURL},
		{"invalid_referendum_id", s.invalidReferendumID},
		{"invalid_fellowship_id", s.invalidFellowshipID},
	}

	results := make([]toolrunner.SubTestResult, len(subtests))
	var wg sync.WaitGroup
	for i, st := range subtests {
		wg.Add(1)
		go func(i int, name string, run func(context.Context) error) {
			defer wg.Done()
			results[i] = toolrunner.SubTestResult{Name: name, Err: run(ctx)}
		}(i, st.name, st.run)
	}
	wg.Wait()

	return results
}

func (s *ValidationSuite) expectFailure(ctx context.Context, args toolrunner.Args, message string) error {
	args.Verbose = true
	out, err := s.Tool.Run(ctx, args)
	if err != nil {
		return err
	}
	if err := out.CheckFailure(); err != nil {
		return err
	}

	return out.CheckAnyOutputContains(message)
}

func (s *ValidationSuite) noArgs(ctx context.Context) error {
	return s.expectFailure(ctx, toolrunner.Args{},
		"at least one referendum must be specified")
}

func (s *ValidationSuite) mutuallyExclusiveGov(ctx context.Context) error {
	return s.expectFailure(ctx, toolrunner.Args{
		GovernanceChainURL:             "ws://127.0.0.1:1,1",
		Referendum:                     "0",
		CreateGovernanceReferendumCall: "0x00",
	}, "cannot specify both")
}

func (s *ValidationSuite) mutuallyExclusiveFellowship(ctx context.Context) error {
	return s.expectFailure(ctx, toolrunner.Args{
		FellowshipChainURL:             "ws://127.0.0.1:1,1",
		Fellowship:                     "0",
		CreateFellowshipReferendumCall: "0x00",
	}, "cannot specify both")
}

func (s *ValidationSuite) missingGovernanceURL(ctx context.Context) error {
	return s.expectFailure(ctx, toolrunner.Args{
		Referendum: "0",
	}, "governance-chain-url is required")
}

func (s *ValidationSuite) missingFellowshipURL(ctx context.Context) error {
	return s.expectFailure(ctx, toolrunner.Args{
		Fellowship: "0",
	}, "fellowship-chain-url is required")
}

func (s *ValidationSuite) invalidReferendumID(ctx context.Context) error {
	return s.expectFailure(ctx, toolrunner.Args{
		GovernanceChainURL: "ws://127.0.0.1:1,1",
		Referendum:         "abc",
	}, "invalid referendum id")
}

func (s *ValidationSuite) invalidFellowshipID(ctx context.Context) error {
	return s.expectFailure(ctx, toolrunner.Args{
		FellowshipChainURL: "ws://127.0.0.1:1,1",
		Fellowship:         "xyz",
	}, "invalid fellowship referendum id")
}
