package suites

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opengov-tools/referenda-harness/pkg/calldata"
	"github.com/opengov-tools/referenda-harness/pkg/portalloc"
	"github.com/opengov-tools/referenda-harness/pkg/submitter"
	"github.com/opengov-tools/referenda-harness/pkg/toolrunner"
	"github.com/opengov-tools/referenda-harness/pkg/tracks"
)

// fakeTool records invocations and replies with a canned output.
type fakeTool struct {
	out     toolrunner.Output
	invoked []toolrunner.Args
}

func (f *fakeTool) Run(_ context.Context, args toolrunner.Args) (*toolrunner.Output, error) {
	f.invoked = append(f.invoked, args)
	out := f.out

	return &out, nil
}

type fakeCalls struct{}

func (fakeCalls) set(tag string) *calldata.CallSet {
	return &calldata.CallSet{
		PreimageHex: "0xpre-" + tag,
		SubmitHex:   "0xsub-" + tag,
	}
}

func (f fakeCalls) GovernanceCallData() (*calldata.CallSet, error) {
	return f.set("gov"), nil
}

func (f fakeCalls) RemarkReferendumCallData() (*calldata.CallSet, error) {
	return f.set("remark"), nil
}

func (f fakeCalls) WrongPreimageCallData() (*calldata.CallSet, error) {
	return f.set("wrong"), nil
}

func (f fakeCalls) GovernanceTrackCallData(track tracks.GovernanceTrack) (*calldata.CallSet, error) {
	return f.set("track-" + track.Name), nil
}

func (f fakeCalls) FellowshipCallData(outerVariant string) (*calldata.CallSet, error) {
	return f.set("fell-" + outerVariant), nil
}

func (f fakeCalls) FellowshipTrackCallData(track tracks.FellowshipTrack, _ string) (*calldata.CallSet, error) {
	return f.set("felltrack-" + track.Name), nil
}

func (fakeCalls) PreCallRemarkHex() (string, error) {
	return "0xprecall", nil
}

type fakeFlow struct {
	submitted submitter.Submitted
}

func (f *fakeFlow) SubmitGovernanceReferendum(_ context.Context, _ tracks.GovernanceTrack) (*submitter.Submitted, error) {
	s := f.submitted

	return &s, nil
}

func (f *fakeFlow) SubmitFellowshipReferendum(_ context.Context, _ tracks.FellowshipTrack, _ string) (*submitter.Submitted, error) {
	s := f.submitted

	return &s, nil
}

func fixedPorts() PortSource {
	var n uint16

	return func() uint16 {
		n += 10

		return 9000 + n
	}
}

func TestValidationSuiteAllSubTests(t *testing.T) {
	tool := &fakeTool{out: toolrunner.Output{
		ExitCode: 1,
		Stderr: "at least one referendum must be specified; cannot specify both; " +
			"governance-chain-url is required; fellowship-chain-url is required; " +
			"invalid referendum id; invalid fellowship referendum id",
	}}
	s := &ValidationSuite{Tool: tool}

	results := s.Run(context.Background())
	require.Len(t, results, 7)
	require.NoError(t, toolrunner.ReportResults(results))
	assert.Len(t, tool.invoked, 7)

	names := make([]string, len(results))
	for i, r := range results {
		names[i] = r.Name
	}
	assert.Equal(t, []string{
		"no_args",
		"mutually_exclusive_gov",
		"mutually_exclusive_fellowship",
		"missing_governance_url",
		"missing_fellowship_url",
		"invalid_referendum_id",
		"invalid_fellowship_id",
	}, names)

	for _, args := range tool.invoked {
		assert.True(t, args.Verbose)
	}
}

func TestValidationSuiteReportsFailures(t *testing.T) {
	// tool exits 0, so every sub-test that expects failure must report it
	tool := &fakeTool{out: toolrunner.Output{ExitCode: 0}}
	s := &ValidationSuite{Tool: tool}

	results := s.Run(context.Background())
	err := toolrunner.ReportResults(results)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "7/7 sub-tests failed")
}

func govSuite(tool *fakeTool) *GovernanceSuite {
	return &GovernanceSuite{
		Tool:        tool,
		Calls:       fakeCalls{},
		ForkAddress: func() string { return "ws://gov:8000,100" },
		Ports:       fixedPorts(),
	}
}

func TestGovernanceHappyPathArgs(t *testing.T) {
	tool := &fakeTool{out: toolrunner.Output{ExitCode: 0, Stdout: "referendum executed successfully"}}
	s := govSuite(tool)

	require.NoError(t, s.HappyPath(context.Background()))
	require.Len(t, tool.invoked, 1)

	args := tool.invoked[0]
	assert.Equal(t, "ws://gov:8000,100", args.GovernanceChainURL)
	assert.Equal(t, "0xsub-gov", args.CreateGovernanceReferendumCall)
	assert.Equal(t, "0xpre-gov", args.NotePreimageForGovernanceReferendum)
	assert.Equal(t, uint16(9010), args.Port)
	assert.True(t, args.Verbose)
}

func TestGovernanceHappyPathRequiresExecution(t *testing.T) {
	tool := &fakeTool{out: toolrunner.Output{ExitCode: 0, Stdout: "nothing happened"}}
	s := govSuite(tool)

	err := s.HappyPath(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "executed successfully")
}

func TestGovernanceDispatchFailure(t *testing.T) {
	tool := &fakeTool{out: toolrunner.Output{ExitCode: 1, Stdout: "referendum execution failed"}}
	s := govSuite(tool)

	require.NoError(t, s.DispatchFailure(context.Background()))
	assert.Equal(t, "0xsub-wrong", tool.invoked[0].CreateGovernanceReferendumCall)
}

func TestGovernanceCreateNoPreimageOmitsPreimage(t *testing.T) {
	tool := &fakeTool{out: toolrunner.Output{ExitCode: 1, Stdout: "execution failed"}}
	s := govSuite(tool)

	require.NoError(t, s.CreateNoPreimage(context.Background()))
	args := tool.invoked[0]
	assert.Equal(t, "0xsub-gov", args.CreateGovernanceReferendumCall)
	assert.Empty(t, args.NotePreimageForGovernanceReferendum)
}

func TestGovernancePreCallOrigins(t *testing.T) {
	tool := &fakeTool{out: toolrunner.Output{
		ExitCode: 0,
		Stdout:   "Executing Pre-Call\nreferendum executed successfully",
	}}
	s := govSuite(tool)

	require.NoError(t, s.PreCallRemark(context.Background()))
	require.NoError(t, s.PreCallNonRootOrigin(context.Background()))

	assert.Equal(t, "0xprecall", tool.invoked[0].PreCall)
	assert.Empty(t, tool.invoked[0].PreOrigin)
	assert.Equal(t, "Treasurer", tool.invoked[1].PreOrigin)
}

func TestGovernancePreCallInvalidOrigin(t *testing.T) {
	tool := &fakeTool{out: toolrunner.Output{ExitCode: 1, Stderr: "Error: unknown origin"}}
	s := govSuite(tool)

	require.NoError(t, s.PreCallInvalidOrigin(context.Background()))
	assert.Equal(t, "NonExistentOrigin", tool.invoked[0].PreOrigin)
}

func TestGovernanceTrackByNumber(t *testing.T) {
	tool := &fakeTool{out: toolrunner.Output{ExitCode: 0, Stdout: "referendum executed successfully"}}
	s := govSuite(tool)
	s.Flow = &fakeFlow{submitted: submitter.Submitted{ID: 7, BlockNumber: 123}}
	s.LiveEndpoint = "ws://gov:8000"

	require.NoError(t, s.TrackByNumber(context.Background(), tracks.GovernanceTracks[0]))

	args := tool.invoked[0]
	assert.Equal(t, "ws://gov:8000,123", args.GovernanceChainURL)
	assert.Equal(t, "7", args.Referendum)
	assert.Empty(t, args.CreateGovernanceReferendumCall)
}

func TestGovernanceSuiteRunWithoutFlowSkipsByNumber(t *testing.T) {
	tool := &fakeTool{out: toolrunner.Output{ExitCode: 0, Stdout: "referendum executed successfully"}}
	s := govSuite(tool)

	results := s.Run(context.Background())

	expected := 8 + len(tracks.GovernanceTracks)
	assert.Len(t, results, expected)
	for _, r := range results {
		assert.NotContains(t, r.Name, "bynum")
	}
}

func TestConfiguredAllocatorDrivesSuitePorts(t *testing.T) {
	tool := &fakeTool{out: toolrunner.Output{ExitCode: 0, Stdout: "referendum executed successfully"}}
	s := govSuite(tool)
	s.Ports = portalloc.NewAllocator(7000, 5).Next

	require.NoError(t, s.HappyPath(context.Background()))
	require.NoError(t, s.RemarkProposal(context.Background()))

	assert.Equal(t, uint16(7000), tool.invoked[0].Port)
	assert.Equal(t, uint16(7005), tool.invoked[1].Port)
}

func TestSplitCallDataRouting(t *testing.T) {
	split := SplitCallData{
		Governance: fakeCalls{},
		Fellowship: prefixedCalls{prefix: "other-"},
	}

	gov, err := split.GovernanceCallData()
	require.NoError(t, err)
	assert.Equal(t, "0xsub-gov", gov.SubmitHex)

	pre, err := split.PreCallRemarkHex()
	require.NoError(t, err)
	assert.Equal(t, "0xprecall", pre)

	fell, err := split.FellowshipCallData("FellowshipOrigins")
	require.NoError(t, err)
	assert.Equal(t, "0xsub-other-fell-FellowshipOrigins", fell.SubmitHex)

	track, err := split.FellowshipTrackCallData(tracks.PolkadotFellowshipTracks[0], "FellowshipOrigins")
	require.NoError(t, err)
	assert.Contains(t, track.SubmitHex, "other-felltrack-")
}

// prefixedCalls tags generated call sets so routing is observable.
type prefixedCalls struct {
	fakeCalls
	prefix string
}

func (p prefixedCalls) FellowshipCallData(outerVariant string) (*calldata.CallSet, error) {
	return p.set(p.prefix + "fell-" + outerVariant), nil
}

func (p prefixedCalls) FellowshipTrackCallData(track tracks.FellowshipTrack, _ string) (*calldata.CallSet, error) {
	return p.set(p.prefix + "felltrack-" + track.Name), nil
}

func fellSuite(tool *fakeTool) *FellowshipSuite {
	return &FellowshipSuite{
		Tool:                  tool,
		Calls:                 fakeCalls{},
		GovernanceForkAddress: func() string { return "ws://gov:8000,100" },
		FellowshipForkAddress: func() string { return "ws://coll:8010,90" },
		OuterVariant:          tracks.PolkadotFellowshipOuterVariant,
		Tracks:                tracks.PolkadotFellowshipTracks,
		Ports:                 fixedPorts(),
	}
}

func TestMultiChainHappyPathWithAdditionalChain(t *testing.T) {
	tool := &fakeTool{out: toolrunner.Output{
		ExitCode: 0,
		Stdout:   "referendum executed successfully\nAdditional Chain Events\nBlock #12",
	}}
	s := fellSuite(tool)
	s.AdditionalForkAddress = func() string { return "ws://relay:8020,80" }

	require.NoError(t, s.MultiChainHappyPath(context.Background()))

	args := tool.invoked[0]
	assert.Equal(t, "ws://gov:8000,100", args.GovernanceChainURL)
	assert.Equal(t, "ws://coll:8010,90", args.FellowshipChainURL)
	assert.Equal(t, "ws://relay:8020,80", args.AdditionalChains)
	assert.Equal(t, "0xsub-fell-FellowshipOrigins", args.CreateFellowshipReferendumCall)
	assert.Equal(t, "0xpre-gov", args.NotePreimageForGovernanceReferendum)
}

func TestMultiChainHappyPathWithoutAdditionalChain(t *testing.T) {
	tool := &fakeTool{out: toolrunner.Output{ExitCode: 0, Stdout: "referendum executed successfully"}}
	s := fellSuite(tool)

	require.NoError(t, s.MultiChainHappyPath(context.Background()))
	assert.Empty(t, tool.invoked[0].AdditionalChains)
}

func TestFellowshipOnlyOmitsGovernance(t *testing.T) {
	tool := &fakeTool{out: toolrunner.Output{ExitCode: 0, Stdout: "referendum executed successfully"}}
	s := fellSuite(tool)

	require.NoError(t, s.FellowshipOnly(context.Background()))
	args := tool.invoked[0]
	assert.Empty(t, args.GovernanceChainURL)
	assert.Equal(t, "ws://coll:8010,90", args.FellowshipChainURL)
}

func TestFellowshipTrackByNumber(t *testing.T) {
	tool := &fakeTool{out: toolrunner.Output{ExitCode: 0, Stdout: "referendum executed successfully"}}
	s := fellSuite(tool)
	s.Flow = &fakeFlow{submitted: submitter.Submitted{ID: 2, BlockNumber: 55}}
	s.LiveFellowshipEndpoint = "ws://coll:8010"

	require.NoError(t, s.TrackByNumber(context.Background(), s.Tracks[0]))

	args := tool.invoked[0]
	assert.Equal(t, "ws://coll:8010,55", args.FellowshipChainURL)
	assert.Equal(t, "2", args.Fellowship)
}

func TestFellowshipSuiteRunNames(t *testing.T) {
	tool := &fakeTool{out: toolrunner.Output{ExitCode: 0, Stdout: "referendum executed successfully"}}
	s := fellSuite(tool)
	s.Flow = &fakeFlow{submitted: submitter.Submitted{ID: 0, BlockNumber: 1}}
	s.LiveFellowshipEndpoint = "ws://coll:8010"

	results := s.Run(context.Background())
	assert.Len(t, results, 4+2*len(s.Tracks))

	seen := map[string]bool{}
	for _, r := range results {
		require.False(t, seen[r.Name], "duplicate sub-test name %s", r.Name)
		seen[r.Name] = true
	}
	for _, track := range s.Tracks {
		assert.True(t, seen[fmt.Sprintf("fell_create_%s", track.Name)])
		assert.True(t, seen[fmt.Sprintf("fell_bynum_%s", track.Name)])
	}
}
