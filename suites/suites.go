// Package suites composes harness scenarios: call data generation, on-chain
// submission and simulation tool invocations, with assertions on the tool's
// output.
package suites

import (
	"context"

	"github.com/opengov-tools/referenda-harness/pkg/calldata"
	"github.com/opengov-tools/referenda-harness/pkg/portalloc"
	"github.com/opengov-tools/referenda-harness/pkg/submitter"
	"github.com/opengov-tools/referenda-harness/pkg/toolrunner"
	"github.com/opengov-tools/referenda-harness/pkg/tracks"
)

// ToolInvoker runs the simulation tool. *toolrunner.Runner satisfies it.
type ToolInvoker interface {
	Run(ctx context.Context, args toolrunner.Args) (*toolrunner.Output, error)
}

// CallDataSource generates referendum call data. *calldata.Encoder
// satisfies it.
type CallDataSource interface {
	GovernanceCallData() (*calldata.CallSet, error)
	RemarkReferendumCallData() (*calldata.CallSet, error)
	WrongPreimageCallData() (*calldata.CallSet, error)
	GovernanceTrackCallData(track tracks.GovernanceTrack) (*calldata.CallSet, error)
	FellowshipCallData(outerVariant string) (*calldata.CallSet, error)
	FellowshipTrackCallData(track tracks.FellowshipTrack, outerVariant string) (*calldata.CallSet, error)
	PreCallRemarkHex() (string, error)
}

// SplitCallData routes call data generation across two chains: governance
// calls encode against the governance chain's metadata, fellowship calls
// against the fellowship chain's. Mirrors the multi-chain topology where
// Referenda and FellowshipReferenda live in different runtimes.
type SplitCallData struct {
	Governance CallDataSource
	Fellowship CallDataSource
}

func (s SplitCallData) GovernanceCallData() (*calldata.CallSet, error) {
	return s.Governance.GovernanceCallData()
}

func (s SplitCallData) RemarkReferendumCallData() (*calldata.CallSet, error) {
	return s.Governance.RemarkReferendumCallData()
}

func (s SplitCallData) WrongPreimageCallData() (*calldata.CallSet, error) {
	return s.Governance.WrongPreimageCallData()
}

func (s SplitCallData) GovernanceTrackCallData(track tracks.GovernanceTrack) (*calldata.CallSet, error) {
	return s.Governance.GovernanceTrackCallData(track)
}

func (s SplitCallData) PreCallRemarkHex() (string, error) {
	return s.Governance.PreCallRemarkHex()
}

func (s SplitCallData) FellowshipCallData(outerVariant string) (*calldata.CallSet, error) {
	return s.Fellowship.FellowshipCallData(outerVariant)
}

func (s SplitCallData) FellowshipTrackCallData(track tracks.FellowshipTrack, outerVariant string) (*calldata.CallSet, error) {
	return s.Fellowship.FellowshipTrackCallData(track, outerVariant)
}

// ReferendumSubmitter submits referenda directly on chain. *submitter.Flow
// satisfies it.
type ReferendumSubmitter interface {
	SubmitGovernanceReferendum(ctx context.Context, track tracks.GovernanceTrack) (*submitter.Submitted, error)
	SubmitFellowshipReferendum(ctx context.Context, track tracks.FellowshipTrack, outerVariant string) (*submitter.Submitted, error)
}

// PortSource hands out ports for tool invocations.
type PortSource func() uint16

func ports(p PortSource) PortSource {
	if p != nil {
		return p
	}

	return portalloc.Next
}
