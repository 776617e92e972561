package toolrunner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opengov-tools/referenda-harness/pkg/harnessconfig"
)

func TestArgsCLIArgs(t *testing.T) {
	args := Args{
		GovernanceChainURL:                  "ws://127.0.0.1:8000,100",
		Referendum:                          "3",
		Port:                                9010,
		PreCall:                             "0x0001",
		PreOrigin:                           "Root",
		NotePreimageForGovernanceReferendum: "0x0a00",
		Verbose:                             true,
	}

	assert.Equal(t, []string{
		"--governance-chain-url", "ws://127.0.0.1:8000,100",
		"--referendum", "3",
		"--port", "9010",
		"--pre-call", "0x0001",
		"--pre-origin", "Root",
		"--call-to-note-preimage-for-governance-referendum", "0x0a00",
		"--verbose",
	}, args.cliArgs())
}

func TestArgsCLIArgsEmpty(t *testing.T) {
	assert.Empty(t, Args{}.cliArgs())
}

func TestRunCapturesOutput(t *testing.T) {
	r := New(WithCommand("sh", "-c", `echo "Scheduled.Dispatched"; echo oops >&2`), WithDir(t.TempDir()))

	out, err := r.Run(context.Background(), Args{})
	require.NoError(t, err)
	assert.Equal(t, 0, out.ExitCode)
	assert.Contains(t, out.Stdout, "Scheduled.Dispatched")
	assert.Contains(t, out.Stderr, "oops")
}

func TestRunNonZeroExit(t *testing.T) {
	r := New(WithCommand("sh", "-c", "exit 3"), WithDir(t.TempDir()))

	out, err := r.Run(context.Background(), Args{})
	require.NoError(t, err)
	assert.Equal(t, 3, out.ExitCode)
	assert.NoError(t, out.CheckFailure())
	assert.Error(t, out.CheckSuccess())
}

func TestRunTimeout(t *testing.T) {
	r := New(WithCommand("sleep", "5"), WithDir(t.TempDir()), WithTimeout(100*time.Millisecond))

	_, err := r.Run(context.Background(), Args{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestRunMissingBinary(t *testing.T) {
	r := New(WithCommand("definitely-not-a-real-binary-xyz"), WithDir(t.TempDir()))

	_, err := r.Run(context.Background(), Args{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spawn tool process")
}

func TestNewFromConfigRunsConfiguredCommand(t *testing.T) {
	t.Setenv(harnessconfig.EnvToolCommand, "")
	t.Setenv(harnessconfig.EnvToolProjectDir, "")
	t.Setenv(harnessconfig.EnvToolTimeoutSecs, "")

	dir := t.TempDir()
	script := filepath.Join(dir, "tool.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho configured-tool-ran\n"), 0o755))

	cfgPath := filepath.Join(dir, "harness.toml")
	require.NoError(t, os.WriteFile(cfgPath,
		[]byte(fmt.Sprintf("[tool]\ncommand = %q\ndir = %q\n", script, dir)), 0o600))

	cfg, err := harnessconfig.Load(cfgPath)
	require.NoError(t, err)

	out, err := NewFromConfig(cfg.Tool).Run(context.Background(), Args{})
	require.NoError(t, err)
	assert.Equal(t, 0, out.ExitCode)
	assert.Contains(t, out.Stdout, "configured-tool-ran",
		"file-configured command must replace the built-in default")
}

func TestOutputChecks(t *testing.T) {
	out := &Output{
		ExitCode: 0,
		Stdout:   "referendum executed\nScheduled.Dispatched\n",
		Stderr:   "warning: slow RPC\n",
	}

	assert.NoError(t, out.CheckSuccess())
	assert.NoError(t, out.CheckStdoutContains("REFERENDUM EXECUTED"))
	assert.Error(t, out.CheckStdoutContains("slow RPC"))
	assert.NoError(t, out.CheckAnyOutputContains("slow rpc"))
	assert.Error(t, out.CheckAnyOutputContains("absent"))

	assert.NoError(t, out.CheckEventPresent("Scheduled", "Dispatched"))
	assert.Error(t, out.CheckEventPresent("scheduled", "dispatched"), "event names match case-sensitively")
}

func TestReportResults(t *testing.T) {
	require.NoError(t, ReportResults([]SubTestResult{
		{Name: "a"},
		{Name: "b"},
	}))

	err := ReportResults([]SubTestResult{
		{Name: "a"},
		{Name: "b", Err: assert.AnError},
		{Name: "c", Err: assert.AnError},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2/3 sub-tests failed")
	assert.Contains(t, err.Error(), "b")
}
