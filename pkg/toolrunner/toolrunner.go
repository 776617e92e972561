// Package toolrunner invokes the referenda simulation CLI as a subprocess
// and captures its output for assertion.
package toolrunner

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/opengov-tools/referenda-harness/pkg/harnessconfig"
)

// DefaultTimeout bounds a single tool invocation. Simulated referendum
// scheduling can take several minutes on a fast-runtime chain.
const DefaultTimeout = 600 * time.Second

// Args mirrors the CLI flags of the simulation tool's test command. Empty
// fields are omitted from the command line.
type Args struct {
	GovernanceChainURL string
	FellowshipChainURL string
	AdditionalChains   string
	Referendum         string
	Fellowship         string
	Port               uint16
	PreCall            string
	PreOrigin          string

	CreateGovernanceReferendumCall      string
	NotePreimageForGovernanceReferendum string
	CreateFellowshipReferendumCall      string
	NotePreimageForFellowshipReferendum string

	Verbose bool
}

func (a Args) cliArgs() []string {
	var out []string
	add := func(flag, value string) {
		if value != "" {
			out = append(out, flag, value)
		}
	}

	add("--governance-chain-url", a.GovernanceChainURL)
	add("--fellowship-chain-url", a.FellowshipChainURL)
	add("--additional-chains", a.AdditionalChains)
	add("--referendum", a.Referendum)
	add("--fellowship", a.Fellowship)
	if a.Port != 0 {
		out = append(out, "--port", strconv.Itoa(int(a.Port)))
	}
	add("--pre-call", a.PreCall)
	add("--pre-origin", a.PreOrigin)
	add("--call-to-create-governance-referendum", a.CreateGovernanceReferendumCall)
	add("--call-to-note-preimage-for-governance-referendum", a.NotePreimageForGovernanceReferendum)
	add("--call-to-create-fellowship-referendum", a.CreateFellowshipReferendumCall)
	add("--call-to-note-preimage-for-fellowship-referendum", a.NotePreimageForFellowshipReferendum)
	if a.Verbose {
		out = append(out, "--verbose")
	}

	return out
}

// Runner executes the simulation tool as a child process.
type Runner struct {
	command []string
	dir     string
	timeout time.Duration
}

// Option configures a Runner.
type Option func(*Runner)

// WithCommand replaces the command the runner executes.
func WithCommand(command ...string) Option {
	return func(r *Runner) {
		r.command = command
	}
}

// WithDir sets the working directory for tool invocations.
func WithDir(dir string) Option {
	return func(r *Runner) {
		r.dir = dir
	}
}

// WithTimeout bounds each tool invocation.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Runner) {
		r.timeout = timeout
	}
}

// New creates a Runner. By default it runs "yarn cli test" in the parent of
// the current working directory; TOOL_PROJECT_DIR, TOOL_COMMAND and
// TOOL_TIMEOUT_SECS override the defaults before options apply.
func New(opts ...Option) *Runner {
	r := &Runner{
		command: []string{"yarn", "cli", "test"},
		dir:     defaultProjectDir(),
		timeout: DefaultTimeout,
	}

	if cmd := os.Getenv("TOOL_COMMAND"); cmd != "" {
		r.command = strings.Fields(cmd)
	}
	if secs := os.Getenv("TOOL_TIMEOUT_SECS"); secs != "" {
		if n, err := strconv.Atoi(secs); err == nil && n > 0 {
			r.timeout = time.Duration(n) * time.Second
		}
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// NewFromConfig builds a Runner from the tool section of the harness
// configuration. The config loader has already resolved environment
// overrides, so the configured command, directory and timeout win over the
// runner's own defaults.
func NewFromConfig(cfg harnessconfig.Tool) *Runner {
	return New(
		WithCommand(strings.Fields(cfg.Command)...),
		WithDir(cfg.Dir),
		WithTimeout(cfg.Timeout()),
	)
}

func defaultProjectDir() string {
	if dir := os.Getenv("TOOL_PROJECT_DIR"); dir != "" {
		return dir
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}

	return cwd + "/.."
}

// Run executes the tool with the given arguments and captures its output.
// A non-zero exit code is not an error here; callers assert on the Output.
func (r *Runner) Run(ctx context.Context, args Args) (*Output, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	argv := append(append([]string{}, r.command[1:]...), args.cliArgs()...)
	cmd := exec.CommandContext(ctx, r.command[0], argv...)
	cmd.Dir = r.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Printf("running tool: %s %s", r.command[0], strings.Join(argv, " "))

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return nil, errors.Wrap(ctx.Err(), "tool execution timed out")
	}

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, errors.Wrap(err, "spawn tool process")
		}
		exitCode = exitErr.ExitCode()
	}

	out := &Output{
		ExitCode: exitCode,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}
	log.Printf("tool exit code: %d", out.ExitCode)

	return out, nil
}

// Output is the captured result of a tool invocation.
type Output struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// CheckSuccess fails unless the tool exited with code 0.
func (o *Output) CheckSuccess() error {
	if o.ExitCode != 0 {
		return errors.Errorf("tool exited with code %d\n--- stdout ---\n%s\n--- stderr ---\n%s",
			o.ExitCode, o.Stdout, o.Stderr)
	}

	return nil
}

// CheckFailure fails unless the tool exited with a non-zero code.
func (o *Output) CheckFailure() error {
	if o.ExitCode == 0 {
		return errors.Errorf("expected tool to fail but it exited with code 0\n--- stdout ---\n%s\n--- stderr ---\n%s",
			o.Stdout, o.Stderr)
	}

	return nil
}

// CheckStdoutContains fails unless stdout contains pattern, case-insensitively.
func (o *Output) CheckStdoutContains(pattern string) error {
	if !strings.Contains(strings.ToLower(o.Stdout), strings.ToLower(pattern)) {
		return errors.Errorf("expected stdout to contain %q\n--- stdout ---\n%s", pattern, o.Stdout)
	}

	return nil
}

// CheckAnyOutputContains fails unless stdout or stderr contains pattern,
// case-insensitively.
func (o *Output) CheckAnyOutputContains(pattern string) error {
	lower := strings.ToLower(pattern)
	if strings.Contains(strings.ToLower(o.Stdout), lower) ||
		strings.Contains(strings.ToLower(o.Stderr), lower) {
		return nil
	}

	return errors.Errorf("expected output to contain %q\n--- stdout ---\n%s\n--- stderr ---\n%s",
		pattern, o.Stdout, o.Stderr)
}

// CheckEventPresent fails unless stdout reports the chain event
// "Section.Method". Event names are matched case-sensitively.
func (o *Output) CheckEventPresent(section, method string) error {
	pattern := fmt.Sprintf("%s.%s", section, method)
	if !strings.Contains(o.Stdout, pattern) {
		return errors.Errorf("expected event %q in stdout\n--- stdout ---\n%s", pattern, o.Stdout)
	}

	return nil
}

// SubTestResult is one named check of a scenario suite.
type SubTestResult struct {
	Name string
	Err  error
}

// ReportResults logs each sub-test outcome and returns an error naming the
// failures, if any.
func ReportResults(results []SubTestResult) error {
	var failures []string
	for _, res := range results {
		if res.Err != nil {
			log.Printf("  FAIL: %s -- %v", res.Name, res.Err)
			failures = append(failures, res.Name)

			continue
		}
		log.Printf("  PASS: %s", res.Name)
	}

	if len(failures) > 0 {
		return errors.Errorf("%d/%d sub-tests failed: %v", len(failures), len(results), failures)
	}
	log.Printf("all %d/%d sub-tests passed", len(results), len(results))

	return nil
}
