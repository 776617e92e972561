// Package harnessconfig loads harness settings from an optional TOML file
// with environment variable overrides.
package harnessconfig

import (
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Environment variables recognized on top of the file settings.
const (
	EnvToolProjectDir  = "TOOL_PROJECT_DIR"
	EnvToolCommand     = "TOOL_COMMAND"
	EnvToolTimeoutSecs = "TOOL_TIMEOUT_SECS"
	EnvPolkadotBinary  = "POLKADOT_BINARY_PATH"
	EnvParachainBinary = "POLKADOT_PARACHAIN_BINARY_PATH"
	EnvFastRuntimesDir = "FAST_RUNTIMES_DIR"
	EnvChainSpecsDir   = "CHAIN_SPECS_DIR"
)

// Tool configures the simulation tool subprocess.
type Tool struct {
	Command        string `toml:"command"`
	Dir            string `toml:"dir"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the invocation timeout as a duration.
func (t Tool) Timeout() time.Duration {
	return time.Duration(t.TimeoutSeconds) * time.Second
}

// Ports configures the port allocator.
type Ports struct {
	Base uint16 `toml:"base"`
	Step uint16 `toml:"step"`
}

// Chains configures chain-state tracking.
type Chains struct {
	// EpochLength is the fast-runtime session length in blocks. Fork
	// points landing on a multiple of it are moved back one block.
	EpochLength uint32 `toml:"epoch_length"`
}

// Binaries locates the node binaries and runtime artifacts for spawning
// test networks.
type Binaries struct {
	Polkadot      string `toml:"polkadot"`
	Parachain     string `toml:"parachain"`
	RuntimesDir   string `toml:"runtimes_dir"`
	ChainSpecsDir string `toml:"chain_specs_dir"`
}

// Config is the root harness configuration.
type Config struct {
	Tool     Tool     `toml:"tool"`
	Ports    Ports    `toml:"ports"`
	Chains   Chains   `toml:"chains"`
	Binaries Binaries `toml:"binaries"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Tool: Tool{
			Command:        "yarn cli test",
			Dir:            "..",
			TimeoutSeconds: 600,
		},
		Ports: Ports{
			Base: 9000,
			Step: 10,
		},
		Chains: Chains{
			EpochLength: 20,
		},
		Binaries: Binaries{
			Polkadot:  "polkadot",
			Parachain: "polkadot-parachain",
		},
	}
}

// Load reads path as TOML over the defaults, then applies environment
// overrides. A missing file is not an error; pass an empty path to load
// defaults plus environment only.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// defaults apply
		case err != nil:
			return nil, errors.Wrapf(err, "read config %s", path)
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrapf(err, "parse config %s", path)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvToolProjectDir); v != "" {
		c.Tool.Dir = v
	}
	if v := os.Getenv(EnvToolCommand); v != "" {
		c.Tool.Command = v
	}
	if v := os.Getenv(EnvToolTimeoutSecs); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Tool.TimeoutSeconds = n
		}
	}
	if v := os.Getenv(EnvPolkadotBinary); v != "" {
		c.Binaries.Polkadot = v
	}
	if v := os.Getenv(EnvParachainBinary); v != "" {
		c.Binaries.Parachain = v
	}
	if v := os.Getenv(EnvFastRuntimesDir); v != "" {
		c.Binaries.RuntimesDir = v
	}
	if v := os.Getenv(EnvChainSpecsDir); v != "" {
		c.Binaries.ChainSpecsDir = v
	}
}

func (c *Config) validate() error {
	if c.Tool.Command == "" {
		return errors.New("tool command must not be empty")
	}
	if c.Tool.TimeoutSeconds <= 0 {
		return errors.New("tool timeout must be positive")
	}
	if c.Ports.Step == 0 {
		return errors.New("port step must be positive")
	}
	if c.Chains.EpochLength == 0 {
		return errors.New("epoch length must be positive")
	}

	return nil
}
