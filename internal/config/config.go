// Package config loads the engine's TOML-format game configuration
// (`rfvp.toml`), read by cmd/rfvp. Ground: teacher's cmd/emulator/
// main.go flag set (rom path, scale, logging toggle) generalized from
// CLI flags to a file, per SPEC_FULL.md's promotion of the teacher's
// transitive `github.com/BurntSushi/toml` dependency into a first-class
// config layer.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"rfvp/internal/decode"
)

// DefaultStepBudget mirrors sched.StepBudget; duplicated here (rather
// than importing internal/sched) so internal/config stays a leaf
// package with no dependency on the runtime it configures.
const DefaultStepBudget = 10000

const DefaultTraceCapacity = 4096

// TraceConfig configures internal/trace's ring buffer at startup,
// before RFVP_TRACE/RFVP_TRACE_*_EVERY env vars are applied on top.
type TraceConfig struct {
	Capacity   int      `toml:"capacity"`
	Categories []string `toml:"categories"`
}

// Config is the full contents of rfvp.toml.
type Config struct {
	// Bytecode is the .hcb file's path, relative to the game directory.
	Bytecode string `toml:"bytecode"`
	// NLS selects the text encoding PushString/title bytes are decoded
	// with: "utf8" (default), "shiftjis", or "gbk".
	NLS string `toml:"nls"`
	// StepBudget overrides the scheduler's per-context per-tick
	// fairness backstop (0 or unset keeps DefaultStepBudget).
	StepBudget int `toml:"step_budget"`
	// TargetFPS drives cmd/rfvp's frame pacing.
	TargetFPS float64     `toml:"target_fps"`
	Trace     TraceConfig `toml:"trace"`
}

// Default returns the configuration used for any field rfvp.toml
// leaves unset.
func Default() Config {
	return Config{
		Bytecode:   "game.hcb",
		NLS:        "utf8",
		StepBudget: DefaultStepBudget,
		TargetFPS:  60.0,
		Trace:      TraceConfig{Capacity: DefaultTraceCapacity},
	}
}

// Load reads and decodes path, seeding unset fields from Default
// first so a minimal rfvp.toml (or an empty one) still produces a
// runnable configuration.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	if cfg.StepBudget <= 0 {
		cfg.StepBudget = DefaultStepBudget
	}
	if cfg.Trace.Capacity <= 0 {
		cfg.Trace.Capacity = DefaultTraceCapacity
	}
	return cfg, nil
}

// Charset resolves NLS to a decode.Charset. An empty value means UTF-8;
// an unrecognized value is an error rather than a silent fallback, since
// an rfvp.toml naming an NLS the decoder doesn't support is a
// misconfiguration the operator should see immediately.
func (c Config) Charset() (decode.Charset, error) {
	switch strings.ToLower(strings.TrimSpace(c.NLS)) {
	case "", "utf8", "utf-8":
		return decode.UTF8, nil
	case "shiftjis", "shift-jis", "sjis":
		return decode.ShiftJIS, nil
	case "gbk":
		return decode.GBK, nil
	default:
		return 0, fmt.Errorf("config: unrecognized nls %q (want utf8, shiftjis, or gbk)", c.NLS)
	}
}
