// Package config resolves the environment contract of cargo-hfuzz.
//
// Every knob is an environment variable with a fixed fallback, read once per
// invocation after the crate root chdir. An optional .env file at the crate
// root is honored but never overrides the real environment.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Defaults for the redirected artifact directory, the fuzzing workspace and
// the crash debugger. The directory names are relative to the crate root so
// fuzzing output never clobbers the regular build output.
const (
	DefaultTargetDir = "hfuzz_target"
	DefaultWorkspace = "hfuzz_workspace"
	DefaultDebugger  = "rust-lldb"
)

// Config carries every environment variable recognized by cargo-hfuzz.
// Constructed fresh per invocation and handed to exactly one child-process
// launch.
type Config struct {
	TargetDir string // CARGO_TARGET_DIR: redirected build artifact dir
	Workspace string // HFUZZ_WORKSPACE: base dir for corpora and crashes
	InputDir  string // HFUZZ_INPUT: seed corpus override
	InputSet  bool   // HFUZZ_INPUT present in the environment, even if empty
	CargoBin  string // CARGO: build tool binary, set by cargo for subcommands
	Debugger  string // HFUZZ_DEBUGGER: debugger binary for run-debug

	RustFlags string   // RUSTFLAGS: user flags appended after the computed ones
	BuildArgs []string // HFUZZ_BUILD_ARGS, whitespace-split
	RunArgs   []string // HFUZZ_RUN_ARGS, whitespace-split
}

// Load reads the configuration from the environment, preceded by a
// best-effort load of a .env file in the current directory. Missing .env is
// the normal case and stays silent.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() Config {
	inputDir, inputSet := os.LookupEnv("HFUZZ_INPUT")
	return Config{
		TargetDir: envOr("CARGO_TARGET_DIR", DefaultTargetDir),
		Workspace: envOr("HFUZZ_WORKSPACE", DefaultWorkspace),
		InputDir:  inputDir,
		InputSet:  inputSet,
		CargoBin:  envOr("CARGO", "cargo"),
		Debugger:  envOr("HFUZZ_DEBUGGER", DefaultDebugger),
		RustFlags: os.Getenv("RUSTFLAGS"),
		BuildArgs: SplitArgs(os.Getenv("HFUZZ_BUILD_ARGS")),
		RunArgs:   SplitArgs(os.Getenv("HFUZZ_RUN_ARGS")),
	}
}

// WorkspaceFor returns the per-target directory holding corpus and crashes.
func (c Config) WorkspaceFor(target string) string {
	return filepath.Join(c.Workspace, target)
}

// InputDirFor returns the seed corpus directory for target. HFUZZ_INPUT, when
// set, overrides the per-target default.
func (c Config) InputDirFor(target string) string {
	if c.InputSet {
		return c.InputDir
	}
	return filepath.Join(c.Workspace, target, "input")
}

// SplitArgs tokenizes an extra-args variable on whitespace. Quoting and
// escaping are not honored, so arguments containing spaces cannot be passed
// through this channel.
func SplitArgs(s string) []string {
	return strings.Fields(s)
}

// envOr returns the value of key, or fallback when the variable is absent.
// A variable that is set to the empty string counts as set.
func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
