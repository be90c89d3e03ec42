//go:build unix

// Package fuzzer launches the fuzzing engine and the crash debugger against
// artifacts produced by the build pipeline.
//
// The engine launch replaces the current process image: a long fuzzing
// session then owns the terminal, inherits descriptors and receives signals
// as if invoked directly. Windows has no exec semantics (and the engine does
// not build there); use WSL.
package fuzzer

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// EngineBinary returns the path of the honggfuzz binary that the crate's
// build script stages inside the redirected target dir.
func EngineBinary(targetDir string) string {
	return filepath.Join(targetDir, "honggfuzz")
}

// Spec describes one fuzzing-engine launch.
type Spec struct {
	Target    string
	TargetDir string
	Workspace string // base workspace dir, not the per-target one
	InputDir  string // seed corpus passed to the engine
	Triple    string
	RunArgs   []string // user-defined engine args (HFUZZ_RUN_ARGS)
	Extra     []string // residual CLI args, forwarded to the target binary
}

// Argv returns the engine argument vector, program path included. User args
// sit before the separator so they can extend or override the computed
// engine options; residual args follow the artifact path untouched.
func (s *Spec) Argv() []string {
	argv := []string{
		EngineBinary(s.TargetDir),
		"-W", filepath.Join(s.Workspace, s.Target),
		"-f", s.InputDir,
		"-P",
	}
	argv = append(argv, s.RunArgs...)
	argv = append(argv, "--", filepath.Join(s.TargetDir, s.Triple, "release", s.Target))
	argv = append(argv, s.Extra...)
	return argv
}

// Environ derives the engine environment from base. Two sanitizer checks are
// known to misfire against the Rust runtime, so their kill switches are
// prepended; user-supplied values for the same variables stay in place after
// the prefix and still win under the sanitizers' last-wins parsing.
func (s *Spec) Environ(base []string) []string {
	env := append([]string(nil), base...)
	env = setEnv(env, "ASAN_OPTIONS", "detect_odr_violation=0:"+lookupEnv(base, "ASAN_OPTIONS"))
	env = setEnv(env, "TSAN_OPTIONS", "report_signal_unsafe=0:"+lookupEnv(base, "TSAN_OPTIONS"))
	return env
}

// Exec creates the seed directory and replaces the current process with the
// fuzzing engine. It returns only when the replacement itself failed.
func (s *Spec) Exec() error {
	seedDir := filepath.Join(s.Workspace, s.Target, "input")
	if err := os.MkdirAll(seedDir, 0o755); err != nil {
		// the engine can create it too; report and carry on
		fmt.Printf("error: failed to create %q\n", seedDir)
	}
	argv := s.Argv()
	return unix.Exec(argv[0], argv, s.Environ(os.Environ()))
}
