package fuzzer

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// DebugSpec describes one debugger launch against a crash input. Unlike the
// engine, the debugger runs as a child so its exit status can be observed.
type DebugSpec struct {
	Target    string
	TargetDir string
	Triple    string
	Debugger  string // binary name or path; the base name picks the dialect
	CrashFile string
	Extra     []string
}

// Artifact returns the debug-profile binary the debugger loads.
func (s *DebugSpec) Artifact() string {
	return filepath.Join(s.TargetDir, s.Triple, "debug", s.Target)
}

// Args returns the debugger argument list: break on the runtime's panic
// entry point, run, backtrace on stop. lldb and gdb take scripted commands
// differently, so the debugger's file name selects the dialect.
func (s *DebugSpec) Args() []string {
	artifact := s.Artifact()
	var args []string
	if strings.Contains(filepath.Base(s.Debugger), "lldb") {
		args = []string{"-o", "b rust_panic", "-o", "r", "-o", "bt", "-f", artifact, "--"}
	} else {
		args = []string{"-ex", "b rust_panic", "-ex", "r", "-ex", "bt", "--args", artifact}
	}
	return append(args, s.Extra...)
}

// Environ derives the debugger environment from base. The crash file travels
// in a dedicated variable so the target's own argument handling stays
// unaffected, and backtraces are forced on unless the user already chose.
func (s *DebugSpec) Environ(base []string) []string {
	env := append([]string(nil), base...)
	env = setEnv(env, "CARGO_HONGGFUZZ_CRASH_FILENAME", s.CrashFile)
	if lookupEnv(base, "RUST_BACKTRACE") == "" {
		env = setEnv(env, "RUST_BACKTRACE", "1")
	}
	return env
}

// Command assembles the debugger child process with inherited stdio.
func (s *DebugSpec) Command(ctx context.Context) *exec.Cmd {
	// #nosec G204 -- the debugger binary is the user's explicit choice
	cmd := exec.CommandContext(ctx, s.Debugger, s.Args()...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = s.Environ(os.Environ())
	return cmd
}
