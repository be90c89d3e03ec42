package buildpipeline

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"cargo-hfuzz/internal/buildcfg"
	"cargo-hfuzz/internal/buildstamp"
	"cargo-hfuzz/internal/config"
)

func TestRequestArgvOrdering(t *testing.T) {
	req := &Request{
		Mode:   buildcfg.ReleaseInstrumented,
		Triple: "x86_64-unknown-linux-gnu",
		Args:   []string{"--bin", "foo"},
		Config: config.Config{
			BuildArgs: []string{"--features", "fuzz"},
		},
	}
	want := []string{
		"build", "--target", "x86_64-unknown-linux-gnu",
		"--bin", "foo",
		"--features", "fuzz",
		"--release",
	}
	if got := req.Argv(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Argv = %v, want %v", got, want)
	}
}

func TestRequestArgvDebugOmitsRelease(t *testing.T) {
	req := &Request{
		Mode:   buildcfg.Debug,
		Triple: "x86_64-unknown-linux-gnu",
		Args:   []string{"--bin", "foo"},
	}
	for _, arg := range req.Argv() {
		if arg == "--release" {
			t.Fatalf("debug build must not pass --release: %v", req.Argv())
		}
	}
}

func TestRequestArgvUserArgsAfterPassThrough(t *testing.T) {
	req := &Request{
		Mode:   buildcfg.ReleaseNotInstrumented,
		Triple: "t",
		Args:   []string{"--bin", "a"},
		Config: config.Config{BuildArgs: []string{"--offline"}},
	}
	argv := req.Argv()
	binAt, offlineAt := -1, -1
	for i, arg := range argv {
		switch arg {
		case "--bin":
			binAt = i
		case "--offline":
			offlineAt = i
		}
	}
	if binAt == -1 || offlineAt == -1 || offlineAt < binAt {
		t.Fatalf("user build args must follow pass-through args: %v", argv)
	}
}

// writeStub stages a fake build tool so the pipeline can be run against a
// real child process.
func writeStub(t *testing.T, dir, script string) string {
	t.Helper()
	path := filepath.Join(dir, "cargo")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestBuildPropagatesExitCode(t *testing.T) {
	dir := t.TempDir()
	req := &Request{
		Mode:   buildcfg.ReleaseInstrumented,
		Triple: "x86_64-unknown-linux-gnu",
		Args:   []string{"--bin", "foo"},
		Config: config.Config{
			CargoBin:  writeStub(t, dir, "#!/bin/sh\nexit 3\n"),
			TargetDir: filepath.Join(dir, "hfuzz_target"),
		},
	}

	err := Build(context.Background(), req)
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Build error = %v, want *exec.ExitError", err)
	}
	if code := exitErr.ExitCode(); code != 3 {
		t.Fatalf("exit code = %d, want 3", code)
	}
	// a failed build must leave no stamp behind
	if _, ok, _ := buildstamp.Read(req.Config.TargetDir); ok {
		t.Fatalf("stamp written despite failed build")
	}
}

func TestBuildSuccessRecordsInvocation(t *testing.T) {
	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args.txt")
	flagsFile := filepath.Join(dir, "flags.txt")
	script := "#!/bin/sh\n" +
		"echo \"$@\" > \"" + argsFile + "\"\n" +
		"printenv RUSTFLAGS > \"" + flagsFile + "\"\n" +
		"exit 0\n"
	req := &Request{
		Mode:   buildcfg.ReleaseInstrumented,
		Triple: "x86_64-unknown-linux-gnu",
		Args:   []string{"--bin", "foo"},
		Config: config.Config{
			CargoBin:  writeStub(t, dir, script),
			TargetDir: filepath.Join(dir, "hfuzz_target"),
		},
		Version: "0.5.57",
	}

	if err := Build(context.Background(), req); err != nil {
		t.Fatalf("Build: %v", err)
	}

	args, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("stub never ran: %v", err)
	}
	got := strings.TrimSpace(string(args))
	if !strings.HasPrefix(got, "build --target x86_64-unknown-linux-gnu --bin foo") {
		t.Fatalf("cargo argv = %q", got)
	}
	if !strings.HasSuffix(got, "--release") {
		t.Fatalf("cargo argv missing --release: %q", got)
	}

	flags, err := os.ReadFile(flagsFile)
	if err != nil {
		t.Fatalf("RUSTFLAGS not exported: %v", err)
	}
	if !strings.Contains(string(flags), "--cfg fuzzing") {
		t.Fatalf("RUSTFLAGS = %q", flags)
	}

	stamp, ok, err := buildstamp.Read(req.Config.TargetDir)
	if err != nil || !ok {
		t.Fatalf("stamp after success: ok=%v err=%v", ok, err)
	}
	if stamp.Mode != buildcfg.ReleaseInstrumented.String() || stamp.Triple != req.Triple {
		t.Fatalf("stamp = %+v", stamp)
	}
}

func TestBuildMissingTool(t *testing.T) {
	req := &Request{
		Mode:   buildcfg.Debug,
		Triple: "t",
		Config: config.Config{
			CargoBin:  filepath.Join(t.TempDir(), "no-such-cargo"),
			TargetDir: filepath.Join(t.TempDir(), "hfuzz_target"),
		},
	}
	err := Build(context.Background(), req)
	if err == nil {
		t.Fatalf("expected launch error")
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		t.Fatalf("a launch failure is not a child exit: %v", err)
	}
}

func TestCleanPropagatesExitCode(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Config{
		CargoBin:  writeStub(t, dir, "#!/bin/sh\nexit 2\n"),
		TargetDir: "hfuzz_target",
	}
	err := Clean(context.Background(), cfg, nil)
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Clean error = %v, want *exec.ExitError", err)
	}
	if code := exitErr.ExitCode(); code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
}
