package fuzzer

import (
	"path/filepath"
	"reflect"
	"testing"
)

func debugSpec(debugger string) *DebugSpec {
	return &DebugSpec{
		Target:    "foo",
		TargetDir: "hfuzz_target",
		Triple:    "x86_64-unknown-linux-gnu",
		Debugger:  debugger,
		CrashFile: "crash.bin",
	}
}

func TestDebugArgsLLDBDialect(t *testing.T) {
	spec := debugSpec("rust-lldb")
	want := []string{
		"-o", "b rust_panic", "-o", "r", "-o", "bt",
		"-f", spec.Artifact(), "--",
	}
	if got := spec.Args(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Args:\n got %v\nwant %v", got, want)
	}
}

func TestDebugArgsGDBDialect(t *testing.T) {
	spec := debugSpec("rust-gdb")
	want := []string{
		"-ex", "b rust_panic", "-ex", "r", "-ex", "bt",
		"--args", spec.Artifact(),
	}
	if got := spec.Args(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Args:\n got %v\nwant %v", got, want)
	}
}

func TestDebugDialectFromBaseName(t *testing.T) {
	cases := []struct {
		debugger string
		lldb     bool
	}{
		{"rust-lldb", true},
		{"lldb", true},
		{"/usr/local/bin/lldb-18", true},
		{"gdb", false},
		{"rust-gdb", false},
		// the dialect decision inspects only the file name
		{"/opt/lldb-tools/gdb", false},
	}
	for _, tc := range cases {
		spec := debugSpec(tc.debugger)
		args := spec.Args()
		isLLDB := args[0] == "-o"
		if isLLDB != tc.lldb {
			t.Fatalf("debugger %q: lldb dialect = %v, want %v", tc.debugger, isLLDB, tc.lldb)
		}
	}
}

func TestDebugArtifactUsesDebugProfile(t *testing.T) {
	spec := debugSpec("gdb")
	want := filepath.Join("hfuzz_target", "x86_64-unknown-linux-gnu", "debug", "foo")
	if got := spec.Artifact(); got != want {
		t.Fatalf("Artifact = %q, want %q", got, want)
	}
}

func TestDebugExtraArgsAppended(t *testing.T) {
	spec := debugSpec("gdb")
	spec.Extra = []string{"--batch"}
	args := spec.Args()
	if args[len(args)-1] != "--batch" {
		t.Fatalf("extra args must come last: %v", args)
	}
}

func TestDebugEnvironCarriesCrashFile(t *testing.T) {
	spec := debugSpec("rust-lldb")
	env := spec.Environ([]string{"PATH=/usr/bin"})
	if got := lookupEnv(env, "CARGO_HONGGFUZZ_CRASH_FILENAME"); got != "crash.bin" {
		t.Fatalf("crash filename env = %q", got)
	}
	// the crash file must not leak into argv
	for _, a := range spec.Args() {
		if a == "crash.bin" {
			t.Fatalf("crash file leaked into argv: %v", spec.Args())
		}
	}
}

func TestDebugEnvironBacktraceDefault(t *testing.T) {
	spec := debugSpec("gdb")
	env := spec.Environ([]string{"PATH=/usr/bin"})
	if got := lookupEnv(env, "RUST_BACKTRACE"); got != "1" {
		t.Fatalf("RUST_BACKTRACE = %q, want 1", got)
	}

	env = spec.Environ([]string{"RUST_BACKTRACE=full"})
	if got := lookupEnv(env, "RUST_BACKTRACE"); got != "full" {
		t.Fatalf("user RUST_BACKTRACE overridden: %q", got)
	}
}
