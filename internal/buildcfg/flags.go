// Package buildcfg maps a build mode to the compiler flags and environment
// overrides handed to the build tool. Assembly is pure data construction and
// cannot fail.
package buildcfg

import "strings"

// BuildMode selects optimization, debug info, panic strategy and
// instrumentation for one invocation. Exactly one mode is active per run.
type BuildMode int

const (
	// ReleaseInstrumented is the default fuzzing build: optimized, aborting
	// on panic, with coverage and comparison instrumentation.
	ReleaseInstrumented BuildMode = iota
	// ReleaseNotInstrumented keeps the release profile but skips the
	// instrumentation passes.
	ReleaseNotInstrumented
	// Debug builds an unoptimized artifact with full debug info so a
	// debugger can replay a crash input.
	Debug
)

func (m BuildMode) String() string {
	switch m {
	case ReleaseInstrumented:
		return "release-instrumented"
	case ReleaseNotInstrumented:
		return "release"
	case Debug:
		return "debug"
	}
	return "unknown"
}

// IsDebug reports whether artifacts land under the debug profile directory.
func (m BuildMode) IsDebug() bool {
	return m == Debug
}

// Options feed flag assembly. GOOS is a parameter rather than runtime.GOOS so
// the darwin special case stays testable.
type Options struct {
	TargetDir   string // redirected CARGO_TARGET_DIR
	UserFlags   string // RUSTFLAGS from the user, appended last
	ToolVersion string // orchestrator version for the build-script handshake
	GOOS        string
}

// Flags is the assembled bundle for one build-tool launch.
type Flags struct {
	Rustflags string
	Env       map[string]string
	Debug     bool
}

// Assemble computes the flag bundle for mode. Every mode enables the fuzzing
// cfg, debug assertions and overflow checks: fuzz targets must fail fast and
// loudly on logic errors regardless of optimization level. User flags come
// last so rustc's last-wins semantics let them append or override.
func Assemble(mode BuildMode, opts Options) Flags {
	parts := []string{
		"--cfg fuzzing",
		"-C debug-assertions",
		"-C overflow_checks",
	}

	switch mode {
	case Debug:
		parts = append(parts,
			"--cfg fuzzing_debug",
			"-C panic=unwind",
			"-C opt-level=0",
			"-C debuginfo=2",
		)
	default:
		parts = append(parts,
			"-C panic=abort",
			"-C opt-level=3",
			"-C debuginfo=0",
		)
		if mode == ReleaseInstrumented {
			parts = append(parts,
				"-C passes=sancov",
				"-C llvm-args=-sanitizer-coverage-level=4",
				"-C llvm-args=-sanitizer-coverage-trace-pc-guard",
				"-C llvm-args=-sanitizer-coverage-prune-blocks=0",
			)
			// trace-compares needs a sanitizer runtime that macOS lacks
			if opts.GOOS != "darwin" {
				parts = append(parts, "-C llvm-args=-sanitizer-coverage-trace-compares")
			}
		}
	}

	rustflags := strings.Join(parts, " ")
	if opts.UserFlags != "" {
		rustflags += " " + opts.UserFlags
	}

	env := map[string]string{
		"CARGO_TARGET_DIR": opts.TargetDir,
	}
	if mode != Debug {
		// consumed by the crate's build script to self-verify that the
		// orchestrator and library versions match, and to stage the engine
		// binary at a known location
		env["CARGO_HONGGFUZZ_BUILD_VERSION"] = opts.ToolVersion
		env["CARGO_HONGGFUZZ_TARGET_DIR"] = opts.TargetDir
	}

	return Flags{
		Rustflags: rustflags,
		Env:       env,
		Debug:     mode == Debug,
	}
}
