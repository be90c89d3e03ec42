package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cargo-hfuzz/internal/buildcfg"
	"cargo-hfuzz/internal/config"
	"cargo-hfuzz/internal/fuzzer"
	"cargo-hfuzz/internal/project"
	"cargo-hfuzz/internal/toolchain"
)

var runCmd = &cobra.Command{
	Use:                "run TARGET [ARGS...]",
	Short:              "Build a target and fuzz it with honggfuzz",
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doRun(cmd.Context(), buildcfg.ReleaseInstrumented, args)
	},
}

var runNoInstCmd = &cobra.Command{
	Use:                "run-no-inst TARGET [ARGS...]",
	Short:              "Build a target without instrumentation and fuzz it",
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doRun(cmd.Context(), buildcfg.ReleaseNotInstrumented, args)
	},
}

var runDebugCmd = &cobra.Command{
	Use:                "run-debug TARGET CRASH_FILENAME [ARGS...]",
	Short:              "Replay a crash input under a debugger",
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doRun(cmd.Context(), buildcfg.Debug, args)
	},
}

func doRun(ctx context.Context, mode buildcfg.BuildMode, args []string) error {
	if len(args) == 0 {
		return errors.New(`please specify the name of the target like this "cargo hfuzz run[-debug] TARGET [ ARGS ... ]"`)
	}
	target, rest := args[0], args[1:]

	cfg := config.Load()
	warnUnknownTarget(target)

	triple, err := toolchain.HostTriple(ctx)
	if err != nil {
		return err
	}

	// the build must fully complete before any run step: the artifact path
	// is only valid after a successful build
	if err := doBuild(ctx, mode, []string{"--bin", target}); err != nil {
		return err
	}

	if mode.IsDebug() {
		return runDebugger(ctx, cfg, target, triple, rest)
	}
	return execEngine(cfg, target, triple, rest)
}

// execEngine hands the process over to the fuzzing engine. On success it
// never returns; the fallthrough is the one observable replacement failure.
func execEngine(cfg config.Config, target, triple string, extra []string) error {
	spec := &fuzzer.Spec{
		Target:    target,
		TargetDir: cfg.TargetDir,
		Workspace: cfg.Workspace,
		InputDir:  cfg.InputDirFor(target),
		Triple:    triple,
		RunArgs:   cfg.RunArgs,
		Extra:     extra,
	}
	_ = spec.Exec()
	fmt.Fprintf(os.Stderr, "cannot execute %s, try to execute \"cargo hfuzz build\" from fuzzed project directory\n",
		fuzzer.EngineBinary(cfg.TargetDir))
	os.Exit(1)
	return nil
}

// runDebugger launches the debugger as a child so its exit status can be
// observed, unlike the engine path.
func runDebugger(ctx context.Context, cfg config.Config, target, triple string, rest []string) error {
	if len(rest) == 0 {
		return errors.New(`please specify the crash filename like this "cargo hfuzz run-debug TARGET CRASH_FILENAME [ ARGS ... ]"`)
	}
	crash, extra := rest[0], rest[1:]

	spec := &fuzzer.DebugSpec{
		Target:    target,
		TargetDir: cfg.TargetDir,
		Triple:    triple,
		Debugger:  cfg.Debugger,
		CrashFile: crash,
		Extra:     extra,
	}
	if err := spec.Command(ctx).Run(); err != nil {
		exitOnChildFailure(err)
		return fmt.Errorf("failed to launch debugger %s: %w", cfg.Debugger, err)
	}
	return nil
}

// warnUnknownTarget prints a note when the requested target is not among the
// crate's declared binaries. Cargo stays the authority: manifest problems
// are silent here and surface through the build itself.
func warnUnknownTarget(target string) {
	m, err := project.LoadManifest(".")
	if err != nil {
		return
	}
	names := m.BinTargets()
	if len(names) == 0 || m.HasBin(target) {
		return
	}
	fmt.Fprintf(os.Stderr, "warning: target %q is not declared in %s (known targets: %s)\n",
		target, m.Path, strings.Join(names, ", "))
}
