package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cargo-hfuzz/internal/buildcfg"
	"cargo-hfuzz/internal/buildpipeline"
	"cargo-hfuzz/internal/buildstamp"
	"cargo-hfuzz/internal/config"
	"cargo-hfuzz/internal/toolchain"
	"cargo-hfuzz/internal/version"
)

// The build verbs forward everything after the verb to cargo untouched, so
// flag parsing stays disabled.

var buildCmd = &cobra.Command{
	Use:                "build [CARGO_ARGS...]",
	Short:              "Build fuzz targets with coverage instrumentation",
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doBuild(cmd.Context(), buildcfg.ReleaseInstrumented, args)
	},
}

var buildNoInstCmd = &cobra.Command{
	Use:                "build-no-inst [CARGO_ARGS...]",
	Short:              "Build fuzz targets without instrumentation",
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doBuild(cmd.Context(), buildcfg.ReleaseNotInstrumented, args)
	},
}

var buildDebugCmd = &cobra.Command{
	Use:                "build-debug [CARGO_ARGS...]",
	Short:              "Build fuzz targets for crash debugging",
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doBuild(cmd.Context(), buildcfg.Debug, args)
	},
}

func doBuild(ctx context.Context, mode buildcfg.BuildMode, args []string) error {
	cfg := config.Load()
	warnVersionSkew(cfg)

	triple, err := toolchain.HostTriple(ctx)
	if err != nil {
		return err
	}
	req := &buildpipeline.Request{
		Mode:    mode,
		Triple:  triple,
		Args:    args,
		Config:  cfg,
		Version: version.Version,
	}
	if err := buildpipeline.Build(ctx, req); err != nil {
		exitOnChildFailure(err)
		return err
	}
	return nil
}

// warnVersionSkew notes when the redirected target dir was produced by a
// different orchestrator version. The crate's build script enforces the
// handshake for release builds; this covers debug builds too.
func warnVersionSkew(cfg config.Config) {
	stamp, ok, err := buildstamp.Read(cfg.TargetDir)
	if err != nil || !ok {
		return
	}
	if stamp.ToolVersion != version.Version {
		fmt.Fprintf(os.Stderr, "note: %s was last built by cargo-hfuzz %s (this is %s)\n",
			cfg.TargetDir, stamp.ToolVersion, version.Version)
	}
}
