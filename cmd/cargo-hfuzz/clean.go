package main

import (
	"github.com/spf13/cobra"

	"cargo-hfuzz/internal/buildpipeline"
	"cargo-hfuzz/internal/config"
)

var cleanCmd = &cobra.Command{
	Use:                "clean [CARGO_ARGS...]",
	Short:              "Remove fuzzing build artifacts",
	Long:               "Forward to the build tool's clean with the redirected target dir, leaving regular build output alone.",
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if err := buildpipeline.Clean(cmd.Context(), cfg, args); err != nil {
			exitOnChildFailure(err)
			return err
		}
		return nil
	},
}
