// Package main implements the cargo-hfuzz CLI, a cargo subcommand that
// builds fuzz targets with compiler instrumentation and runs them under the
// honggfuzz engine.
package main

import (
	"errors"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"cargo-hfuzz/internal/project"
	"cargo-hfuzz/internal/version"
)

var rootCmd = &cobra.Command{
	Use:          "cargo-hfuzz",
	Short:        "Fuzz Rust code with the honggfuzz engine",
	Long:         `cargo-hfuzz is meant to be launched by cargo: "cargo hfuzz <command> ..."`,
	SilenceUsage: true,
	RunE: func(*cobra.Command, []string) error {
		return errors.New(`please launch as a cargo subcommand: "cargo hfuzz ..."`)
	},
}

var hfuzzCmd = &cobra.Command{
	Use:   "hfuzz",
	Short: "Build and run fuzz targets",
	// change to the crate root first, to have the same behavior as cargo
	// build/run; this is the invocation's single global-state mutation
	PersistentPreRunE: func(*cobra.Command, []string) error {
		_, err := project.EnterCrateRoot()
		return err
	},
	RunE: func(*cobra.Command, []string) error {
		return errors.New("possible commands are: run, run-debug, build, build-debug, clean, version")
	},
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(hfuzzCmd)
	hfuzzCmd.AddCommand(buildCmd)
	hfuzzCmd.AddCommand(buildNoInstCmd)
	hfuzzCmd.AddCommand(buildDebugCmd)
	hfuzzCmd.AddCommand(runCmd)
	hfuzzCmd.AddCommand(runNoInstCmd)
	hfuzzCmd.AddCommand(runDebugCmd)
	hfuzzCmd.AddCommand(cleanCmd)
	hfuzzCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// exitOnChildFailure terminates with the child's exit status so build-tool
// and debugger failures propagate verbatim. Non-exit errors fall through to
// the caller.
func exitOnChildFailure(err error) {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 1 {
			code = 1
		}
		os.Exit(code)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
