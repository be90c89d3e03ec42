package version

import (
	"strings"

	"github.com/fatih/color"
)

// Version information for the cargo-hfuzz CLI.
// These variables can be overridden at build time via -ldflags.
//
// Version stays free of ANSI escapes: it is handed to the crate's build
// script through the environment for the version handshake.

var (
	// Version is the semantic version of the orchestrator. It must track the
	// honggfuzz library release the build-script handshake expects.
	Version = "0.5.57"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)
)

// Pretty returns the version with per-component coloring for terminal
// output. Falls back to the plain string when the version is not dotted.
func Pretty() string {
	parts := strings.SplitN(Version, ".", 3)
	if len(parts) != 3 {
		return Version
	}
	return versionMajorColor.Sprint(parts[0]) + "." +
		versionMinorColor.Sprint(parts[1]) + "." +
		versionPatchColor.Sprint(parts[2])
}
