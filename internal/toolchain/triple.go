// Package toolchain queries the external compiler for host facts.
package toolchain

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

const hostLinePrefix = "host: "

// HostTriple asks rustc for the native target triple. Artifact paths depend
// on it being exact, so there is no fallback: any failure to invoke or parse
// is an error. The query is cheap and nothing is cached.
func HostTriple(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "rustc", "-v", "-V").Output()
	if err != nil {
		return "", fmt.Errorf("failed to invoke rustc: %w", err)
	}
	triple, ok := parseHostTriple(string(out))
	if !ok {
		return "", fmt.Errorf("could not find a %q line in rustc -vV output", hostLinePrefix)
	}
	return triple, nil
}

func parseHostTriple(out string) (string, bool) {
	for _, line := range strings.Split(out, "\n") {
		rest, ok := strings.CutPrefix(line, hostLinePrefix)
		if !ok {
			continue
		}
		rest = strings.TrimSpace(rest)
		if rest != "" {
			return rest, true
		}
	}
	return "", false
}
