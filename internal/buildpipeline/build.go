// Package buildpipeline drives the external build tool with the assembled
// fuzzing flags and the redirected artifact directory.
package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"cargo-hfuzz/internal/buildcfg"
	"cargo-hfuzz/internal/buildstamp"
	"cargo-hfuzz/internal/config"
)

// Request describes one build-tool invocation on behalf of a build mode.
type Request struct {
	Mode    buildcfg.BuildMode
	Triple  string   // target-triple pin; also keeps RUSTFLAGS away from build scripts
	Args    []string // pass-through args after the verb, e.g. --bin NAME
	Config  config.Config
	Version string // orchestrator version for the build-script handshake
}

// Argv returns the full build-tool argument list for the request, without
// the binary itself.
func (r *Request) Argv() []string {
	args := []string{"build", "--target", r.Triple}
	args = append(args, r.Args...)
	args = append(args, r.Config.BuildArgs...)
	if !r.Mode.IsDebug() {
		args = append(args, "--release")
	}
	return args
}

// Build runs `cargo build` until completion. The artifact path is only valid
// after a successful return. A nonzero cargo exit surfaces as *exec.ExitError
// so the caller can propagate the code verbatim.
func Build(ctx context.Context, req *Request) error {
	flags := buildcfg.Assemble(req.Mode, buildcfg.Options{
		TargetDir:   req.Config.TargetDir,
		UserFlags:   req.Config.RustFlags,
		ToolVersion: req.Version,
		GOOS:        runtime.GOOS,
	})

	cmd := exec.CommandContext(ctx, req.Config.CargoBin, req.Argv()...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), "RUSTFLAGS="+flags.Rustflags)
	for key, value := range flags.Env {
		cmd.Env = append(cmd.Env, key+"="+value)
	}

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr
		}
		return fmt.Errorf("failed to run %s: %w", req.Config.CargoBin, err)
	}

	// stamp problems never fail a build that cargo accepted
	_ = buildstamp.Write(req.Config.TargetDir, &buildstamp.Stamp{
		Mode:        req.Mode.String(),
		Triple:      req.Triple,
		Rustflags:   flags.Rustflags,
		ToolVersion: req.Version,
	})
	return nil
}

// Clean forwards to the build tool's clean operation with the same
// redirected target dir, so fuzzing artifacts are cleaned independently of
// the user's regular build output.
func Clean(ctx context.Context, cfg config.Config, args []string) error {
	cmd := exec.CommandContext(ctx, cfg.CargoBin, append([]string{"clean"}, args...)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), "CARGO_TARGET_DIR="+cfg.TargetDir)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr
		}
		return fmt.Errorf("failed to run %s: %w", cfg.CargoBin, err)
	}
	return nil
}
