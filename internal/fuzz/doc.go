// Package fuzztests houses Go fuzz harnesses that exercise the pure input
// paths of the orchestrator (extra-args tokenizing, flag assembly). Its goal
// is to smoke test robustness on arbitrary inputs.
//
// It does not launch processes, touch the filesystem, or execute the CLI.

package fuzztests
