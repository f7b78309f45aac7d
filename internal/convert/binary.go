package convert

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// DefaultBinaryName is the native RustyRoad analyzer looked up on PATH when
// no explicit binary path is configured.
const DefaultBinaryName = "rustyroad-analyzer"

// DefaultCheckTimeout bounds a single conversion check.
const DefaultCheckTimeout = 10 * time.Second

// ErrUnavailable means no analyzer binary is present. This is a supported
// configuration, not a fault; callers skip the candidate-file scan.
var ErrUnavailable = errors.New("conversion analyzer unavailable")

// BinaryChecker shells out to the native analyzer. The binary is probed once
// at construction; a missing binary produces a checker that reports
// Available() == false rather than an error.
type BinaryChecker struct {
	binaryPath string
	timeout    time.Duration
}

// NewBinaryChecker probes for the analyzer binary. binary may be an explicit
// path or a bare name resolved on PATH; empty selects DefaultBinaryName.
// timeout <= 0 selects DefaultCheckTimeout.
func NewBinaryChecker(binary string, timeout time.Duration) *BinaryChecker {
	if binary == "" {
		binary = DefaultBinaryName
	}
	if timeout <= 0 {
		timeout = DefaultCheckTimeout
	}

	path, err := exec.LookPath(binary)
	if err != nil {
		return &BinaryChecker{timeout: timeout}
	}
	return &BinaryChecker{binaryPath: path, timeout: timeout}
}

// Available reports whether the analyzer binary was found at construction.
func (c *BinaryChecker) Available() bool {
	return c.binaryPath != ""
}

// Check runs the analyzer for one candidate file. The command is built as a
// direct argv, never through a shell, and runs with the workspace root as
// its working directory.
func (c *BinaryChecker) Check(ctx context.Context, workspaceRoot, candidatePath, moduleName string) (Info, error) {
	if !c.Available() {
		return Info{}, ErrUnavailable
	}

	args, err := buildCheckArgs(candidatePath, moduleName)
	if err != nil {
		return Info{}, err
	}

	execCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, c.binaryPath, args...)
	cmd.Dir = workspaceRoot

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if execCtx.Err() == context.DeadlineExceeded {
			return Info{}, fmt.Errorf("conversion check timed out after %s", c.timeout)
		}
		if stderr.Len() > 0 {
			return Info{}, fmt.Errorf("analyzer error: %s", stderr.String())
		}
		return Info{}, fmt.Errorf("analyzer execution failed: %w", err)
	}

	return parseCheckOutput(stdout.Bytes())
}

// parseCheckOutput parses the analyzer's JSON verdict:
//
//	{"needs_conversion": true}
func parseCheckOutput(data []byte) (Info, error) {
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return Info{}, fmt.Errorf("invalid analyzer output: %w", err)
	}
	return info, nil
}
