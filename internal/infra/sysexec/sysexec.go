// Package sysexec runs the external system-information utilities
// (vmstat, free, upower) whose text output the readers parse.
package sysexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// stderrLimit bounds how much of a failing command's stderr is kept.
const stderrLimit = 512

// commandEnv is the environment for every utility. The parsers match
// English labels ("Mem:", "total memory"), so the C locale is forced.
func commandEnv() []string {
	return append(os.Environ(), "LC_ALL=C")
}

// Runner implements domain.CommandRunner with exec.CommandContext, so a
// cancelled context kills a hung utility.
type Runner struct{}

// NewRunner creates a subprocess runner.
func NewRunner() *Runner { return &Runner{} }

// Output runs name with args and returns its stdout. A non-zero exit is
// reported together with the tail of stderr.
func (r *Runner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return nil, fmt.Errorf("%s not found in PATH: %w", name, err)
	}

	stderr := &limitedBuffer{max: stderrLimit}
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stderr = stderr
	cmd.Env = commandEnv()

	out, err := cmd.Output()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s: %w", name, ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := strings.TrimSpace(stderr.String())
			if msg != "" {
				return nil, fmt.Errorf("%s exited with code %d: %s", name, exitErr.ExitCode(), msg)
			}
			return nil, fmt.Errorf("%s exited with code %d", name, exitErr.ExitCode())
		}
		return nil, fmt.Errorf("run %s: %w", name, err)
	}
	return out, nil
}

// limitedBuffer is a thread-safe buffer that keeps only the last N bytes.
type limitedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
	max int
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n, err := b.buf.Write(p)
	if b.buf.Len() > b.max {
		data := b.buf.Bytes()
		tail := append([]byte(nil), data[len(data)-b.max:]...)
		b.buf.Reset()
		b.buf.Write(tail)
	}
	return n, err
}

func (b *limitedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
