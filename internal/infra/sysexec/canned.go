package sysexec

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// ─── Canned Runner (for testing parsers against captured output) ───────────

// Canned implements domain.CommandRunner by replaying fixed output keyed by
// the full command line ("vmstat -s"). Unknown commands fail.
type Canned struct {
	mu      sync.Mutex
	outputs map[string]string
	errs    map[string]error
	calls   []string
}

// NewCanned creates a runner that replays outputs.
func NewCanned(outputs map[string]string) *Canned {
	if outputs == nil {
		outputs = make(map[string]string)
	}
	return &Canned{outputs: outputs, errs: make(map[string]error)}
}

// Fail makes the given command line return err.
func (c *Canned) Fail(cmdline string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs[cmdline] = err
}

// Set replaces the output for a command line.
func (c *Canned) Set(cmdline, out string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outputs[cmdline] = out
}

// Calls returns the command lines run so far.
func (c *Canned) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

// Output returns the canned stdout for the command line, the error set with
// Fail, or an error for a command it was not given.
func (c *Canned) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cmdline := strings.Join(append([]string{name}, args...), " ")

	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, cmdline)

	if err, ok := c.errs[cmdline]; ok {
		return nil, err
	}
	out, ok := c.outputs[cmdline]
	if !ok {
		return nil, fmt.Errorf("%s not found in PATH", name)
	}
	return []byte(out), nil
}
