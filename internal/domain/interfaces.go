package domain

import "context"

// ─── Service Interfaces ─────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; the loop depends on them.

// Provider reads one sample of one mode. Implementations may hold state
// across calls (the CPU accumulator) and so must not be shared between
// concurrent loops.
type Provider interface {
	// Read takes a fresh sample. Errors wrap ErrMetricUnavailable or
	// ErrParse when the data source is at fault.
	Read(ctx context.Context) (Sample, error)

	// Mode reports which metric the provider reads.
	Mode() Mode

	// Source names the data-source variant ("proc", "vmstat", "nws", ...).
	Source() string
}

// CommandRunner executes an external utility and returns its stdout.
// Implemented by infra/sysexec.Runner; tests supply canned output.
type CommandRunner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}
