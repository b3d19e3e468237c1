// Package snapshot parses "<integer> <unit-or-label...>" listings such as
// `vmstat -s` into a counter-name → value map.
package snapshot

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tutu-network/statbar/internal/domain"
)

// units are the tokens that may sit between the value and the label.
var units = map[string]bool{
	"K":  true,
	"KB": true,
	"M":  true,
	"MB": true,
	"B":  true,
}

// Snapshot is one parsed listing. It is valid only for the iteration that
// produced it.
type Snapshot map[string]uint64

// Parse reads every line of text. Lines that do not begin with an unsigned
// integer, or that carry no label, are skipped; each remaining line yields
// exactly one entry. Line length is unbounded.
func Parse(text string) Snapshot {
	s := make(Snapshot)
	for _, line := range strings.Split(text, "\n") {
		s.add(line)
	}
	return s
}

// ParseReader is Parse over a stream. It fails only when r does.
func ParseReader(r io.Reader) (Snapshot, error) {
	s := make(Snapshot)
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		s.add(line)
		if errors.Is(err, io.EOF) {
			return s, nil
		}
		if err != nil {
			return s, fmt.Errorf("read snapshot: %w", err)
		}
	}
}

func (s Snapshot) add(line string) {
	if key, val, ok := parseLine(line); ok {
		s[key] = val
	}
}

func parseLine(line string) (string, uint64, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", 0, false
	}
	val, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return "", 0, false
	}

	rest := fields[1:]
	if units[rest[0]] {
		rest = rest[1:]
	}
	key := strings.TrimSpace(strings.Join(rest, " "))
	if key == "" {
		return "", 0, false
	}
	return key, val, true
}

// Get returns the value for key, or a *domain.MetricUnavailableError when
// the utility did not report it (its output format differs by version).
func (s Snapshot) Get(key string) (uint64, error) {
	v, ok := s[key]
	if !ok {
		return 0, domain.Unavailable(key, "key not present in snapshot")
	}
	return v, nil
}

// GetAll looks up several keys at once, failing on the first missing one.
func (s Snapshot) GetAll(keys ...string) ([]uint64, error) {
	out := make([]uint64, len(keys))
	for i, k := range keys {
		v, err := s.Get(k)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Source takes snapshots from `vmstat -s`.
type Source struct {
	runner domain.CommandRunner
}

// NewSource creates a vmstat snapshot source.
func NewSource(runner domain.CommandRunner) *Source {
	return &Source{runner: runner}
}

// Take runs vmstat once and parses its output.
func (s *Source) Take(ctx context.Context) (Snapshot, error) {
	out, err := s.runner.Output(ctx, "vmstat", "-s")
	if err != nil {
		return nil, fmt.Errorf("vmstat: %w", err)
	}
	return ParseReader(bytes.NewReader(out))
}
