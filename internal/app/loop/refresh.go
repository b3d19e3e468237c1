package loop

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tutu-network/statbar/internal/domain"
)

// DefaultInterval is used when no refresh argument is given.
const DefaultInterval = time.Second

// maxSeconds is the largest whole-second refresh a time.Duration can hold.
const maxSeconds = math.MaxInt64 / int64(time.Second)

// Refresh is the parsed refresh argument.
type Refresh struct {
	Once     bool
	Interval time.Duration
}

// String renders the refresh the way it is accepted on the command line.
func (r Refresh) String() string {
	if r.Once {
		return "-1"
	}
	if r.Interval%time.Second == 0 {
		return strconv.Itoa(int(r.Interval / time.Second))
	}
	return r.Interval.String()
}

// ParseRefresh accepts "-1" (run once), a whole number of seconds, or a Go
// duration such as "500ms". An empty string means DefaultInterval.
func ParseRefresh(s string) (Refresh, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Refresh{Interval: DefaultInterval}, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil || isRange(err) {
		switch {
		case err != nil || n > maxSeconds:
			return Refresh{}, fmt.Errorf("%w: %q seconds is too large", domain.ErrBadRefresh, s)
		case n == -1:
			return Refresh{Once: true}, nil
		case n >= 0:
			return Refresh{Interval: time.Duration(n) * time.Second}, nil
		default:
			return Refresh{}, fmt.Errorf("%w: got %d", domain.ErrBadRefresh, n)
		}
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return Refresh{}, fmt.Errorf("%w: got %q", domain.ErrBadRefresh, s)
	}
	return Refresh{Interval: d}, nil
}

func isRange(err error) bool {
	var numErr *strconv.NumError
	return errors.As(err, &numErr) && numErr.Err == strconv.ErrRange
}
