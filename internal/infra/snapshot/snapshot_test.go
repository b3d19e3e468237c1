package snapshot

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutu-network/statbar/internal/domain"
	"github.com/tutu-network/statbar/internal/infra/sysexec"
)

// vmstatOutput is `vmstat -s` from procps-ng 3.3.17.
const vmstatOutput = `     16310480 K total memory
      5291204 K used memory
      7702344 K active memory
      1006252 K inactive memory
      6969652 K free memory
       347108 K buffer memory
      3702516 K swap cache
      2097148 K total swap
            0 K used swap
      2097148 K free swap
      1820451 non-nice user cpu ticks
         3349 nice user cpu ticks
       560133 system cpu ticks
     42150917 idle cpu ticks
        26014 IO-wait cpu ticks
            0 IRQ cpu ticks
        11262 softirq cpu ticks
            0 stolen cpu ticks
      5478090 pages paged in
     11823548 pages paged out
            0 pages swapped in
            0 pages swapped out
    176915307 interrupts
    301520837 CPU context switches
   1697712203 boot time
       185367 forks
`

func TestParse_VmstatOutput(t *testing.T) {
	s := Parse(vmstatOutput)

	tests := []struct {
		key  string
		want uint64
	}{
		{"total memory", 16310480},
		{"used memory", 5291204},
		{"non-nice user cpu ticks", 1820451},
		{"nice user cpu ticks", 3349},
		{"system cpu ticks", 560133},
		{"idle cpu ticks", 42150917},
		{"IO-wait cpu ticks", 26014},
		{"CPU context switches", 301520837},
		{"boot time", 1697712203},
		{"forks", 185367},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := s.Get(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	lines := strings.Count(vmstatOutput, "\n")
	assert.Len(t, s, lines, "every well-formed line contributes exactly one entry")
}

func TestParse_UnitHandling(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantKey string
		wantVal uint64
	}{
		{"K unit", "10 K total memory", "total memory", 10},
		{"KB unit", "11 KB free memory", "free memory", 11},
		{"M unit", "12 M used swap", "used swap", 12},
		{"MB unit", "13 MB buffer memory", "buffer memory", 13},
		{"B unit", "14 B cache", "cache", 14},
		{"label token kept", "15 pages paged in", "pages paged in", 15},
		{"single label", "16 forks", "forks", 16},
		{"trailing whitespace", "  17   forks  \t", "forks", 17},
		{"lowercase k is a label", "18 k thing", "k thing", 18},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Parse(tt.line)
			require.Len(t, s, 1)
			got, err := s.Get(tt.wantKey)
			require.NoError(t, err)
			assert.Equal(t, tt.wantVal, got)
		})
	}
}

func TestParse_SkipsMalformedLines(t *testing.T) {
	text := strings.Join([]string{
		"",
		"total memory 100",
		"-5 K negative",
		"abc K letters",
		"42",
		"42 K",
		"3.5 K fractional",
		"7 K kept",
	}, "\n")

	s := Parse(text)
	assert.Equal(t, Snapshot{"kept": 7}, s)
}

func TestParse_DuplicateKeyLastWins(t *testing.T) {
	s := Parse("1 K x\n2 K x\n")
	v, err := s.Get("x")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), v)
}

func TestGet_MissingKey(t *testing.T) {
	s := Parse(vmstatOutput)
	_, err := s.Get("total memry")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMetricUnavailable))

	var mu *domain.MetricUnavailableError
	require.True(t, errors.As(err, &mu))
	assert.Equal(t, "total memry", mu.Key)
}

func TestGetAll(t *testing.T) {
	s := Parse(vmstatOutput)
	vals, err := s.GetAll("total memory", "used memory")
	require.NoError(t, err)
	assert.Equal(t, []uint64{16310480, 5291204}, vals)

	_, err = s.GetAll("total memory", "missing")
	assert.ErrorIs(t, err, domain.ErrMetricUnavailable)
}

func TestParse_LongLineDoesNotHideLaterLines(t *testing.T) {
	text := "5 a\n1 " + strings.Repeat("x", 70000) + "\n7 total memory\n"

	s := Parse(text)
	assert.Len(t, s, 3)
	v, err := s.Get("total memory")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), v)

	fromReader, err := ParseReader(strings.NewReader(text))
	require.NoError(t, err)
	assert.Equal(t, s, fromReader)
}

func TestParseReader_ReadFailure(t *testing.T) {
	s, err := ParseReader(io.MultiReader(strings.NewReader("3 partial key\n"), iotest.ErrReader(errors.New("disk gone"))))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
	assert.Equal(t, Snapshot{"partial key": 3}, s)
}

func TestSource_TakeLongOutput(t *testing.T) {
	out := strings.Repeat("z", 100000) + "\n" + vmstatOutput
	runner := sysexec.NewCanned(map[string]string{"vmstat -s": out})
	s, err := NewSource(runner).Take(context.Background())
	require.NoError(t, err)
	v, err := s.Get("total memory")
	require.NoError(t, err)
	assert.Equal(t, uint64(16310480), v)
}

func TestSource_Take(t *testing.T) {
	runner := sysexec.NewCanned(map[string]string{"vmstat -s": vmstatOutput})
	s, err := NewSource(runner).Take(context.Background())
	require.NoError(t, err)
	v, err := s.Get("idle cpu ticks")
	require.NoError(t, err)
	assert.Equal(t, uint64(42150917), v)
}

func TestSource_TakeFailure(t *testing.T) {
	runner := sysexec.NewCanned(map[string]string{})
	_, err := NewSource(runner).Take(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vmstat")
}
