// Package cpu computes CPU utilization from scheduler tick counters taken
// from /proc/stat, `vmstat -s` or gopsutil.
package cpu

// Data source names.
const (
	SourceProc     = "proc"
	SourceVmstat   = "vmstat"
	SourceGopsutil = "gopsutil"
)

// Ticks are the cumulative jiffies attributed to each category.
type Ticks struct {
	User   uint64
	Nice   uint64
	System uint64
	Idle   uint64
}

// Busy is the non-idle share.
func (t Ticks) Busy() uint64 { return t.User + t.System + t.Nice }

// Total is busy plus idle.
func (t Ticks) Total() uint64 { return t.Busy() + t.Idle }

// Utilization returns 100 × busy / total. A zero total (no ticks elapsed)
// is reported as 0 rather than NaN.
func (t Ticks) Utilization() float64 {
	total := t.Total()
	if total == 0 {
		return 0
	}
	return 100 * float64(t.Busy()) / float64(total)
}

// Sub returns t - prev per field. ok is false when any counter went
// backwards (counter reset or a different CPU set).
func (t Ticks) Sub(prev Ticks) (d Ticks, ok bool) {
	if t.User < prev.User || t.Nice < prev.Nice || t.System < prev.System || t.Idle < prev.Idle {
		return Ticks{}, false
	}
	return Ticks{
		User:   t.User - prev.User,
		Nice:   t.Nice - prev.Nice,
		System: t.System - prev.System,
		Idle:   t.Idle - prev.Idle,
	}, true
}

// Accumulator keeps the previous counters so successive samples report
// utilization over the interval between them. The zero value starts from
// zero counters, so the first sample is utilization since boot.
type Accumulator struct {
	prev Ticks
}

// Sample folds in a new reading and returns utilization since the last one.
func (a *Accumulator) Sample(cur Ticks) float64 {
	delta, ok := cur.Sub(a.prev)
	if !ok {
		delta = cur
	}
	a.prev = cur
	return delta.Utilization()
}
