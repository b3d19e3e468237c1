//go:build !darwin

package battery

// DefaultSource is the battery source used when none is configured.
const DefaultSource = SourceSysfs
