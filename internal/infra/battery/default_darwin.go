//go:build darwin

package battery

// DefaultSource is the battery source used when none is configured.
// macOS has no power_supply sysfs tree.
const DefaultSource = SourcePmset
