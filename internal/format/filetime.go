package format

import "time"

const (
	filetimeTicksPerSecond = 10_000_000
	// filetimeEpochDelta is the number of seconds between 1601-01-01 and 1970-01-01.
	filetimeEpochDelta = 11_644_473_600
)

// FiletimeToTime converts a raw Windows FILETIME (100ns ticks since
// 1601-01-01 UTC) into a UTC time.Time. Zero maps to 1601-01-01.
func FiletimeToTime(v uint64) time.Time {
	sec := int64(v/filetimeTicksPerSecond) - filetimeEpochDelta
	nsec := int64(v%filetimeTicksPerSecond) * 100
	return time.Unix(sec, nsec).UTC()
}
