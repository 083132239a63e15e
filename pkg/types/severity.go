package types

import "fmt"

// Severity classifies how serious a validation issue is.
type Severity int

const (
	SevWarning  Severity = iota // Should be reviewed; the hive is probably usable
	SevCritical                 // Stop using this file until it is repaired
)

func (s Severity) String() string {
	switch s {
	case SevWarning:
		return "WARNING"
	case SevCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(b []byte) error {
	switch string(b) {
	case "WARNING":
		*s = SevWarning
	case "CRITICAL":
		*s = SevCritical
	default:
		return fmt.Errorf("unknown severity %q", b)
	}
	return nil
}
