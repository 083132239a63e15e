package types

import (
	"fmt"
	"strings"
)

// FixType names a remediable class of header field. The set is closed: a new
// kind of fix needs a new constant and a matching Fix implementation.
type FixType int

const (
	FixHiveBinsSize FixType = iota + 1
	FixChecksum
	FixSequenceNumbers
)

var fixTypeNames = map[FixType]string{
	FixHiveBinsSize:    "hive-bins-size",
	FixChecksum:        "checksum",
	FixSequenceNumbers: "sequence-numbers",
}

// AllFixTypes lists every fix type in validation report order.
func AllFixTypes() []FixType {
	return []FixType{FixChecksum, FixHiveBinsSize, FixSequenceNumbers}
}

func (t FixType) String() string {
	if name, ok := fixTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("FixType(%d)", int(t))
}

// Valid reports whether t is one of the declared fix types.
func (t FixType) Valid() bool {
	_, ok := fixTypeNames[t]
	return ok
}

// Structural reports whether the fix rewrites a field inside the checksummed
// region [0, 508), which invalidates the stored checksum.
func (t FixType) Structural() bool {
	return t == FixHiveBinsSize || t == FixSequenceNumbers
}

// MarshalText implements encoding.TextMarshaler.
func (t FixType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid fix type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *FixType) UnmarshalText(b []byte) error {
	parsed, err := ParseFixType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseFixType accepts the canonical names ("checksum", "hive-bins-size",
// "sequence-numbers"), case-insensitively, with '_' allowed for '-'.
func ParseFixType(s string) (FixType, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for t, name := range fixTypeNames {
		if name == norm {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown fix type %q (use: checksum, hive-bins-size, sequence-numbers)", s)
}

// Fix is a proposed header patch. Each implementation carries exactly the
// payload its FixType needs, so a kind/payload mismatch cannot be expressed.
// The interface is sealed; only this package declares implementations.
type Fix interface {
	Type() FixType
	String() string
	sealed()
}

// HiveBinsSizeFix rewrites the hive bins size at offset 0x28.
type HiveBinsSizeFix struct {
	Size uint32
}

// ChecksumFix rewrites the header checksum at offset 0x1FC.
type ChecksumFix struct {
	Checksum uint32
}

// SequenceNumbersFix rewrites the primary (0x04) and secondary (0x08)
// sequence numbers.
type SequenceNumbersFix struct {
	Primary   uint32
	Secondary uint32
}

func (HiveBinsSizeFix) Type() FixType    { return FixHiveBinsSize }
func (ChecksumFix) Type() FixType        { return FixChecksum }
func (SequenceNumbersFix) Type() FixType { return FixSequenceNumbers }

func (f HiveBinsSizeFix) String() string {
	return fmt.Sprintf("set hive bins size to %d bytes", f.Size)
}

func (f ChecksumFix) String() string {
	return fmt.Sprintf("set header checksum to 0x%08X", f.Checksum)
}

func (f SequenceNumbersFix) String() string {
	return fmt.Sprintf("set sequence numbers to %d/%d", f.Primary, f.Secondary)
}

func (HiveBinsSizeFix) sealed()    {}
func (ChecksumFix) sealed()        {}
func (SequenceNumbersFix) sealed() {}

// fixJSON is the wire shape of a Fix.
type fixJSON struct {
	Type      FixType `json:"type"`
	Size      *uint32 `json:"size,omitempty"`
	Checksum  *uint32 `json:"checksum,omitempty"`
	Primary   *uint32 `json:"primary,omitempty"`
	Secondary *uint32 `json:"secondary,omitempty"`
}

func encodeFix(f Fix) *fixJSON {
	switch v := f.(type) {
	case HiveBinsSizeFix:
		return &fixJSON{Type: FixHiveBinsSize, Size: &v.Size}
	case ChecksumFix:
		return &fixJSON{Type: FixChecksum, Checksum: &v.Checksum}
	case SequenceNumbersFix:
		return &fixJSON{Type: FixSequenceNumbers, Primary: &v.Primary, Secondary: &v.Secondary}
	default:
		return nil
	}
}

func decodeFix(j *fixJSON) (Fix, error) {
	if j == nil {
		return nil, nil
	}
	switch j.Type {
	case FixHiveBinsSize:
		if j.Size == nil {
			return nil, fmt.Errorf("fix %s: missing size", j.Type)
		}
		return HiveBinsSizeFix{Size: *j.Size}, nil
	case FixChecksum:
		if j.Checksum == nil {
			return nil, fmt.Errorf("fix %s: missing checksum", j.Type)
		}
		return ChecksumFix{Checksum: *j.Checksum}, nil
	case FixSequenceNumbers:
		if j.Primary == nil || j.Secondary == nil {
			return nil, fmt.Errorf("fix %s: missing sequence numbers", j.Type)
		}
		return SequenceNumbersFix{Primary: *j.Primary, Secondary: *j.Secondary}, nil
	default:
		return nil, fmt.Errorf("invalid fix type %d", int(j.Type))
	}
}
