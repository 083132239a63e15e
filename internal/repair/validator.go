package repair

import (
	"fmt"

	"github.com/joshuapare/regfix/internal/format"
	"github.com/joshuapare/regfix/pkg/types"
)

// Rule is one header check. Check returns ok=false when the field is fine.
type Rule struct {
	Name  string
	Check func(fi types.FileInfo) (issue types.Issue, ok bool)
}

// Validator runs its rules in order over a FileInfo. Rule order is report
// order.
type Validator struct {
	rules []Rule
}

// NewValidator creates a validator with the standard REGF header rules.
func NewValidator() *Validator {
	return &Validator{rules: DefaultRules()}
}

// DefaultRules returns the header rules in report order.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "signature", Check: checkSignature},
		{Name: "checksum", Check: checkChecksum},
		{Name: "hive-bins-size", Check: checkHiveBinsSize},
		{Name: "sequence-numbers", Check: checkSequenceNumbers},
		{Name: "root-cell", Check: checkRootCell},
		{Name: "version", Check: checkVersion},
		{Name: "file-type", Check: checkFileType},
		{Name: "file-format", Check: checkFileFormat},
	}
}

// Validate runs every rule and collects the issues they raise.
func (v *Validator) Validate(fi types.FileInfo) []types.Issue {
	issues := make([]types.Issue, 0, len(v.rules))
	for _, r := range v.rules {
		if issue, ok := r.Check(fi); ok {
			issues = append(issues, issue)
		}
	}
	return issues
}

// MeasuredHiveBinsSize is the hive bins size implied by the file length:
// everything past the 4 KiB base block. Files shorter than the base block
// measure as zero.
func MeasuredHiveBinsSize(fileSize int64) uint32 {
	if fileSize <= format.HiveDataBase {
		return 0
	}
	return uint32(min(fileSize-format.HiveDataBase, int64(^uint32(0))))
}

func checkSignature(fi types.FileInfo) (types.Issue, bool) {
	if format.ValidSignature(fi.Signature) {
		return types.Issue{}, false
	}
	return types.Issue{
		Severity: types.SevCritical,
		Message:  fmt.Sprintf("Invalid signature: expected 'regf', found '%s'", fi.Signature),
		Details:  "The registry file signature is invalid, indicating severe corruption",
	}, true
}

func checkChecksum(fi types.FileInfo) (types.Issue, bool) {
	if fi.StoredChecksum == fi.CalculatedChecksum {
		return types.Issue{}, false
	}
	return types.Issue{
		Severity: types.SevCritical,
		Message:  "Header checksum mismatch",
		Details:  fmt.Sprintf("Stored: 0x%08X, Calculated: 0x%08X", fi.StoredChecksum, fi.CalculatedChecksum),
		Fix:      types.ChecksumFix{Checksum: fi.CalculatedChecksum},
	}, true
}

func checkHiveBinsSize(fi types.FileInfo) (types.Issue, bool) {
	if fi.HiveBinsSize == fi.MeasuredHiveBinsSize {
		return types.Issue{}, false
	}
	return types.Issue{
		Severity: types.SevWarning,
		Message:  "Hive bins size mismatch",
		Details:  fmt.Sprintf("Stored: %d bytes, Measured: %d bytes", fi.HiveBinsSize, fi.MeasuredHiveBinsSize),
		Fix:      types.HiveBinsSizeFix{Size: fi.MeasuredHiveBinsSize},
	}, true
}

func checkSequenceNumbers(fi types.FileInfo) (types.Issue, bool) {
	if fi.PrimarySequence == fi.SecondarySequence {
		return types.Issue{}, false
	}
	return types.Issue{
		Severity: types.SevWarning,
		Message:  "Sequence numbers do not match",
		Details: fmt.Sprintf(
			"Primary: %d, Secondary: %d. This may indicate an incomplete write operation.",
			fi.PrimarySequence, fi.SecondarySequence,
		),
		Fix: types.SequenceNumbersFix{Primary: fi.PrimarySequence, Secondary: fi.PrimarySequence},
	}, true
}

func checkRootCell(fi types.FileInfo) (types.Issue, bool) {
	// 64-bit arithmetic: base + offset cannot wrap.
	abs := int64(format.HiveDataBase) + int64(fi.RootCellOffset)
	if abs < fi.Size {
		return types.Issue{}, false
	}
	return types.Issue{
		Severity: types.SevCritical,
		Message:  "Root cell offset out of bounds",
		Details: fmt.Sprintf(
			"Root cell offset 0x%X (file offset 0x%X) is beyond the end of the %d-byte file",
			fi.RootCellOffset, abs, fi.Size,
		),
	}, true
}

func checkVersion(fi types.FileInfo) (types.Issue, bool) {
	if fi.MajorVersion == format.REGFMajorVersion &&
		fi.MinorVersion >= format.REGFMinMinorVersion &&
		fi.MinorVersion <= format.REGFMaxMinorVersion {
		return types.Issue{}, false
	}
	return types.Issue{
		Severity: types.SevWarning,
		Message:  fmt.Sprintf("Unsupported hive version %d.%d", fi.MajorVersion, fi.MinorVersion),
		Details: fmt.Sprintf("Expected major version %d with minor version %d to %d",
			format.REGFMajorVersion, format.REGFMinMinorVersion, format.REGFMaxMinorVersion),
	}, true
}

func checkFileType(fi types.FileInfo) (types.Issue, bool) {
	if fi.FileType == format.REGFTypePrimary {
		return types.Issue{}, false
	}
	return types.Issue{
		Severity: types.SevWarning,
		Message:  fmt.Sprintf("Unexpected file type %d (%s)", fi.FileType, fi.FileTypeName()),
		Details:  "Expected 0 (primary file); log and volatile hives are not primary registry files",
	}, true
}

func checkFileFormat(fi types.FileInfo) (types.Issue, bool) {
	if fi.FileFormat == format.REGFFormatDirectMemoryLoad {
		return types.Issue{}, false
	}
	return types.Issue{
		Severity: types.SevWarning,
		Message:  fmt.Sprintf("Unexpected file format %d (%s)", fi.FileFormat, fi.FileFormatName()),
		Details:  "Expected 1 (direct memory load)",
	}, true
}
