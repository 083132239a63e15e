package repair

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/regfix/pkg/types"
)

// healthyInfo describes a 12 KiB hive whose header is entirely consistent.
func healthyInfo() types.FileInfo {
	return types.FileInfo{
		Path:                 "hive.dat",
		Size:                 4096 + 8192,
		Signature:            "regf",
		PrimarySequence:      5,
		SecondarySequence:    5,
		MajorVersion:         1,
		MinorVersion:         5,
		FileType:             0,
		FileFormat:           1,
		RootCellOffset:       0x20,
		HiveBinsSize:         8192,
		MeasuredHiveBinsSize: 8192,
		ClusteringFactor:     1,
		StoredChecksum:       0x1234,
		CalculatedChecksum:   0x1234,
	}
}

func TestValidator_Healthy(t *testing.T) {
	assert.Empty(t, NewValidator().Validate(healthyInfo()))
}

func TestValidator_RuleOrder(t *testing.T) {
	var names []string
	for _, r := range NewValidator().rules {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{
		"signature", "checksum", "hive-bins-size", "sequence-numbers",
		"root-cell", "version", "file-type", "file-format",
	}, names)
}

func TestValidator_AllRulesFire(t *testing.T) {
	fi := healthyInfo()
	fi.Signature = "xxxx"
	fi.StoredChecksum = 0
	fi.HiveBinsSize = 4096
	fi.SecondarySequence = 3
	fi.RootCellOffset = 0x10000
	fi.MajorVersion = 2
	fi.FileType = 1
	fi.FileFormat = 0

	issues := NewValidator().Validate(fi)
	require.Len(t, issues, 8, "no rule may short-circuit another")

	want := []struct {
		sev     types.Severity
		prefix  string
		fixType types.FixType
	}{
		{types.SevCritical, "Invalid signature", 0},
		{types.SevCritical, "Header checksum mismatch", types.FixChecksum},
		{types.SevWarning, "Hive bins size mismatch", types.FixHiveBinsSize},
		{types.SevWarning, "Sequence numbers do not match", types.FixSequenceNumbers},
		{types.SevCritical, "Root cell offset out of bounds", 0},
		{types.SevWarning, "Unsupported hive version", 0},
		{types.SevWarning, "Unexpected file type", 0},
		{types.SevWarning, "Unexpected file format", 0},
	}
	for i, w := range want {
		is := issues[i]
		assert.Equal(t, w.sev, is.Severity, "issue %d", i)
		assert.True(t, strings.HasPrefix(is.Message, w.prefix), "issue %d: %q", i, is.Message)
		ft, ok := is.FixType()
		if w.fixType == 0 {
			assert.False(t, ok, "issue %d should not be fixable", i)
		} else {
			assert.Equal(t, w.fixType, ft, "issue %d", i)
		}
	}

	assert.Equal(t, types.ChecksumFix{Checksum: 0x1234}, issues[1].Fix)
	assert.Equal(t, types.HiveBinsSizeFix{Size: 8192}, issues[2].Fix)
	assert.Equal(t, types.SequenceNumbersFix{Primary: 5, Secondary: 5}, issues[3].Fix)
	assert.Equal(t, "Stored: 0x00000000, Calculated: 0x00001234", issues[1].Details)
}

func TestValidator_HiveBinsBoundary(t *testing.T) {
	tests := []struct {
		name      string
		fileSize  int64
		wantIssue bool
	}{
		{"exact", 4096 + 8192, false},
		{"one byte short", 4096 + 8192 - 1, true},
		{"one byte long", 4096 + 8192 + 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fi := healthyInfo()
			fi.Size = tt.fileSize
			fi.MeasuredHiveBinsSize = MeasuredHiveBinsSize(tt.fileSize)
			issue, ok := checkHiveBinsSize(fi)
			assert.Equal(t, tt.wantIssue, ok)
			if ok {
				assert.Equal(t, types.HiveBinsSizeFix{Size: uint32(tt.fileSize - 4096)}, issue.Fix)
			}
		})
	}
}

func TestMeasuredHiveBinsSize(t *testing.T) {
	assert.Equal(t, uint32(0), MeasuredHiveBinsSize(512))
	assert.Equal(t, uint32(0), MeasuredHiveBinsSize(4096))
	assert.Equal(t, uint32(1), MeasuredHiveBinsSize(4097))
	assert.Equal(t, ^uint32(0), MeasuredHiveBinsSize(1<<40))
}

func TestValidator_RootCellBoundary(t *testing.T) {
	fi := healthyInfo()

	fi.RootCellOffset = uint32(fi.Size - 4096 - 1)
	_, ok := checkRootCell(fi)
	assert.False(t, ok, "last byte of the file is in bounds")

	fi.RootCellOffset = uint32(fi.Size - 4096)
	issue, ok := checkRootCell(fi)
	require.True(t, ok, "base + offset == size is out of bounds")
	assert.Equal(t, types.SevCritical, issue.Severity)
	assert.False(t, issue.Fixable())

	fi.RootCellOffset = 0xFFFFFFFF
	_, ok = checkRootCell(fi)
	assert.True(t, ok, "offset near uint32 max must not wrap")
}

func TestValidator_Version(t *testing.T) {
	tests := []struct {
		major, minor uint32
		wantIssue    bool
	}{
		{1, 2, true},
		{1, 3, false},
		{1, 6, false},
		{1, 7, true},
		{0, 5, true},
		{2, 5, true},
	}
	for _, tt := range tests {
		fi := healthyInfo()
		fi.MajorVersion, fi.MinorVersion = tt.major, tt.minor
		_, ok := checkVersion(fi)
		assert.Equal(t, tt.wantIssue, ok, "version %d.%d", tt.major, tt.minor)
	}
}

func TestValidator_SignatureOnly(t *testing.T) {
	fi := healthyInfo()
	fi.Signature = "xxxx"
	issues := NewValidator().Validate(fi)
	require.Len(t, issues, 1)
	assert.Equal(t, types.SevCritical, issues[0].Severity)
	assert.False(t, issues[0].Fixable())
	assert.Equal(t, "Invalid signature: expected 'regf', found 'xxxx'", issues[0].Message)
}
