package types

import (
	"encoding/json"
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFixType(t *testing.T) {
	tests := []struct {
		in   string
		want FixType
	}{
		{"checksum", FixChecksum},
		{"Hive-Bins-Size", FixHiveBinsSize},
		{"sequence_numbers", FixSequenceNumbers},
		{" checksum ", FixChecksum},
	}
	for _, tt := range tests {
		got, err := ParseFixType(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseFixType("root-cell")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown fix type")
}

func TestFixTypeStructural(t *testing.T) {
	assert.True(t, FixHiveBinsSize.Structural())
	assert.True(t, FixSequenceNumbers.Structural())
	assert.False(t, FixChecksum.Structural())
	assert.False(t, FixType(0).Valid())
	assert.Equal(t, "FixType(42)", FixType(42).String())
}

func TestFixPayloadMatchesType(t *testing.T) {
	fixes := []Fix{
		HiveBinsSizeFix{Size: 8192},
		ChecksumFix{Checksum: 0xABCD},
		SequenceNumbersFix{Primary: 5, Secondary: 5},
	}
	want := []FixType{FixHiveBinsSize, FixChecksum, FixSequenceNumbers}
	for i, f := range fixes {
		assert.Equal(t, want[i], f.Type())
		assert.NotEmpty(t, f.String())
	}
}

func TestAnalysisResultHelpers(t *testing.T) {
	res := &AnalysisResult{Issues: []Issue{
		{Severity: SevCritical, Message: "Invalid signature"},
		{Severity: SevCritical, Message: "Header checksum mismatch", Fix: ChecksumFix{Checksum: 7}},
		{Severity: SevWarning, Message: "Sequence numbers do not match", Fix: SequenceNumbersFix{Primary: 5, Secondary: 5}},
		{Severity: SevWarning, Message: "Unsupported file type"},
	}}

	assert.True(t, res.HasCritical())
	assert.Equal(t, 2, res.Count(SevCritical))
	assert.Equal(t, 2, res.Count(SevWarning))
	assert.Equal(t, []FixType{FixChecksum, FixSequenceNumbers}, res.FixTypes())

	fix, ok := res.FixFor(FixSequenceNumbers)
	require.True(t, ok)
	assert.Equal(t, SequenceNumbersFix{Primary: 5, Secondary: 5}, fix)

	_, ok = res.FixFor(FixHiveBinsSize)
	assert.False(t, ok)

	var nilResult *AnalysisResult
	_, ok = nilResult.FixFor(FixChecksum)
	assert.False(t, ok)
}

func TestIssueJSON(t *testing.T) {
	in := Issue{
		Severity: SevWarning,
		Message:  "Sequence numbers do not match",
		Details:  "Primary: 5, Secondary: 3",
		Fix:      SequenceNumbersFix{Primary: 5, Secondary: 5},
	}
	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"severity": "WARNING",
		"message": "Sequence numbers do not match",
		"details": "Primary: 5, Secondary: 3",
		"fix": {"type": "sequence-numbers", "primary": 5, "secondary": 5}
	}`, string(b))

	var out Issue
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out)

	b, err = json.Marshal(Issue{Severity: SevCritical, Message: "Invalid signature"})
	require.NoError(t, err)
	assert.NotContains(t, string(b), `"fix"`)

	err = json.Unmarshal([]byte(`{"severity":"WARNING","message":"x","fix":{"type":"checksum"}}`), &out)
	assert.Error(t, err, "checksum fix without a value must not decode")
}

func TestErrorKinds(t *testing.T) {
	ioErr := &IOError{Op: "open", Path: "/tmp/SYSTEM", Err: fs.ErrNotExist}
	assert.True(t, errors.Is(ioErr, ErrIO))
	assert.True(t, errors.Is(ioErr, fs.ErrNotExist))
	assert.False(t, errors.Is(ioErr, ErrParse))
	assert.Equal(t, "open /tmp/SYSTEM: file does not exist", ioErr.Error())

	parseErr := &ParseError{Path: "SYSTEM", Err: errors.New("truncated")}
	assert.True(t, errors.Is(parseErr, ErrParse))
	assert.False(t, errors.Is(parseErr, ErrIO))
}

func TestFixResultChanged(t *testing.T) {
	var nilResult *FixResult
	assert.False(t, nilResult.Changed())
	assert.False(t, (&FixResult{Skipped: []FixType{FixChecksum}}).Changed())
	assert.True(t, (&FixResult{Applied: []FixType{FixChecksum}}).Changed())
}
