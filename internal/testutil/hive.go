// Package testutil builds synthetic hive files for tests. Only the base block
// fields are meaningful; the hive bins region is zero filled.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joshuapare/regfix/internal/format"
)

// HiveSpec describes the header fields of a synthetic hive.
type HiveSpec struct {
	Signature         string
	PrimarySequence   uint32
	SecondarySequence uint32
	LastWriteRaw      uint64
	MajorVersion      uint32
	MinorVersion      uint32
	Type              uint32
	Format            uint32
	RootCellOffset    uint32
	HiveBinsDataSize  uint32
	ClusteringFactor  uint32

	// Checksum is written verbatim when non-nil; otherwise the correct
	// checksum is computed after all other fields are in place.
	Checksum *uint32

	// FileSize overrides the total file length. Zero means
	// HiveDataBase + HiveBinsDataSize.
	FileSize int
}

// HealthySpec returns a spec that validates without issues.
func HealthySpec() HiveSpec {
	return HiveSpec{
		Signature:         "regf",
		PrimarySequence:   7,
		SecondarySequence: 7,
		LastWriteRaw:      132223104000000000,
		MajorVersion:      1,
		MinorVersion:      5,
		Type:              format.REGFTypePrimary,
		Format:            format.REGFFormatDirectMemoryLoad,
		RootCellOffset:    0x20,
		HiveBinsDataSize:  0x1000,
		ClusteringFactor:  1,
	}
}

// Uint32 returns a pointer to v, for HiveSpec.Checksum.
func Uint32(v uint32) *uint32 {
	return &v
}

// Build renders spec into a complete hive image.
func Build(spec HiveSpec) []byte {
	size := spec.FileSize
	if size == 0 {
		size = format.HiveDataBase + int(spec.HiveBinsDataSize)
	}
	data := make([]byte, max(size, format.MinHeaderLen))
	copy(data[format.REGFSignatureOffset:format.REGFSignatureOffset+format.REGFSignatureSize], spec.Signature)
	format.PutU32(data, format.REGFPrimarySeqOffset, spec.PrimarySequence)
	format.PutU32(data, format.REGFSecondarySeqOffset, spec.SecondarySequence)
	format.PutU32(data, format.REGFTimeStampOffset, uint32(spec.LastWriteRaw))
	format.PutU32(data, format.REGFTimeStampOffset+4, uint32(spec.LastWriteRaw>>32))
	format.PutU32(data, format.REGFMajorVersionOffset, spec.MajorVersion)
	format.PutU32(data, format.REGFMinorVersionOffset, spec.MinorVersion)
	format.PutU32(data, format.REGFTypeOffset, spec.Type)
	format.PutU32(data, format.REGFFormatOffset, spec.Format)
	format.PutU32(data, format.REGFRootCellOffset, spec.RootCellOffset)
	format.PutU32(data, format.REGFDataSizeOffset, spec.HiveBinsDataSize)
	format.PutU32(data, format.REGFClusterOffset, spec.ClusteringFactor)

	checksum := format.HeaderChecksum(data)
	if spec.Checksum != nil {
		checksum = *spec.Checksum
	}
	format.PutU32(data, format.REGFCheckSumOffset, checksum)
	return data[:size]
}

// WriteHive writes Build(spec) into a fresh temp dir and returns its path.
func WriteHive(t testing.TB, spec HiveSpec) string {
	t.Helper()
	return WriteBytes(t, "hive.dat", Build(spec))
}

// WriteBytes writes data to name inside a fresh temp dir and returns the path.
func WriteBytes(t testing.TB, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// ReadU32At reads the little-endian dword at off from the file at path.
func ReadU32At(t testing.TB, path string, off int) uint32 {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if off+4 > len(data) {
		t.Fatalf("offset 0x%X beyond %d-byte file", off, len(data))
	}
	return format.ReadU32(data, off)
}
