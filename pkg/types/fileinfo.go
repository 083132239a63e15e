package types

import (
	"time"

	"github.com/joshuapare/regfix/internal/format"
)

// FileInfo is a snapshot of every parsed and derived header field of one
// hive file, taken at analysis time.
type FileInfo struct {
	Path                 string `json:"path"`
	Size                 int64  `json:"size"`
	Signature            string `json:"signature"`
	PrimarySequence      uint32 `json:"primary_sequence"`
	SecondarySequence    uint32 `json:"secondary_sequence"`
	LastWrittenRaw       uint64 `json:"last_written"`
	MajorVersion         uint32 `json:"major_version"`
	MinorVersion         uint32 `json:"minor_version"`
	FileType             uint32 `json:"file_type"`
	FileFormat           uint32 `json:"file_format"`
	RootCellOffset       uint32 `json:"root_cell_offset"`
	HiveBinsSize         uint32 `json:"hive_bins_size"`
	MeasuredHiveBinsSize uint32 `json:"measured_hive_bins_size"`
	ClusteringFactor     uint32 `json:"clustering_factor"`
	StoredChecksum       uint32 `json:"stored_checksum"`
	CalculatedChecksum   uint32 `json:"calculated_checksum"`
	FileName             string `json:"file_name,omitempty"`
}

// LastWritten converts the raw FILETIME to UTC.
func (fi FileInfo) LastWritten() time.Time {
	return format.FiletimeToTime(fi.LastWrittenRaw)
}

// FileTypeName describes the file type field.
func (fi FileInfo) FileTypeName() string {
	switch fi.FileType {
	case 0:
		return "Primary File"
	case 1:
		return "Log/Backup File"
	case 2:
		return "Volatile (Memory-based)"
	default:
		return "Unknown Type"
	}
}

// FileFormatName describes the file format field.
func (fi FileInfo) FileFormatName() string {
	if fi.FileFormat == format.REGFFormatDirectMemoryLoad {
		return "Direct Memory Load"
	}
	return "Unknown Format"
}
