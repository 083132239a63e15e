package repair

import (
	"github.com/joshuapare/regfix/internal/format"
	"github.com/joshuapare/regfix/internal/mmfile"
	"github.com/joshuapare/regfix/pkg/types"
)

// ReadFileInfo parses the base block of path and derives the measured hive
// bins size and the recomputed checksum. The file is opened read only.
func ReadFileInfo(path string) (types.FileInfo, error) {
	head, size, err := mmfile.ReadHead(path, format.MinHeaderLen)
	if err != nil {
		return types.FileInfo{}, &types.IOError{Op: "read", Path: path, Err: err}
	}
	h, err := format.ParseHeader(head)
	if err != nil {
		return types.FileInfo{}, &types.ParseError{Path: path, Err: err}
	}
	return types.FileInfo{
		Path:                 path,
		Size:                 size,
		Signature:            h.Signature,
		PrimarySequence:      h.PrimarySequence,
		SecondarySequence:    h.SecondarySequence,
		LastWrittenRaw:       h.LastWriteRaw,
		MajorVersion:         h.MajorVersion,
		MinorVersion:         h.MinorVersion,
		FileType:             h.Type,
		FileFormat:           h.Format,
		RootCellOffset:       h.RootCellOffset,
		HiveBinsSize:         h.HiveBinsDataSize,
		MeasuredHiveBinsSize: MeasuredHiveBinsSize(size),
		ClusteringFactor:     h.ClusteringFactor,
		StoredChecksum:       h.StoredChecksum,
		CalculatedChecksum:   format.HeaderChecksum(head),
		FileName:             h.FileName,
	}, nil
}

// Inspect reads path and runs v over the result.
func (v *Validator) Inspect(path string) (*types.AnalysisResult, error) {
	fi, err := ReadFileInfo(path)
	if err != nil {
		return nil, err
	}
	return &types.AnalysisResult{FileInfo: fi, Issues: v.Validate(fi)}, nil
}
