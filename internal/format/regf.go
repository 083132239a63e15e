package format

import (
	"fmt"
	"unicode/utf8"
)

// Header captures the REGF base block fields the analyzer inspects. The
// diagram below highlights the offsets we care about.
//
//	Offset  Size  Description
//	------  ----  ----------------------------------------------------------
//	 0x000   4    'r' 'e' 'g' 'f'
//	 0x004   4    Primary sequence number
//	 0x008   4    Secondary sequence number
//	 0x00C   8    Last write timestamp (FILETIME)
//	 0x014   4    Major version
//	 0x018   4    Minor version
//	 0x01C   4    Type (0 = primary, 1 = alternate)
//	 0x020   4    Format (1 = direct memory load)
//	 0x024   4    Offset (relative to first HBIN) of the root cell (NK)
//	 0x028   4    Total size of HBIN data
//	 0x02C   4    Clustering factor (rarely used)
//	 0x030  64    Embedded file name (UTF-16LE, informational)
//	 0x1FC   4    Checksum of 0x000..0x1FB
//
// Windows stores the header in little-endian form.
type Header struct {
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
	FileName          string
	StoredChecksum    uint32
}

// ParseHeader extracts the header fields from the first MinHeaderLen bytes of
// b. A signature other than "regf" is not an error here; it only has to be
// valid text so it can be reported.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < MinHeaderLen {
		return Header{}, fmt.Errorf("regf header: %w (have %d bytes, need %d)", ErrTruncated, len(b), MinHeaderLen)
	}
	sig := b[REGFSignatureOffset : REGFSignatureOffset+REGFSignatureSize]
	if !utf8.Valid(sig) {
		return Header{}, fmt.Errorf("regf header: %w (% X)", ErrInvalidSignature, sig)
	}
	return Header{
		Signature:         string(sig),
		PrimarySequence:   ReadU32(b, REGFPrimarySeqOffset),
		SecondarySequence: ReadU32(b, REGFSecondarySeqOffset),
		LastWriteRaw:      ReadU64(b, REGFTimeStampOffset),
		MajorVersion:      ReadU32(b, REGFMajorVersionOffset),
		MinorVersion:      ReadU32(b, REGFMinorVersionOffset),
		Type:              ReadU32(b, REGFTypeOffset),
		Format:            ReadU32(b, REGFFormatOffset),
		RootCellOffset:    ReadU32(b, REGFRootCellOffset),
		HiveBinsDataSize:  ReadU32(b, REGFDataSizeOffset),
		ClusteringFactor:  ReadU32(b, REGFClusterOffset),
		FileName:          DecodeFileName(b[REGFFileNameOffset : REGFFileNameOffset+REGFFileNameSize]),
		StoredChecksum:    ReadU32(b, REGFCheckSumOffset),
	}, nil
}

// ValidSignature reports whether sig is the "regf" hive signature.
func ValidSignature(sig string) bool {
	return sig == string(REGFSignature)
}
