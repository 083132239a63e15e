// Package format houses low-level decoders for the REGF base block, the
// fixed-size header at the start of every Windows registry hive file. Parsing
// is allocation-light and independent from the public API so higher-level
// packages can orchestrate validation and repair on top of it.
package format

// REGFSignature is the four-byte signature at the start of every hive file.
// Layout (little-endian):
//
//	0x00  'r' 'e' 'g' 'f'
var REGFSignature = []byte{'r', 'e', 'g', 'f'}

const (
	// HiveDataBase is where hive data starts (first HBIN), right after the
	// 4 KiB base block. Root cell offsets and the hive bins size are relative
	// to it.
	HiveDataBase = 0x1000

	// MinHeaderLen is the number of leading bytes the header parser needs:
	// everything up to and including the checksum dword.
	MinHeaderLen = REGFCheckSumOffset + 4
)

// ============================================================================
// REGF Header Constants
// ============================================================================

const (
	REGFSignatureOffset    = 0x000 // 4
	REGFSignatureSize      = 4
	REGFPrimarySeqOffset   = 0x004 // Sequence1 (uint32)
	REGFSecondarySeqOffset = 0x008 // Sequence2 (uint32)
	REGFTimeStampOffset    = 0x00C // _LARGE_INTEGER (uint64 LE, Windows FILETIME)
	REGFMajorVersionOffset = 0x014 // uint32
	REGFMinorVersionOffset = 0x018 // uint32
	REGFTypeOffset         = 0x01C // uint32
	REGFFormatOffset       = 0x020 // uint32
	REGFRootCellOffset     = 0x024 // uint32 (HCELL index rel to 0x1000)
	REGFDataSizeOffset     = 0x028 // uint32 (sum of HBIN sizes)
	REGFClusterOffset      = 0x02C // uint32
	REGFFileNameOffset     = 0x030 // [64] byte, UTF-16LE
	REGFFileNameSize       = 64
	REGFCheckSumOffset     = 0x1FC // uint32 (XOR of first 508 bytes)
)

// Header checksum covers the first 508 bytes (0x000..0x1FB), i.e. 127 dwords.
const (
	REGFChecksumRegionLen = 508
	REGFChecksumDwords    = 127
)

// Expected values for the advisory header fields.
const (
	REGFMajorVersion    = 1
	REGFMinMinorVersion = 3
	REGFMaxMinorVersion = 6

	// REGFTypePrimary marks a primary hive file (1 = log/alternate, 2 = volatile).
	REGFTypePrimary = 0
	// REGFFormatDirectMemoryLoad is the only file format Windows writes.
	REGFFormatDirectMemoryLoad = 1
)
