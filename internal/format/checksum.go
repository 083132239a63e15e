package format

const (
	// dwordBitShift converts a dword index to a byte offset (i << 2 == i * 4).
	dwordBitShift = 2

	regfChecksumAllOnes             = 0xFFFFFFFF
	regfChecksumAllOnesReplacement  = 0xFFFFFFFE
	regfChecksumAllZeros            = 0x00000000
	regfChecksumAllZerosReplacement = 0x00000001
)

// HeaderChecksum computes the XOR checksum over the 127 dwords (508 bytes)
// preceding the checksum field. Then:
//
//	if xor==0xFFFFFFFF -> 0xFFFFFFFE
//	if xor==0x00000000 -> 0x00000001
//
// b must hold at least REGFChecksumRegionLen bytes; b is never modified.
func HeaderChecksum(b []byte) uint32 {
	return remapChecksum(rawXOR(b))
}

func rawXOR(b []byte) uint32 {
	var xor uint32
	for i := range REGFChecksumDwords {
		xor ^= ReadU32(b, i<<dwordBitShift)
	}
	return xor
}

func remapChecksum(xor uint32) uint32 {
	switch xor {
	case regfChecksumAllOnes:
		return regfChecksumAllOnesReplacement
	case regfChecksumAllZeros:
		return regfChecksumAllZerosReplacement
	default:
		return xor
	}
}
