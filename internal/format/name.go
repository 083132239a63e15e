package format

import (
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// DecodeFileName converts the UTF-16LE file name embedded in the base block
// (0x30, 64 bytes) into UTF-8. The field is informational; undecodable or
// empty names yield "".
func DecodeFileName(raw []byte) string {
	end := len(raw) &^ 1
	for i := 0; i+1 < len(raw); i += 2 {
		if raw[i] == 0 && raw[i+1] == 0 {
			end = i
			break
		}
	}
	if end == 0 {
		return ""
	}
	decoded, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(raw[:end])
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(decoded))
}
