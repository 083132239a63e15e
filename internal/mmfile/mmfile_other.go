//go:build !unix

package mmfile

import (
	"io"
	"os"
)

// ReadHead returns a copy of the first n bytes of the file at path (fewer if
// the file is shorter) together with the file's total size.
func ReadHead(path string, n int) ([]byte, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	size, length, err := headLength(f, n)
	if err != nil {
		return nil, 0, err
	}
	head := make([]byte, length)
	if _, err := io.ReadFull(f, head); err != nil {
		return nil, 0, err
	}
	return head, size, nil
}
