//go:build unix

package mmfile

import (
	"bytes"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// ReadHead returns a copy of the first n bytes of the file at path (fewer if
// the file is shorter) together with the file's total size.
func ReadHead(path string, n int) ([]byte, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close() // safe before return; the mapping is released below

	size, length, err := headLength(f, n)
	if err != nil {
		return nil, 0, err
	}
	if length == 0 {
		return []byte{}, size, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, length, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, 0, fmt.Errorf("mmfile: mmap %s: %w", path, err)
	}
	head := bytes.Clone(data)
	if err := unix.Munmap(data); err != nil {
		return nil, 0, fmt.Errorf("mmfile: munmap %s: %w", path, err)
	}
	return head, size, nil
}
