package mmfile

import (
	"fmt"
	"os"
)

// headLength stats f and returns its size and the number of leading bytes to
// read, capped at n.
func headLength(f *os.File, n int) (int64, int, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, 0, err
	}
	if !info.Mode().IsRegular() {
		return 0, 0, fmt.Errorf("mmfile: %s is not a regular file", f.Name())
	}
	size := info.Size()
	return size, int(min(int64(max(n, 0)), size)), nil
}
