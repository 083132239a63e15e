//go:build !linux && !freebsd

package repair

import "os"

// syncFile flushes patched bytes to disk.
func syncFile(f *os.File) error {
	return f.Sync()
}
