package repair

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// BackupSuffix is appended to a hive path to name its pre-fix backup.
const BackupSuffix = ".backup"

// BackupPath returns the backup file name for path.
func BackupPath(path string) string {
	return path + BackupSuffix
}

// Writer provides atomic whole-file operations for backups. Writes use the
// temp-file-then-rename pattern so the destination is either the complete
// new content or untouched.
type Writer struct{}

// NewWriter creates a new writer.
func NewWriter() *Writer {
	return &Writer{}
}

// CreateBackup copies path verbatim to BackupPath(path), replacing any older
// backup. The copy is verified by size before it is reported.
func (w *Writer) CreateBackup(path string) (string, error) {
	backupPath := BackupPath(path)
	if err := w.CopyFile(path, backupPath); err != nil {
		return "", err
	}
	return backupPath, nil
}

// RestoreBackup atomically replaces path with the contents of its backup.
func (w *Writer) RestoreBackup(path string) error {
	backupPath := BackupPath(path)
	if _, err := os.Stat(backupPath); err != nil {
		return fmt.Errorf("backup file not found: %w", err)
	}
	return w.CopyFile(backupPath, path)
}

// CopyFile copies src to dst atomically, preserving src's permission bits.
func (w *Writer) CopyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source file: %w", err)
	}
	defer srcFile.Close()

	stat, err := srcFile.Stat()
	if err != nil {
		return fmt.Errorf("stat source file: %w", err)
	}

	if err := w.writeAtomic(dst, srcFile, stat.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	return verifyCopy(dst, stat.Size())
}

// writeAtomic streams r into a temp file next to path, fsyncs it and renames
// it over path. On failure the temp file is removed and path is unchanged.
func (w *Writer) writeAtomic(path string, r io.Reader, perm os.FileMode) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving absolute path: %w", err)
	}
	dir := filepath.Dir(absPath)

	// Same directory keeps the rename on one filesystem.
	tmpFile, err := os.CreateTemp(dir, ".regfix-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	cleanup := func() {
		tmpFile.Close()
		os.Remove(tmpPath)
	}

	if _, err := io.Copy(tmpFile, r); err != nil {
		cleanup()
		return fmt.Errorf("writing to temp file: %w", err)
	}
	if err := tmpFile.Chmod(perm); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	// Close before rename (required on Windows)
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, absPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	// The data is already in place; a failed directory sync only weakens
	// crash consistency of the rename.
	_ = syncDir(dir)
	return nil
}

// syncDir fsyncs a directory so a completed rename survives a crash.
func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("opening directory: %w", err)
	}
	defer d.Close()
	return d.Sync()
}

// verifyCopy checks that path exists with the expected size.
func verifyCopy(path string, expectedSize int64) error {
	stat, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("copy not found: %w", err)
	}
	if stat.Size() != expectedSize {
		return fmt.Errorf("copy size mismatch: expected %d, got %d", expectedSize, stat.Size())
	}
	return nil
}
