package repair

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriter_CreateBackup(t *testing.T) {
	writer := NewWriter()
	dir := t.TempDir()
	sourcePath := filepath.Join(dir, "SYSTEM")

	sourceData := []byte("source data for backup")
	if err := os.WriteFile(sourcePath, sourceData, 0o640); err != nil {
		t.Fatalf("failed to create source file: %v", err)
	}

	backupPath, err := writer.CreateBackup(sourcePath)
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if backupPath != sourcePath+".backup" {
		t.Errorf("backup path = %s, want %s.backup", backupPath, sourcePath)
	}

	got, err := os.ReadFile(backupPath)
	if err != nil {
		t.Fatalf("failed to read backup: %v", err)
	}
	if string(got) != string(sourceData) {
		t.Errorf("backup content mismatch\nexpected: %q\ngot:      %q", sourceData, got)
	}

	stat, err := os.Stat(backupPath)
	if err != nil {
		t.Fatalf("stat backup: %v", err)
	}
	if stat.Mode().Perm() != 0o640 {
		t.Errorf("backup mode = %v, want 0640", stat.Mode().Perm())
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestWriter_CreateBackup_ReplacesOld(t *testing.T) {
	writer := NewWriter()
	sourcePath := filepath.Join(t.TempDir(), "SAM")
	if err := os.WriteFile(sourcePath, []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(BackupPath(sourcePath), []byte("stale backup content"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := writer.CreateBackup(sourcePath); err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	got, _ := os.ReadFile(BackupPath(sourcePath))
	if string(got) != "new" {
		t.Errorf("backup not replaced: %q", got)
	}
}

func TestWriter_CreateBackup_MissingSource(t *testing.T) {
	writer := NewWriter()
	sourcePath := filepath.Join(t.TempDir(), "missing")
	if _, err := writer.CreateBackup(sourcePath); err == nil {
		t.Fatal("expected error for missing source")
	}
	if _, err := os.Stat(BackupPath(sourcePath)); !os.IsNotExist(err) {
		t.Errorf("no backup should exist, stat err = %v", err)
	}
}

func TestWriter_RestoreBackup(t *testing.T) {
	writer := NewWriter()
	sourcePath := filepath.Join(t.TempDir(), "SOFTWARE")
	if err := os.WriteFile(sourcePath, []byte("original"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := writer.CreateBackup(sourcePath); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(sourcePath, []byte("patched!"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := writer.RestoreBackup(sourcePath); err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}
	got, _ := os.ReadFile(sourcePath)
	if string(got) != "original" {
		t.Errorf("restored content = %q, want %q", got, "original")
	}

	if err := writer.RestoreBackup(filepath.Join(t.TempDir(), "nobackup")); err == nil {
		t.Error("expected error when backup is missing")
	}
}
