package repair

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joshuapare/regfix/internal/format"
	"github.com/joshuapare/regfix/pkg/types"
)

// fieldWrite is one 4-byte little-endian store into the header.
type fieldWrite struct {
	name   string
	offset int
	value  uint32
}

// Patcher writes individual header fields in place. Each call opens the file,
// seeks to the field and writes exactly four bytes per field; nothing else in
// the file is touched. Writing the same value twice leaves the same bytes.
type Patcher struct {
	logger *slog.Logger
}

// NewPatcher creates a patcher. A nil logger discards output.
func NewPatcher(logger *slog.Logger) *Patcher {
	if logger == nil {
		logger = discardLogger()
	}
	return &Patcher{logger: logger}
}

// WriteHiveBinsSize stores size at 0x28.
func (p *Patcher) WriteHiveBinsSize(path string, size uint32) error {
	return p.write(path, fieldWrite{"hive bins size", format.REGFDataSizeOffset, size})
}

// WriteSequenceNumbers stores primary at 0x04 and secondary at 0x08.
func (p *Patcher) WriteSequenceNumbers(path string, primary, secondary uint32) error {
	return p.write(path,
		fieldWrite{"primary sequence number", format.REGFPrimarySeqOffset, primary},
		fieldWrite{"secondary sequence number", format.REGFSecondarySeqOffset, secondary},
	)
}

// WriteChecksum stores checksum at 0x1FC.
func (p *Patcher) WriteChecksum(path string, checksum uint32) error {
	return p.write(path, fieldWrite{"checksum", format.REGFCheckSumOffset, checksum})
}

// Apply writes fix and reports whether it touched the checksummed region.
func (p *Patcher) Apply(path string, fix types.Fix) (structural bool, err error) {
	switch f := fix.(type) {
	case types.HiveBinsSizeFix:
		err = p.WriteHiveBinsSize(path, f.Size)
	case types.SequenceNumbersFix:
		err = p.WriteSequenceNumbers(path, f.Primary, f.Secondary)
	case types.ChecksumFix:
		err = p.WriteChecksum(path, f.Checksum)
	default:
		return false, fmt.Errorf("unsupported fix %T", fix)
	}
	if err != nil {
		return false, err
	}
	return fix.Type().Structural(), nil
}

func (p *Patcher) write(path string, writes ...fieldWrite) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return &types.IOError{Op: "open", Path: path, Err: err}
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = &types.IOError{Op: "close", Path: path, Err: closeErr}
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return &types.IOError{Op: "stat", Path: path, Err: err}
	}

	for _, w := range writes {
		if int64(w.offset)+4 > info.Size() {
			return p.fail(path, w, ErrBeyondEOF)
		}
		if _, err := f.Seek(int64(w.offset), io.SeekStart); err != nil {
			return p.fail(path, w, err)
		}
		b := format.U32Bytes(w.value)
		n, err := f.Write(b[:])
		if err == nil && n != len(b) {
			err = io.ErrShortWrite
		}
		if err != nil {
			return p.fail(path, w, err)
		}
		p.logger.Debug("patched header field",
			"path", path, "field", w.name, "offset", w.offset, "value", w.value)
	}

	if err := syncFile(f); err != nil {
		return &types.IOError{Op: "sync", Path: path, Err: err}
	}
	return nil
}

func (p *Patcher) fail(path string, w fieldWrite, err error) error {
	p.logger.Warn("header field write failed",
		"path", path, "field", w.name, "offset", w.offset, "error", err)
	return &types.IOError{
		Op:   "write",
		Path: path,
		Err:  &PatchError{Field: w.name, Offset: int64(w.offset), Err: err},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
