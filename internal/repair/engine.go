package repair

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/joshuapare/regfix/internal/format"
	"github.com/joshuapare/regfix/internal/mmfile"
	"github.com/joshuapare/regfix/pkg/types"
)

// EngineConfig contains configuration options for the fix engine.
type EngineConfig struct {
	// DryRun resolves the selected fixes and reports what would be written
	// without creating a backup or touching the hive.
	DryRun bool

	// Logger receives debug output. Nil discards it.
	Logger *slog.Logger
}

// Engine applies selected header fixes to a hive file. It holds no state
// between calls; the same engine may serve any number of files, but callers
// must not run two ApplyFixes on the same path concurrently.
type Engine struct {
	patcher *Patcher
	writer  *Writer
	logger  *slog.Logger
	config  EngineConfig
}

// NewEngine creates a new fix engine with the given configuration.
func NewEngine(config EngineConfig) *Engine {
	logger := config.Logger
	if logger == nil {
		logger = discardLogger()
	}
	return &Engine{
		patcher: NewPatcher(logger),
		writer:  NewWriter(),
		logger:  logger,
		config:  config,
	}
}

// Plan resolves selected fix types against analysis. Types the analysis does
// not offer (a stale analysis, or an unfixable issue) land in skipped; they
// are not an error. Duplicate selections resolve once, in first-seen order.
func (e *Engine) Plan(selected []types.FixType, analysis *types.AnalysisResult) (fixes []types.Fix, skipped []types.FixType) {
	var seen []types.FixType
	for _, t := range selected {
		if slices.Contains(seen, t) {
			continue
		}
		seen = append(seen, t)
		fix, ok := analysis.FixFor(t)
		if !ok {
			skipped = append(skipped, t)
			continue
		}
		fixes = append(fixes, fix)
	}
	return fixes, skipped
}

// ApplyFixes writes the selected fixes to path.
//
// Process:
//  1. Resolve selected types against analysis (see Plan)
//  2. Copy path to path.backup; a failed backup aborts before any write
//  3. Apply each fix in selection order, stopping at the first failure
//  4. If a fix changed the checksummed region, recompute the checksum from
//     the patched bytes and write it last
//
// On failure the returned FixResult still lists the fixes already on disk.
func (e *Engine) ApplyFixes(path string, selected []types.FixType, analysis *types.AnalysisResult) (*types.FixResult, error) {
	fixes, skipped := e.Plan(selected, analysis)
	result := &types.FixResult{Skipped: skipped}
	for _, t := range skipped {
		e.logger.Debug("fix not offered by analysis, skipping", "path", path, "fix", t)
	}
	if len(fixes) == 0 {
		return result, nil
	}

	if e.config.DryRun {
		for _, fix := range fixes {
			result.Applied = append(result.Applied, fix.Type())
			result.ChecksumRecomputed = result.ChecksumRecomputed || fix.Type().Structural()
		}
		return result, nil
	}

	backupPath, err := e.writer.CreateBackup(path)
	if err != nil {
		return result, &types.IOError{Op: "backup", Path: path, Err: err}
	}
	result.BackupPath = backupPath
	e.logger.Debug("created backup", "path", path, "backup", backupPath)

	needsChecksum := false
	for _, fix := range fixes {
		structural, err := e.patcher.Apply(path, fix)
		if err != nil {
			return result, fmt.Errorf("apply %s fix: %w", fix.Type(), err)
		}
		result.Applied = append(result.Applied, fix.Type())
		needsChecksum = needsChecksum || structural
		e.logger.Debug("applied fix", "path", path, "fix", fix.Type(), "change", fix.String())
	}

	if needsChecksum {
		sum, err := e.recomputeChecksum(path)
		if err != nil {
			return result, fmt.Errorf("recompute checksum: %w", err)
		}
		result.ChecksumRecomputed = true
		result.RecomputedChecksum = sum
	}
	return result, nil
}

// recomputeChecksum re-reads the patched header and rewrites its checksum.
func (e *Engine) recomputeChecksum(path string) (uint32, error) {
	head, _, err := mmfile.ReadHead(path, format.MinHeaderLen)
	if err != nil {
		return 0, &types.IOError{Op: "read", Path: path, Err: err}
	}
	if len(head) < format.REGFChecksumRegionLen {
		return 0, &types.IOError{Op: "read", Path: path, Err: format.ErrTruncated}
	}
	sum := format.HeaderChecksum(head)
	if err := e.patcher.WriteChecksum(path, sum); err != nil {
		return 0, err
	}
	e.logger.Debug("rewrote header checksum", "path", path, "checksum", sum)
	return sum, nil
}

// RestoreBackup replaces path with path.backup.
func (e *Engine) RestoreBackup(path string) error {
	if err := e.writer.RestoreBackup(path); err != nil {
		return &types.IOError{Op: "restore", Path: path, Err: err}
	}
	e.logger.Debug("restored backup", "path", path, "backup", BackupPath(path))
	return nil
}
