package hive

import (
	"time"

	"github.com/joshuapare/regfix/internal/repair"
	"github.com/joshuapare/regfix/pkg/types"
)

// ApplyFixes writes the selected fixes to the hive at path.
//
// Each selected type is resolved against analysis, which must come from
// Analyze on the same file; types it does not offer are skipped. When
// nothing resolves the call is a no-op and no backup is made. Otherwise
// path is first copied to path+".backup", fixes are applied in selection
// order, and the header checksum is recomputed and written last if any fix
// changed the checksummed bytes.
//
// The first failing write stops the run. The returned FixResult then lists
// the fixes already on disk; the backup holds the pre-fix bytes.
func ApplyFixes(path string, selected []types.FixType, analysis *types.AnalysisResult, opts ...Option) (*types.FixResult, error) {
	o := buildOptions(opts)
	start := time.Now()

	engine := repair.NewEngine(repair.EngineConfig{DryRun: o.dryRun, Logger: o.logger})
	result, err := engine.ApplyFixes(path, selected, analysis)
	o.metrics.ObserveFixes(selected, result, o.dryRun, err, time.Since(start))
	if err != nil {
		o.logger.Error("apply fixes failed", "path", path, "applied", result.Applied, "error", err)
		return result, err
	}

	o.logger.Info("applied fixes",
		"path", path,
		"applied", result.Applied,
		"skipped", result.Skipped,
		"backup", result.BackupPath,
		"checksum_recomputed", result.ChecksumRecomputed,
		"dry_run", o.dryRun,
	)
	return result, nil
}

// RestoreBackup copies path+".backup" back over path.
func RestoreBackup(path string, opts ...Option) error {
	o := buildOptions(opts)
	if err := repair.NewEngine(repair.EngineConfig{Logger: o.logger}).RestoreBackup(path); err != nil {
		return err
	}
	o.logger.Info("restored backup", "path", path, "backup", BackupPath(path))
	return nil
}

// BackupPath returns where ApplyFixes puts the backup of path.
func BackupPath(path string) string {
	return repair.BackupPath(path)
}
