package hive

import (
	"time"

	"github.com/joshuapare/regfix/internal/repair"
	"github.com/joshuapare/regfix/pkg/types"
)

// Analyze reads the base block of the hive at path and validates it.
//
// The file is only read. On error the result is nil; a header that parses
// always yields a complete result, with problems reported as Issues.
func Analyze(path string, opts ...Option) (*types.AnalysisResult, error) {
	o := buildOptions(opts)
	start := time.Now()

	result, err := repair.NewValidator().Inspect(path)
	o.metrics.ObserveAnalysis(result, err, time.Since(start))
	if err != nil {
		o.logger.Debug("analysis failed", "path", path, "error", err)
		return nil, err
	}

	o.logger.Debug("analyzed hive",
		"path", path,
		"size", result.FileInfo.Size,
		"issues", len(result.Issues),
		"critical", result.Count(types.SevCritical),
	)
	return result, nil
}
