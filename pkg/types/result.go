package types

// AnalysisResult is the complete outcome of one header analysis and the
// only input the fix workflow accepts. Issues keep validation rule order.
type AnalysisResult struct {
	FileInfo FileInfo `json:"file_info"`
	Issues   []Issue  `json:"issues"`
}

// HasCritical reports whether any issue is SevCritical.
func (r *AnalysisResult) HasCritical() bool {
	for _, is := range r.Issues {
		if is.Severity == SevCritical {
			return true
		}
	}
	return false
}

// Count returns the number of issues with the given severity.
func (r *AnalysisResult) Count(sev Severity) int {
	n := 0
	for _, is := range r.Issues {
		if is.Severity == sev {
			n++
		}
	}
	return n
}

// FixFor returns the fix proposed for t by the first issue offering it.
func (r *AnalysisResult) FixFor(t FixType) (Fix, bool) {
	if r == nil {
		return nil, false
	}
	for _, is := range r.Issues {
		if is.Fix != nil && is.Fix.Type() == t {
			return is.Fix, true
		}
	}
	return nil, false
}

// FixTypes lists the distinct fix types offered, in report order.
func (r *AnalysisResult) FixTypes() []FixType {
	var out []FixType
	seen := make(map[FixType]bool)
	for _, is := range r.Issues {
		t, ok := is.FixType()
		if !ok || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// FixResult describes what ApplyFixes wrote to disk.
type FixResult struct {
	BackupPath         string    `json:"backup_path,omitempty"`
	Applied            []FixType `json:"applied"`
	Skipped            []FixType `json:"skipped,omitempty"` // Selected but not offered by the analysis
	ChecksumRecomputed bool      `json:"checksum_recomputed"`
	RecomputedChecksum uint32    `json:"recomputed_checksum,omitempty"`
}

// Changed reports whether any byte of the hive was written.
func (r *FixResult) Changed() bool {
	return r != nil && (len(r.Applied) > 0 || r.ChecksumRecomputed)
}
