// Package report renders analysis and fix results for people (colored
// text, PDF) and for programs (JSON).
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/joshuapare/regfix/pkg/types"
)

// TextOptions controls text rendering.
type TextOptions struct {
	NoColor bool
}

type palette struct {
	critical *color.Color
	warning  *color.Color
	ok       *color.Color
	label    *color.Color
	dim      *color.Color
}

func newPalette(noColor bool) palette {
	p := palette{
		critical: color.New(color.FgRed, color.Bold),
		warning:  color.New(color.FgYellow, color.Bold),
		ok:       color.New(color.FgGreen, color.Bold),
		label:    color.New(color.FgCyan),
		dim:      color.New(color.FgHiBlack),
	}
	if noColor {
		for _, c := range []*color.Color{p.critical, p.warning, p.ok, p.label, p.dim} {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s types.Severity) *color.Color {
	if s == types.SevCritical {
		return p.critical
	}
	return p.warning
}

// WriteText writes the header fields followed by the issue list.
func WriteText(w io.Writer, res *types.AnalysisResult, opts TextOptions) error {
	p := newPalette(opts.NoColor)
	fi := res.FileInfo
	ew := &errWriter{w: w}

	field := func(name, format string, args ...any) {
		ew.print(p.label.Sprintf("%-26s", name+":"))
		ew.printf(" "+format+"\n", args...)
	}
	field("File", "%s", fi.Path)
	field("Size", "%d bytes", fi.Size)
	field("Signature", "%s", fi.Signature)
	field("Primary Sequence Number", "%d", fi.PrimarySequence)
	field("Secondary Sequence Number", "%d", fi.SecondarySequence)
	field("Last Written", "%s (0x%016X)", fi.LastWritten().Format("2006-01-02 15:04:05 UTC"), fi.LastWrittenRaw)
	field("Version", "%d.%d", fi.MajorVersion, fi.MinorVersion)
	field("File Type", "%d (%s)", fi.FileType, fi.FileTypeName())
	field("File Format", "%d (%s)", fi.FileFormat, fi.FileFormatName())
	field("Root Cell Offset", "0x%X", fi.RootCellOffset)
	field("Hive Bins Size", "%d bytes (stored) vs %d bytes (measured)", fi.HiveBinsSize, fi.MeasuredHiveBinsSize)
	field("Clustering Factor", "%d", fi.ClusteringFactor)
	field("Checksum", "0x%08X (stored) vs 0x%08X (calculated)", fi.StoredChecksum, fi.CalculatedChecksum)
	if fi.FileName != "" {
		field("File Name", "%s", fi.FileName)
	}

	ew.print("\n")
	if len(res.Issues) == 0 {
		ew.print(p.ok.Sprint("No issues found.") + "\n")
		return ew.err
	}
	ew.print("Issues found:\n")
	for _, is := range res.Issues {
		ew.print(p.severity(is.Severity).Sprintf("%s:", is.Severity))
		ew.printf(" %s\n", is.Message)
		if is.Details != "" {
			ew.printf("  %s\n", is.Details)
		}
		if is.Fix != nil {
			ew.print(p.dim.Sprintf("  fix available: %s (%s)", is.Fix.Type(), is.Fix) + "\n")
		}
	}
	return ew.err
}

// WriteFixText summarizes a FixResult.
func WriteFixText(w io.Writer, res *types.FixResult, dryRun bool, opts TextOptions) error {
	p := newPalette(opts.NoColor)
	ew := &errWriter{w: w}

	verb := "Applied"
	if dryRun {
		verb = "Would apply"
	}
	if !res.Changed() {
		ew.print("No fixes applied.\n")
	}
	for _, t := range res.Applied {
		ew.print(p.ok.Sprint(verb))
		ew.printf(" %s\n", t)
	}
	for _, t := range res.Skipped {
		ew.print(p.dim.Sprintf("Skipped %s (not offered by the analysis)", t) + "\n")
	}
	if res.ChecksumRecomputed {
		if dryRun {
			ew.print("Checksum would be recomputed\n")
		} else {
			ew.printf("Checksum recomputed: 0x%08X\n", res.RecomputedChecksum)
		}
	}
	if res.BackupPath != "" {
		ew.printf("Backup: %s\n", res.BackupPath)
	}
	return ew.err
}

// Summary is a one-line verdict for res, as printed by scan.
func Summary(res *types.AnalysisResult, opts TextOptions) string {
	p := newPalette(opts.NoColor)
	crit, warn := res.Count(types.SevCritical), res.Count(types.SevWarning)
	switch {
	case crit > 0:
		return p.critical.Sprintf("CRITICAL") + fmt.Sprintf(" %d critical, %d warning%s", crit, warn, plural(warn))
	case warn > 0:
		return p.warning.Sprintf("WARNING") + fmt.Sprintf(" %d warning%s", warn, plural(warn))
	default:
		return p.ok.Sprint("OK")
	}
}

// ErrorSummary is the scan line for a file that could not be analyzed.
func ErrorSummary(err error, opts TextOptions) string {
	p := newPalette(opts.NoColor)
	return p.critical.Sprint("ERROR") + " " + strings.TrimSpace(err.Error())
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// errWriter remembers the first write error so rendering code can stay flat.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) print(s string) {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, s)
}

func (e *errWriter) printf(format string, args ...any) {
	e.print(fmt.Sprintf(format, args...))
}
