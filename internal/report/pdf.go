package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/joshuapare/regfix/pkg/types"
)

// SavePDF renders res into a PDF document at out.
func SavePDF(res *types.AnalysisResult, out string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Registry Hive Header Report", false)
	pdf.SetAuthor("regfix", false)
	pdf.SetCreator("regfix", false)
	pdf.SetMargins(15, 20, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	addPDFTitle(pdf, "Registry Hive Header Report")
	addSummarySection(pdf, res)
	addHeaderSection(pdf, res.FileInfo)
	addIssuesSection(pdf, res.Issues)

	if pdf.Err() {
		return pdf.Error()
	}
	return pdf.OutputFileAndClose(out)
}

func addPDFTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 5, "Generated "+time.Now().UTC().Format(time.RFC3339))
	pdf.Ln(8)
}

func addSummarySection(pdf *gofpdf.Fpdf, res *types.AnalysisResult) {
	sectionHeading(pdf, "Summary")

	verdict := "Healthy"
	switch {
	case res.HasCritical():
		verdict = "Critical issues present"
	case len(res.Issues) > 0:
		verdict = "Warnings present"
	}
	fixable := make([]string, 0, len(res.Issues))
	for _, t := range res.FixTypes() {
		fixable = append(fixable, t.String())
	}

	pdf.SetFont("Helvetica", "", 11)
	items := []struct {
		label string
		value string
	}{
		{label: "File", value: res.FileInfo.Path},
		{label: "Critical", value: strconv.Itoa(res.Count(types.SevCritical))},
		{label: "Warnings", value: strconv.Itoa(res.Count(types.SevWarning))},
		{label: "Fixes offered", value: emptyFallback(strings.Join(fixable, ", "), "none")},
		{label: "Overall", value: verdict},
	}
	for _, item := range items {
		pdf.CellFormat(50, 6, item.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, item.value, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func addHeaderSection(pdf *gofpdf.Fpdf, fi types.FileInfo) {
	sectionHeading(pdf, "Base Block")

	widths := []float64{22, 60, 98}
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range []string{"Offset", "Field", "Value"} {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	rows := [][]string{
		{"0x000", "Signature", fi.Signature},
		{"0x004", "Primary sequence", strconv.FormatUint(uint64(fi.PrimarySequence), 10)},
		{"0x008", "Secondary sequence", strconv.FormatUint(uint64(fi.SecondarySequence), 10)},
		{"0x00C", "Last written", fi.LastWritten().Format(time.RFC3339)},
		{"0x014", "Version", fmt.Sprintf("%d.%d", fi.MajorVersion, fi.MinorVersion)},
		{"0x01C", "File type", fmt.Sprintf("%d (%s)", fi.FileType, fi.FileTypeName())},
		{"0x020", "File format", fmt.Sprintf("%d (%s)", fi.FileFormat, fi.FileFormatName())},
		{"0x024", "Root cell offset", fmt.Sprintf("0x%X", fi.RootCellOffset)},
		{"0x028", "Hive bins size", fmt.Sprintf("%d stored / %d measured", fi.HiveBinsSize, fi.MeasuredHiveBinsSize)},
		{"0x02C", "Clustering factor", strconv.FormatUint(uint64(fi.ClusteringFactor), 10)},
		{"0x030", "File name", emptyFallback(fi.FileName, "-")},
		{"0x1FC", "Checksum", fmt.Sprintf("0x%08X stored / 0x%08X calculated", fi.StoredChecksum, fi.CalculatedChecksum)},
	}
	pdf.SetFont("Helvetica", "", 9)
	for _, row := range rows {
		for i, v := range row {
			pdf.CellFormat(widths[i], 6, v, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

func addIssuesSection(pdf *gofpdf.Fpdf, issues []types.Issue) {
	sectionHeading(pdf, "Issues")

	if len(issues) == 0 {
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, "No issues found.", "", "L", false)
		return
	}

	for i, is := range issues {
		r, g, b := severityRGB(is.Severity)
		pdf.SetTextColor(r, g, b)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.MultiCell(0, 5, fmt.Sprintf("%d. %s (%s)", i+1, is.Message, is.Severity), "", "L", false)
		pdf.SetTextColor(0, 0, 0)

		if is.Details != "" {
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, is.Details, "", "L", false)
		}
		if is.Fix != nil {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.MultiCell(0, 4, fmt.Sprintf("Fix available (%s): %s", is.Fix.Type(), is.Fix), "", "L", false)
		}
		pdf.Ln(2)
	}
}

func sectionHeading(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(9)
}

func severityRGB(s types.Severity) (int, int, int) {
	if s == types.SevCritical {
		return 180, 0, 0
	}
	return 170, 110, 0
}

func emptyFallback(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
