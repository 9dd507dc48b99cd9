package pdf

import (
	"bytes"
	"fmt"
	"medreport-service/internal/app/models"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	pageMargin   = 25.4
	bodyFontSize = 10
	lineHeight   = 5.5
)

type rgb struct{ r, g, b int }

var (
	colorTitle    = rgb{0x1a, 0x54, 0x90}
	colorSection  = rgb{0x2c, 0x5a, 0xa0}
	colorSectionB = rgb{0xf0, 0xf4, 0xf8}
	colorLabel    = rgb{0xe8, 0xf0, 0xf8}
	colorGrey     = rgb{0x80, 0x80, 0x80}
	colorBlack    = rgb{0, 0, 0}
	colorCritical = rgb{0xd0, 0x10, 0x10}
)

// The core PDF fonts only cover cp1252, so report symbols are spelled out.
var symbolReplacer = strings.NewReplacer(
	"⚠️", "!",
	"⚠", "!",
	"↑", "^",
	"↓", "v",
	"✓", "OK",
	"×", "x",
	"•", "-",
	"³", "3",
	"⁶", "6",
	"μ", "u",
	"═", "=",
	"—", "-",
	"–", "-",
)

type document struct {
	pdf       *fpdf.Fpdf
	translate func(string) string
}

// buildDocument lays the report out on Letter pages and returns the encoded PDF.
func buildDocument(report *models.ReportRecord, renderedAt time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetCreationDate(renderedAt)
	pdf.SetTitle("Medical Diagnostic Report "+report.ReportID, false)

	d := &document{pdf: pdf, translate: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetHeaderFunc(d.header)
	pdf.SetFooterFunc(func() { d.footer(renderedAt) })

	pdf.AddPage()
	d.title(report)
	d.patientTable(report.PatientInfo)

	d.section("EXAMINATION SUMMARY")
	d.paragraph(report.ExaminationSummary)

	if report.ImagingFindings.Status == models.FindingsStatusCompleted {
		d.section("IMAGING FINDINGS")
		d.findings(report.ImagingFindings.Findings)
	}
	if report.LaboratoryFindings.Status == models.FindingsStatusCompleted {
		d.section("LABORATORY FINDINGS")
		d.findings(report.LaboratoryFindings.Findings)
	}

	d.section("INTERPRETIVE NOTES")
	for _, note := range report.InterpretiveNotes {
		d.paragraph(note)
	}

	d.section("RECOMMENDATIONS")
	for _, rec := range report.Recommendations {
		d.paragraph(rec)
	}

	if report.Status == models.ReportStatusApproved {
		d.section("REVIEW")
		d.paragraph(fmt.Sprintf("Reviewed by: %s", report.ReviewerName))
		if report.ApprovedAt != nil {
			d.paragraph(fmt.Sprintf("Approved at: %s", report.ApprovedAt.Format("2006-01-02 15:04:05")))
		}
		if report.ReviewerComments != "" {
			d.paragraph(fmt.Sprintf("Comments: %s", report.ReviewerComments))
		}
	}

	d.disclaimer(report.Disclaimer)

	if pdf.Err() {
		return nil, pdf.Error()
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *document) text(s string) string {
	return d.translate(symbolReplacer.Replace(s))
}

func (d *document) color(c rgb) {
	d.pdf.SetTextColor(c.r, c.g, c.b)
}

func (d *document) header() {
	pageWidth, _ := d.pdf.GetPageSize()
	d.pdf.SetY(12)
	d.pdf.SetFont("Helvetica", "B", 10)
	d.color(colorTitle)
	d.pdf.CellFormat(0, 5, "AI-ASSISTED MEDICAL DIAGNOSTIC REPORT", "", 1, "L", false, 0, "")
	d.pdf.SetFont("Helvetica", "", 8)
	d.color(colorGrey)
	d.pdf.CellFormat(0, 4, "DRAFT - FOR REVIEW ONLY", "", 1, "L", false, 0, "")
	d.pdf.SetDrawColor(colorGrey.r, colorGrey.g, colorGrey.b)
	y := d.pdf.GetY() + 1
	d.pdf.Line(pageMargin, y, pageWidth-pageMargin, y)
	d.pdf.SetY(pageMargin)
	d.color(colorBlack)
}

func (d *document) footer(renderedAt time.Time) {
	d.pdf.SetY(-15)
	d.pdf.SetFont("Helvetica", "", 8)
	d.color(colorGrey)
	left := fmt.Sprintf("Page %d | Generated: %s", d.pdf.PageNo(), renderedAt.Format("2006-01-02 15:04:05"))
	d.pdf.CellFormat(0, 5, left, "", 0, "L", false, 0, "")
	d.pdf.SetX(pageMargin)
	d.pdf.CellFormat(0, 5, "Confidential Medical Document", "", 0, "R", false, 0, "")
}

func (d *document) title(report *models.ReportRecord) {
	d.pdf.SetFont("Helvetica", "B", 20)
	d.color(colorTitle)
	d.pdf.CellFormat(0, 12, "MEDICAL DIAGNOSTIC REPORT", "", 1, "C", false, 0, "")
	d.pdf.Ln(4)

	status := strings.ToUpper(string(report.Status))
	if status == "" {
		status = "DRAFT"
	}
	d.pdf.SetFont("Helvetica", "", bodyFontSize+1)
	d.color(colorBlack)
	d.pdf.CellFormat(0, lineHeight, d.text(fmt.Sprintf("Report ID: %s | Status: %s", report.ReportID, status)), "", 1, "L", false, 0, "")
	d.pdf.Ln(3)
}

func (d *document) patientTable(patient models.PatientInfo) {
	d.section("PATIENT INFORMATION")
	rows := [][4]string{
		{"Patient ID:", patient.PatientID, "Study Date:", patient.StudyDate},
		{"Patient Name:", patient.PatientName, "Age/Gender:", patient.Age + " / " + patient.Gender},
	}
	widths := [4]float64{38, 62, 38, 27}

	d.pdf.SetDrawColor(colorGrey.r, colorGrey.g, colorGrey.b)
	d.pdf.SetFillColor(colorLabel.r, colorLabel.g, colorLabel.b)
	for _, row := range rows {
		for i, cell := range row {
			label := i%2 == 0
			style := ""
			if label {
				style = "B"
			}
			d.pdf.SetFont("Helvetica", style, bodyFontSize)
			d.pdf.CellFormat(widths[i], 8, d.text(cell), "1", 0, "L", label, 0, "")
		}
		d.pdf.Ln(-1)
	}
	d.pdf.Ln(3)
}

func (d *document) section(name string) {
	d.pdf.Ln(4)
	d.pdf.SetFont("Helvetica", "B", 14)
	d.color(colorSection)
	d.pdf.SetDrawColor(colorSection.r, colorSection.g, colorSection.b)
	d.pdf.SetFillColor(colorSectionB.r, colorSectionB.g, colorSectionB.b)
	d.pdf.CellFormat(0, 9, name, "1", 1, "L", true, 0, "")
	d.pdf.Ln(2)
	d.color(colorBlack)
}

func (d *document) paragraph(s string) {
	d.pdf.SetFont("Helvetica", "", bodyFontSize)
	d.color(colorBlack)
	if strings.TrimSpace(s) == "" {
		d.pdf.Ln(lineHeight / 2)
		return
	}
	d.pdf.MultiCell(0, lineHeight, d.text(s), "", "J", false)
}

func (d *document) findings(lines []string) {
	for _, line := range lines {
		if isCriticalLine(line) {
			d.pdf.SetFont("Helvetica", "B", bodyFontSize)
			d.color(colorCritical)
			d.pdf.MultiCell(0, lineHeight, d.text(line), "", "L", false)
			d.color(colorBlack)
			continue
		}
		d.paragraph(line)
	}
}

func (d *document) disclaimer(lines []string) {
	d.pdf.Ln(6)
	d.pdf.SetFont("Helvetica", "B", 8)
	d.color(colorCritical)
	for _, line := range lines {
		if strings.TrimSpace(line) == "" || strings.Contains(line, "═") {
			continue
		}
		d.pdf.MultiCell(0, 4, d.text(line), "", "C", false)
	}
	d.color(colorBlack)
}

func isCriticalLine(line string) bool {
	return strings.Contains(line, "CRITICAL VALUES:") || strings.Contains(line, "⚠️ CRITICAL") || strings.Contains(line, "⚠ CRITICAL")
}
