package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"github.com/yeremiapane/raisin-tracker/utils"
)

const (
	ExportXLSX = "xlsx"
	ExportPDF  = "pdf"

	weeklySheet = "Weekly Summary"

	// Core PDF fonts have no rupee glyph.
	pdfCurrency = "Rs."

	pdfCoreFont = "Helvetica"
	pdfUTF8Font = "body"
)

// ExportContentType maps an export format to its MIME type.
func ExportContentType(format string) (string, bool) {
	switch format {
	case ExportXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", true
	case ExportPDF:
		return "application/pdf", true
	}
	return "", false
}

// WriteWeeklyXLSX writes the summary as a single-sheet workbook: a header,
// one row per employee and a closing Total row. Detailed summaries get a
// kgs and an earnings column per date.
func WriteWeeklyXLSX(w io.Writer, s WeeklySummary, currency string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", weeklySheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	header := []interface{}{"Employee"}
	if s.Detailed {
		for _, d := range s.Dates {
			header = append(header, d+" Kgs", fmt.Sprintf("%s Earnings (%s)", d, currency))
		}
	}
	header = append(header, "Total Kgs", fmt.Sprintf("Total Earnings (%s)", currency))

	rows := [][]interface{}{header}
	for _, e := range s.Employees {
		rows = append(rows, xlsxRow(e.Name, s, e.Days, e.TotalKgs, e.TotalEarnings))
	}
	rows = append(rows, xlsxRow("Total", s, s.Totals.Days, s.Totals.TotalKgs, s.Totals.TotalEarnings))

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(weeklySheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(weeklySheet, 1, 1, bold); err != nil {
		return err
	}
	if err := f.SetRowStyle(weeklySheet, len(rows), len(rows), bold); err != nil {
		return err
	}

	amount, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return err
	}
	topLeft, _ := excelize.CoordinatesToCellName(2, 2)
	bottomRight, _ := excelize.CoordinatesToCellName(len(header), len(rows)-1)
	if len(rows) > 2 {
		if err := f.SetCellStyle(weeklySheet, topLeft, bottomRight, amount); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(weeklySheet, "A", "A", 24); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func xlsxRow(label string, s WeeklySummary, days map[string]DayTotals, kgs, earnings decimal.Decimal) []interface{} {
	row := []interface{}{label}
	if s.Detailed {
		for _, d := range s.Dates {
			day := days[d]
			row = append(row, day.Kgs.InexactFloat64(), day.Earnings.InexactFloat64())
		}
	}
	return append(row, kgs.InexactFloat64(), earnings.InexactFloat64())
}

// WriteWeeklyPDF renders the summary as a landscape A4 table. With fontPath
// set to a TrueType font, names are written as UTF-8; otherwise the core
// Helvetica font is used and only Latin-1 names render correctly.
func WriteWeeklyPDF(w io.Writer, s WeeklySummary, fontPath string) error {
	pdf := fpdf.New("L", "mm", "A4", filepath.Dir(fontPath))
	pdf.SetTitle("Weekly Summary", true)
	pdf.SetMargins(10, 12, 10)

	font := pdfCoreFont
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if fontPath != "" {
		if _, err := os.Stat(fontPath); err != nil {
			return fmt.Errorf("pdf font: %w", err)
		}
		for _, style := range []string{"", "B", "I"} {
			pdf.AddUTF8Font(pdfUTF8Font, style, filepath.Base(fontPath))
		}
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("load pdf font %s: %w", fontPath, err)
		}
		font = pdfUTF8Font
		tr = func(s string) string { return s }
	}
	pdf.AddPage()

	pdf.SetFont(font, "B", 14)
	pdf.CellFormat(0, 10, fmt.Sprintf("Weekly Summary %s to %s", s.WeekStart, s.WeekEnd), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	nameW, dayW, kgsW, earnW := 45.0, 24.0, 30.0, 34.0
	if !s.Detailed {
		nameW = 120
	}

	pdf.SetFont(font, "B", 8)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(nameW, 8, "Employee", "1", 0, "L", true, 0, "")
	if s.Detailed {
		for _, d := range s.Dates {
			pdf.CellFormat(dayW, 8, d, "1", 0, "C", true, 0, "")
		}
	}
	pdf.CellFormat(kgsW, 8, "Total Kgs", "1", 0, "R", true, 0, "")
	pdf.CellFormat(earnW, 8, "Total Earnings", "1", 1, "R", true, 0, "")

	writeRow := func(label string, days map[string]DayTotals, kgs, earnings decimal.Decimal) {
		pdf.CellFormat(nameW, 7, tr(label), "1", 0, "L", false, 0, "")
		if s.Detailed {
			pdf.SetFontSize(7)
			for _, d := range s.Dates {
				day := days[d]
				text := utils.FormatAmount(day.Kgs) + " / " + utils.FormatAmount(day.Earnings)
				pdf.CellFormat(dayW, 7, text, "1", 0, "C", false, 0, "")
			}
			pdf.SetFontSize(8)
		}
		pdf.CellFormat(kgsW, 7, utils.FormatKgs(kgs), "1", 0, "R", false, 0, "")
		pdf.CellFormat(earnW, 7, utils.FormatCurrency(pdfCurrency, earnings), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont(font, "", 8)
	for _, e := range s.Employees {
		writeRow(e.Name, e.Days, e.TotalKgs, e.TotalEarnings)
	}
	pdf.SetFont(font, "B", 8)
	writeRow("Total", s.Totals.Days, s.Totals.TotalKgs, s.Totals.TotalEarnings)

	if s.Detailed {
		pdf.Ln(3)
		pdf.SetFont(font, "I", 7)
		pdf.CellFormat(0, 5, "Daily cells show kgs / earnings.", "", 1, "L", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
