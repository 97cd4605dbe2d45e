package services

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yeremiapane/raisin-tracker/models"
)

func sampleSummary(t *testing.T, detailed bool) WeeklySummary {
	t.Helper()
	dates, err := WeekDates("2024-06-02")
	require.NoError(t, err)
	employees := []models.Employee{{ID: 1, Name: "Asha"}, {ID: 2, Name: "Ravi"}}
	entries := []models.DailyWork{
		{EmployeeID: 1, Date: "2024-06-03", KgsCleaned: dec("1234.5"), Earnings: dec("3703.5")},
		{EmployeeID: 2, Date: "2024-06-05", KgsCleaned: dec("2"), Earnings: dec("6")},
	}
	return BuildWeeklySummary(dates, employees, entries, detailed)
}

func TestExportContentType(t *testing.T) {
	ct, ok := ExportContentType(ExportPDF)
	assert.True(t, ok)
	assert.Equal(t, "application/pdf", ct)

	_, ok = ExportContentType("csv")
	assert.False(t, ok)
}

func TestWriteWeeklyXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWeeklyXLSX(&buf, sampleSummary(t, false), "₹"))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(weeklySheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Employee", "Total Kgs", "Total Earnings (₹)"}, rows[0])
	assert.Equal(t, "Asha", rows[1][0])
	assert.Equal(t, "Total", rows[3][0])

	total, err := f.GetCellValue(weeklySheet, "B4", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "1236.5", total)
}

func TestWriteWeeklyXLSXDetailed(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWeeklyXLSX(&buf, sampleSummary(t, true), "₹"))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(weeklySheet)
	require.NoError(t, err)
	// name + kgs/earnings per day + two totals
	assert.Len(t, rows[0], 1+2*DaysPerWeek+2)
	assert.Equal(t, "2024-06-02 Kgs", rows[0][1])
	assert.Equal(t, "2024-06-02 Earnings (₹)", rows[0][2])
}

func TestWriteWeeklyPDF(t *testing.T) {
	for _, detailed := range []bool{false, true} {
		var buf bytes.Buffer
		require.NoError(t, WriteWeeklyPDF(&buf, sampleSummary(t, detailed), ""))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	}
}

func TestWriteWeeklyPDFMissingFont(t *testing.T) {
	var buf bytes.Buffer
	err := WriteWeeklyPDF(&buf, sampleSummary(t, false), filepath.Join(t.TempDir(), "missing.ttf"))
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestWriteWeeklyPDFUTF8Font(t *testing.T) {
	var fontPath string
	for _, candidate := range []string{
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/TTF/DejaVuSans.ttf",
		"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	} {
		if _, err := os.Stat(candidate); err == nil {
			fontPath = candidate
			break
		}
	}
	if fontPath == "" {
		t.Skip("no DejaVuSans.ttf on this machine")
	}

	s := sampleSummary(t, true)
	s.Employees[0].Name = "Ásha Kumārī"

	var buf bytes.Buffer
	require.NoError(t, WriteWeeklyPDF(&buf, s, fontPath))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}
