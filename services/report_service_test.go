package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/raisin-tracker/database"
	"github.com/yeremiapane/raisin-tracker/models"
)

var testNow = time.Date(2024, 6, 5, 10, 30, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:services_%s?mode=memory&cache=shared&_foreign_keys=on", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func newTestReports(t *testing.T) *ReportService {
	t.Helper()
	return NewReportService(setupTestDB(t), Calendar{Location: time.UTC, Now: func() time.Time { return testNow }})
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seed(t *testing.T, db *gorm.DB, employeeID uint, date, kgs, earnings string) {
	t.Helper()
	require.NoError(t, db.Create(&models.DailyWork{
		EmployeeID: employeeID,
		Date:       date,
		KgsCleaned: dec(kgs),
		Earnings:   dec(earnings),
	}).Error)
}

func TestDashboardStatsFromStore(t *testing.T) {
	reports := newTestReports(t)
	ctx := context.Background()

	asha := models.Employee{Name: "Asha"}
	require.NoError(t, reports.DB.Create(&asha).Error)

	seed(t, reports.DB, asha.ID, "2024-06-01", "9", "27")
	seed(t, reports.DB, asha.ID, "2024-06-03", "1.10", "3.30")
	seed(t, reports.DB, asha.ID, "2024-06-05", "2.20", "6.60")

	stats, err := reports.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalEmployees)
	assert.True(t, stats.TotalKgsToday.Equal(dec("2.2")), stats.TotalKgsToday.String())
	assert.True(t, stats.TotalEarningsToday.Equal(dec("6.6")), stats.TotalEarningsToday.String())
	assert.True(t, stats.WeeklyStats.TotalKgs.Equal(dec("3.3")), stats.WeeklyStats.TotalKgs.String())
	assert.True(t, stats.WeeklyStats.TotalEarnings.Equal(dec("9.9")), stats.WeeklyStats.TotalEarnings.String())
}

func TestListDailyWorkEmpty(t *testing.T) {
	reports := newTestReports(t)

	rows, err := reports.ListDailyWork(context.Background(), "2024-06-05")
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestWeeklySummaryFromStore(t *testing.T) {
	reports := newTestReports(t)

	ravi := models.Employee{Name: "Ravi"}
	asha := models.Employee{Name: "Asha"}
	require.NoError(t, reports.DB.Create(&ravi).Error)
	require.NoError(t, reports.DB.Create(&asha).Error)

	seed(t, reports.DB, ravi.ID, "2024-06-01", "5", "15")
	seed(t, reports.DB, ravi.ID, "2024-06-02", "1", "3")
	seed(t, reports.DB, asha.ID, "2024-06-08", "2", "6")
	seed(t, reports.DB, asha.ID, "2024-06-09", "7", "21")

	summary, err := reports.WeeklySummary(context.Background(), "2024-06-02", false)
	require.NoError(t, err)
	require.Len(t, summary.Employees, 2)
	assert.Equal(t, "Asha", summary.Employees[0].Name)
	assert.True(t, summary.Employees[0].TotalKgs.Equal(dec("2")))
	assert.Equal(t, "Ravi", summary.Employees[1].Name)
	assert.True(t, summary.Employees[1].TotalKgs.Equal(dec("1")))
	assert.True(t, summary.Totals.TotalEarnings.Equal(dec("9")))

	_, err = reports.WeeklySummary(context.Background(), "June 2", false)
	assert.Error(t, err)
}

func TestBuildDailySummary(t *testing.T) {
	rows := []models.DailyWorkRow{
		{ID: 1, EmployeeName: "Asha", KgsCleaned: dec("1.5"), Earnings: dec("4.5")},
		{ID: 2, EmployeeName: "Ravi", KgsCleaned: dec("0"), Earnings: dec("0")},
		{ID: 3, EmployeeName: "Meena", KgsCleaned: dec("2.25"), Earnings: dec("6.75")},
	}

	summary := BuildDailySummary("2024-06-03", rows)
	assert.Equal(t, "2024-06-03", summary.Date)
	assert.Len(t, summary.Entries, 3)
	assert.True(t, summary.TotalKgs.Equal(dec("3.75")))
	assert.True(t, summary.TotalEarnings.Equal(dec("11.25")))
}

func TestBuildWeeklySummary(t *testing.T) {
	dates, err := WeekDates("2024-06-02")
	require.NoError(t, err)

	employees := []models.Employee{{ID: 2, Name: "Asha"}, {ID: 1, Name: "Ravi"}}
	entries := []models.DailyWork{
		{EmployeeID: 2, Date: "2024-06-02", KgsCleaned: dec("3"), Earnings: dec("9")},
		{EmployeeID: 2, Date: "2024-06-04", KgsCleaned: dec("1.5"), Earnings: dec("4.5")},
		{EmployeeID: 1, Date: "2024-06-04", KgsCleaned: dec("2"), Earnings: dec("6")},
		{EmployeeID: 9, Date: "2024-06-04", KgsCleaned: dec("100"), Earnings: dec("300")},
		{EmployeeID: 1, Date: "2024-06-10", KgsCleaned: dec("100"), Earnings: dec("300")},
	}

	t.Run("summary", func(t *testing.T) {
		s := BuildWeeklySummary(dates, employees, entries, false)
		assert.Equal(t, "2024-06-02", s.WeekStart)
		assert.Equal(t, "2024-06-08", s.WeekEnd)
		require.Len(t, s.Employees, 2)
		assert.Equal(t, uint(2), s.Employees[0].EmployeeID)
		assert.True(t, s.Employees[0].TotalKgs.Equal(dec("4.5")))
		assert.True(t, s.Employees[1].TotalEarnings.Equal(dec("6")))
		assert.Nil(t, s.Employees[0].Days)
		assert.True(t, s.Totals.TotalKgs.Equal(dec("6.5")))
		assert.True(t, s.Totals.TotalEarnings.Equal(dec("19.5")))
		assert.Nil(t, s.Totals.Days)
	})

	t.Run("detailed", func(t *testing.T) {
		s := BuildWeeklySummary(dates, employees, entries, true)
		for _, e := range s.Employees {
			assert.Len(t, e.Days, DaysPerWeek)
		}
		assert.True(t, s.Employees[0].Days["2024-06-04"].Earnings.Equal(dec("4.5")))
		assert.True(t, s.Employees[1].Days["2024-06-02"].Kgs.IsZero())
		assert.True(t, s.Totals.Days["2024-06-04"].Kgs.Equal(dec("3.5")))
		assert.True(t, s.Totals.Days["2024-06-02"].Earnings.Equal(dec("9")))
	})

	t.Run("no employees", func(t *testing.T) {
		s := BuildWeeklySummary(dates, nil, entries, true)
		assert.Empty(t, s.Employees)
		assert.True(t, s.Totals.TotalKgs.IsZero())
		assert.Len(t, s.Totals.Days, DaysPerWeek)
	})
}
