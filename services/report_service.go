package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/raisin-tracker/models"
	"gorm.io/gorm"
)

// ReportService computes read-only views over the ledger. Nothing is
// cached; each call queries the store.
type ReportService struct {
	DB       *gorm.DB
	Calendar Calendar
}

func NewReportService(db *gorm.DB, cal Calendar) *ReportService {
	return &ReportService{DB: db, Calendar: cal}
}

type WeeklyTotals struct {
	TotalKgs      decimal.Decimal `json:"totalKgs"`
	TotalEarnings decimal.Decimal `json:"totalEarnings"`
}

type DashboardStats struct {
	TotalEmployees     int64           `json:"totalEmployees"`
	TotalKgsToday      decimal.Decimal `json:"totalKgsToday"`
	TotalEarningsToday decimal.Decimal `json:"totalEarningsToday"`
	WeeklyStats        WeeklyTotals    `json:"weeklyStats"`
}

type DailySummary struct {
	Date          string                `json:"date"`
	Entries       []models.DailyWorkRow `json:"entries"`
	TotalKgs      decimal.Decimal       `json:"total_kgs"`
	TotalEarnings decimal.Decimal       `json:"total_earnings"`
}

type DayTotals struct {
	Kgs      decimal.Decimal `json:"kgs"`
	Earnings decimal.Decimal `json:"earnings"`
}

type EmployeeWeek struct {
	EmployeeID    uint                 `json:"employee_id"`
	Name          string               `json:"name"`
	TotalKgs      decimal.Decimal      `json:"total_kgs"`
	TotalEarnings decimal.Decimal      `json:"total_earnings"`
	Days          map[string]DayTotals `json:"days,omitempty"`
}

type WeekTotals struct {
	TotalKgs      decimal.Decimal      `json:"total_kgs"`
	TotalEarnings decimal.Decimal      `json:"total_earnings"`
	Days          map[string]DayTotals `json:"days,omitempty"`
}

type WeeklySummary struct {
	WeekStart string         `json:"week_start"`
	WeekEnd   string         `json:"week_end"`
	Dates     []string       `json:"dates"`
	Detailed  bool           `json:"detailed"`
	Employees []EmployeeWeek `json:"employees"`
	Totals    WeekTotals     `json:"totals"`
}

type sums struct {
	Kgs      decimal.Decimal
	Earnings decimal.Decimal
}

// ListEmployees returns every employee ordered by name.
func (s *ReportService) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	employees := []models.Employee{}
	if err := s.DB.WithContext(ctx).Order("name ASC, id ASC").Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

// ListDailyWork returns the entries recorded on date joined with employee
// names, ordered by name. An empty slice is returned when nothing exists.
func (s *ReportService) ListDailyWork(ctx context.Context, date string) ([]models.DailyWorkRow, error) {
	var rows []models.DailyWorkRow
	err := s.DB.WithContext(ctx).
		Table("daily_work AS dw").
		Select("dw.id, dw.employee_id, e.name AS employee_name, dw.date, dw.kgs_cleaned, dw.earnings, dw.created_at").
		Joins("JOIN employees e ON e.id = dw.employee_id").
		Where("dw.date = ?", date).
		Order("e.name ASC, dw.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.DailyWorkRow{}
	}
	return rows, nil
}

// DashboardStats sums today's entries and the entries from the start of the
// current (Sunday-first) week through today, both bounds inclusive.
func (s *ReportService) DashboardStats(ctx context.Context) (DashboardStats, error) {
	var stats DashboardStats
	db := s.DB.WithContext(ctx)
	today := s.Calendar.Today()
	weekStart := s.Calendar.CurrentWeekStart()

	if err := db.Model(&models.Employee{}).Count(&stats.TotalEmployees).Error; err != nil {
		return stats, fmt.Errorf("count employees: %w", err)
	}

	todaySums, err := s.sumBetween(ctx, today, today)
	if err != nil {
		return stats, fmt.Errorf("sum today: %w", err)
	}
	weekSums, err := s.sumBetween(ctx, weekStart, today)
	if err != nil {
		return stats, fmt.Errorf("sum week: %w", err)
	}

	stats.TotalKgsToday = todaySums.Kgs
	stats.TotalEarningsToday = todaySums.Earnings
	stats.WeeklyStats = WeeklyTotals{TotalKgs: weekSums.Kgs, TotalEarnings: weekSums.Earnings}
	return stats, nil
}

func (s *ReportService) sumBetween(ctx context.Context, from, to string) (sums, error) {
	var out sums
	err := s.DB.WithContext(ctx).
		Model(&models.DailyWork{}).
		Select("COALESCE(SUM(kgs_cleaned), 0) AS kgs, COALESCE(SUM(earnings), 0) AS earnings").
		Where("date >= ? AND date <= ?", from, to).
		Scan(&out).Error
	out.Kgs = out.Kgs.Round(2)
	out.Earnings = out.Earnings.Round(2)
	return out, err
}

// DailySummary lists one date's entries with their totals.
func (s *ReportService) DailySummary(ctx context.Context, date string) (DailySummary, error) {
	rows, err := s.ListDailyWork(ctx, date)
	if err != nil {
		return DailySummary{}, err
	}
	return BuildDailySummary(date, rows), nil
}

// WeeklySummary totals each employee's entries over the seven days starting
// at weekStart. All entries for the week are read with a single ranged query.
func (s *ReportService) WeeklySummary(ctx context.Context, weekStart string, detailed bool) (WeeklySummary, error) {
	dates, err := WeekDates(weekStart)
	if err != nil {
		return WeeklySummary{}, err
	}

	employees, err := s.ListEmployees(ctx)
	if err != nil {
		return WeeklySummary{}, fmt.Errorf("list employees: %w", err)
	}

	var entries []models.DailyWork
	if err := s.DB.WithContext(ctx).
		Where("date >= ? AND date <= ?", dates[0], dates[len(dates)-1]).
		Order("date ASC, id ASC").
		Find(&entries).Error; err != nil {
		return WeeklySummary{}, fmt.Errorf("list week entries: %w", err)
	}

	return BuildWeeklySummary(dates, employees, entries, detailed), nil
}

// BuildDailySummary folds rows into totals.
func BuildDailySummary(date string, rows []models.DailyWorkRow) DailySummary {
	summary := DailySummary{Date: date, Entries: rows}
	for _, r := range rows {
		summary.TotalKgs = summary.TotalKgs.Add(r.KgsCleaned)
		summary.TotalEarnings = summary.TotalEarnings.Add(r.Earnings)
	}
	return summary
}

// BuildWeeklySummary produces one row per employee, in the order given,
// plus a totals row. Entries outside dates or for unknown employees are
// ignored. With detailed set, every row carries all dates, zero-filled.
func BuildWeeklySummary(dates []string, employees []models.Employee, entries []models.DailyWork, detailed bool) WeeklySummary {
	summary := WeeklySummary{
		Dates:     dates,
		Detailed:  detailed,
		Employees: make([]EmployeeWeek, len(employees)),
	}
	if len(dates) > 0 {
		summary.WeekStart = dates[0]
		summary.WeekEnd = dates[len(dates)-1]
	}

	inWeek := make(map[string]bool, len(dates))
	for _, d := range dates {
		inWeek[d] = true
	}

	byID := make(map[uint]*EmployeeWeek, len(employees))
	for i, e := range employees {
		summary.Employees[i] = EmployeeWeek{EmployeeID: e.ID, Name: e.Name}
		if detailed {
			summary.Employees[i].Days = zeroDays(dates)
		}
		byID[e.ID] = &summary.Employees[i]
	}
	if detailed {
		summary.Totals.Days = zeroDays(dates)
	}

	for _, entry := range entries {
		row, ok := byID[entry.EmployeeID]
		if !ok || !inWeek[entry.Date] {
			continue
		}
		row.TotalKgs = row.TotalKgs.Add(entry.KgsCleaned)
		row.TotalEarnings = row.TotalEarnings.Add(entry.Earnings)
		summary.Totals.TotalKgs = summary.Totals.TotalKgs.Add(entry.KgsCleaned)
		summary.Totals.TotalEarnings = summary.Totals.TotalEarnings.Add(entry.Earnings)

		if detailed {
			row.Days[entry.Date] = addDay(row.Days[entry.Date], entry)
			summary.Totals.Days[entry.Date] = addDay(summary.Totals.Days[entry.Date], entry)
		}
	}

	return summary
}

func zeroDays(dates []string) map[string]DayTotals {
	days := make(map[string]DayTotals, len(dates))
	for _, d := range dates {
		days[d] = DayTotals{}
	}
	return days
}

func addDay(t DayTotals, entry models.DailyWork) DayTotals {
	return DayTotals{
		Kgs:      t.Kgs.Add(entry.KgsCleaned),
		Earnings: t.Earnings.Add(entry.Earnings),
	}
}
