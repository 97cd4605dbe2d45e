package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is how calendar days are stored and exchanged.
const DateLayout = "2006-01-02"

func init() {
	// Amounts go over the wire as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// DailyWork is one employee's cleaned quantity and earnings for one day.
// (employee_id, date) is unique.
type DailyWork struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	EmployeeID uint            `gorm:"not null;uniqueIndex:idx_daily_work_employee_date,priority:1" json:"employee_id"`
	Employee   Employee        `gorm:"foreignKey:EmployeeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Date       string          `gorm:"type:varchar(10);not null;uniqueIndex:idx_daily_work_employee_date,priority:2;index:idx_daily_work_date" json:"date"`
	KgsCleaned decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"kgs_cleaned"`
	Earnings   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"earnings"`
	CreatedAt  time.Time       `gorm:"not null" json:"created_at"`
}

func (DailyWork) TableName() string {
	return "daily_work"
}

// DailyWorkRow is a ledger entry joined with its employee's name.
type DailyWorkRow struct {
	ID           uint            `json:"id"`
	EmployeeID   uint            `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	Date         string          `json:"date"`
	KgsCleaned   decimal.Decimal `json:"kgs_cleaned"`
	Earnings     decimal.Decimal `json:"earnings"`
	CreatedAt    time.Time       `json:"created_at"`
}
