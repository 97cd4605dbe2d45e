package database

import (
	"fmt"

	"github.com/yeremiapane/raisin-tracker/models"
	"github.com/yeremiapane/raisin-tracker/utils"
	"gorm.io/gorm"
)

// Migrate creates or updates the employees and daily_work tables, including
// the (employee_id, date) unique index and the foreign key to employees.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Employee{}, &models.DailyWork{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	for _, idx := range []string{"idx_daily_work_employee_date", "idx_daily_work_date"} {
		if !db.Migrator().HasIndex(&models.DailyWork{}, idx) {
			return fmt.Errorf("index %s missing after migration", idx)
		}
	}

	utils.InfoLogger.Debug("AutoMigrate completed.")
	return nil
}
