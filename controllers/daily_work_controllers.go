package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/raisin-tracker/config"
	"github.com/yeremiapane/raisin-tracker/live"
	"github.com/yeremiapane/raisin-tracker/models"
	"github.com/yeremiapane/raisin-tracker/services"
	"github.com/yeremiapane/raisin-tracker/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DailyWorkController struct {
	DB      *gorm.DB
	Reports *services.ReportService
	Hub     *live.Hub
	Config  *config.Config
}

func NewDailyWorkController(db *gorm.DB, reports *services.ReportService, hub *live.Hub, cfg *config.Config) *DailyWorkController {
	return &DailyWorkController{DB: db, Reports: reports, Hub: hub, Config: cfg}
}

type dailyWorkUpdated struct {
	ID         uint            `json:"id"`
	KgsCleaned decimal.Decimal `json:"kgs_cleaned"`
	Earnings   decimal.Decimal `json:"earnings"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type dailyWorkDeleted struct {
	ID        uint      `json:"id"`
	DeletedAt time.Time `json:"deleted_at"`
}

// GetDailyWork -> entries of ?date (default today), ordered by employee name
func (dwc *DailyWorkController) GetDailyWork(c *gin.Context) {
	date, ok := dateQuery(c, "date", dwc.Reports.Calendar.Today())
	if !ok {
		return
	}

	rows, err := dwc.Reports.ListDailyWork(c.Request.Context(), date)
	if err != nil {
		utils.RespondInternal(c, "Failed to fetch daily work", err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, rows)
}

// CreateDailyWork -> records one employee's work for one date. A second
// entry for the same employee and date is rejected by the store.
func (dwc *DailyWorkController) CreateDailyWork(c *gin.Context) {
	req := createDailyWorkRequest{pricing: dwc.pricingPolicy()}
	if err := bindRequest(c, &req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	kgs, earnings := dwc.amounts(req.KgsCleaned.Decimal, req.Earnings.value())
	entry := models.DailyWork{
		EmployeeID: req.EmployeeID,
		Date:       req.Date,
		KgsCleaned: kgs,
		Earnings:   earnings,
	}
	if err := dwc.DB.WithContext(c.Request.Context()).Omit(clause.Associations).Create(&entry).Error; err != nil {
		utils.RespondInternal(c, "Failed to create daily work entry", err)
		return
	}

	dwc.Hub.Broadcast(live.EventDailyWorkCreated, entry)

	utils.InfoLogger.WithFields(logrus.Fields{
		"entry_id":    entry.ID,
		"employee_id": entry.EmployeeID,
		"date":        entry.Date,
	}).Info("daily work created")
	utils.RespondJSON(c, http.StatusOK, entry)
}

// UpdateDailyWork -> replaces quantity and earnings of an entry by ID
func (dwc *DailyWorkController) UpdateDailyWork(c *gin.Context) {
	req := updateDailyWorkRequest{pricing: dwc.pricingPolicy()}
	if err := bindRequest(c, &req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	kgs, earnings := dwc.amounts(req.KgsCleaned.Decimal, req.Earnings.value())
	result := dwc.DB.WithContext(c.Request.Context()).
		Model(&models.DailyWork{}).
		Where("id = ?", req.ID).
		Updates(map[string]interface{}{
			"kgs_cleaned": kgs,
			"earnings":    earnings,
		})
	if result.Error != nil {
		utils.RespondInternal(c, "Failed to update daily work entry", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, ErrEntryNotFound)
		return
	}

	updated := dailyWorkUpdated{
		ID:         req.ID,
		KgsCleaned: kgs,
		Earnings:   earnings,
		UpdatedAt:  dwc.Reports.Calendar.Current(),
	}
	dwc.Hub.Broadcast(live.EventDailyWorkUpdated, updated)

	utils.InfoLogger.WithField("entry_id", req.ID).Info("daily work updated")
	utils.RespondJSON(c, http.StatusOK, updated)
}

// DeleteDailyWork -> physically removes an entry by ID
func (dwc *DailyWorkController) DeleteDailyWork(c *gin.Context) {
	var req deleteDailyWorkRequest
	if err := bindRequest(c, &req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	result := dwc.DB.WithContext(c.Request.Context()).Delete(&models.DailyWork{}, req.ID)
	if result.Error != nil {
		utils.RespondInternal(c, "Failed to delete daily work entry", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, ErrEntryNotFound)
		return
	}

	deleted := dailyWorkDeleted{ID: req.ID, DeletedAt: dwc.Reports.Calendar.Current()}
	dwc.Hub.Broadcast(live.EventDailyWorkDeleted, deleted)

	utils.InfoLogger.WithField("entry_id", req.ID).Info("daily work deleted")
	utils.RespondJSON(c, http.StatusOK, deleted)
}

func (dwc *DailyWorkController) pricingPolicy() pricing {
	return pricing{computeEarnings: dwc.Config.ComputeEarnings, ratePerKg: dwc.Config.RatePerKg}
}

// amounts rounds to the stored precision. With ComputeEarnings set, earnings
// are derived from the rate and any supplied value is ignored.
func (dwc *DailyWorkController) amounts(kgs decimal.Decimal, earnings *decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	kgs = kgs.Round(2)
	if dwc.Config.ComputeEarnings || earnings == nil {
		return kgs, kgs.Mul(dwc.Config.RatePerKg).Round(2)
	}
	return kgs, earnings.Round(2)
}

// dateQuery reads a YYYY-MM-DD query parameter, falling back to def when
// absent. On a malformed value it writes a 400 and returns false.
func dateQuery(c *gin.Context, name, def string) (string, bool) {
	value := c.Query(name)
	if value == "" {
		return def, true
	}
	if _, err := services.ParseDate(value); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.FieldErrors{name: "must be a date in YYYY-MM-DD format"})
		return "", false
	}
	return value, true
}
