package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/raisin-tracker/config"
	"github.com/yeremiapane/raisin-tracker/services"
	"github.com/yeremiapane/raisin-tracker/utils"
)

type ReportController struct {
	Reports *services.ReportService
	Config  *config.Config
}

func NewReportController(reports *services.ReportService, cfg *config.Config) *ReportController {
	return &ReportController{Reports: reports, Config: cfg}
}

// GetDashboardStats -> employee count plus today's and this week's totals
func (rc *ReportController) GetDashboardStats(c *gin.Context) {
	stats, err := rc.Reports.DashboardStats(c.Request.Context())
	if err != nil {
		utils.RespondInternal(c, "Failed to fetch dashboard stats", err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, stats)
}

// GetDailySummary -> entries and totals of ?date (default today)
func (rc *ReportController) GetDailySummary(c *gin.Context) {
	date, ok := dateQuery(c, "date", rc.Reports.Calendar.Today())
	if !ok {
		return
	}

	summary, err := rc.Reports.DailySummary(c.Request.Context(), date)
	if err != nil {
		utils.RespondInternal(c, "Failed to fetch daily summary", err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, summary)
}

// GetWeeklySummary -> per-employee totals for the 7 days from ?week_start
func (rc *ReportController) GetWeeklySummary(c *gin.Context) {
	summary, ok := rc.weeklySummary(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, summary)
}

// ExportWeeklySummary -> the weekly summary as an xlsx or pdf download
func (rc *ReportController) ExportWeeklySummary(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", services.ExportXLSX))
	contentType, ok := services.ExportContentType(format)
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, utils.FieldErrors{"format": "must be xlsx or pdf"})
		return
	}

	summary, ok := rc.weeklySummary(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	var err error
	switch format {
	case services.ExportPDF:
		err = services.WriteWeeklyPDF(&buf, summary, rc.Config.PDFFontPath)
	default:
		err = services.WriteWeeklyXLSX(&buf, summary, rc.Config.CurrencySymbol)
	}
	if err != nil {
		utils.RespondInternal(c, "Failed to export weekly summary", err)
		return
	}

	filename := fmt.Sprintf("weekly-summary-%s.%s", summary.WeekStart, format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func (rc *ReportController) weeklySummary(c *gin.Context) (services.WeeklySummary, bool) {
	weekStart, ok := dateQuery(c, "week_start", rc.Reports.Calendar.CurrentWeekStart())
	if !ok {
		return services.WeeklySummary{}, false
	}

	detailed := false
	if raw := c.Query("detailed"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, utils.FieldErrors{"detailed": "must be true or false"})
			return services.WeeklySummary{}, false
		}
		detailed = v
	}

	summary, err := rc.Reports.WeeklySummary(c.Request.Context(), weekStart, detailed)
	if err != nil {
		utils.RespondInternal(c, "Failed to fetch weekly summary", err)
		return services.WeeklySummary{}, false
	}
	return summary, true
}
