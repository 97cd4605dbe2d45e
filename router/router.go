package router

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/raisin-tracker/config"
	"github.com/yeremiapane/raisin-tracker/controllers"
	"github.com/yeremiapane/raisin-tracker/live"
	"github.com/yeremiapane/raisin-tracker/middlewares"
	"github.com/yeremiapane/raisin-tracker/services"
	"github.com/yeremiapane/raisin-tracker/utils"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB, cfg *config.Config, hub *live.Hub, cal services.Calendar) *gin.Engine {
	utils.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(cfg.CORSAllowOrigin))
	r.Use(middlewares.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).RateLimit())

	reports := services.NewReportService(db, cal)

	employeeCtrl := controllers.NewEmployeeController(db, reports, hub)
	dailyWorkCtrl := controllers.NewDailyWorkController(db, reports, hub, cfg)
	reportCtrl := controllers.NewReportController(reports, cfg)
	liveCtrl := controllers.NewLiveController(hub, cfg.CORSAllowOrigin)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// EMPLOYEES
	r.GET("/employees", employeeCtrl.GetAllEmployees)
	r.POST("/employees", employeeCtrl.CreateEmployee)

	// DAILY WORK (identity travels in the JSON body)
	r.GET("/daily-work", dailyWorkCtrl.GetDailyWork)
	r.POST("/daily-work", dailyWorkCtrl.CreateDailyWork)
	r.PUT("/daily-work", dailyWorkCtrl.UpdateDailyWork)
	r.DELETE("/daily-work", dailyWorkCtrl.DeleteDailyWork)

	// REPORTS
	r.GET("/dashboard/stats", reportCtrl.GetDashboardStats)
	r.GET("/daily-summary", reportCtrl.GetDailySummary)
	r.GET("/weekly-summary", reportCtrl.GetWeeklySummary)
	r.GET("/weekly-summary/export", reportCtrl.ExportWeeklySummary)

	// LIVE UPDATES
	r.GET("/ws", liveCtrl.Connect)

	return r
}
