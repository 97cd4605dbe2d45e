package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/raisin-tracker/live"
	"github.com/yeremiapane/raisin-tracker/models"
	"github.com/yeremiapane/raisin-tracker/services"
	"github.com/yeremiapane/raisin-tracker/utils"
	"gorm.io/gorm"
)

type EmployeeController struct {
	DB      *gorm.DB
	Reports *services.ReportService
	Hub     *live.Hub
}

func NewEmployeeController(db *gorm.DB, reports *services.ReportService, hub *live.Hub) *EmployeeController {
	return &EmployeeController{DB: db, Reports: reports, Hub: hub}
}

// GetAllEmployees -> all employees ordered by name
func (ec *EmployeeController) GetAllEmployees(c *gin.Context) {
	employees, err := ec.Reports.ListEmployees(c.Request.Context())
	if err != nil {
		utils.RespondInternal(c, "Failed to fetch employees", err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, employees)
}

// CreateEmployee -> adds an employee. Names need not be unique.
func (ec *EmployeeController) CreateEmployee(c *gin.Context) {
	var req createEmployeeRequest
	if err := bindRequest(c, &req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	employee := models.Employee{Name: req.Name}
	if err := ec.DB.WithContext(c.Request.Context()).Create(&employee).Error; err != nil {
		utils.RespondInternal(c, "Failed to create employee", err)
		return
	}

	ec.Hub.Broadcast(live.EventEmployeeCreated, employee)

	utils.InfoLogger.WithFields(logrus.Fields{
		"employee_id": employee.ID,
		"name":        employee.Name,
	}).Info("employee created")
	utils.RespondJSON(c, http.StatusOK, employee)
}
