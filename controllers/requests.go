package controllers

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/raisin-tracker/services"
	"github.com/yeremiapane/raisin-tracker/utils"
)

// validatable requests check what binding tags cannot express. Validate must
// tolerate zero values, since missing fields are reported by binding.
type validatable interface {
	Validate() utils.FieldErrors
}

// bindRequest decodes the JSON body into req and reports every invalid
// field together.
func bindRequest(c *gin.Context, req validatable) error {
	fe := utils.FieldErrors{}
	if err := c.ShouldBindJSON(req); err != nil {
		bindErr := utils.BindingError(err)
		var bindFields utils.FieldErrors
		if !errors.As(bindErr, &bindFields) {
			return bindErr
		}
		for field, msg := range bindFields {
			fe.Add(field, msg)
		}
	}
	for field, msg := range req.Validate() {
		fe.Add(field, msg)
	}
	return fe.OrNil()
}

type createEmployeeRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

func (r *createEmployeeRequest) Validate() utils.FieldErrors {
	fe := utils.FieldErrors{}
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		fe.Add("name", "must not be blank")
	}
	return fe
}

// maxAmount bounds kgs_cleaned and earnings to what DECIMAL(10,2) can hold.
var maxAmount = decimal.NewFromInt(100000000)

// amount is a decimal that reports a malformed value as a type error, so the
// decoder can attach the JSON field name to it.
type amount struct {
	decimal.Decimal
}

func (a *amount) UnmarshalJSON(b []byte) error {
	if err := a.Decimal.UnmarshalJSON(b); err != nil {
		return &json.UnmarshalTypeError{Value: string(b), Type: reflect.TypeOf(decimal.Decimal{})}
	}
	return nil
}

func (a *amount) value() *decimal.Decimal {
	if a == nil {
		return nil
	}
	return &a.Decimal
}

// Zero quantities and earnings are valid; only absent or null fields count
// as missing.
type createDailyWorkRequest struct {
	EmployeeID uint    `json:"employee_id" binding:"required"`
	Date       string  `json:"date" binding:"required"`
	KgsCleaned *amount `json:"kgs_cleaned" binding:"required"`
	Earnings   *amount `json:"earnings"`

	pricing pricing
}

func (r *createDailyWorkRequest) Validate() utils.FieldErrors {
	fe := utils.FieldErrors{}
	if r.Date != "" {
		if _, err := services.ParseDate(r.Date); err != nil {
			fe.Add("date", "must be a date in YYYY-MM-DD format")
		}
	}
	r.pricing.validateAmounts(fe, r.KgsCleaned.value(), r.Earnings.value())
	return fe
}

type updateDailyWorkRequest struct {
	ID         uint    `json:"id" binding:"required"`
	KgsCleaned *amount `json:"kgs_cleaned" binding:"required"`
	Earnings   *amount `json:"earnings"`

	pricing pricing
}

func (r *updateDailyWorkRequest) Validate() utils.FieldErrors {
	fe := utils.FieldErrors{}
	r.pricing.validateAmounts(fe, r.KgsCleaned.value(), r.Earnings.value())
	return fe
}

type deleteDailyWorkRequest struct {
	ID uint `json:"id" binding:"required"`
}

func (r *deleteDailyWorkRequest) Validate() utils.FieldErrors {
	return nil
}

// pricing says whether the server derives earnings, and at which rate.
type pricing struct {
	computeEarnings bool
	ratePerKg       decimal.Decimal
}

func (p pricing) validateAmounts(fe utils.FieldErrors, kgs, earnings *decimal.Decimal) {
	if kgs != nil {
		checkAmount(fe, "kgs_cleaned", *kgs)
	}
	if p.computeEarnings {
		if kgs != nil && !kgs.IsNegative() && kgs.Round(2).Mul(p.ratePerKg).Round(2).GreaterThanOrEqual(maxAmount) {
			fe.Add("earnings", "computed from kgs_cleaned must be less than "+maxAmount.String())
		}
		return
	}
	if earnings == nil {
		fe.Add("earnings", "is required")
		return
	}
	checkAmount(fe, "earnings", *earnings)
}

// checkAmount compares after rounding to cents, the precision that is stored.
func checkAmount(fe utils.FieldErrors, field string, d decimal.Decimal) {
	switch {
	case d.IsNegative():
		fe.Add(field, "must not be negative")
	case d.Round(2).GreaterThanOrEqual(maxAmount):
		fe.Add(field, "must be less than "+maxAmount.String())
	}
}
