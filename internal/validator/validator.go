// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"
	"time"

	"budgetwise/internal/analytics"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn registers the custom validators on v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("hex_color", validateHexColor)
	_ = v.RegisterValidation("transaction_type", validateTransactionType)
	_ = v.RegisterValidation("budget_period", validateBudgetPeriod)
	_ = v.RegisterValidation("budget_status", validateBudgetStatus)
	_ = v.RegisterValidation("money", validateMoney)
	_ = v.RegisterValidation("flexdate", validateFlexDate)
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch analytics.Kind(fl.Field().String()) {
	case analytics.Income, analytics.Expense:
		return true
	}
	return false
}

func validateBudgetPeriod(fl validator.FieldLevel) bool {
	return analytics.Period(fl.Field().String()).IsValid()
}

func validateBudgetStatus(fl validator.FieldLevel) bool {
	return analytics.Status(fl.Field().String()).IsValid()
}

// validateMoney accepts strictly positive cent amounts. Precision is
// enforced when the amount is decoded.
func validateMoney(fl validator.FieldLevel) bool {
	return fl.Field().CanInt() && fl.Field().Int() > 0
}

// validateFlexDate accepts YYYY-MM-DD or RFC3339 strings.
func validateFlexDate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if _, err := time.Parse(time.DateOnly, s); err == nil {
		return true
	}
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}
