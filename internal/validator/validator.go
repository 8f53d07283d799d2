// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("month", validateMonth)
		_ = v.RegisterValidation("category_kind", validateCategoryKind)
		_ = v.RegisterValidation("recurrence", validateRecurrence)
		_ = v.RegisterValidation("payment_status", validatePaymentStatus)
		_ = v.RegisterValidation("account_kind", validateAccountKind)
		_ = v.RegisterValidation("card_brand", validateCardBrand)
	}
}

// validateMonth accepts "YYYY-MM" strings.
func validateMonth(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01", fl.Field().String())
	return err == nil
}

func validateCategoryKind(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense":
		return true
	}
	return false
}

func validateRecurrence(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "one_off", "recurring":
		return true
	}
	return false
}

func validatePaymentStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "pending", "paid", "overdue":
		return true
	}
	return false
}

func validateAccountKind(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "checking", "savings", "cash":
		return true
	}
	return false
}

func validateCardBrand(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "visa", "mastercard", "elo", "amex", "hipercard":
		return true
	}
	return false
}
