// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"finbot/internal/models"
	"finbot/internal/report"
)

// MaxMessageLength bounds chat messages accepted for parsing.
const MaxMessageLength = 500

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn registers the custom validators on v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("transaction_type", validateTransactionType)
	_ = v.RegisterValidation("report_period", validateReportPeriod)
	_ = v.RegisterValidation("message_text", validateMessageText)
}

func validateTransactionType(fl validator.FieldLevel) bool {
	return models.TransactionType(fl.Field().String()).Valid()
}

func validateReportPeriod(fl validator.FieldLevel) bool {
	_, err := report.ParsePeriod(fl.Field().String())
	return err == nil
}

func validateMessageText(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return strings.TrimSpace(s) != "" && utf8.RuneCountInString(s) <= MaxMessageLength
}
