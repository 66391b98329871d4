// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"advisoriq/internal/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var stockSymbolRegex = regexp.MustCompile(`^[A-Za-z0-9.\-]{1,12}$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("rec_action", validateAction)
		_ = v.RegisterValidation("rec_status", validateStatus)
		_ = v.RegisterValidation("specialization", validateSpecialization)
		_ = v.RegisterValidation("timeframe", validateTimeframe)
		_ = v.RegisterValidation("user_role", validateRole)
		_ = v.RegisterValidation("stock_symbol", validateStockSymbol)
	}
}

func validateAction(fl validator.FieldLevel) bool {
	return models.RecommendationAction(fl.Field().String()).Valid()
}

func validateStatus(fl validator.FieldLevel) bool {
	return models.RecommendationStatus(fl.Field().String()).Valid()
}

func validateSpecialization(fl validator.FieldLevel) bool {
	return models.Specialization(fl.Field().String()).Valid()
}

func validateTimeframe(fl validator.FieldLevel) bool {
	return models.ValidTimeframe(int(fl.Field().Int()))
}

func validateRole(fl validator.FieldLevel) bool {
	return models.UserRole(fl.Field().String()).Valid()
}

func validateStockSymbol(fl validator.FieldLevel) bool {
	return stockSymbolRegex.MatchString(fl.Field().String())
}
