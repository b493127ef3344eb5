// internal/utils/validator.go
package utils

import (
	"errors"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/omstudio/studio-ops/internal/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("division", validateDivision)
	validate.RegisterValidation("ip_status", validateIPStatus)
	validate.RegisterValidation("shareholder_type", validateShareholderType)
	validate.RegisterValidation("finite", validateFinite)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateDivision(fl validator.FieldLevel) bool {
	return models.Division(fl.Field().String()).Valid()
}

func validateIPStatus(fl validator.FieldLevel) bool {
	return models.IPStatus(fl.Field().String()).Valid()
}

func validateShareholderType(fl validator.FieldLevel) bool {
	return models.ShareholderType(fl.Field().String()).Valid()
}

func validateFinite(fl validator.FieldLevel) bool {
	f := fl.Field().Float()
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return e.Field() + " must be at least " + e.Param() + " characters"
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	case "division":
		return "Division must be one of CM, PR, GM, AN, MU"
	case "ip_status":
		return "IP status must be work_for_hire or royalty_share"
	case "gte":
		return e.Field() + " must be at least " + e.Param()
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "finite":
		return e.Field() + " must be a finite number"
	case "shareholder_type":
		return "Shareholder type must be founder, investor or employee"
	default:
		return e.Field() + " is invalid"
	}
}
