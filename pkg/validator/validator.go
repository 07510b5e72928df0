package validator

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = validator.New()

// Indian mobile numbers: ten digits starting 6-9, after stripping formatting.
var indianPhonePattern = regexp.MustCompile(`^[6-9]\d{9}$`)
var nonDigits = regexp.MustCompile(`\D`)

func init() {
	// Register custom validation for UUID
	validate.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		if id, ok := fl.Field().Interface().(uuid.UUID); ok {
			return id != uuid.Nil
		}
		return false
	})

	validate.RegisterValidation("indian_phone", func(fl validator.FieldLevel) bool {
		return IsValidIndianPhone(fl.Field().String())
	})
}

// CleanPhone strips everything but digits.
func CleanPhone(phone string) string {
	return nonDigits.ReplaceAllString(strings.TrimSpace(phone), "")
}

// IsValidIndianPhone validates a 10-digit Indian mobile number.
func IsValidIndianPhone(phone string) bool {
	return indianPhonePattern.MatchString(CleanPhone(phone))
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			var element ErrorResponse
			element.FailedField = err.StructNamespace()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errors = append(errors, &element)
		}
	}
	return errors
}
