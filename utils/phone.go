package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
)

const DefaultPhoneRegion = "IN"

// ValidPhone reports whether phone is a valid number, reading numbers without
// a leading + as local to region.
func ValidPhone(phone, region string) bool {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return false
	}
	if region == "" {
		region = DefaultPhoneRegion
	}

	parsed, err := phonenumbers.Parse(phone, strings.ToUpper(region))
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(parsed)
}

// NewValidator returns a validator with the "phone" tag registered.
func NewValidator(region string) *validator.Validate {
	validate := validator.New()
	_ = validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return ValidPhone(fl.Field().String(), region)
	})
	return validate
}
