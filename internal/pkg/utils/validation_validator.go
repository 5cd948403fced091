package utils

import (
	"medblock-service/internal/pkg/constvars"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var (
	reSpecialChar = regexp.MustCompile(constvars.RegexContainAtLeastOneSpecialChar)
	reUppercase   = regexp.MustCompile(constvars.RegexContainAtLeastOneUppercase)
	reDigit       = regexp.MustCompile(constvars.RegexContainAtLeastOneDigit)
	reNationalID  = regexp.MustCompile(constvars.RegexNationalID)
)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	validate.RegisterValidation("password", validatePassword)
	validate.RegisterValidation("phone_number", validatePhoneNumber)
	validate.RegisterValidation("national_id", validateNationalID)
	validate.RegisterValidation("role", validateRole)
	validate.RegisterValidation("register_role", validateRegisterRole)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validatePassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	hasMinLen := len(password) >= 8
	return hasMinLen && reSpecialChar.MatchString(password) && reUppercase.MatchString(password) && reDigit.MatchString(password)
}

func validatePhoneNumber(fl validator.FieldLevel) bool {
	return IsValidPhoneNumber(fl.Field().String())
}

func validateNationalID(fl validator.FieldLevel) bool {
	return reNationalID.MatchString(fl.Field().String())
}

func validateRole(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case constvars.RoleAdmin, constvars.RoleDoctor, constvars.RoleNurse, constvars.RoleFrontDesk:
		return true
	}
	return false
}

// Admins are only created through seed-admin or a role change.
func validateRegisterRole(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case constvars.RoleDoctor, constvars.RoleNurse, constvars.RoleFrontDesk:
		return true
	}
	return false
}
