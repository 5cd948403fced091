package utils

import (
	"medblock-service/internal/pkg/dto/requests"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName collapses inner whitespace and composes the name to NFC so
// that "José" typed with a combining accent matches the precomposed form.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.Join(strings.Fields(name), " "))
}

func normalizeNamePointer(s *string) {
	if s != nil {
		*s = NormalizeName(*s)
	}
}

func cleanWhiteSpaceFromEachStringOfAnArray(input []string) []string {
	sanitizedArray := make([]string, len(input))
	for i, v := range input {
		sanitizedArray[i] = strings.TrimSpace(v)
	}
	return sanitizedArray
}

func trimPointer(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

func SanitizeRegisterUserRequest(input *requests.RegisterUser) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.FirstName = NormalizeName(input.FirstName)
	input.LastName = NormalizeName(input.LastName)
	input.PhoneNumber = NormalizePhoneNumber(input.PhoneNumber)
	input.NationalID = strings.ToUpper(strings.TrimSpace(input.NationalID))
	input.Role = strings.ToLower(strings.TrimSpace(input.Role))
	input.Specialization = strings.TrimSpace(input.Specialization)
}

func SanitizeLoginUserRequest(input *requests.LoginUser) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
}

func SanitizeUpdateUserRequest(input *requests.UpdateUser) {
	normalizeNamePointer(input.FirstName)
	normalizeNamePointer(input.LastName)
	trimPointer(input.Specialization)
	if input.PhoneNumber != nil {
		*input.PhoneNumber = NormalizePhoneNumber(*input.PhoneNumber)
	}
}

func SanitizeChangeRoleRequest(input *requests.ChangeRole) {
	input.Role = strings.ToLower(strings.TrimSpace(input.Role))
	input.DepartmentAffiliations = cleanWhiteSpaceFromEachStringOfAnArray(input.DepartmentAffiliations)
	input.FacilityAffiliations = cleanWhiteSpaceFromEachStringOfAnArray(input.FacilityAffiliations)
}

func SanitizeCreatePatientRequest(input *requests.CreatePatient) {
	input.FirstName = NormalizeName(input.FirstName)
	input.LastName = NormalizeName(input.LastName)
	input.DateOfBirth = strings.TrimSpace(input.DateOfBirth)
	input.Gender = strings.ToLower(strings.TrimSpace(input.Gender))
	input.PhoneNumber = NormalizePhoneNumber(input.PhoneNumber)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.NationalID = strings.ToUpper(strings.TrimSpace(input.NationalID))
	input.BloodType = strings.ToUpper(strings.TrimSpace(input.BloodType))
	input.DepartmentID = strings.TrimSpace(input.DepartmentID)
	input.FacilityID = strings.TrimSpace(input.FacilityID)
	input.Allergies = cleanWhiteSpaceFromEachStringOfAnArray(input.Allergies)
	if input.EmergencyContact != nil {
		input.EmergencyContact.PhoneNumber = NormalizePhoneNumber(input.EmergencyContact.PhoneNumber)
	}
}

func SanitizeUpdatePatientRequest(input *requests.UpdatePatient) {
	normalizeNamePointer(input.FirstName)
	normalizeNamePointer(input.LastName)
	trimPointer(input.DateOfBirth)
	trimPointer(input.DepartmentID)
	trimPointer(input.FacilityID)
	if input.Gender != nil {
		*input.Gender = strings.ToLower(strings.TrimSpace(*input.Gender))
	}
	if input.PhoneNumber != nil {
		*input.PhoneNumber = NormalizePhoneNumber(*input.PhoneNumber)
	}
	if input.Email != nil {
		*input.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.NationalID != nil {
		*input.NationalID = strings.ToUpper(strings.TrimSpace(*input.NationalID))
	}
	if input.BloodType != nil {
		*input.BloodType = strings.ToUpper(strings.TrimSpace(*input.BloodType))
	}
	if input.Allergies != nil {
		input.Allergies = cleanWhiteSpaceFromEachStringOfAnArray(input.Allergies)
	}
	if input.EmergencyContact != nil {
		input.EmergencyContact.PhoneNumber = NormalizePhoneNumber(input.EmergencyContact.PhoneNumber)
	}
}
