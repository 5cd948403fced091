package requests

// UpdateUser carries the profile fields a user may change. Role, status and
// affiliations have their own admin endpoints and are never read from here.
type UpdateUser struct {
	FirstName      *string `json:"firstName" validate:"omitempty,min=1,max=60"`
	LastName       *string `json:"lastName" validate:"omitempty,min=1,max=60"`
	PhoneNumber    *string `json:"phoneNumber" validate:"omitempty,phone_number"`
	Specialization *string `json:"specialization" validate:"omitempty,max=80"`
}

type ChangeRole struct {
	Role                   string   `json:"role" validate:"required,role"`
	DepartmentAffiliations []string `json:"departmentAffiliations" validate:"omitempty,dive,required,max=64"`
	FacilityAffiliations   []string `json:"facilityAffiliations" validate:"omitempty,dive,required,max=64"`
}

type SubmitVerification struct {
	LicenseNumber string `validate:"required,max=64"`
	IssuingBody   string `validate:"required,max=120"`
	Document      []byte
	DocumentName  string
	ContentType   string
}

type ReviewVerification struct {
	Status string `json:"status" validate:"required,oneof=verified rejected"`
	Reason string `json:"reason" validate:"omitempty,max=500"`
}
