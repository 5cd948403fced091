package requests

type Address struct {
	County string `json:"county" validate:"omitempty,max=60"`
	City   string `json:"city" validate:"omitempty,max=60"`
	Ward   string `json:"ward" validate:"omitempty,max=60"`
	Street string `json:"street" validate:"omitempty,max=120"`
}

type EmergencyContact struct {
	Name         string `json:"name" validate:"required,max=120"`
	Relationship string `json:"relationship" validate:"required,max=40"`
	PhoneNumber  string `json:"phoneNumber" validate:"required,phone_number"`
}

type CreatePatient struct {
	FirstName        string            `json:"firstName" validate:"required,max=60"`
	LastName         string            `json:"lastName" validate:"required,max=60"`
	DateOfBirth      string            `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
	Gender           string            `json:"gender" validate:"required,oneof=male female other"`
	PhoneNumber      string            `json:"phoneNumber" validate:"omitempty,phone_number"`
	Email            string            `json:"email" validate:"omitempty,email"`
	NationalID       string            `json:"nationalId" validate:"omitempty,national_id"`
	BloodType        string            `json:"bloodType" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	HeightCm         float64           `json:"heightCm" validate:"omitempty,gt=0,lt=300"`
	WeightKg         float64           `json:"weightKg" validate:"omitempty,gt=0,lt=700"`
	Allergies        []string          `json:"allergies" validate:"omitempty,dive,required,max=80"`
	Address          *Address          `json:"address" validate:"omitempty"`
	EmergencyContact *EmergencyContact `json:"emergencyContact" validate:"omitempty"`
	DepartmentID     string            `json:"departmentId" validate:"required,max=64"`
	FacilityID       string            `json:"facilityId" validate:"omitempty,max=64"`
}

// UpdatePatient is a partial update; nil fields are left untouched.
type UpdatePatient struct {
	FirstName        *string           `json:"firstName" validate:"omitempty,min=1,max=60"`
	LastName         *string           `json:"lastName" validate:"omitempty,min=1,max=60"`
	DateOfBirth      *string           `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	Gender           *string           `json:"gender" validate:"omitempty,oneof=male female other"`
	PhoneNumber      *string           `json:"phoneNumber" validate:"omitempty,phone_number"`
	Email            *string           `json:"email" validate:"omitempty,email"`
	NationalID       *string           `json:"nationalId" validate:"omitempty,national_id"`
	BloodType        *string           `json:"bloodType" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	HeightCm         *float64          `json:"heightCm" validate:"omitempty,gt=0,lt=300"`
	WeightKg         *float64          `json:"weightKg" validate:"omitempty,gt=0,lt=700"`
	Allergies        []string          `json:"allergies" validate:"omitempty,dive,required,max=80"`
	Address          *Address          `json:"address" validate:"omitempty"`
	EmergencyContact *EmergencyContact `json:"emergencyContact" validate:"omitempty"`
	DepartmentID     *string           `json:"departmentId" validate:"omitempty,min=1,max=64"`
	FacilityID       *string           `json:"facilityId" validate:"omitempty,max=64"`
}
