package requests

type RegisterUser struct {
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,password"`
	FirstName      string `json:"firstName" validate:"required,max=60"`
	LastName       string `json:"lastName" validate:"required,max=60"`
	PhoneNumber    string `json:"phoneNumber" validate:"required,phone_number"`
	NationalID     string `json:"nationalId" validate:"omitempty,national_id"`
	Role           string `json:"role" validate:"required,register_role"`
	Specialization string `json:"specialization" validate:"omitempty,max=80"`
}

type LoginUser struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
