package constvars

const (
	RegisterSuccessMessage = "account registered successfully"
	LoginSuccessMessage    = "successfully login"
	LogoutSuccessMessage   = "successfully logout"

	GetProfileSuccessMessage     = "get profile successfully"
	GetUsersSuccessMessage       = "get users successfully"
	GetUserSuccessMessage        = "get user successfully"
	UpdateUserSuccessMessage     = "user updated successfully"
	ChangeRoleSuccessMessage     = "user role changed successfully"
	DeactivateSuccessMessage     = "user deactivated successfully"
	ActivateSuccessMessage       = "user activated successfully"
	DeleteUserSuccessMessage     = "user deleted successfully"
	SubmitVerificationMessage    = "verification submitted successfully"
	ReviewVerificationMessage    = "verification reviewed successfully"
	GetVerificationsMessage      = "get pending verifications successfully"
	GetPatientsSuccessMessage    = "get patients successfully"
	GetPatientSuccessMessage     = "get patient successfully"
	CreatePatientSuccessMessage  = "patient created successfully"
	UpdatePatientSuccessMessage  = "patient updated successfully"
	DeletePatientSuccessMessage  = "patient deleted successfully"
	RestorePatientSuccessMessage = "patient restored successfully"
)
