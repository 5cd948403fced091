package responses

import "time"

type LoginUser struct {
	Token     string          `json:"token"`
	TokenType string          `json:"tokenType"`
	ExpiresAt time.Time       `json:"expiresAt"`
	User      *AccountSummary `json:"user"`
}

type AccountSummary struct {
	ID                 string `json:"id"`
	Email              string `json:"email"`
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	Role               string `json:"role"`
	VerificationStatus string `json:"verificationStatus"`
}
