package contracts

import (
	"context"
	"errors"
	"time"

	"medblock-service/internal/app/models"
)

var (
	ErrCredentialInvalid = errors.New("credential signature or format invalid")
	ErrCredentialExpired = errors.New("credential expired")
)

type CredentialClaims struct {
	AccountID          string
	Role               string
	VerificationStatus string
	TokenID            string
	IssuedAt           time.Time
	ExpiresAt          time.Time
}

type CredentialVerifier interface {
	// Verify fails with ErrCredentialInvalid or ErrCredentialExpired.
	Verify(token string) (*CredentialClaims, error)
}

type CredentialIssuer interface {
	Issue(user *models.User) (token string, claims *CredentialClaims, err error)
}

type TokenRevocationList interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type IdentityResolver interface {
	Resolve(ctx context.Context, authorizationHeader string) (*models.Identity, error)
}
