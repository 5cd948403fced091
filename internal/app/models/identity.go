package models

import (
	"context"
	"time"

	"medblock-service/internal/pkg/constvars"
)

// Identity is the trusted, request-scoped view of the caller. It is built
// only from the stored account, never from request payloads.
type Identity struct {
	AccountID              string
	Email                  string
	Role                   string
	VerificationStatus     VerificationStatus
	FacilityAffiliations   []string
	DepartmentAffiliations []string
	TokenID                string
	TokenExpiresAt         time.Time
}

func NewIdentity(user *User, tokenID string, tokenExpiresAt time.Time) *Identity {
	return &Identity{
		AccountID:              user.IDHex(),
		Email:                  user.Email,
		Role:                   user.Role,
		VerificationStatus:     user.Verification.Status,
		FacilityAffiliations:   append([]string(nil), user.FacilityAffiliations...),
		DepartmentAffiliations: append([]string(nil), user.DepartmentAffiliations...),
		TokenID:                tokenID,
		TokenExpiresAt:         tokenExpiresAt,
	}
}

func (i *Identity) InDepartment(departmentID string) bool {
	if departmentID == "" {
		return false
	}
	for _, id := range i.DepartmentAffiliations {
		if id == departmentID {
			return true
		}
	}
	return false
}

func (i *Identity) IsAdmin() bool {
	return i.Role == constvars.RoleAdmin
}

func ContextWithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, constvars.CONTEXT_IDENTITY_KEY, identity)
}

func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(constvars.CONTEXT_IDENTITY_KEY).(*Identity)
	return identity, ok && identity != nil
}

// ResourceDescriptor is the minimal projection of a record needed for an
// authorization decision. It is loaded once and reused for the mutation.
type ResourceDescriptor struct {
	ResourceType string
	ID           string
	OwnerID      string
	CreatorID    string
	DepartmentID string
	FacilityID   string
}
