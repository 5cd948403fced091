package identity

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"medblock-service/internal/app/contracts"
	"medblock-service/internal/app/models"
	"medblock-service/internal/pkg/constvars"
	"medblock-service/internal/pkg/exceptions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeVerifier struct {
	claims map[string]*contracts.CredentialClaims
}

func (f *fakeVerifier) Verify(token string) (*contracts.CredentialClaims, error) {
	switch token {
	case "expired":
		return nil, contracts.ErrCredentialExpired
	case "garbage":
		return nil, contracts.ErrCredentialInvalid
	}
	claims, ok := f.claims[token]
	if !ok {
		return nil, contracts.ErrCredentialInvalid
	}
	return claims, nil
}

type fakeRevocations struct {
	revoked map[string]bool
	err     error
}

func (f *fakeRevocations) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	f.revoked[tokenID] = true
	return nil
}

func (f *fakeRevocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return f.revoked[tokenID], f.err
}

type fakeUsers struct {
	contracts.UserRepository
	users map[string]*models.User
}

func (f *fakeUsers) FindByID(ctx context.Context, userID string) (*models.User, error) {
	return f.users[userID], nil
}

type recordingAudit struct {
	mu     sync.Mutex
	events []contracts.AuditEvent
}

func (r *recordingAudit) Record(ctx context.Context, event contracts.AuditEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

type fixture struct {
	resolver    contracts.IdentityResolver
	audit       *recordingAudit
	revocations *fakeRevocations
	user        *models.User
}

func newFixture() *fixture {
	user := &models.User{
		ID:                     primitive.NewObjectID(),
		Email:                  "nurse@example.com",
		Role:                   constvars.RoleNurse,
		DepartmentAffiliations: []string{"d1"},
		Verification:           models.ProfessionalVerification{Status: models.VerificationVerified},
		IsActive:               true,
	}
	expiresAt := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	verifier := &fakeVerifier{claims: map[string]*contracts.CredentialClaims{
		// the token claims admin, the stored account says nurse
		"good":    {AccountID: user.IDHex(), Role: constvars.RoleAdmin, TokenID: "jti-1", ExpiresAt: expiresAt},
		"ghost":   {AccountID: primitive.NewObjectID().Hex(), TokenID: "jti-2", ExpiresAt: expiresAt},
		"revoked": {AccountID: user.IDHex(), TokenID: "jti-3", ExpiresAt: expiresAt},
	}}
	revocations := &fakeRevocations{revoked: map[string]bool{"jti-3": true}}
	audit := &recordingAudit{}

	return &fixture{
		resolver:    NewIdentityResolver(verifier, revocations, &fakeUsers{users: map[string]*models.User{user.IDHex(): user}}, audit, zap.NewNop()),
		audit:       audit,
		revocations: revocations,
		user:        user,
	}
}

func requestContext() context.Context {
	return context.WithValue(context.Background(), constvars.CONTEXT_REQUEST_ID_KEY, "req-1")
}

func TestResolveBuildsIdentityFromStoredAccount(t *testing.T) {
	f := newFixture()

	for _, header := range []string{"Bearer good", "bearer good", "BEARER good"} {
		identity, err := f.resolver.Resolve(requestContext(), header)
		require.NoError(t, err, header)
		assert.Equal(t, f.user.IDHex(), identity.AccountID)
		assert.Equal(t, constvars.RoleNurse, identity.Role)
		assert.Equal(t, models.VerificationVerified, identity.VerificationStatus)
		assert.Equal(t, []string{"d1"}, identity.DepartmentAffiliations)
		assert.Equal(t, "jti-1", identity.TokenID)
	}
	assert.Empty(t, f.audit.events)
}

func TestResolveFailures(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		prepare  func(f *fixture)
		category string
	}{
		{name: "empty header", header: "", category: FailureNoToken},
		{name: "blank header", header: "   ", category: FailureNoToken},
		{name: "basic scheme", header: "Basic abc", category: FailureBadScheme},
		{name: "scheme only", header: "Bearer", category: FailureBadScheme},
		{name: "double space", header: "Bearer  good", category: FailureBadScheme},
		{name: "empty token", header: "Bearer ", category: FailureBadScheme},
		{name: "bad signature", header: "Bearer garbage", category: FailureInvalidSignature},
		{name: "expired", header: "Bearer expired", category: FailureExpired},
		{name: "revoked", header: "Bearer revoked", category: FailureRevoked},
		{name: "unknown account", header: "Bearer ghost", category: FailureUserMissing},
		{
			name: "deactivated account", header: "Bearer good", category: FailureUserInactive,
			prepare: func(f *fixture) { f.user.IsActive = false },
		},
		{
			name: "deleted account", header: "Bearer good", category: FailureUserInactive,
			prepare: func(f *fixture) { f.user.IsDeleted = true },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.prepare != nil {
				tt.prepare(f)
			}

			identity, err := f.resolver.Resolve(requestContext(), tt.header)
			assert.Nil(t, identity)
			assert.True(t, exceptions.HasCode(err, exceptions.CodeUnauthenticated))

			require.Len(t, f.audit.events, 1)
			event := f.audit.events[0]
			assert.Equal(t, contracts.AuditEventAuthFailure, event.Name)
			assert.Equal(t, tt.category, event.Reason)
			assert.Equal(t, "req-1", event.RequestID)
		})
	}
}

func TestResolveFailuresShareClientMessage(t *testing.T) {
	f := newFixture()

	_, missing := f.resolver.Resolve(requestContext(), "")
	_, expired := f.resolver.Resolve(requestContext(), "Bearer expired")

	missingErr, ok := exceptions.AsCustomError(missing)
	require.True(t, ok)
	expiredErr, ok := exceptions.AsCustomError(expired)
	require.True(t, ok)
	assert.Equal(t, missingErr.ClientMessage, expiredErr.ClientMessage)
	assert.NotEqual(t, missingErr.DevMessage, expiredErr.DevMessage)
}

func TestResolveRevocationStoreError(t *testing.T) {
	f := newFixture()
	f.revocations.err = errors.New("redis down")

	_, err := f.resolver.Resolve(requestContext(), "Bearer good")
	require.Error(t, err)
	assert.False(t, exceptions.HasCode(err, exceptions.CodeUnauthenticated))
	assert.Empty(t, f.audit.events)
}
