package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"medblock-service/internal/app/contracts"
	"medblock-service/internal/app/models"
	"medblock-service/internal/app/services/shared/ratelimiter"
	"medblock-service/internal/pkg/constvars"
	"medblock-service/internal/pkg/dto/requests"
	"medblock-service/internal/pkg/exceptions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type memoryUsers struct {
	contracts.UserRepository
	byEmail map[string]*models.User
	saved   map[string]interface{}
	saveErr error
}

func (m *memoryUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.byEmail[email], nil
}

func (m *memoryUsers) Create(ctx context.Context, user *models.User) error {
	if _, ok := m.byEmail[user.Email]; ok {
		return exceptions.ErrConflict(nil, constvars.CollectionUsers)
	}
	m.byEmail[user.Email] = user
	return nil
}

func (m *memoryUsers) Save(ctx context.Context, userID string, expectedVersion int64, set map[string]interface{}) error {
	m.saved = set
	return m.saveErr
}

type fakeIssuer struct{ issuedAt time.Time }

func (f *fakeIssuer) Issue(user *models.User) (string, *contracts.CredentialClaims, error) {
	return "signed-" + user.IDHex(), &contracts.CredentialClaims{
		AccountID: user.IDHex(),
		TokenID:   "jti-1",
		IssuedAt:  f.issuedAt,
		ExpiresAt: f.issuedAt.Add(8 * time.Hour),
	}, nil
}

type fakeRevocations struct {
	tokenID string
	ttl     time.Duration
}

func (f *fakeRevocations) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	f.tokenID, f.ttl = tokenID, ttl
	return nil
}

func (f *fakeRevocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return tokenID == f.tokenID, nil
}

type fakeLimiter struct {
	allowed bool
	err     error
	hits    int
}

func (f *fakeLimiter) ApplyResourceLimiter(ctx context.Context, in *ratelimiter.ApplyResourceLimiterInput) (*ratelimiter.ApplyResourceLimiterOutput, error) {
	f.hits++
	if f.err != nil {
		return &ratelimiter.ApplyResourceLimiterOutput{}, f.err
	}
	return &ratelimiter.ApplyResourceLimiterOutput{Allowed: f.allowed, RetryAfterSecs: 30}, nil
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

var fixedNow = time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)

type fixture struct {
	usecase     *authUsecase
	users       *memoryUsers
	revocations *fakeRevocations
	limiter     *fakeLimiter
	audit       *recordingAudit
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("Secret#123"), bcrypt.MinCost)
	require.NoError(t, err)

	users := &memoryUsers{byEmail: map[string]*models.User{
		"doc@example.com": {
			ID:           primitive.NewObjectID(),
			Email:        "doc@example.com",
			PasswordHash: string(hash),
			Role:         constvars.RoleDoctor,
			Verification: models.ProfessionalVerification{Status: models.VerificationVerified},
			IsActive:     true,
			Version:      3,
		},
	}}
	revocations := &fakeRevocations{}
	limiter := &fakeLimiter{allowed: true}
	audit := &recordingAudit{}

	usecase := NewAuthUsecase(users, &fakeIssuer{issuedAt: fixedNow}, revocations, limiter, audit, zap.NewNop()).(*authUsecase)
	usecase.now = func() time.Time { return fixedNow }
	usecase.hashPassword = func(password string) (string, error) {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		return string(hashed), err
	}

	return &fixture{usecase: usecase, users: users, revocations: revocations, limiter: limiter, audit: audit}
}

func TestRegister(t *testing.T) {
	t.Run("creates unverified professional", func(t *testing.T) {
		f := newFixture(t)
		summary, err := f.usecase.Register(context.Background(), &requests.RegisterUser{
			Email: "nurse@example.com", Password: "Secret#123", FirstName: "Ann", LastName: "Wanjiru",
			PhoneNumber: "+254712345678", Role: constvars.RoleNurse,
		})
		require.NoError(t, err)
		assert.Equal(t, constvars.RoleNurse, summary.Role)
		assert.Equal(t, string(models.VerificationUnsubmitted), summary.VerificationStatus)

		stored := f.users.byEmail["nurse@example.com"]
		require.NotNil(t, stored)
		assert.True(t, stored.IsActive)
		assert.Equal(t, int64(1), stored.Version)
		assert.NotEqual(t, "Secret#123", stored.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("Secret#123")))

		require.Len(t, f.audit.events, 1)
		assert.Equal(t, "users.register.succeeded", f.audit.events[0].Name)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.usecase.Register(context.Background(), &requests.RegisterUser{
			Email: "doc@example.com", Password: "Secret#123", Role: constvars.RoleDoctor,
		})
		assert.True(t, exceptions.HasCode(err, exceptions.CodeConflict))
	})
}

func TestLogin(t *testing.T) {
	t.Run("issues token and stamps last login", func(t *testing.T) {
		f := newFixture(t)
		result, err := f.usecase.Login(context.Background(), &requests.LoginUser{Email: "doc@example.com", Password: "Secret#123"})
		require.NoError(t, err)

		stored := f.users.byEmail["doc@example.com"]
		assert.Equal(t, "signed-"+stored.IDHex(), result.Token)
		assert.Equal(t, "Bearer", result.TokenType)
		assert.Equal(t, fixedNow.Add(8*time.Hour), result.ExpiresAt)
		assert.Equal(t, stored.IDHex(), result.User.ID)
		assert.Equal(t, map[string]interface{}{"lastLoginAt": fixedNow}, f.users.saved)
		assert.Equal(t, 1, f.limiter.hits)
	})

	t.Run("failed stamp does not fail login", func(t *testing.T) {
		f := newFixture(t)
		f.users.saveErr = errors.New("stale")
		_, err := f.usecase.Login(context.Background(), &requests.LoginUser{Email: "doc@example.com", Password: "Secret#123"})
		assert.NoError(t, err)
	})

	failures := []struct {
		name    string
		email   string
		prepare func(f *fixture)
	}{
		{name: "unknown email", email: "nobody@example.com"},
		{name: "wrong password", email: "doc@example.com", prepare: func(f *fixture) {
			f.users.byEmail["doc@example.com"].PasswordHash = "$2a$04$invalidinvalidinvalidinvalidinvalidinvalidinvalidinva"
		}},
		{name: "deactivated", email: "doc@example.com", prepare: func(f *fixture) {
			f.users.byEmail["doc@example.com"].IsActive = false
		}},
		{name: "deleted", email: "doc@example.com", prepare: func(f *fixture) {
			f.users.byEmail["doc@example.com"].IsDeleted = true
		}},
	}
	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.prepare != nil {
				tt.prepare(f)
			}
			_, err := f.usecase.Login(context.Background(), &requests.LoginUser{Email: tt.email, Password: "Secret#123"})
			customErr, ok := exceptions.AsCustomError(err)
			require.True(t, ok)
			assert.Equal(t, constvars.ErrClientInvalidEmailOrPassword, customErr.ClientMessage)
			require.Len(t, f.audit.events, 1)
			assert.Equal(t, "auth.login.failed", f.audit.events[0].Name)
		})
	}

	t.Run("throttled account", func(t *testing.T) {
		f := newFixture(t)
		f.limiter.allowed = false
		_, err := f.usecase.Login(context.Background(), &requests.LoginUser{Email: "doc@example.com", Password: "Secret#123"})
		assert.True(t, exceptions.HasCode(err, exceptions.CodeTooManyRequests))
	})

	t.Run("limiter unavailable", func(t *testing.T) {
		f := newFixture(t)
		f.limiter.err = errors.New("redis down")
		_, err := f.usecase.Login(context.Background(), &requests.LoginUser{Email: "doc@example.com", Password: "Secret#123"})
		assert.True(t, exceptions.HasCode(err, exceptions.CodeInternal))
	})
}

func TestLogout(t *testing.T) {
	t.Run("revokes until expiry", func(t *testing.T) {
		f := newFixture(t)
		ctx := models.ContextWithIdentity(context.Background(), &models.Identity{
			AccountID: "a1", TokenID: "jti-9", TokenExpiresAt: fixedNow.Add(2 * time.Hour),
		})
		require.NoError(t, f.usecase.Logout(ctx))
		assert.Equal(t, "jti-9", f.revocations.tokenID)
		assert.Equal(t, 2*time.Hour, f.revocations.ttl)
	})

	t.Run("without identity", func(t *testing.T) {
		f := newFixture(t)
		err := f.usecase.Logout(context.Background())
		assert.True(t, exceptions.HasCode(err, exceptions.CodeServerMisconfigured))
	})
}
