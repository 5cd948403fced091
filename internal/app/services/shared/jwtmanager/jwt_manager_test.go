package jwtmanager

import (
	"errors"
	"testing"
	"time"

	"medblock-service/internal/app/config"
	"medblock-service/internal/app/contracts"
	"medblock-service/internal/app/models"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newManager(t *testing.T) *JWTManager {
	t.Helper()
	cfg := &config.InternalConfig{JWT: config.AppJWT{Secret: testSecret, Issuer: "medblock-service", ExpTimeInHour: 1}}
	m, err := NewJWTManager(cfg, zap.NewNop())
	require.NoError(t, err)
	return m
}

func testUser() *models.User {
	return &models.User{
		ID:   primitive.NewObjectID(),
		Role: "doctor",
		Verification: models.ProfessionalVerification{
			Status: models.VerificationVerified,
		},
	}
}

func TestIssueAndVerify(t *testing.T) {
	m := newManager(t)
	user := testUser()

	token, issued, err := m.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.IDHex(), claims.AccountID)
	assert.Equal(t, "doctor", claims.Role)
	assert.Equal(t, "verified", claims.VerificationStatus)
	assert.Equal(t, issued.TokenID, claims.TokenID)
	assert.WithinDuration(t, issued.ExpiresAt, claims.ExpiresAt, time.Second)
}

func TestIssueRequiresSubject(t *testing.T) {
	m := newManager(t)
	_, _, err := m.Issue(&models.User{})
	assert.Error(t, err)
}

func TestVerifyExpired(t *testing.T) {
	m := newManager(t)
	m.now = func() time.Time { return time.Now().UTC().Add(-2 * time.Hour) }

	token, _, err := m.Issue(testUser())
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.True(t, errors.Is(err, contracts.ErrCredentialExpired))
}

func TestVerifyInvalid(t *testing.T) {
	m := newManager(t)

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Verify("not-a-token")
		assert.True(t, errors.Is(err, contracts.ErrCredentialInvalid))
	})

	t.Run("empty", func(t *testing.T) {
		_, err := m.Verify("")
		assert.True(t, errors.Is(err, contracts.ErrCredentialInvalid))
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := newManager(t)
		other.secret = []byte("another-secret-another-secret-!!")
		token, _, err := other.Issue(testUser())
		require.NoError(t, err)

		_, err = m.Verify(token)
		assert.True(t, errors.Is(err, contracts.ErrCredentialInvalid))
	})

	t.Run("expired with bad signature is invalid", func(t *testing.T) {
		other := newManager(t)
		other.secret = []byte("another-secret-another-secret-!!")
		other.now = func() time.Time { return time.Now().UTC().Add(-2 * time.Hour) }
		token, _, err := other.Issue(testUser())
		require.NoError(t, err)

		_, err = m.Verify(token)
		assert.True(t, errors.Is(err, contracts.ErrCredentialInvalid))
	})

	t.Run("none algorithm", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Subject:   primitive.NewObjectID().Hex(),
			ID:        "jti",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = m.Verify(token)
		assert.True(t, errors.Is(err, contracts.ErrCredentialInvalid))
	})

	t.Run("foreign issuer", func(t *testing.T) {
		other := newManager(t)
		other.issuer = "someone-else"
		token, _, err := other.Issue(testUser())
		require.NoError(t, err)

		_, err = m.Verify(token)
		assert.True(t, errors.Is(err, contracts.ErrCredentialInvalid))
	})
}
