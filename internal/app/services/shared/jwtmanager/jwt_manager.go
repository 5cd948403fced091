package jwtmanager

import (
	"errors"
	"fmt"
	"medblock-service/internal/app/config"
	"medblock-service/internal/app/contracts"
	"medblock-service/internal/app/models"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JWTManager issues and verifies HS256 access tokens. Only the account id is
// trusted from a verified token, the remaining claims are informational and
// the identity resolver reloads the account on every request.
type JWTManager struct {
	log    *zap.Logger
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

type accessClaims struct {
	Role               string `json:"role"`
	VerificationStatus string `json:"verification_status"`
	jwt.RegisteredClaims
}

func NewJWTManager(cfg *config.InternalConfig, log *zap.Logger) (*JWTManager, error) {
	secret := strings.TrimSpace(cfg.JWT.Secret)
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is empty")
	}

	hours := cfg.JWT.ExpTimeInHour
	if hours <= 0 {
		hours = 8
	}

	return &JWTManager{
		log:    log,
		secret: []byte(secret),
		issuer: cfg.JWT.Issuer,
		ttl:    time.Duration(hours) * time.Hour,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

func (j *JWTManager) Issue(user *models.User) (string, *contracts.CredentialClaims, error) {
	if user == nil || user.ID.IsZero() {
		return "", nil, fmt.Errorf("subject is required")
	}

	now := j.now().Truncate(time.Second)
	expiresAt := now.Add(j.ttl)
	tokenID := uuid.NewString()

	claims := accessClaims{
		Role:               user.Role,
		VerificationStatus: string(user.Verification.Status),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.IDHex(),
			Issuer:    j.issuer,
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", nil, err
	}

	return signed, &contracts.CredentialClaims{
		AccountID:          claims.Subject,
		Role:               claims.Role,
		VerificationStatus: claims.VerificationStatus,
		TokenID:            tokenID,
		IssuedAt:           now,
		ExpiresAt:          expiresAt,
	}, nil
}

func (j *JWTManager) Verify(token string) (*contracts.CredentialClaims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, contracts.ErrCredentialInvalid
	}

	parser := jwt.Parser{}
	claims := &accessClaims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil {
		var validationErr *jwt.ValidationError
		if errors.As(err, &validationErr) && validationErr.Errors&jwt.ValidationErrorExpired != 0 &&
			validationErr.Errors&(jwt.ValidationErrorSignatureInvalid|jwt.ValidationErrorMalformed|jwt.ValidationErrorUnverifiable) == 0 {
			return nil, fmt.Errorf("%w: %v", contracts.ErrCredentialExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", contracts.ErrCredentialInvalid, err)
	}
	if !parsed.Valid {
		return nil, contracts.ErrCredentialInvalid
	}

	if claims.Subject == "" || claims.ID == "" || claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing required claims", contracts.ErrCredentialInvalid)
	}
	if j.issuer != "" && claims.Issuer != j.issuer {
		return nil, fmt.Errorf("%w: unexpected issuer %q", contracts.ErrCredentialInvalid, claims.Issuer)
	}

	out := &contracts.CredentialClaims{
		AccountID:          claims.Subject,
		Role:               claims.Role,
		VerificationStatus: claims.VerificationStatus,
		TokenID:            claims.ID,
		ExpiresAt:          claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}
