package identity

import (
	"context"
	"errors"
	"medblock-service/internal/app/contracts"
	"medblock-service/internal/app/models"
	"medblock-service/internal/pkg/constvars"
	"medblock-service/internal/pkg/exceptions"
	"medblock-service/internal/pkg/utils"
	"strings"
	"time"

	"go.uber.org/zap"
)

const bearerScheme = "bearer"

// Failure categories reported on auth.failure events.
const (
	FailureNoToken          = "no-token"
	FailureBadScheme        = "bad-scheme"
	FailureInvalidSignature = "invalid-signature"
	FailureExpired          = "expired"
	FailureRevoked          = "revoked"
	FailureUserMissing      = "user-missing"
	FailureUserInactive     = "user-inactive"
)

type identityResolver struct {
	Verifier    contracts.CredentialVerifier
	Revocations contracts.TokenRevocationList
	Users       contracts.UserRepository
	Audit       contracts.AuditSink
	Log         *zap.Logger
	now         func() time.Time
}

func NewIdentityResolver(
	verifier contracts.CredentialVerifier,
	revocations contracts.TokenRevocationList,
	users contracts.UserRepository,
	audit contracts.AuditSink,
	logger *zap.Logger,
) contracts.IdentityResolver {
	return &identityResolver{
		Verifier:    verifier,
		Revocations: revocations,
		Users:       users,
		Audit:       audit,
		Log:         logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Resolve turns an Authorization header into the caller's Identity. Role,
// verification status and affiliations always come from the stored account;
// token claims only select which account.
func (r *identityResolver) Resolve(ctx context.Context, authorizationHeader string) (*models.Identity, error) {
	token, category := parseBearer(authorizationHeader)
	if category != "" {
		return nil, r.fail(ctx, category, "", headerError(category))
	}

	claims, err := r.Verifier.Verify(token)
	if err != nil {
		if errors.Is(err, contracts.ErrCredentialExpired) {
			return nil, r.fail(ctx, FailureExpired, "", exceptions.ErrTokenExpired(err))
		}
		return nil, r.fail(ctx, FailureInvalidSignature, "", exceptions.ErrTokenInvalid(err))
	}

	revoked, err := r.Revocations.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		r.Log.Error("identityResolver.Resolve revocation lookup failed",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.Error(err),
		)
		return nil, err
	}
	if revoked {
		return nil, r.fail(ctx, FailureRevoked, claims.AccountID, exceptions.ErrTokenRevoked(nil))
	}

	user, err := r.Users.FindByID(ctx, claims.AccountID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, r.fail(ctx, FailureUserMissing, claims.AccountID, exceptions.ErrTokenUserMissing(nil))
	}
	if !user.CanAuthenticate() {
		return nil, r.fail(ctx, FailureUserInactive, claims.AccountID, exceptions.ErrTokenUserInactive(nil))
	}

	return models.NewIdentity(user, claims.TokenID, claims.ExpiresAt), nil
}

// parseBearer returns the token or the failure category. The scheme word is
// matched case-insensitively and must be followed by exactly one space.
func parseBearer(header string) (string, string) {
	if strings.TrimSpace(header) == "" {
		return "", FailureNoToken
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", FailureBadScheme
	}
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", FailureBadScheme
	}
	return token, ""
}

func headerError(category string) error {
	if category == FailureNoToken {
		return exceptions.ErrTokenMissing(nil)
	}
	return exceptions.ErrTokenBadScheme(nil)
}

func (r *identityResolver) fail(ctx context.Context, category, accountID string, err error) error {
	requestID := utils.GetRequestID(ctx)

	utils.LogSecurityEvent(r.Log, contracts.AuditEventAuthFailure, requestID, constvars.SecuritySeverityMedium,
		zap.String(constvars.LoggingFailureCategory, category),
		zap.String(constvars.LoggingAccountIDKey, accountID),
	)
	r.Audit.Record(ctx, contracts.AuditEvent{
		Name:       contracts.AuditEventAuthFailure,
		ActorID:    accountID,
		Outcome:    "failed",
		Reason:     category,
		RequestID:  requestID,
		OccurredAt: r.now(),
	})
	return err
}
