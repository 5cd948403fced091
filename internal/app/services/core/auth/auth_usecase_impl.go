package auth

import (
	"context"
	"medblock-service/internal/app/contracts"
	"medblock-service/internal/app/models"
	"medblock-service/internal/app/services/shared/ratelimiter"
	"medblock-service/internal/pkg/constvars"
	"medblock-service/internal/pkg/dto/requests"
	"medblock-service/internal/pkg/dto/responses"
	"medblock-service/internal/pkg/exceptions"
	"medblock-service/internal/pkg/utils"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type loginLimiter interface {
	ApplyResourceLimiter(ctx context.Context, in *ratelimiter.ApplyResourceLimiterInput) (*ratelimiter.ApplyResourceLimiterOutput, error)
}

type authUsecase struct {
	UserRepository contracts.UserRepository
	Issuer         contracts.CredentialIssuer
	Revocations    contracts.TokenRevocationList
	Limiter        loginLimiter
	Audit          contracts.AuditSink
	Log            *zap.Logger
	now            func() time.Time
	hashPassword   func(password string) (string, error)
}

func NewAuthUsecase(
	userRepository contracts.UserRepository,
	issuer contracts.CredentialIssuer,
	revocations contracts.TokenRevocationList,
	limiter loginLimiter,
	audit contracts.AuditSink,
	logger *zap.Logger,
) contracts.AuthUsecase {
	return &authUsecase{
		UserRepository: userRepository,
		Issuer:         issuer,
		Revocations:    revocations,
		Limiter:        limiter,
		Audit:          audit,
		Log:            logger,
		now:            func() time.Time { return time.Now().UTC() },
		hashPassword:   utils.HashPassword,
	}
}

func (uc *authUsecase) Register(ctx context.Context, request *requests.RegisterUser) (*responses.AccountSummary, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("authUsecase.Register called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRoleKey, request.Role),
	)

	existing, err := uc.UserRepository.FindByEmail(ctx, request.Email)
	if err != nil {
		uc.Log.Error("authUsecase.Register error finding user by email",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if existing != nil {
		return nil, exceptions.ErrAccountExists(nil)
	}

	passwordHash, err := uc.hashPassword(request.Password)
	if err != nil {
		uc.Log.Error("authUsecase.Register error hashing password",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrHashPassword(err)
	}

	now := uc.now()
	user := &models.User{
		ID:                     primitive.NewObjectID(),
		Email:                  strings.ToLower(request.Email),
		PasswordHash:           passwordHash,
		FirstName:              request.FirstName,
		LastName:               request.LastName,
		PhoneNumber:            request.PhoneNumber,
		NationalID:             request.NationalID,
		Role:                   request.Role,
		Specialization:         request.Specialization,
		DepartmentAffiliations: []string{},
		FacilityAffiliations:   []string{},
		Verification:           models.ProfessionalVerification{Status: models.VerificationUnsubmitted},
		IsActive:               true,
		Version:                1,
		TimeModel:              models.TimeModel{CreatedAt: now, UpdatedAt: now},
	}

	if err := uc.UserRepository.Create(ctx, user); err != nil {
		if exceptions.HasCode(err, exceptions.CodeConflict) {
			return nil, exceptions.ErrAccountExists(err)
		}
		uc.Log.Error("authUsecase.Register error creating user",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Audit.Record(ctx, contracts.AuditEvent{
		Name:         "users.register.succeeded",
		ActorID:      user.IDHex(),
		ActorRole:    user.Role,
		Action:       "register",
		ResourceType: constvars.ResourceUsers,
		ResourceID:   user.IDHex(),
		Outcome:      "success",
		RequestID:    requestID,
		OccurredAt:   now,
	})

	uc.Log.Info("authUsecase.Register succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAccountIDKey, user.IDHex()),
	)
	return accountSummary(user), nil
}

// Login fails with one message for unknown email, wrong password and
// inactive accounts.
func (uc *authUsecase) Login(ctx context.Context, request *requests.LoginUser) (*responses.LoginUser, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("authUsecase.Login called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	limit, err := uc.Limiter.ApplyResourceLimiter(ctx, &ratelimiter.ApplyResourceLimiterInput{
		ResourceName:      request.Email,
		LimiterGroupName:  constvars.LoginLimiterGroup,
		WindowDurationSec: constvars.LoginAttemptWindowSec,
		MaxQuota:          constvars.LoginAttemptMaxPerAccount,
		NowUTC:            uc.now(),
	})
	if err != nil {
		uc.Log.Error("authUsecase.Login error applying login limiter",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrServerProcess(err)
	}
	if !limit.Allowed {
		utils.LogSecurityEvent(uc.Log, "auth.login.throttled", requestID, constvars.SecuritySeverityMedium,
			zap.Int("retry_after_secs", limit.RetryAfterSecs),
		)
		return nil, exceptions.ErrTooManyRequests(nil)
	}

	user, err := uc.UserRepository.FindByEmail(ctx, request.Email)
	if err != nil {
		uc.Log.Error("authUsecase.Login error finding user by email",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	storedHash, accountID := "", ""
	if user != nil {
		storedHash, accountID = user.PasswordHash, user.IDHex()
	}
	if !utils.CheckPasswordHash(request.Password, storedHash) || user == nil || !user.CanAuthenticate() {
		uc.recordLoginFailure(ctx, accountID)
		return nil, exceptions.ErrInvalidEmailOrPassword(nil)
	}

	token, claims, err := uc.Issuer.Issue(user)
	if err != nil {
		uc.Log.Error("authUsecase.Login error issuing token",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrTokenGenerate(err)
	}

	if err := uc.UserRepository.Save(ctx, user.IDHex(), user.Version, map[string]interface{}{"lastLoginAt": claims.IssuedAt}); err != nil {
		uc.Log.Warn("authUsecase.Login could not stamp lastLoginAt",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAccountIDKey, user.IDHex()),
			zap.Error(err),
		)
	}

	uc.Log.Info("authUsecase.Login succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAccountIDKey, user.IDHex()),
	)
	return &responses.LoginUser{
		Token:     token,
		TokenType: constvars.TokenTypeBearer,
		ExpiresAt: claims.ExpiresAt,
		User:      accountSummary(user),
	}, nil
}

// Logout revokes the presented token until it would have expired anyway.
func (uc *authUsecase) Logout(ctx context.Context) error {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("authUsecase.Logout called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	identity, ok := models.IdentityFromContext(ctx)
	if !ok {
		return exceptions.ErrServerMisconfigured(nil, contracts.ReasonIdentityMissing)
	}

	ttl := identity.TokenExpiresAt.Sub(uc.now())
	if err := uc.Revocations.Revoke(ctx, identity.TokenID, ttl); err != nil {
		uc.Log.Error("authUsecase.Logout error revoking token",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return exceptions.ErrRedisSet(err)
	}

	uc.Log.Info("authUsecase.Logout succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAccountIDKey, identity.AccountID),
	)
	return nil
}

func (uc *authUsecase) recordLoginFailure(ctx context.Context, accountID string) {
	requestID := utils.GetRequestID(ctx)
	utils.LogSecurityEvent(uc.Log, "auth.login.failed", requestID, constvars.SecuritySeverityLow,
		zap.String(constvars.LoggingAccountIDKey, accountID),
	)
	uc.Audit.Record(ctx, contracts.AuditEvent{
		Name:       "auth.login.failed",
		ActorID:    accountID,
		Outcome:    "failed",
		Reason:     "invalid-credentials",
		RequestID:  requestID,
		OccurredAt: uc.now(),
	})
}

func accountSummary(user *models.User) *responses.AccountSummary {
	return &responses.AccountSummary{
		ID:                 user.IDHex(),
		Email:              user.Email,
		FirstName:          user.FirstName,
		LastName:           user.LastName,
		Role:               user.Role,
		VerificationStatus: string(user.Verification.Status),
	}
}
