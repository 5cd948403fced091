package verification

import (
	"bytes"
	"context"
	"medblock-service/internal/app/config"
	"medblock-service/internal/app/contracts"
	"medblock-service/internal/app/models"
	"medblock-service/internal/app/services/core/orchestrator"
	"medblock-service/internal/app/services/core/users"
	"medblock-service/internal/pkg/constvars"
	"medblock-service/internal/pkg/dto/requests"
	"medblock-service/internal/pkg/utils"
	"net/url"
	"time"

	"go.uber.org/zap"
)

var pendingOnly = contracts.Predicate{Field: "verification.status", Operator: contracts.OpEq, Value: string(models.VerificationPending)}

type verificationUsecase struct {
	UserRepository contracts.UserRepository
	Storage        contracts.Storage
	Orchestrator   *orchestrator.Orchestrator
	BucketName     string
	Log            *zap.Logger
	now            func() time.Time
}

func NewVerificationUsecase(
	userRepository contracts.UserRepository,
	storage contracts.Storage,
	orch *orchestrator.Orchestrator,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.VerificationUsecase {
	return &verificationUsecase{
		UserRepository: userRepository,
		Storage:        storage,
		Orchestrator:   orch,
		BucketName:     internalConfig.Minio.BucketName,
		Log:            logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// Submit moves the caller's own verification to pending. The transition is
// checked before the credential document is stored, and the stored object is
// removed again when the save fails.
func (uc *verificationUsecase) Submit(ctx context.Context, request *requests.SubmitVerification) (map[string]interface{}, error) {
	accountID := ""
	if identity, ok := models.IdentityFromContext(ctx); ok {
		accountID = identity.AccountID
	}

	var target *models.User
	return uc.Orchestrator.Mutate(ctx, orchestrator.MutateRequest{
		Action:         contracts.ActionSubmitVerification,
		ResourceType:   constvars.ResourceUsers,
		ResourceID:     accountID,
		LoadDescriptor: uc.loadInto(accountID, &target),
		Apply: func(ctx context.Context, identity *models.Identity) (map[string]interface{}, error) {
			verification := target.Verification
			if err := verification.Submit(request.LicenseNumber, request.IssuingBody, "", uc.now()); err != nil {
				return nil, err
			}
			if len(request.Document) == 0 {
				return users.SaveAndView(ctx, uc.UserRepository, target, map[string]interface{}{"verification": verification})
			}

			key, err := uc.upload(ctx, identity.AccountID, request)
			if err != nil {
				return nil, err
			}
			verification.DocumentKey = key

			set := map[string]interface{}{"verification": verification}
			if err := uc.UserRepository.Save(ctx, target.IDHex(), target.Version, set); err != nil {
				uc.discard(ctx, key)
				return nil, err
			}
			return users.SaveAndView(ctx, uc.UserRepository, target, nil)
		},
	})
}

func (uc *verificationUsecase) ListPending(ctx context.Context, params url.Values) (*contracts.ListResult, error) {
	return uc.Orchestrator.List(ctx, orchestrator.ListRequest{
		Action:         contracts.ActionListPendingVerification,
		ResourceType:   constvars.ResourceUsers,
		Params:         params,
		BasePredicates: []contracts.Predicate{users.NotDeleted, pendingOnly},
		Fetch:          users.FetchViews(uc.UserRepository),
	})
}

func (uc *verificationUsecase) Review(ctx context.Context, userID string, request *requests.ReviewVerification) (map[string]interface{}, error) {
	var target *models.User
	return uc.Orchestrator.Mutate(ctx, orchestrator.MutateRequest{
		Action:         contracts.ActionReviewVerification,
		ResourceType:   constvars.ResourceUsers,
		ResourceID:     userID,
		LoadDescriptor: uc.loadInto(userID, &target),
		Apply: func(ctx context.Context, identity *models.Identity) (map[string]interface{}, error) {
			verification := target.Verification
			if err := verification.Review(models.VerificationStatus(request.Status), identity.AccountID, request.Reason, uc.now()); err != nil {
				return nil, err
			}
			return users.SaveAndView(ctx, uc.UserRepository, target, map[string]interface{}{"verification": verification})
		},
	})
}

func (uc *verificationUsecase) loadInto(userID string, target **models.User) func(ctx context.Context) (*models.ResourceDescriptor, error) {
	return func(ctx context.Context) (*models.ResourceDescriptor, error) {
		user, err := uc.UserRepository.FindByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if user == nil || user.IsDeleted {
			return nil, nil
		}
		*target = user
		return user.Descriptor(constvars.ResourceUsers), nil
	}
}

func (uc *verificationUsecase) upload(ctx context.Context, accountID string, request *requests.SubmitVerification) (string, error) {
	objectKey := utils.GenerateCredentialObjectKey(accountID, request.DocumentName)
	key, err := uc.Storage.UploadFile(ctx, uc.BucketName, objectKey, bytes.NewReader(request.Document), int64(len(request.Document)), request.ContentType)
	if err != nil {
		uc.Log.Error("verificationUsecase.upload error storing credential document",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingBucketKey, uc.BucketName),
			zap.Error(err),
		)
		return "", err
	}
	return key, nil
}

func (uc *verificationUsecase) discard(ctx context.Context, key string) {
	if err := uc.Storage.RemoveFile(ctx, uc.BucketName, key); err != nil {
		uc.Log.Warn("verificationUsecase.discard error removing credential document",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingBucketKey, uc.BucketName),
			zap.Error(err),
		)
	}
}
