package users

import (
	"context"
	"medblock-service/internal/app/contracts"
	"medblock-service/internal/app/models"
	"medblock-service/internal/app/services/core/orchestrator"
	"medblock-service/internal/pkg/constvars"
	"medblock-service/internal/pkg/dto/requests"
	"medblock-service/internal/pkg/exceptions"
	"medblock-service/internal/pkg/utils"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// NotDeleted hides soft-deleted accounts from every user action.
var NotDeleted = contracts.Predicate{Field: "isDeleted", Operator: contracts.OpNe, Value: true}

type userUsecase struct {
	UserRepository contracts.UserRepository
	Orchestrator   *orchestrator.Orchestrator
	Log            *zap.Logger
	now            func() time.Time
}

func NewUserUsecase(userRepository contracts.UserRepository, orch *orchestrator.Orchestrator, logger *zap.Logger) contracts.UserUsecase {
	return &userUsecase{
		UserRepository: userRepository,
		Orchestrator:   orch,
		Log:            logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (uc *userUsecase) List(ctx context.Context, params url.Values) (*contracts.ListResult, error) {
	return uc.Orchestrator.List(ctx, orchestrator.ListRequest{
		Action:         contracts.ActionList,
		ResourceType:   constvars.ResourceUsers,
		Params:         params,
		BasePredicates: []contracts.Predicate{NotDeleted},
		Fetch:          FetchViews(uc.UserRepository),
	})
}

func (uc *userUsecase) Get(ctx context.Context, userID string) (map[string]interface{}, error) {
	return uc.Orchestrator.Get(ctx, orchestrator.GetRequest{
		Action:       contracts.ActionView,
		ResourceType: constvars.ResourceUsers,
		Load: func(ctx context.Context) (*orchestrator.Loaded, error) {
			user, err := uc.load(ctx, userID)
			if err != nil || user == nil {
				return nil, err
			}
			view, err := user.View()
			if err != nil {
				return nil, exceptions.ErrCannotMarshalJSON(err)
			}
			return &orchestrator.Loaded{Descriptor: user.Descriptor(constvars.ResourceUsers), Record: view}, nil
		},
	})
}

func (uc *userUsecase) Me(ctx context.Context) (map[string]interface{}, error) {
	identity, ok := models.IdentityFromContext(ctx)
	if !ok {
		return nil, exceptions.ErrServerMisconfigured(nil, contracts.ReasonIdentityMissing)
	}
	return uc.Get(ctx, identity.AccountID)
}

// Update changes profile fields only. Role, verification and affiliations
// are never taken from this payload.
func (uc *userUsecase) Update(ctx context.Context, userID string, request *requests.UpdateUser) (map[string]interface{}, error) {
	set := map[string]interface{}{}
	if request.FirstName != nil {
		set["firstName"] = *request.FirstName
	}
	if request.LastName != nil {
		set["lastName"] = *request.LastName
	}
	if request.PhoneNumber != nil {
		set["phoneNumber"] = *request.PhoneNumber
	}
	if request.Specialization != nil {
		set["specialization"] = *request.Specialization
	}

	return uc.mutate(ctx, contracts.ActionUpdate, userID, func(ctx context.Context, user *models.User, identity *models.Identity) (map[string]interface{}, error) {
		return set, nil
	})
}

// ChangeRole replaces role and affiliations. A real role change resets
// professional verification, since it was granted for the previous role.
func (uc *userUsecase) ChangeRole(ctx context.Context, userID string, request *requests.ChangeRole) (map[string]interface{}, error) {
	return uc.mutate(ctx, contracts.ActionChangeRole, userID, func(ctx context.Context, user *models.User, identity *models.Identity) (map[string]interface{}, error) {
		set := map[string]interface{}{
			"role":                   request.Role,
			"departmentAffiliations": nonNil(request.DepartmentAffiliations),
			"facilityAffiliations":   nonNil(request.FacilityAffiliations),
		}
		if request.Role != user.Role {
			set["verification"] = models.ProfessionalVerification{Status: models.VerificationUnsubmitted}
		}
		return set, nil
	})
}

func (uc *userUsecase) SetActive(ctx context.Context, userID string, active bool) (map[string]interface{}, error) {
	action := contracts.ActionDeactivate
	if active {
		action = contracts.ActionActivate
	}
	return uc.mutate(ctx, action, userID, func(ctx context.Context, user *models.User, identity *models.Identity) (map[string]interface{}, error) {
		return map[string]interface{}{"isActive": active}, nil
	})
}

func (uc *userUsecase) Delete(ctx context.Context, userID string) error {
	var target *models.User
	_, err := uc.Orchestrator.Mutate(ctx, orchestrator.MutateRequest{
		Action:       contracts.ActionDelete,
		ResourceType: constvars.ResourceUsers,
		ResourceID:   userID,
		LoadDescriptor: func(ctx context.Context) (*models.ResourceDescriptor, error) {
			user, err := uc.load(ctx, userID)
			if err != nil || user == nil {
				return nil, err
			}
			target = user
			return user.Descriptor(constvars.ResourceUsers), nil
		},
		Apply: func(ctx context.Context, identity *models.Identity) (map[string]interface{}, error) {
			return nil, uc.UserRepository.Save(ctx, userID, target.Version, map[string]interface{}{
				"isDeleted": true,
				"isActive":  false,
				"deletedAt": uc.now(),
				"deletedBy": identity.AccountID,
			})
		},
	})
	return err
}

type changeFunc func(ctx context.Context, user *models.User, identity *models.Identity) (map[string]interface{}, error)

// mutate loads the target once, lets change compute the fields to set and
// saves them against the loaded version.
func (uc *userUsecase) mutate(ctx context.Context, action contracts.Action, userID string, change changeFunc) (map[string]interface{}, error) {
	var target *models.User
	return uc.Orchestrator.Mutate(ctx, orchestrator.MutateRequest{
		Action:       action,
		ResourceType: constvars.ResourceUsers,
		ResourceID:   userID,
		LoadDescriptor: func(ctx context.Context) (*models.ResourceDescriptor, error) {
			user, err := uc.load(ctx, userID)
			if err != nil || user == nil {
				return nil, err
			}
			target = user
			return user.Descriptor(constvars.ResourceUsers), nil
		},
		Apply: func(ctx context.Context, identity *models.Identity) (map[string]interface{}, error) {
			set, err := change(ctx, target, identity)
			if err != nil {
				return nil, err
			}
			return SaveAndView(ctx, uc.UserRepository, target, set)
		},
	})
}

func (uc *userUsecase) load(ctx context.Context, userID string) (*models.User, error) {
	user, err := uc.UserRepository.FindByID(ctx, userID)
	if err != nil {
		uc.Log.Error("userUsecase.load error finding user",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingTargetIDKey, userID),
			zap.Error(err),
		)
		return nil, err
	}
	if user == nil || user.IsDeleted {
		return nil, nil
	}
	return user, nil
}

// SaveAndView writes set against the loaded version and returns the fresh
// view of the account.
func SaveAndView(ctx context.Context, repository contracts.UserRepository, user *models.User, set map[string]interface{}) (map[string]interface{}, error) {
	if len(set) > 0 {
		if err := repository.Save(ctx, user.IDHex(), user.Version, set); err != nil {
			return nil, err
		}
	}

	updated, err := repository.FindByID(ctx, user.IDHex())
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, exceptions.ErrNotFound(nil, constvars.ResourceUsers)
	}
	view, err := updated.View()
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}
	return view, nil
}

// FetchViews adapts the repository to the orchestrator's Fetcher.
func FetchViews(repository contracts.UserRepository) orchestrator.Fetcher {
	return func(ctx context.Context, spec contracts.FindSpec) ([]map[string]interface{}, int64, error) {
		users, err := repository.Find(ctx, spec)
		if err != nil {
			return nil, 0, err
		}
		total, err := repository.Count(ctx, spec.Predicates)
		if err != nil {
			return nil, 0, err
		}

		views := make([]map[string]interface{}, 0, len(users))
		for i := range users {
			view, err := users[i].View()
			if err != nil {
				return nil, 0, exceptions.ErrCannotMarshalJSON(err)
			}
			views = append(views, view)
		}
		return views, total, nil
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
