package contracts

import (
	"context"
	"net/url"

	"medblock-service/internal/app/models"
	"medblock-service/internal/pkg/dto/requests"
	"medblock-service/internal/pkg/dto/responses"
)

// ListResult is a masked page of records ready for the response envelope.
type ListResult struct {
	Records    []map[string]interface{}
	Pagination *responses.Pagination
	Debug      *QueryDebug
}

type AuthUsecase interface {
	Register(ctx context.Context, request *requests.RegisterUser) (*responses.AccountSummary, error)
	Login(ctx context.Context, request *requests.LoginUser) (*responses.LoginUser, error)
	Logout(ctx context.Context) error
}

type UserUsecase interface {
	List(ctx context.Context, params url.Values) (*ListResult, error)
	Get(ctx context.Context, userID string) (map[string]interface{}, error)
	Me(ctx context.Context) (map[string]interface{}, error)
	Update(ctx context.Context, userID string, request *requests.UpdateUser) (map[string]interface{}, error)
	ChangeRole(ctx context.Context, userID string, request *requests.ChangeRole) (map[string]interface{}, error)
	SetActive(ctx context.Context, userID string, active bool) (map[string]interface{}, error)
	Delete(ctx context.Context, userID string) error
}

type VerificationUsecase interface {
	Submit(ctx context.Context, request *requests.SubmitVerification) (map[string]interface{}, error)
	ListPending(ctx context.Context, params url.Values) (*ListResult, error)
	Review(ctx context.Context, userID string, request *requests.ReviewVerification) (map[string]interface{}, error)
}

type UserRepository interface {
	// FindByID returns nil, nil when no document matches.
	FindByID(ctx context.Context, userID string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Find(ctx context.Context, spec FindSpec) ([]models.User, error)
	Count(ctx context.Context, predicates []Predicate) (int64, error)
	Create(ctx context.Context, user *models.User) error
	Save(ctx context.Context, userID string, expectedVersion int64, set map[string]interface{}) error
}
