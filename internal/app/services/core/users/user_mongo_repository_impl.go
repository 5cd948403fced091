package users

import (
	"context"
	"medblock-service/internal/app/contracts"
	"medblock-service/internal/app/models"
	"medblock-service/internal/pkg/constvars"
	"medblock-service/internal/pkg/utils"
	"strings"
)

type UserMongoRepository struct {
	Store      contracts.RecordStore
	Collection string
}

func NewUserMongoRepository(store contracts.RecordStore) contracts.UserRepository {
	return &UserMongoRepository{
		Store:      store,
		Collection: constvars.CollectionUsers,
	}
}

// FindByID returns nil, nil for ids that cannot name a document.
func (r *UserMongoRepository) FindByID(ctx context.Context, userID string) (*models.User, error) {
	if !utils.IsObjectIDHex(userID) {
		return nil, nil
	}
	return r.findOne(ctx, contracts.Predicate{Field: "_id", Operator: contracts.OpEq, Value: userID})
}

func (r *UserMongoRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, contracts.Predicate{Field: "email", Operator: contracts.OpEq, Value: strings.ToLower(strings.TrimSpace(email))})
}

func (r *UserMongoRepository) Find(ctx context.Context, spec contracts.FindSpec) ([]models.User, error) {
	users := make([]models.User, 0)
	if err := r.Store.Find(ctx, r.Collection, spec, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserMongoRepository) Count(ctx context.Context, predicates []contracts.Predicate) (int64, error) {
	return r.Store.Count(ctx, r.Collection, predicates)
}

func (r *UserMongoRepository) Create(ctx context.Context, user *models.User) error {
	return r.Store.Insert(ctx, r.Collection, user)
}

func (r *UserMongoRepository) Save(ctx context.Context, userID string, expectedVersion int64, set map[string]interface{}) error {
	return r.Store.Save(ctx, r.Collection, userID, expectedVersion, set)
}

func (r *UserMongoRepository) findOne(ctx context.Context, predicate contracts.Predicate) (*models.User, error) {
	var user models.User
	found, err := r.Store.FindOne(ctx, r.Collection, []contracts.Predicate{predicate}, &user)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &user, nil
}
