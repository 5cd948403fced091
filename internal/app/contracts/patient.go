package contracts

import (
	"context"
	"net/url"

	"medblock-service/internal/app/models"
	"medblock-service/internal/pkg/dto/requests"
)

type PatientUsecase interface {
	List(ctx context.Context, params url.Values) (*ListResult, error)
	Get(ctx context.Context, patientID string) (map[string]interface{}, error)
	Create(ctx context.Context, request *requests.CreatePatient) (map[string]interface{}, error)
	Update(ctx context.Context, patientID string, request *requests.UpdatePatient) (map[string]interface{}, error)
	Delete(ctx context.Context, patientID string) error
	Restore(ctx context.Context, patientID string) (map[string]interface{}, error)
	Export(ctx context.Context, params url.Values) (content []byte, fileName string, err error)
}

type PatientRepository interface {
	// FindByID returns nil, nil when no document matches, including
	// soft-deleted ones unless includeDeleted is set.
	FindByID(ctx context.Context, patientID string, includeDeleted bool) (*models.Patient, error)
	Find(ctx context.Context, spec FindSpec) ([]models.Patient, error)
	Count(ctx context.Context, predicates []Predicate) (int64, error)
	Create(ctx context.Context, patient *models.Patient) error
	Save(ctx context.Context, patientID string, expectedVersion int64, set map[string]interface{}) error
}
