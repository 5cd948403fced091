package patients

import (
	"context"
	"medblock-service/internal/app/contracts"
	"medblock-service/internal/app/models"
	"medblock-service/internal/pkg/constvars"
	"medblock-service/internal/pkg/utils"
)

// NotDeleted hides soft-deleted patients from every action except restore.
var NotDeleted = contracts.Predicate{Field: "isDeleted", Operator: contracts.OpNe, Value: true}

type PatientMongoRepository struct {
	Store      contracts.RecordStore
	Collection string
}

func NewPatientMongoRepository(store contracts.RecordStore) contracts.PatientRepository {
	return &PatientMongoRepository{
		Store:      store,
		Collection: constvars.CollectionPatients,
	}
}

func (r *PatientMongoRepository) FindByID(ctx context.Context, patientID string, includeDeleted bool) (*models.Patient, error) {
	if !utils.IsObjectIDHex(patientID) {
		return nil, nil
	}

	predicates := []contracts.Predicate{{Field: "_id", Operator: contracts.OpEq, Value: patientID}}
	if !includeDeleted {
		predicates = append(predicates, NotDeleted)
	}

	var patient models.Patient
	found, err := r.Store.FindOne(ctx, r.Collection, predicates, &patient)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &patient, nil
}

func (r *PatientMongoRepository) Find(ctx context.Context, spec contracts.FindSpec) ([]models.Patient, error) {
	patients := make([]models.Patient, 0)
	if err := r.Store.Find(ctx, r.Collection, spec, &patients); err != nil {
		return nil, err
	}
	return patients, nil
}

func (r *PatientMongoRepository) Count(ctx context.Context, predicates []contracts.Predicate) (int64, error) {
	return r.Store.Count(ctx, r.Collection, predicates)
}

func (r *PatientMongoRepository) Create(ctx context.Context, patient *models.Patient) error {
	return r.Store.Insert(ctx, r.Collection, patient)
}

func (r *PatientMongoRepository) Save(ctx context.Context, patientID string, expectedVersion int64, set map[string]interface{}) error {
	return r.Store.Save(ctx, r.Collection, patientID, expectedVersion, set)
}
