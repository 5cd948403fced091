package patients

import (
	"context"
	"fmt"
	"medblock-service/internal/app/config"
	"medblock-service/internal/app/contracts"
	"medblock-service/internal/app/models"
	"medblock-service/internal/app/services/core/orchestrator"
	"medblock-service/internal/pkg/constvars"
	"medblock-service/internal/pkg/dto/requests"
	"medblock-service/internal/pkg/exceptions"
	"medblock-service/internal/pkg/utils"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var exportColumns = []contracts.ExportColumn{
	{Header: "ID", Path: "id"},
	{Header: "Full Name", Path: "fullName"},
	{Header: "Gender", Path: "gender"},
	{Header: "Date of Birth", Path: "dateOfBirth"},
	{Header: "Age", Path: "age"},
	{Header: "Phone Number", Path: "phoneNumber"},
	{Header: "National ID", Path: "nationalId"},
	{Header: "Blood Type", Path: "bloodType"},
	{Header: "BMI", Path: "bmi"},
	{Header: "BMI Category", Path: "bmiCategory"},
	{Header: "Allergies", Path: "allergies"},
	{Header: "County", Path: "address.county"},
	{Header: "Department", Path: "departmentId"},
	{Header: "Created At", Path: "createdAt"},
}

type patientUsecase struct {
	PatientRepository contracts.PatientRepository
	Orchestrator      *orchestrator.Orchestrator
	Exporter          contracts.Exporter
	Log               *zap.Logger
	location          *time.Location
	now               func() time.Time
}

func NewPatientUsecase(
	patientRepository contracts.PatientRepository,
	orch *orchestrator.Orchestrator,
	exporter contracts.Exporter,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.PatientUsecase {
	return &patientUsecase{
		PatientRepository: patientRepository,
		Orchestrator:      orch,
		Exporter:          exporter,
		Log:               logger,
		location:          utils.LoadLocation(internalConfig.App.Timezone),
		now:               func() time.Time { return time.Now().UTC() },
	}
}

func (uc *patientUsecase) List(ctx context.Context, params url.Values) (*contracts.ListResult, error) {
	return uc.list(ctx, contracts.ActionList, params)
}

func (uc *patientUsecase) Get(ctx context.Context, patientID string) (map[string]interface{}, error) {
	return uc.Orchestrator.Get(ctx, orchestrator.GetRequest{
		Action:       contracts.ActionView,
		ResourceType: constvars.ResourcePatients,
		Load: func(ctx context.Context) (*orchestrator.Loaded, error) {
			patient, err := uc.PatientRepository.FindByID(ctx, patientID, false)
			if err != nil || patient == nil {
				return nil, err
			}
			view, err := uc.view(patient)
			if err != nil {
				return nil, err
			}
			return &orchestrator.Loaded{Descriptor: patient.Descriptor(constvars.ResourcePatients), Record: view}, nil
		},
	})
}

func (uc *patientUsecase) Create(ctx context.Context, request *requests.CreatePatient) (map[string]interface{}, error) {
	patientID := primitive.NewObjectID()

	return uc.Orchestrator.Mutate(ctx, orchestrator.MutateRequest{
		Action:       contracts.ActionCreate,
		ResourceType: constvars.ResourcePatients,
		ResourceID:   patientID.Hex(),
		Apply: func(ctx context.Context, identity *models.Identity) (map[string]interface{}, error) {
			dateOfBirth, err := uc.parseDateOfBirth(request.DateOfBirth)
			if err != nil {
				return nil, err
			}

			now := uc.now()
			patient := &models.Patient{
				ID:               patientID,
				FirstName:        request.FirstName,
				LastName:         request.LastName,
				DateOfBirth:      dateOfBirth,
				Gender:           request.Gender,
				PhoneNumber:      request.PhoneNumber,
				Email:            request.Email,
				NationalID:       request.NationalID,
				BloodType:        request.BloodType,
				HeightCm:         request.HeightCm,
				WeightKg:         request.WeightKg,
				Allergies:        nonNil(request.Allergies),
				Address:          toAddress(request.Address),
				EmergencyContact: toEmergencyContact(request.EmergencyContact),
				DepartmentID:     request.DepartmentID,
				FacilityID:       request.FacilityID,
				CreatedBy:        identity.AccountID,
				Version:          1,
				TimeModel:        models.TimeModel{CreatedAt: now, UpdatedAt: now},
			}

			if err := uc.PatientRepository.Create(ctx, patient); err != nil {
				uc.Log.Error("patientUsecase.Create error inserting patient",
					zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
					zap.Error(err),
				)
				return nil, err
			}
			return uc.view(patient)
		},
	})
}

func (uc *patientUsecase) Update(ctx context.Context, patientID string, request *requests.UpdatePatient) (map[string]interface{}, error) {
	var target *models.Patient
	return uc.Orchestrator.Mutate(ctx, orchestrator.MutateRequest{
		Action:         contracts.ActionUpdate,
		ResourceType:   constvars.ResourcePatients,
		ResourceID:     patientID,
		LoadDescriptor: uc.loadInto(patientID, false, &target),
		Apply: func(ctx context.Context, identity *models.Identity) (map[string]interface{}, error) {
			set, err := uc.updateSet(request)
			if err != nil {
				return nil, err
			}
			return uc.saveAndView(ctx, target, set)
		},
	})
}

func (uc *patientUsecase) Delete(ctx context.Context, patientID string) error {
	var target *models.Patient
	_, err := uc.Orchestrator.Mutate(ctx, orchestrator.MutateRequest{
		Action:         contracts.ActionDelete,
		ResourceType:   constvars.ResourcePatients,
		ResourceID:     patientID,
		LoadDescriptor: uc.loadInto(patientID, false, &target),
		Apply: func(ctx context.Context, identity *models.Identity) (map[string]interface{}, error) {
			return nil, uc.PatientRepository.Save(ctx, patientID, target.Version, map[string]interface{}{
				"isDeleted": true,
				"deletedAt": uc.now(),
				"deletedBy": identity.AccountID,
			})
		},
	})
	return err
}

// Restore is the only action that sees soft-deleted patients. Restoring a
// live patient changes nothing.
func (uc *patientUsecase) Restore(ctx context.Context, patientID string) (map[string]interface{}, error) {
	var target *models.Patient
	return uc.Orchestrator.Mutate(ctx, orchestrator.MutateRequest{
		Action:         contracts.ActionRestore,
		ResourceType:   constvars.ResourcePatients,
		ResourceID:     patientID,
		LoadDescriptor: uc.loadInto(patientID, true, &target),
		Apply: func(ctx context.Context, identity *models.Identity) (map[string]interface{}, error) {
			if !target.IsDeleted {
				return uc.view(target)
			}
			return uc.saveAndView(ctx, target, map[string]interface{}{
				"isDeleted": false,
				"deletedAt": nil,
				"deletedBy": "",
			})
		},
	})
}

// Export renders the same page the listing would return, already masked
// for the caller.
func (uc *patientUsecase) Export(ctx context.Context, params url.Values) ([]byte, string, error) {
	requestID := utils.GetRequestID(ctx)

	result, err := uc.list(ctx, contracts.ActionExport, params)
	if err != nil {
		return nil, "", err
	}

	content, err := uc.Exporter.BuildWorkbook(constvars.ExportSheetName, exportColumns, result.Records)
	if err != nil {
		uc.Log.Error("patientUsecase.Export error building workbook",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, "", err
	}

	now := uc.now()
	event := contracts.AuditEvent{
		Name:         "patients.export.succeeded",
		Action:       string(contracts.ActionExport),
		ResourceType: constvars.ResourcePatients,
		Outcome:      "success",
		RequestID:    requestID,
		Details:      map[string]interface{}{"rows": len(result.Records)},
		OccurredAt:   now,
	}
	if identity, ok := models.IdentityFromContext(ctx); ok {
		event.ActorID = identity.AccountID
		event.ActorRole = identity.Role
	}
	uc.Orchestrator.Audit.Record(ctx, event)

	fileName := fmt.Sprintf(constvars.ExportFileNamePattern, now.In(uc.location).Format("20060102-150405"))
	return content, fileName, nil
}

func (uc *patientUsecase) list(ctx context.Context, action contracts.Action, params url.Values) (*contracts.ListResult, error) {
	return uc.Orchestrator.List(ctx, orchestrator.ListRequest{
		Action:         action,
		ResourceType:   constvars.ResourcePatients,
		Params:         params,
		BasePredicates: []contracts.Predicate{NotDeleted},
		Fetch: func(ctx context.Context, spec contracts.FindSpec) ([]map[string]interface{}, int64, error) {
			patients, err := uc.PatientRepository.Find(ctx, spec)
			if err != nil {
				return nil, 0, err
			}
			total, err := uc.PatientRepository.Count(ctx, spec.Predicates)
			if err != nil {
				return nil, 0, err
			}

			views := make([]map[string]interface{}, 0, len(patients))
			for i := range patients {
				view, err := uc.view(&patients[i])
				if err != nil {
					return nil, 0, err
				}
				views = append(views, view)
			}
			return views, total, nil
		},
	})
}

func (uc *patientUsecase) loadInto(patientID string, includeDeleted bool, target **models.Patient) func(ctx context.Context) (*models.ResourceDescriptor, error) {
	return func(ctx context.Context) (*models.ResourceDescriptor, error) {
		patient, err := uc.PatientRepository.FindByID(ctx, patientID, includeDeleted)
		if err != nil || patient == nil {
			return nil, err
		}
		*target = patient
		return patient.Descriptor(constvars.ResourcePatients), nil
	}
}

func (uc *patientUsecase) saveAndView(ctx context.Context, patient *models.Patient, set map[string]interface{}) (map[string]interface{}, error) {
	if len(set) > 0 {
		if err := uc.PatientRepository.Save(ctx, patient.IDHex(), patient.Version, set); err != nil {
			return nil, err
		}
	}

	updated, err := uc.PatientRepository.FindByID(ctx, patient.IDHex(), false)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, exceptions.ErrNotFound(nil, constvars.ResourcePatients)
	}
	return uc.view(updated)
}

func (uc *patientUsecase) view(patient *models.Patient) (map[string]interface{}, error) {
	view, err := patient.View(utils.CivilDate(uc.now(), uc.location))
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}
	return view, nil
}

// parseDateOfBirth stores the civil date as midnight UTC and rejects dates
// after today in the service timezone.
func (uc *patientUsecase) parseDateOfBirth(value string) (time.Time, error) {
	dateOfBirth, err := utils.ParseISODate(value, time.UTC)
	if err != nil {
		return time.Time{}, exceptions.ErrInputValidation(err)
	}
	if dateOfBirth.After(utils.CivilDate(uc.now(), uc.location)) {
		return time.Time{}, exceptions.ErrDateOfBirthInFuture(nil)
	}
	return dateOfBirth, nil
}

func (uc *patientUsecase) updateSet(request *requests.UpdatePatient) (map[string]interface{}, error) {
	set := map[string]interface{}{}
	assign := func(key string, value *string) {
		if value != nil {
			set[key] = *value
		}
	}
	assign("firstName", request.FirstName)
	assign("lastName", request.LastName)
	assign("gender", request.Gender)
	assign("phoneNumber", request.PhoneNumber)
	assign("email", request.Email)
	assign("nationalId", request.NationalID)
	assign("bloodType", request.BloodType)
	assign("departmentId", request.DepartmentID)
	assign("facilityId", request.FacilityID)

	if request.DateOfBirth != nil {
		dateOfBirth, err := uc.parseDateOfBirth(*request.DateOfBirth)
		if err != nil {
			return nil, err
		}
		set["dateOfBirth"] = dateOfBirth
	}
	if request.HeightCm != nil {
		set["heightCm"] = *request.HeightCm
	}
	if request.WeightKg != nil {
		set["weightKg"] = *request.WeightKg
	}
	if request.Allergies != nil {
		set["allergies"] = request.Allergies
	}
	if request.Address != nil {
		set["address"] = toAddress(request.Address)
	}
	if request.EmergencyContact != nil {
		set["emergencyContact"] = toEmergencyContact(request.EmergencyContact)
	}
	return set, nil
}

func toAddress(address *requests.Address) *models.Address {
	if address == nil {
		return nil
	}
	return &models.Address{County: address.County, City: address.City, Ward: address.Ward, Street: address.Street}
}

func toEmergencyContact(contact *requests.EmergencyContact) *models.EmergencyContact {
	if contact == nil {
		return nil
	}
	return &models.EmergencyContact{Name: contact.Name, Relationship: contact.Relationship, PhoneNumber: contact.PhoneNumber}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
