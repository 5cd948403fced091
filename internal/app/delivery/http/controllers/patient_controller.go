package controllers

import (
	"medblock-service/internal/app/contracts"
	"medblock-service/internal/pkg/constvars"
	"medblock-service/internal/pkg/dto/requests"
	"medblock-service/internal/pkg/exceptions"
	"medblock-service/internal/pkg/utils"
	"net/http"
	"sync"

	"go.uber.org/zap"
)

type PatientController struct {
	Log            *zap.Logger
	PatientUsecase contracts.PatientUsecase
}

var (
	patientControllerInstance *PatientController
	oncePatientController     sync.Once
)

func NewPatientController(logger *zap.Logger, patientUsecase contracts.PatientUsecase) *PatientController {
	oncePatientController.Do(func() {
		patientControllerInstance = &PatientController{
			Log:            logger,
			PatientUsecase: patientUsecase,
		}
	})
	return patientControllerInstance
}

func (ctrl *PatientController) List(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	ctrl.Log.Info("PatientController.List called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	result, err := ctrl.PatientUsecase.List(r.Context(), r.URL.Query())
	if err != nil {
		writeUsecaseError(ctrl.Log, w, "PatientController.List", requestID, err)
		return
	}

	ctrl.Log.Info("PatientController.List succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingResponseLengthKey, len(result.Records)),
	)
	writeListResponse(w, constvars.GetPatientsSuccessMessage, result)
}

func (ctrl *PatientController) Get(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	ctrl.Log.Info("PatientController.Get called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	patientID, err := utils.GetObjectIDParam(r, constvars.ResourcePatients)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	result, err := ctrl.PatientUsecase.Get(r.Context(), patientID)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, "PatientController.Get", requestID, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetPatientSuccessMessage, result)
}

func (ctrl *PatientController) Create(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	ctrl.Log.Info("PatientController.Create called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	request := new(requests.CreatePatient)
	if err := utils.ParseJSONBody(r, request); err != nil {
		ctrl.Log.Error("PatientController.Create error decoding JSON",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.SanitizeCreatePatientRequest(request)

	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	result, err := ctrl.PatientUsecase.Create(r.Context(), request)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, "PatientController.Create", requestID, err)
		return
	}

	ctrl.Log.Info("PatientController.Create succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.CreatePatientSuccessMessage, result)
}

func (ctrl *PatientController) Update(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	ctrl.Log.Info("PatientController.Update called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	patientID, err := utils.GetObjectIDParam(r, constvars.ResourcePatients)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	request := new(requests.UpdatePatient)
	if err := utils.ParseJSONBody(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.SanitizeUpdatePatientRequest(request)

	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	result, err := ctrl.PatientUsecase.Update(r.Context(), patientID, request)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, "PatientController.Update", requestID, err)
		return
	}

	ctrl.Log.Info("PatientController.Update succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTargetIDKey, patientID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.UpdatePatientSuccessMessage, result)
}

func (ctrl *PatientController) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	ctrl.Log.Info("PatientController.Delete called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	patientID, err := utils.GetObjectIDParam(r, constvars.ResourcePatients)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	if err := ctrl.PatientUsecase.Delete(r.Context(), patientID); err != nil {
		writeUsecaseError(ctrl.Log, w, "PatientController.Delete", requestID, err)
		return
	}

	ctrl.Log.Info("PatientController.Delete succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTargetIDKey, patientID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.DeletePatientSuccessMessage, nil)
}

func (ctrl *PatientController) Restore(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	ctrl.Log.Info("PatientController.Restore called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	patientID, err := utils.GetObjectIDParam(r, constvars.ResourcePatients)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	result, err := ctrl.PatientUsecase.Restore(r.Context(), patientID)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, "PatientController.Restore", requestID, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.RestorePatientSuccessMessage, result)
}

func (ctrl *PatientController) Export(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	ctrl.Log.Info("PatientController.Export called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	content, fileName, err := ctrl.PatientUsecase.Export(r.Context(), r.URL.Query())
	if err != nil {
		writeUsecaseError(ctrl.Log, w, "PatientController.Export", requestID, err)
		return
	}

	ctrl.Log.Info("PatientController.Export succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingResponseLengthKey, len(content)),
	)
	utils.BuildFileResponse(w, constvars.MIMEApplicationXLSX, fileName, content)
}
