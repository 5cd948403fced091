package controllers

import (
	"errors"
	"io"
	"medblock-service/internal/app/config"
	"medblock-service/internal/app/contracts"
	"medblock-service/internal/pkg/constvars"
	"medblock-service/internal/pkg/dto/requests"
	"medblock-service/internal/pkg/exceptions"
	"medblock-service/internal/pkg/utils"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
)

var allowedDocumentTypes = map[string]bool{
	constvars.MIMEApplicationPDF: true,
	constvars.MIMEImageJPEG:      true,
	constvars.MIMEImagePNG:       true,
}

type VerificationController struct {
	Log                 *zap.Logger
	VerificationUsecase contracts.VerificationUsecase
	InternalConfig      *config.InternalConfig
}

var (
	verificationControllerInstance *VerificationController
	onceVerificationController     sync.Once
)

func NewVerificationController(logger *zap.Logger, verificationUsecase contracts.VerificationUsecase, internalConfig *config.InternalConfig) *VerificationController {
	onceVerificationController.Do(func() {
		verificationControllerInstance = &VerificationController{
			Log:                 logger,
			VerificationUsecase: verificationUsecase,
			InternalConfig:      internalConfig,
		}
	})
	return verificationControllerInstance
}

// Submit accepts multipart/form-data with licenseNumber, issuingBody and an
// optional document file.
func (ctrl *VerificationController) Submit(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	ctrl.Log.Info("VerificationController.Submit called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	maxMB := ctrl.InternalConfig.Minio.CredentialMaxUploadSizeInMB
	if maxMB <= 0 {
		maxMB = constvars.MaxDocumentUploadMB
	}
	maxBytes := int64(maxMB) << 20

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		ctrl.Log.Error("VerificationController.Submit error parsing multipart form",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		if tooLarge, ok := utils.AsBodyTooLarge(err); ok {
			utils.BuildErrorResponse(ctrl.Log, w, tooLarge)
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseMultipartForm(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	request := &requests.SubmitVerification{
		LicenseNumber: strings.TrimSpace(r.FormValue(constvars.FormFieldLicenseNumber)),
		IssuingBody:   strings.TrimSpace(r.FormValue(constvars.FormFieldIssuingBody)),
	}

	file, header, err := r.FormFile(constvars.FormFieldDocument)
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseMultipartForm(err))
		return
	default:
		defer file.Close()
		if err := readDocument(file, header, maxBytes, maxMB, request); err != nil {
			ctrl.Log.Error("VerificationController.Submit rejected document",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			utils.BuildErrorResponse(ctrl.Log, w, err)
			return
		}
	}

	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	result, err := ctrl.VerificationUsecase.Submit(r.Context(), request)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, "VerificationController.Submit", requestID, err)
		return
	}

	ctrl.Log.Info("VerificationController.Submit succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SubmitVerificationMessage, result)
}

func (ctrl *VerificationController) ListPending(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	ctrl.Log.Info("VerificationController.ListPending called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	result, err := ctrl.VerificationUsecase.ListPending(r.Context(), r.URL.Query())
	if err != nil {
		writeUsecaseError(ctrl.Log, w, "VerificationController.ListPending", requestID, err)
		return
	}

	writeListResponse(w, constvars.GetVerificationsMessage, result)
}

func (ctrl *VerificationController) Review(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	ctrl.Log.Info("VerificationController.Review called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	userID, err := utils.GetObjectIDParam(r, constvars.ResourceUsers)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	request := new(requests.ReviewVerification)
	if err := utils.ParseJSONBody(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	request.Status = strings.ToLower(strings.TrimSpace(request.Status))
	request.Reason = strings.TrimSpace(request.Reason)

	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	result, err := ctrl.VerificationUsecase.Review(r.Context(), userID, request)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, "VerificationController.Review", requestID, err)
		return
	}

	ctrl.Log.Info("VerificationController.Review succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTargetIDKey, userID),
		zap.String("status", request.Status),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ReviewVerificationMessage, result)
}

// readDocument sniffs the content type from the bytes rather than trusting
// the part header.
func readDocument(file multipart.File, header *multipart.FileHeader, maxBytes int64, maxMB int, request *requests.SubmitVerification) error {
	if header.Size > maxBytes {
		return exceptions.ErrRequestBodyTooLarge(nil, maxMB)
	}
	content, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return exceptions.ErrCannotParseMultipartForm(err)
	}
	if int64(len(content)) > maxBytes {
		return exceptions.ErrRequestBodyTooLarge(nil, maxMB)
	}
	if len(content) == 0 {
		return exceptions.ErrDocumentRequired(nil)
	}

	contentType := http.DetectContentType(content)
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	if !allowedDocumentTypes[contentType] {
		return exceptions.ErrUnsupportedDocumentType(nil, contentType)
	}

	request.Document = content
	request.DocumentName = filepath.Base(header.Filename)
	request.ContentType = contentType
	return nil
}
