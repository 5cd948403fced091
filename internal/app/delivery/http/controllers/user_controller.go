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

type UserController struct {
	Log         *zap.Logger
	UserUsecase contracts.UserUsecase
}

var (
	userControllerInstance *UserController
	onceUserController     sync.Once
)

func NewUserController(logger *zap.Logger, userUsecase contracts.UserUsecase) *UserController {
	onceUserController.Do(func() {
		userControllerInstance = &UserController{
			Log:         logger,
			UserUsecase: userUsecase,
		}
	})
	return userControllerInstance
}

func (ctrl *UserController) List(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	ctrl.Log.Info("UserController.List called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	result, err := ctrl.UserUsecase.List(r.Context(), r.URL.Query())
	if err != nil {
		writeUsecaseError(ctrl.Log, w, "UserController.List", requestID, err)
		return
	}

	ctrl.Log.Info("UserController.List succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingResponseLengthKey, len(result.Records)),
	)
	writeListResponse(w, constvars.GetUsersSuccessMessage, result)
}

func (ctrl *UserController) Get(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	ctrl.Log.Info("UserController.Get called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	userID, err := utils.GetObjectIDParam(r, constvars.ResourceUsers)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	result, err := ctrl.UserUsecase.Get(r.Context(), userID)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, "UserController.Get", requestID, err)
		return
	}

	ctrl.Log.Info("UserController.Get succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTargetIDKey, userID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetUserSuccessMessage, result)
}

func (ctrl *UserController) Me(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	ctrl.Log.Info("UserController.Me called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	result, err := ctrl.UserUsecase.Me(r.Context())
	if err != nil {
		writeUsecaseError(ctrl.Log, w, "UserController.Me", requestID, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetProfileSuccessMessage, result)
}

func (ctrl *UserController) Update(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	ctrl.Log.Info("UserController.Update called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	userID, err := utils.GetObjectIDParam(r, constvars.ResourceUsers)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	request := new(requests.UpdateUser)
	if err := utils.ParseJSONBody(r, request); err != nil {
		ctrl.Log.Error("UserController.Update error decoding JSON",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.SanitizeUpdateUserRequest(request)

	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	result, err := ctrl.UserUsecase.Update(r.Context(), userID, request)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, "UserController.Update", requestID, err)
		return
	}

	ctrl.Log.Info("UserController.Update succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTargetIDKey, userID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.UpdateUserSuccessMessage, result)
}

func (ctrl *UserController) ChangeRole(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	ctrl.Log.Info("UserController.ChangeRole called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	userID, err := utils.GetObjectIDParam(r, constvars.ResourceUsers)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	request := new(requests.ChangeRole)
	if err := utils.ParseJSONBody(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.SanitizeChangeRoleRequest(request)

	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	result, err := ctrl.UserUsecase.ChangeRole(r.Context(), userID, request)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, "UserController.ChangeRole", requestID, err)
		return
	}

	ctrl.Log.Info("UserController.ChangeRole succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTargetIDKey, userID),
		zap.String(constvars.LoggingRoleKey, request.Role),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ChangeRoleSuccessMessage, result)
}

func (ctrl *UserController) Deactivate(w http.ResponseWriter, r *http.Request) {
	ctrl.setActive(w, r, false)
}

func (ctrl *UserController) Activate(w http.ResponseWriter, r *http.Request) {
	ctrl.setActive(w, r, true)
}

func (ctrl *UserController) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	requestID := utils.GetRequestID(r.Context())
	ctrl.Log.Info("UserController.SetActive called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Bool("active", active),
	)

	userID, err := utils.GetObjectIDParam(r, constvars.ResourceUsers)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	result, err := ctrl.UserUsecase.SetActive(r.Context(), userID, active)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, "UserController.SetActive", requestID, err)
		return
	}

	message := constvars.DeactivateSuccessMessage
	if active {
		message = constvars.ActivateSuccessMessage
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, message, result)
}

func (ctrl *UserController) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	ctrl.Log.Info("UserController.Delete called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	userID, err := utils.GetObjectIDParam(r, constvars.ResourceUsers)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	if err := ctrl.UserUsecase.Delete(r.Context(), userID); err != nil {
		writeUsecaseError(ctrl.Log, w, "UserController.Delete", requestID, err)
		return
	}

	ctrl.Log.Info("UserController.Delete succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTargetIDKey, userID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.DeleteUserSuccessMessage, nil)
}
