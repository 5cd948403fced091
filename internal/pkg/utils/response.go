package utils

import (
	"medblock-service/internal/pkg/constvars"
	"medblock-service/internal/pkg/dto/responses"
	"medblock-service/internal/pkg/exceptions"
	"net/http"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

func BuildPaginationResponse(total int64, page, limit int) *responses.Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return &responses.Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

func BuildSuccessResponse(w http.ResponseWriter, code int, message string, data interface{}) {
	response := responses.ResponseDTO{
		Success: true,
		Message: message,
		Data:    data,
	}
	writeJSON(w, code, response)
}

func BuildSuccessResponseWithPagination(w http.ResponseWriter, code int, message string, pagination *responses.Pagination, data interface{}, debug interface{}) {
	response := responses.ResponseDTO{
		Success:    true,
		Message:    message,
		Data:       data,
		Pagination: pagination,
		Debug:      debug,
	}
	writeJSON(w, code, response)
}

// BuildFileResponse streams a generated attachment such as an xlsx export.
func BuildFileResponse(w http.ResponseWriter, contentType, fileName string, content []byte) {
	w.Header().Set(constvars.HeaderContentType, contentType)
	w.Header().Set(constvars.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	w.WriteHeader(constvars.StatusOK)
	w.Write(content)
}

func BuildErrorResponse(log *zap.Logger, w http.ResponseWriter, err error) {
	response := responses.ErrorResponseDTO{
		Success: false,
		Message: constvars.ErrClientSomethingWrongWithApplication,
		Code:    exceptions.CodeInternal,
	}
	code := constvars.StatusInternalServerError

	customErr, ok := exceptions.AsCustomError(err)
	if ok {
		code = customErr.StatusCode
		response.Message = customErr.ClientMessage
		response.Code = customErr.Code
		response.Reason = customErr.Reason

		fields := []zap.Field{
			zap.Int(constvars.LoggingStatusCodeKey, code),
			zap.String(constvars.LoggingErrorCodeKey, customErr.Code),
			zap.String("file", customErr.Location.File),
			zap.Int("line", customErr.Location.Line),
			zap.String("function_name", customErr.Location.FunctionName),
		}
		if code >= constvars.StatusInternalServerError {
			log.Error(customErr.DevMessage, fields...)
		} else {
			log.Warn(customErr.DevMessage, fields...)
		}

		if GetEnvString("APP_ENV", constvars.AppEnvDevelopment) != constvars.AppEnvProduction {
			response.DevMessage = customErr.DevMessage
			response.Location = &responses.ErrorLocation{
				File:         customErr.Location.File,
				Line:         customErr.Location.Line,
				FunctionName: customErr.Location.FunctionName,
			}
		}
	} else if err != nil {
		log.Error(err.Error())
	}

	writeJSON(w, code, response)
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
