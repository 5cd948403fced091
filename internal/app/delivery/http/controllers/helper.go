package controllers

import (
	"context"
	"errors"
	"medblock-service/internal/app/contracts"
	"medblock-service/internal/pkg/constvars"
	"medblock-service/internal/pkg/exceptions"
	"medblock-service/internal/pkg/utils"
	"net/http"

	"go.uber.org/zap"
)

// writeUsecaseError logs a failed call and renders it. A context deadline
// that reached the controller unmapped becomes a 504.
func writeUsecaseError(log *zap.Logger, w http.ResponseWriter, method, requestID string, err error) {
	log.Error(method+" error from usecase",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Error(err),
	)
	if errors.Is(err, context.DeadlineExceeded) && !exceptions.HasCode(err, exceptions.CodeTimeout) {
		err = exceptions.ErrServerDeadlineExceeded(err)
	}
	utils.BuildErrorResponse(log, w, err)
}

// writeListResponse keeps the debug block out of the envelope unless the
// caller asked for it.
func writeListResponse(w http.ResponseWriter, message string, result *contracts.ListResult) {
	records := result.Records
	if records == nil {
		records = []map[string]interface{}{}
	}
	var debug interface{}
	if result.Debug != nil {
		debug = result.Debug
	}
	utils.BuildSuccessResponseWithPagination(w, constvars.StatusOK, message, result.Pagination, records, debug)
}
