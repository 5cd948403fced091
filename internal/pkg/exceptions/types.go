package exceptions

import (
	"fmt"
	"medblock-service/internal/pkg/constvars"
	"strings"
)

// ReasonResourceRequired mirrors the access decision reason of the same name.
const ReasonResourceRequired = "RESOURCE_REQUIRED"

func withCode(customErr *CustomError, code string) *CustomError {
	customErr.Code = code
	return customErr
}

var (
	ErrInputValidation = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, FormatFirstValidationError(err), constvars.ErrDevValidationFailed)
	}
	ErrHashPassword = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevFailedToHashPassword)
	}
	ErrCannotParseMultipartForm = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCannotParseMultipartForm)
	}
	ErrCannotMarshalJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevCannotMarshalJSON)
	}
	ErrServerDeadlineExceeded = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusGatewayTimeout, constvars.ErrClientServerLongRespond, constvars.ErrDevServerDeadlineExceeded)
	}
	ErrServerProcess = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevServerInternalError)
	}
	ErrTooManyRequests = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusTooManyRequests, constvars.ErrClientTooManyRequests, constvars.ErrDevRequestLimitExceeded)
	}
	ErrRequestBodyTooLarge = func(err error, limitMB int) *CustomError {
		return BuildNewCustomError(err, constvars.StatusRequestTooLarge, fmt.Sprintf(constvars.ErrClientPayloadTooLarge, limitMB), constvars.ErrDevRequestBodyTooLarge)
	}
	ErrDocumentRequired = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientDocumentRequired, constvars.ErrDevDocumentMissing)
	}
	ErrUnsupportedDocumentType = func(err error, contentType string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientUnsupportedDocument, fmt.Sprintf(constvars.ErrDevUnsupportedDocumentType, contentType))
	}

	// Parse
	ErrCannotParseJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCannotParseJSON)
	}

	// Auth: every Unauthenticated variant shares one client message so callers
	// cannot probe which check failed.
	ErrInvalidEmailOrPassword = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientInvalidEmailOrPassword, constvars.ErrDevInvalidCredentials)
	}
	ErrTokenMissing = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientNotLoggedIn, constvars.ErrDevAuthTokenMissing)
	}
	ErrTokenBadScheme = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientNotLoggedIn, constvars.ErrDevAuthBadScheme)
	}
	ErrTokenInvalid = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientNotLoggedIn, constvars.ErrDevAuthTokenInvalid)
	}
	ErrTokenExpired = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientNotLoggedIn, constvars.ErrDevAuthTokenExpired)
	}
	ErrTokenRevoked = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientNotLoggedIn, constvars.ErrDevAuthTokenRevoked)
	}
	ErrTokenUserMissing = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientNotLoggedIn, constvars.ErrDevUserNotExists)
	}
	ErrTokenUserInactive = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientNotLoggedIn, constvars.ErrDevUserInactive)
	}
	ErrTokenGenerate = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevAuthGenerateToken)
	}

	// Access
	ErrForbidden = func(err error, reason string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusForbidden, constvars.ErrClientNotAuthorized, fmt.Sprintf(constvars.ErrDevAuthPermissionDenied, reason)).WithReason(reason)
	}
	ErrVerificationRequired = func(err error, reason string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusForbidden, constvars.ErrClientNotVerified, fmt.Sprintf(constvars.ErrDevAuthPermissionDenied, reason)).WithReason(reason)
	}
	ErrServerMisconfigured = func(err error, reason string) *CustomError {
		devMessage := constvars.ErrDevAuthIdentityMissing
		if reason == ReasonResourceRequired {
			devMessage = constvars.ErrDevAuthResourceRequired
		}
		return withCode(BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, devMessage), CodeServerMisconfigured).WithReason(reason)
	}

	// Query
	ErrInvalidQuery = func(err error, param string, allowed []string) *CustomError {
		return withCode(BuildNewCustomError(err, constvars.StatusBadRequest, fmt.Sprintf(constvars.ErrClientInvalidQueryParam, param, strings.Join(allowed, ", ")), fmt.Sprintf(constvars.ErrDevQueryUnknownParam, param)), CodeInvalidQuery)
	}
	ErrInvalidQueryValue = func(err error, param, value string, allowed []string) *CustomError {
		return withCode(BuildNewCustomError(err, constvars.StatusBadRequest, fmt.Sprintf(constvars.ErrClientInvalidQueryParam, param, strings.Join(allowed, ", ")), fmt.Sprintf(constvars.ErrDevQueryMalformedValue, param, value)), CodeInvalidQuery)
	}
	ErrUnknownResource = func(err error, resourceType string) *CustomError {
		return withCode(BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevQueryUnknownResource, resourceType)), CodeServerMisconfigured)
	}

	// Resources
	ErrNotFound = func(err error, resourceName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusNotFound, fmt.Sprintf(constvars.ErrClientResourceNotFound, resourceName), constvars.ErrDevServerNotFound)
	}
	ErrRouteNotFound = func(method, path string) *CustomError {
		return WrapWithoutError(constvars.StatusNotFound, fmt.Sprintf(constvars.ErrClientResourceNotFound, "endpoint"), fmt.Sprintf(constvars.ErrDevRouteNotFound, method, path))
	}
	ErrMethodNotAllowed = func(method, path string) *CustomError {
		return WrapWithoutError(constvars.StatusMethodNotAllowed, constvars.ErrClientMethodNotAllowed, fmt.Sprintf(constvars.ErrDevRouteNotFound, method, path))
	}
	ErrInvalidIdentifier = func(err error, resourceName string) *CustomError {
		return withCode(BuildNewCustomError(err, constvars.StatusBadRequest, fmt.Sprintf(constvars.ErrClientInvalidIdentifier, resourceName), constvars.ErrDevDBStringNotObjectID), CodeInvalidIdentifier)
	}
	ErrConflict = func(err error, collection string) *CustomError {
		return withCode(BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientAlreadyExists, fmt.Sprintf(constvars.ErrDevDBDuplicateKey, collection)), CodeConflict)
	}
	ErrAccountExists = func(err error) *CustomError {
		return withCode(BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientAccountAlreadyExists, fmt.Sprintf(constvars.ErrDevDBDuplicateKey, constvars.CollectionUsers)), CodeConflict)
	}
	ErrStaleWrite = func(err error, collection, id string, expected int64) *CustomError {
		return withCode(BuildNewCustomError(err, constvars.StatusConflict, constvars.ErrClientStaleWrite, fmt.Sprintf(constvars.ErrDevDBVersionMismatch, collection, id, expected)), CodeStaleWrite)
	}
	ErrInvalidTransition = func(err error, from, to string) *CustomError {
		return withCode(BuildNewCustomError(err, constvars.StatusBadRequest, fmt.Sprintf(constvars.ErrClientInvalidTransition, from, to), constvars.ErrDevActionNotAllowed), CodeInvalidTransition)
	}
	ErrDateOfBirthInFuture = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientDateOfBirthInFuture, constvars.ErrDevInvalidInput)
	}
	ErrRejectionReasonRequired = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientRejectionReasonRequired, constvars.ErrDevValidationFailed)
	}

	// Mongo DB
	ErrMongoDBFindDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToFindDocument)
	}
	ErrMongoDBCountDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToCountDocument)
	}
	ErrMongoDBDecodeDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToDecodeDocument)
	}
	ErrMongoDBUpdateDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToUpdateDocument)
	}
	ErrMongoDBInsertDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToInsertDocument)
	}
	ErrMongoDBUnsupportedOperator = func(err error, operator string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevDBUnsupportedOperator, operator))
	}

	// Minio
	ErrMinioCreateObject = func(err error, bucketName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevMinioFailedToCreateObject, bucketName))
	}
	ErrMinioRemoveObject = func(err error, bucketName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevMinioFailedToRemoveObject, bucketName))
	}

	// Redis
	ErrRedisSet = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisSetData)
	}
	ErrRedisGet = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisGetData)
	}

	// Export
	ErrExportWorkbook = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevExportBuildWorkbook)
	}
)
