package constvars

// Validation messages mapper
var CustomValidationErrorMessages = map[string]string{
	"required":      "is required",
	"email":         "must be a valid email",
	"alphanum":      "must contain only alphanumeric characters",
	"min":           "must be at least %s characters long",
	"max":           "maximum at %s characters long",
	"eqfield":       "must match %s",
	"password":      "must be at least 8 characters long, contain at least one special character, one digit and one uppercase letter",
	"numeric":       "must be a number",
	"len":           "must be %s characters long",
	"oneof":         "must be one of [%s]",
	"gt":            "must be greater than %s",
	"gte":           "must be greater than or equal to %s",
	"lt":            "must be less than %s",
	"lte":           "must be less than or equal to %s",
	"datetime":      "must be a date in the %s format",
	"phone_number":  "must be a valid phone number in E.164 or local format",
	"national_id":   "must be 6 to 12 alphanumeric characters",
	"role":          "must be one of [admin doctor nurse front-desk]",
	"register_role": "must be one of [doctor nurse front-desk]",
	"required_if":   "is required when %s is %s",
}

// Tags that require parameter substitution
var TagsWithParams = map[string]bool{
	"min":         true,
	"max":         true,
	"len":         true,
	"eqfield":     true,
	"gt":          true,
	"gte":         true,
	"lt":          true,
	"lte":         true,
	"oneof":       true,
	"datetime":    true,
	"required_if": true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientInvalidEmailOrPassword        = "invalid email or password"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientNotAuthorized                 = "you can't access this feature"
	ErrClientNotLoggedIn                   = "your session ended, please login again"
	ErrClientNotVerified                   = "your professional verification must be approved before using this feature"
	ErrClientAlreadyExists                 = "already exists"
	ErrClientAccountAlreadyExists          = "account already exists"
	ErrClientResourceNotFound              = "%s not found"
	ErrClientInvalidIdentifier             = "invalid %s identifier"
	ErrClientStaleWrite                    = "the record was modified by another request, reload and try again"
	ErrClientInvalidQueryParam             = "invalid query parameter '%s', allowed: [%s]"
	ErrClientInvalidTransition             = "verification status cannot change from '%s' to '%s'"
	ErrClientRejectionReasonRequired       = "a rejection reason is required"
	ErrClientTooManyRequests               = "too many requests, please try again later"
	ErrClientDateOfBirthInFuture           = "date of birth cannot be in the future"
	ErrClientMethodNotAllowed              = "method not allowed on this endpoint"
	ErrClientPayloadTooLarge               = "request body exceeds the %d MB limit"
	ErrClientDocumentRequired              = "a credential document is required"
	ErrClientUnsupportedDocument           = "the credential document must be a PDF, JPEG or PNG file"
)

// Error messages for developers
const (
	ErrDevInvalidInput             = "invalid input"
	ErrDevCannotParseJSON          = "cannot parse JSON into struct or other data types"
	ErrDevCannotMarshalJSON        = "cannot convert struct or other data types to JSON"
	ErrDevCannotParseMultipartForm = "cannot parse multipart form body"
	ErrDevFailedToHashPassword     = "failed to hash password"
	ErrDevInvalidCredentials       = "invalid credentials"
	ErrDevUserNotExists            = "user not exists in our system"
	ErrDevUserInactive             = "user is inactive or deleted"

	// Validation messages
	ErrDevValidationFailed = "validation failed"

	// Authentication messages
	ErrDevAuthTokenInvalid     = "invalid token signature"
	ErrDevAuthTokenExpired     = "token expired"
	ErrDevAuthTokenMissing     = "token missing"
	ErrDevAuthTokenRevoked     = "token revoked"
	ErrDevAuthBadScheme        = "authorization scheme is not Bearer"
	ErrDevAuthGenerateToken    = "failed to generate token"
	ErrDevAuthPermissionDenied = "permission denied: %s"
	ErrDevAuthIdentityMissing  = "authorization invoked without identity on the request context"
	ErrDevAuthResourceRequired = "authorization requires a resource descriptor"

	// Query messages
	ErrDevQueryUnknownParam    = "query parameter %s is not whitelisted"
	ErrDevQueryMalformedValue  = "query parameter %s has malformed value %q"
	ErrDevQueryUnknownResource = "no field whitelist registered for resource %s"

	// Database messages
	ErrDevDBFailedToInsertDocument = "failed to insert document into database"
	ErrDevDBFailedToUpdateDocument = "failed to update document into database"
	ErrDevDBFailedToFindDocument   = "failed when do find document on database"
	ErrDevDBFailedToCountDocument  = "failed when do count document on database"
	ErrDevDBFailedToDecodeDocument = "failed when decoding documents from database"
	ErrDevDBDuplicateKey           = "duplicate key on collection %s"
	ErrDevDBVersionMismatch        = "version mismatch on %s/%s, expected %d"
	ErrDevDBStringNotObjectID      = "given ID is not valid object ID"
	ErrDevDBUnsupportedOperator    = "unsupported predicate operator %s"

	// Minio messages
	ErrDevMinioFailedToCreateObject = "failed to create object into minio storage with bucket name '%s'"
	ErrDevMinioFailedToRemoveObject = "failed to remove object from minio storage with bucket name '%s'"

	// Redis messages
	ErrDevRedisSetData = "failed to SET data into redis"
	ErrDevRedisGetData = "failed to GET data from redis"

	// Export messages
	ErrDevExportBuildWorkbook = "failed to build xlsx workbook"

	// Server messages
	ErrDevServerInternalError    = "internal server error"
	ErrDevServerNotFound         = "resource not found"
	ErrDevRouteNotFound          = "no route for %s %s"
	ErrDevServerDeadlineExceeded = "deadline exceeded"
	ErrDevMaskingPanicked        = "masking panicked, falling back to redacted view"

	// Miscellaneous messages
	ErrDevActionNotAllowed        = "action not allowed"
	ErrDevRequestLimitExceeded    = "request limit exceeded"
	ErrDevRequestBodyTooLarge     = "request body too large"
	ErrDevDocumentMissing         = "multipart field document missing"
	ErrDevUnsupportedDocumentType = "unsupported document content type %s"
)

const (
	ErrFileLocationUnknown = "file location unknown"
	ErrFunctionNameUnknown = "function name unknown"
)

const (
	ErrEnvParsing = "Error parsing %s: %v, will use default value"
)
