package constvars

const (
	LoggingRequestIDKey      = "request_id"
	LoggingMethodKey         = "method"
	LoggingEndpointKey       = "endpoint"
	LoggingRemoteAddrKey     = "remote_addr"
	LoggingUserAgentKey      = "user_agent"
	LoggingStatusCodeKey     = "status_code"
	LoggingDurationKey       = "duration"
	LoggingSuccessKey        = "success"
	LoggingOperationKey      = "operation"
	LoggingErrorCodeKey      = "error_code"
	LoggingErrorMessageKey   = "error_message"
	LoggingAccountIDKey      = "account_id"
	LoggingTargetIDKey       = "target_id"
	LoggingRoleKey           = "role"
	LoggingActionKey         = "action"
	LoggingResourceTypeKey   = "resource_type"
	LoggingReasonKey         = "reason"
	LoggingFailureCategory   = "failure_category"
	LoggingAuditEventKey     = "audit_event"
	LoggingQueueKey          = "queue"
	LoggingCollectionKey     = "collection"
	LoggingResponseLengthKey = "response_length"
	LoggingBucketKey         = "bucket"
)

const (
	SecuritySeverityLow      = "low"
	SecuritySeverityMedium   = "medium"
	SecuritySeverityHigh     = "high"
	SecuritySeverityCritical = "critical"
)
