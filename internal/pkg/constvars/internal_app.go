package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
	CONTEXT_IDENTITY_KEY             ContextKey = "identity"
)

const (
	REQUEST_ID_PREFIX = "MDBLK_SVC_"
)

const (
	ResourceUsers    = "users"
	ResourcePatients = "patients"
)

const (
	CollectionUsers    = "users"
	CollectionPatients = "patients"
)

const (
	RoleAdmin     = "admin"
	RoleDoctor    = "doctor"
	RoleNurse     = "nurse"
	RoleFrontDesk = "front-desk"
)

const (
	AppEnvProduction  = "production"
	AppEnvDevelopment = "development"
	AppEnvLocal       = "local"
)

const (
	DefaultTimezone        = "Africa/Nairobi"
	DateFormatISO          = "2006-01-02"
	ExportSheetName        = "Patients"
	ExportFileNamePattern  = "patients-%s.xlsx"
	CredentialObjectPrefix = "credentials"
	RevokedTokenKeyPrefix  = "revoked_token:"

	DefaultMaintenanceCronSpec  = "@every 10m"
	FallbackMaintenanceCronSpec = "@hourly"
)

const (
	LoginLimiterGroup         = "LOGIN"
	LoginAttemptWindowSec     = 900
	LoginAttemptMaxPerAccount = 10
	TokenTypeBearer           = "Bearer"
)
