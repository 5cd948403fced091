package config

type InternalConfig struct {
	App      App         `mapstructure:"app"`
	JWT      AppJWT      `mapstructure:"jwt"`
	Minio    AppMinio    `mapstructure:"minio"`
	RabbitMQ AppRabbitMQ `mapstructure:"rabbitmq"`
	Audit    AppAudit    `mapstructure:"audit"`
	Query    AppQuery    `mapstructure:"query"`
	Login    AppLogin    `mapstructure:"login"`
}

type App struct {
	Env                        string `mapstructure:"env"`
	Port                       string `mapstructure:"port"`
	Version                    string `mapstructure:"version"`
	Address                    string `mapstructure:"address"`
	Timezone                   string `mapstructure:"timezone"`
	EndpointPrefix             string `mapstructure:"endpoint_prefix"`
	FrontendDomain             string `mapstructure:"frontend_domain"`
	MaxRequests                int    `mapstructure:"max_requests"`
	MaxTimeRequestsPerSeconds  int    `mapstructure:"max_time_requests_per_seconds"`
	ShutdownTimeoutInSeconds   int    `mapstructure:"shutdown_timeout_in_seconds"`
	RequestTimeoutInSeconds    int    `mapstructure:"request_timeout_in_seconds"`
	RequestBodyLimitInMegabyte int    `mapstructure:"request_body_limit_in_megabyte"`
	MaintenanceCronSpec        string `mapstructure:"maintenance_cron_spec"`
}

type AppJWT struct {
	Secret        string `mapstructure:"secret"`
	Issuer        string `mapstructure:"issuer"`
	ExpTimeInHour int    `mapstructure:"exp_time_in_hour"`
}

type AppMinio struct {
	BucketName                   string `mapstructure:"bucket_name"`
	CredentialMaxUploadSizeInMB int    `mapstructure:"credential_max_upload_size_in_mb"`
}

type AppRabbitMQ struct {
	AuditQueue string `mapstructure:"audit_queue"`
}

type AppAudit struct {
	Enabled                bool `mapstructure:"enabled"`
	PublishTimeoutInMillis int  `mapstructure:"publish_timeout_in_millis"`
}

type AppQuery struct {
	DefaultLimit int `mapstructure:"default_limit"`
	MaxLimit     int `mapstructure:"max_limit"`
}

// AppLogin controls the per-IP brute force guard on the login endpoint.
type AppLogin struct {
	RequestsPerMinute     int `mapstructure:"requests_per_minute"`
	Burst                 int `mapstructure:"burst"`
	BlockDurationInMinute int `mapstructure:"block_duration_in_minute"`
}

func (c *InternalConfig) IsProduction() bool {
	return c.App.Env == "production"
}
