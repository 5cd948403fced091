package config

import (
	"fmt"
	"medblock-service/internal/pkg/constvars"
	"medblock-service/internal/pkg/utils"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			DbName:   utils.GetEnvString("MONGODB_DB_NAME", "medblock"),
			Username: utils.GetEnvString("MONGODB_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MONGODB_PASSWORD", "defaultPassword"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
			DB:       utils.GetEnvInt("REDIS_DB", 0),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "guest"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "guest"),
		},
		Minio: Minio{
			Port:     utils.GetEnvString("MINIO_PORT", "9000"),
			Host:     utils.GetEnvString("MINIO_HOST", "localhost"),
			Username: utils.GetEnvString("MINIO_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MINIO_PASSWORD", "defaultPassword"),
			UseSSL:   utils.GetEnvBool("MINIO_USE_SSL", false),
		},
	}
}

var internalDefaults = map[string]interface{}{
	"app.env":                            constvars.AppEnvDevelopment,
	"app.port":                           "8080",
	"app.version":                        "v1.0",
	"app.address":                        "localhost",
	"app.timezone":                       constvars.DefaultTimezone,
	"app.endpoint_prefix":                "/api/v1",
	"app.frontend_domain":                "http://localhost:3000",
	"app.max_requests":                   100,
	"app.max_time_requests_per_seconds":  60,
	"app.shutdown_timeout_in_seconds":    10,
	"app.request_timeout_in_seconds":     10,
	"app.request_body_limit_in_megabyte": 6,
	"app.maintenance_cron_spec":          constvars.DefaultMaintenanceCronSpec,

	"jwt.secret":           "",
	"jwt.issuer":           "medblock-service",
	"jwt.exp_time_in_hour": 8,

	"minio.bucket_name":                      "medblock-credentials",
	"minio.credential_max_upload_size_in_mb": constvars.MaxDocumentUploadMB,

	"rabbitmq.audit_queue": "medblock.audit",

	"audit.enabled":                   true,
	"audit.publish_timeout_in_millis": 2000,

	"query.default_limit": constvars.DefaultLimit,
	"query.max_limit":     constvars.MaxLimit,

	"login.requests_per_minute":      10,
	"login.burst":                    5,
	"login.block_duration_in_minute": 15,
}

// NewInternalConfig reads the application settings from the environment,
// e.g. app.env from APP_ENV and query.default_limit from QUERY_DEFAULT_LIMIT.
// The .env file is already merged into the environment by init.
func NewInternalConfig() (*InternalConfig, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range internalDefaults {
		v.SetDefault(key, value)
	}

	cfg := &InternalConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal internal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *InternalConfig) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.IsProduction() && len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters in production")
	}
	if c.Query.MaxLimit <= 0 || c.Query.MaxLimit > constvars.MaxLimit {
		return fmt.Errorf("QUERY_MAX_LIMIT must be between 1 and %d, got %d", constvars.MaxLimit, c.Query.MaxLimit)
	}
	if c.Query.DefaultLimit <= 0 || c.Query.DefaultLimit > c.Query.MaxLimit {
		return fmt.Errorf("QUERY_DEFAULT_LIMIT must be between 1 and QUERY_MAX_LIMIT, got %d", c.Query.DefaultLimit)
	}
	return nil
}
