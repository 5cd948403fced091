package logger

import (
	"fmt"
	"medblock-service/internal/app/config"
	"medblock-service/internal/pkg/constvars"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "medblock-service"

// NewZapLogger builds the JSON logger. Production writes to the configured
// files and samples repeated entries; other environments write to stdout.
func NewZapLogger(driverConfig *config.DriverConfig, internalConfig *config.InternalConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(driverConfig.Logger.Level)
	if err != nil {
		level = zap.InfoLevel
	}

	env := internalConfig.App.Env
	outputs, errorOutputs := outputPaths(driverConfig.Logger, env)

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      env == constvars.AppEnvDevelopment,
		Encoding:         "json",
		EncoderConfig:    encoderConfig(),
		OutputPaths:      outputs,
		ErrorOutputPaths: errorOutputs,
		InitialFields:    map[string]interface{}{"service": serviceName, "env": env},
	}
	if env == constvars.AppEnvProduction {
		cfg.Sampling = &zap.SamplingConfig{Initial: 100, Thereafter: 100}
	}

	zapLogger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("initialize zap logger: %w", err)
	}
	return zapLogger, nil
}

func outputPaths(logger config.Logger, env string) ([]string, []string) {
	if env != constvars.AppEnvProduction {
		return []string{"stdout"}, []string{"stderr"}
	}
	return []string{logger.OutputFileName}, []string{"stderr", logger.OutputErrorFileName}
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.StringDurationEncoder
	return cfg
}
