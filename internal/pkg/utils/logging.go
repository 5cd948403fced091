package utils

import (
	"context"
	"time"

	"medblock-service/internal/pkg/constvars"

	"go.uber.org/zap"
)

// LogOperation times fn and logs its outcome under operation. It is meant
// for work outside a request, such as scheduled jobs and CLI commands.
func LogOperation(logger *zap.Logger, operation string, fn func() error, fields ...zap.Field) error {
	base := append([]zap.Field{zap.String(constvars.LoggingOperationKey, operation)}, fields...)
	logger.Debug("Operation started", base...)

	start := time.Now()
	err := fn()
	base = append(base,
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
		zap.Bool(constvars.LoggingSuccessKey, err == nil),
	)

	if err != nil {
		logger.Error("Operation failed", append(base, zap.Error(err))...)
		return err
	}
	logger.Info("Operation completed", base...)
	return nil
}

func LogSecurityEvent(logger *zap.Logger, event string, requestID string, severity string, fields ...zap.Field) {
	allFields := []zap.Field{
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("security_event", event),
		zap.String("severity", severity),
		zap.Time("timestamp", time.Now()),
	}
	allFields = append(allFields, fields...)

	switch severity {
	case constvars.SecuritySeverityCritical:
		// DPanic panics when the logger runs in development mode.
		logger.DPanic("Security event detected", allFields...)
	case constvars.SecuritySeverityHigh:
		logger.Error("Security event detected", allFields...)
	default:
		logger.Warn("Security event detected", allFields...)
	}
}

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string); ok {
		return requestID
	}
	return ""
}
