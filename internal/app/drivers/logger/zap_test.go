package logger

import (
	"medblock-service/internal/app/config"
	"medblock-service/internal/pkg/constvars"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewZapLogger(t *testing.T) {
	tests := []struct {
		level string
		want  zap.AtomicLevel
	}{
		{level: "debug", want: zap.NewAtomicLevelAt(zap.DebugLevel)},
		{level: "warn", want: zap.NewAtomicLevelAt(zap.WarnLevel)},
		{level: "bogus", want: zap.NewAtomicLevelAt(zap.InfoLevel)},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger, err := NewZapLogger(
				&config.DriverConfig{Logger: config.Logger{Level: tt.level}},
				&config.InternalConfig{App: config.App{Env: constvars.AppEnvLocal}},
			)
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.want.Level()))
			if tt.want.Level() > zap.DebugLevel {
				assert.False(t, logger.Core().Enabled(tt.want.Level()-1))
			}
		})
	}
}

func TestOutputPaths(t *testing.T) {
	files := config.Logger{OutputFileName: "/var/log/app.log", OutputErrorFileName: "/var/log/app.err"}

	out, errOut := outputPaths(files, constvars.AppEnvProduction)
	assert.Equal(t, []string{"/var/log/app.log"}, out)
	assert.Equal(t, []string{"stderr", "/var/log/app.err"}, errOut)

	out, errOut = outputPaths(files, constvars.AppEnvDevelopment)
	assert.Equal(t, []string{"stdout"}, out)
	assert.Equal(t, []string{"stderr"}, errOut)
}
