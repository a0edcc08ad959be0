package config_test

import (
	"testing"

	"github.com/on-the-ground/action_ive_go/actions"
	"github.com/on-the-ground/action_ive_go/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.EnvDevelopment, cfg.Env)
	assert.Empty(t, cfg.Prefix)
	assert.Equal(t, 16, cfg.DispatchBufferSize)
	assert.Equal(t, 1, cfg.DispatchNumWorkers)
	assert.Equal(t, zapcore.InfoLevel, cfg.ZapLevel())
	assert.False(t, cfg.Production())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv(config.KeyEnv, "production")
	t.Setenv(config.KeyTypePrefix, "app/")
	t.Setenv(config.KeyDispatchBufferSize, "64")
	t.Setenv(config.KeyDispatchNumWorkers, "4")
	t.Setenv(config.KeyLogLevel, "debug")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.True(t, cfg.Production())
	assert.Equal(t, "app/", cfg.Prefix)
	assert.Equal(t, 64, cfg.DispatchBufferSize)
	assert.Equal(t, 4, cfg.DispatchNumWorkers)
	assert.Equal(t, zapcore.DebugLevel, cfg.ZapLevel())
}

func TestLoad_ParseError(t *testing.T) {
	t.Setenv(config.KeyDispatchBufferSize, "not-an-int")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	err := config.Config{
		Env:                "staging",
		DispatchBufferSize: 0,
		DispatchNumWorkers: -1,
		LogLevel:           "loud",
	}.Validate()

	require.Error(t, err)
	for _, key := range []string{
		config.KeyEnv,
		config.KeyDispatchBufferSize,
		config.KeyDispatchNumWorkers,
		config.KeyLogLevel,
	} {
		assert.Contains(t, err.Error(), key)
	}
}

func TestFactoryOptions(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.Config
		wantType    string
		wantDupeErr bool
	}{
		{
			name:        "development checks duplicates",
			cfg:         config.Config{Env: config.EnvDevelopment, Prefix: "app"},
			wantType:    "app/PING",
			wantDupeErr: true,
		},
		{
			name:        "production skips duplicate checks",
			cfg:         config.Config{Env: config.EnvProduction},
			wantType:    "PING",
			wantDupeErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := actions.NewFactory(tt.cfg.FactoryOptions()...)

			c, err := actions.NewCreator[actions.Empty](f, "PING")
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, c.Type())

			_, err = actions.NewCreator[actions.Empty](f, "PING")
			if tt.wantDupeErr {
				assert.ErrorIs(t, err, actions.ErrDuplicateActionType)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
