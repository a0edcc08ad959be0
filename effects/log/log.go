package log

import (
	"context"

	"github.com/on-the-ground/action_ive_go/effects"
	effectmodel "github.com/on-the-ground/action_ive_go/effects/internal/model"
	"go.uber.org/zap"
)

// LogLevel defines the severity level for log messages.
type LogLevel string

const (
	// LogInfo is used for general informational messages.
	LogInfo LogLevel = "info"

	// LogWarn is used for potentially harmful situations.
	LogWarn LogLevel = "warn"

	// LogError is used for error events that might still allow the application to continue running.
	LogError LogLevel = "error"

	// LogDebug is used for debugging messages with detailed internal information.
	LogDebug LogLevel = "debug"
)

// Payload is the payload structure for logging effect.
// It contains the log level, message string, and optional structured fields.
type Payload struct {
	Level   LogLevel
	Message string
	Fields  map[string]interface{}
}

// WithZapEffectHandler registers a fire-and-forget log effect handler using zap.Logger.
// The returned context includes the handler under the EffectLog enum.
// The teardown function syncs the logger; the context it returns is the parent context.
func WithZapEffectHandler(
	ctx context.Context,
	bufferSize int,
	logger *zap.Logger,
) (context.Context, func() context.Context) {
	return effects.WithFireAndForgetEffectHandler(
		ctx,
		bufferSize,
		effectmodel.EffectLog,
		func(ctx context.Context, payload Payload) {
			fields := make([]zap.Field, 0, len(payload.Fields))
			for k, v := range payload.Fields {
				fields = append(fields, zap.Any(k, v))
			}

			switch payload.Level {
			case LogInfo:
				logger.Info(payload.Message, fields...)
			case LogWarn:
				logger.Warn(payload.Message, fields...)
			case LogError:
				logger.Error(payload.Message, fields...)
			case LogDebug:
				logger.Debug(payload.Message, fields...)
			default:
				logger.Info(payload.Message, fields...)
			}
		},
		func() {
			// stdout/stderr sinks report EINVAL on sync; nothing to do about it
			_ = logger.Sync()
		},
	)
}

// Eff performs a fire-and-forget log effect using the EffectLog handler in the context.
// Panics if no log handler is registered.
func Eff(ctx context.Context, level LogLevel, msg string, fields map[string]interface{}) {
	_ = effects.FireAndForgetEffect(ctx, effectmodel.EffectLog, Payload{
		Level:   level,
		Message: msg,
		Fields:  fields,
	})
}
