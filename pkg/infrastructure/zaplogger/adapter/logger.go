package adapter

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mateusmacedo/go-airline/pkg/application"
)

type ZapAppLogger struct {
	zapLogger *zap.Logger
}

// NewZapAppLogger cria o logger de produção escrevendo em stdout.
func NewZapAppLogger() (*ZapAppLogger, error) {
	return NewZapAppLoggerWithOptions("info", []string{"stdout"})
}

// NewZapAppLoggerWithOptions cria o logger com nível e destinos configuráveis.
func NewZapAppLoggerWithOptions(level string, outputPaths []string) (*ZapAppLogger, error) {
	atomicLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	config := zap.NewProductionConfig()
	config.Level = atomicLevel
	config.InitialFields = map[string]interface{}{"app": "airline"}
	config.OutputPaths = outputPaths
	config.ErrorOutputPaths = []string{"stderr"}
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	zapLogger, err := config.Build()
	if err != nil {
		return nil, err
	}

	return NewZapAppLoggerFromLogger(zapLogger), nil
}

func NewZapAppLoggerFromLogger(zapLogger *zap.Logger) *ZapAppLogger {
	return &ZapAppLogger{zapLogger: zapLogger.WithOptions(zap.AddCallerSkip(1))}
}

var _ application.AppLogger = (*ZapAppLogger)(nil)

func (l *ZapAppLogger) Info(ctx context.Context, msg string, fields map[string]interface{}) {
	l.zapLogger.Info(msg, convertFields(ctx, fields)...)
}

func (l *ZapAppLogger) Debug(ctx context.Context, msg string, fields map[string]interface{}) {
	l.zapLogger.Debug(msg, convertFields(ctx, fields)...)
}

func (l *ZapAppLogger) Error(ctx context.Context, msg string, fields map[string]interface{}) {
	l.zapLogger.Error(msg, convertFields(ctx, fields)...)
}

// Trace não existe no zap; é registrado como debug.
func (l *ZapAppLogger) Trace(ctx context.Context, msg string, fields map[string]interface{}) {
	l.zapLogger.Debug(msg, convertFields(ctx, fields)...)
}

func (l *ZapAppLogger) Sync() error {
	return l.zapLogger.Sync()
}

func convertFields(ctx context.Context, fields map[string]interface{}) []zap.Field {
	zapFields := make([]zap.Field, 0, len(fields)+1)

	if requestID, ok := application.RequestIDFromContext(ctx); ok {
		zapFields = append(zapFields, zap.String("requestID", requestID))
	}

	for k, v := range fields {
		zapFields = append(zapFields, zap.Any(k, v))
	}
	return zapFields
}
