package log_service

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogService adapts a zap logger to the LogService interface.
type ZapLogService struct {
	logger *zap.Logger
	source string
}

// NewZapLogService builds a production-encoded zap logger writing to
// stderr, tagged with the given source (component name).
func NewZapLogService(source string, level string) *ZapLogService {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	logger, err := cfg.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	return &ZapLogService{logger: logger, source: source}
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (ls *ZapLogService) fields(event LogEvent) []zap.Field {
	fields := make([]zap.Field, 0, len(event.Metadata)+1)
	source := event.Source
	if source == "" {
		source = ls.source
	}
	fields = append(fields, zap.String("source", source))
	for k, v := range event.Metadata {
		fields = append(fields, zap.Any(k, v))
	}
	return fields
}

func (ls *ZapLogService) Debug(event LogEvent) {
	ls.logger.Debug(event.Message, ls.fields(event)...)
}

func (ls *ZapLogService) Info(event LogEvent) {
	ls.logger.Info(event.Message, ls.fields(event)...)
}

func (ls *ZapLogService) Warn(event LogEvent) {
	ls.logger.Warn(event.Message, ls.fields(event)...)
}

func (ls *ZapLogService) Error(event LogEvent) {
	ls.logger.Error(event.Message, ls.fields(event)...)
}
