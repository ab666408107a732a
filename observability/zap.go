package observability

import "go.uber.org/zap"

// zapLogger adapts a *zap.Logger to the Logger interface.
type zapLogger struct {
	l *zap.Logger
}

// NewZapLogger wraps a zap logger. A nil argument yields a production-config
// logger; construction failure falls back to a no-op.
func NewZapLogger(l *zap.Logger) Logger {
	if l == nil {
		var err error
		l, err = zap.NewProduction()
		if err != nil {
			return NopLogger{}
		}
	}
	return zapLogger{l: l}
}

func (z zapLogger) Debug(msg string, fields ...Field) { z.l.Debug(msg, zapFields(fields)...) }
func (z zapLogger) Info(msg string, fields ...Field)  { z.l.Info(msg, zapFields(fields)...) }
func (z zapLogger) Warn(msg string, fields ...Field)  { z.l.Warn(msg, zapFields(fields)...) }
func (z zapLogger) Error(msg string, fields ...Field) { z.l.Error(msg, zapFields(fields)...) }

func (z zapLogger) With(fields ...Field) Logger {
	return zapLogger{l: z.l.With(zapFields(fields)...)}
}

func zapFields(fields []Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		switch v := f.Value().(type) {
		case error:
			out = append(out, zap.NamedError(f.Key(), v))
		default:
			out = append(out, zap.Any(f.Key(), v))
		}
	}
	return out
}
