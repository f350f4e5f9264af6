package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger is the structured logging interface used across the service.
type Logger interface {
	Info(ctx context.Context, message string, fields map[string]interface{})
	Error(ctx context.Context, message string, err error, fields map[string]interface{})
	Warn(ctx context.Context, message string, fields map[string]interface{})
	Debug(ctx context.Context, message string, fields map[string]interface{})
	WithFields(fields map[string]interface{}) Logger
}

type structuredLogger struct {
	logger *logrus.Logger
	fields map[string]interface{}
}

// LoggerConfig configures NewStructuredLogger.
type LoggerConfig struct {
	Level       string
	Format      string
	ServiceName string
	// Output defaults to os.Stdout.
	Output io.Writer
}

type correlationKey struct{}

// Field names that are dropped from every entry. Credentials and key
// material must never reach the log sink.
var redactedFields = map[string]struct{}{
	"password":      {},
	"password_hash": {},
	"plain":         {},
	"token":         {},
	"access_token":  {},
	"private_key":   {},
	"secret":        {},
}

const redacted = "[REDACTED]"

// NewStructuredLogger creates a logrus-backed Logger.
func NewStructuredLogger(config LoggerConfig) Logger {
	logrusLogger := logrus.New()

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrusLogger.SetLevel(level)

	if config.Format == "json" {
		logrusLogger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	} else {
		logrusLogger.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: time.RFC3339Nano,
			FullTimestamp:   true,
		})
	}

	out := config.Output
	if out == nil {
		out = os.Stdout
	}
	logrusLogger.SetOutput(out)

	return &structuredLogger{
		logger: logrusLogger,
		fields: map[string]interface{}{
			"service": config.ServiceName,
		},
	}
}

// NewNopLogger discards everything. Used by tests and tools that have no
// log sink.
func NewNopLogger() Logger {
	return NewStructuredLogger(LoggerConfig{Level: "panic", Output: io.Discard})
}

// WithCorrelationID stores the request correlation id in ctx.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID returns the correlation id stored in ctx, if any.
func CorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

func (l *structuredLogger) Info(ctx context.Context, message string, fields map[string]interface{}) {
	l.entry(ctx, nil, fields).Info(message)
}

func (l *structuredLogger) Error(ctx context.Context, message string, err error, fields map[string]interface{}) {
	l.entry(ctx, err, fields).Error(message)
}

func (l *structuredLogger) Warn(ctx context.Context, message string, fields map[string]interface{}) {
	l.entry(ctx, nil, fields).Warn(message)
}

func (l *structuredLogger) Debug(ctx context.Context, message string, fields map[string]interface{}) {
	if !l.logger.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	l.entry(ctx, nil, fields).Debug(message)
}

// WithFields returns a child logger carrying additional fields.
func (l *structuredLogger) WithFields(fields map[string]interface{}) Logger {
	newFields := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		newFields[k] = v
	}
	for k, v := range fields {
		newFields[k] = v
	}

	return &structuredLogger{
		logger: l.logger,
		fields: newFields,
	}
}

func (l *structuredLogger) entry(ctx context.Context, err error, fields map[string]interface{}) *logrus.Entry {
	out := logrus.Fields{}
	for k, v := range l.fields {
		out[k] = v
	}
	for k, v := range fields {
		if _, ok := redactedFields[strings.ToLower(k)]; ok {
			out[k] = redacted
			continue
		}
		out[k] = v
	}

	if id := CorrelationID(ctx); id != "" {
		out["correlation_id"] = id
	}
	if err != nil {
		out["error"] = err.Error()
	}

	// caller of Info/Warn/Error/Debug
	if pc, file, line, ok := runtime.Caller(2); ok {
		out["caller"] = fmt.Sprintf("%s:%d %s", file, line, runtime.FuncForPC(pc).Name())
	}

	return l.logger.WithFields(out)
}

// LogAuthEvent records an authentication outcome.
func LogAuthEvent(ctx context.Context, logger Logger, event string, userID string, success bool, fields map[string]interface{}) {
	fields = copyFields(fields)
	fields["event_type"] = "auth"
	fields["auth_event"] = event
	fields["user_id"] = userID
	fields["success"] = success

	if success {
		logger.Info(ctx, fmt.Sprintf("Auth event: %s", event), fields)
		return
	}
	logger.Warn(ctx, fmt.Sprintf("Auth event failed: %s", event), fields)
}

// LogSecurityEvent records a security-relevant event. Severity is one of
// HIGH, MEDIUM or LOW.
func LogSecurityEvent(ctx context.Context, logger Logger, event string, severity string, fields map[string]interface{}) {
	fields = copyFields(fields)
	fields["event_type"] = "security"
	fields["security_event"] = event
	fields["severity"] = severity

	message := fmt.Sprintf("Security event: %s", event)

	switch severity {
	case "HIGH":
		logger.Error(ctx, message, nil, fields)
	case "MEDIUM":
		logger.Warn(ctx, message, fields)
	default:
		logger.Info(ctx, message, fields)
	}
}

// LogPerformance records how long an operation took.
func LogPerformance(ctx context.Context, logger Logger, operation string, duration time.Duration, fields map[string]interface{}) {
	fields = copyFields(fields)
	fields["event_type"] = "performance"
	fields["operation"] = operation
	fields["duration_ms"] = duration.Milliseconds()

	logger.Info(ctx, fmt.Sprintf("Performance: %s took %s", operation, duration), fields)
}

// copyFields leaves the caller's map untouched so it can be reused.
func copyFields(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields)+4)
	for k, v := range fields {
		out[k] = v
	}
	return out
}
