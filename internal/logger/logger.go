package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

var log *slog.Logger

// Init sets up the global logger.
// env "development" gives a text handler at debug level, anything else JSON at info.
func Init(env string) {
	InitWithWriter(env, os.Stdout)
}

func InitWithWriter(env string, w io.Writer) {
	opts := &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true,
	}

	var handler slog.Handler
	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	log = slog.New(handler).With("service", "jobboard")
	slog.SetDefault(log)
}

func GetLogger() *slog.Logger {
	if log == nil {
		Init("development")
	}
	return log
}

// ============================================
// Shorthands
// ============================================

func Info(msg string, args ...any) {
	GetLogger().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	GetLogger().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	GetLogger().Error(msg, args...)
}

// Fatal logs and exits with status 1.
func Fatal(msg string, args ...any) {
	GetLogger().Error(msg, args...)
	os.Exit(1)
}

// ============================================
// Domain loggers
// ============================================

// HTTPLog records one served request. route is the matched template.
func HTTPLog(ctx context.Context, method, route, path string, status int, duration time.Duration, size int) {
	level := slog.LevelInfo
	switch {
	case status >= 500:
		level = slog.LevelError
	case status >= 400:
		level = slog.LevelWarn
	}
	FromContext(ctx).Log(ctx, level, "http request",
		"method", method,
		"route", route,
		"path", path,
		"status", status,
		"duration_ms", duration.Milliseconds(),
		"size_bytes", size,
	)
}

// LedgerLog records a credit balance mutation attempt.
func LedgerLog(companyID, creditType, op string, amount int, err error) {
	fields := []any{
		"company_id", companyID,
		"credit_type", creditType,
		"op", op,
		"amount", amount,
	}
	if err != nil {
		fields = append(fields, "error", err.Error())
		GetLogger().Error("ledger operation failed", fields...)
		return
	}
	GetLogger().Info("ledger operation", fields...)
}

// BillingLog records the outcome of a payment provider event.
func BillingLog(eventID, eventType, outcome string, err error) {
	fields := []any{
		"event_id", eventID,
		"event_type", eventType,
		"outcome", outcome,
	}
	if err != nil {
		fields = append(fields, "error", err.Error())
		GetLogger().Error("billing event failed", fields...)
		return
	}
	GetLogger().Info("billing event", fields...)
}
