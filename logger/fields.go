package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across fabric.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Components
	FieldComponent = "component"
	FieldPlugin    = "plugin"
	FieldParser    = "parser"

	// Lifecycle
	FieldEvent     = "event"
	FieldOperation = "operation"
	FieldMode      = "mode"

	// Files
	FieldPath     = "path"
	FieldFile     = "file"
	FieldExtname  = "extname"
	FieldBaseName = "base_name"
	FieldRoot     = "root"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldCount      = "count"
	FieldSize       = "size"
	FieldTotalCount = "total_count"
	FieldProcessed  = "processed"
	FieldPercentage = "percentage"

	// Status
	FieldDryRun = "dry_run"
)

// Context keys for propagating logging context
type contextKey string

const (
	componentKey contextKey = "logger_component"
	runIDKey     contextKey = "logger_run_id"
)

// FieldRunID identifies one generate/write run
const FieldRunID = "run_id"

// WithComponent adds a component name to the context for logging
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// WithRunID adds a run ID to the context for logging
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// FieldsFromContext extracts logging fields from context.
// Returns key-value pairs suitable for use with Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}

	if runID, ok := ctx.Value(runIDKey).(string); ok && runID != "" {
		fields = append(fields, FieldRunID, runID)
	}
	if component, ok := ctx.Value(componentKey).(string); ok && component != "" {
		fields = append(fields, FieldComponent, component)
	}

	return fields
}

// LoggerFromContext returns a logger with fields extracted from context.
func LoggerFromContext(ctx context.Context) *zap.SugaredLogger {
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return Logger
	}
	return Logger.With(fields...)
}

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	type Manager struct {
//	    log *zap.SugaredLogger
//	}
//
//	func New() *Manager {
//	    return &Manager{log: logger.ComponentLogger("filemanager")}
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
