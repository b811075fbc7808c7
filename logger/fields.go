package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Components
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldSymbol    = "symbol"

	// Graph
	FieldNodeID   = "node_id"
	FieldNewID    = "new_id"
	FieldEdgeFrom = "edge_from"
	FieldEdgeTo   = "edge_to"
	FieldKey      = "key"
	FieldRole     = "role"
	FieldPolicy   = "policy"

	// Editor state
	FieldSelection = "selection"
	FieldMode      = "mode"
	FieldUndoDepth = "undo_depth"
	FieldRedoDepth = "redo_depth"

	// Documents and storage
	FieldTree   = "tree"
	FieldFormat = "format"
	FieldPath   = "path"

	// Counts
	FieldCount       = "count"
	FieldDeactivated = "deactivated"

	// Errors
	FieldError = "error"
)

// Context keys for propagating logging context
type contextKey string

const (
	sessionIDKey contextKey = "logger_session_id"
	treeKey      contextKey = "logger_tree"
	componentKey contextKey = "logger_component"
)

// WithSessionID adds an editor session id to the context for logging
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// WithTree adds the tree document name to the context for logging
func WithTree(ctx context.Context, tree string) context.Context {
	return context.WithValue(ctx, treeKey, tree)
}

// WithComponent adds a component name to the context for logging
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// FieldsFromContext extracts logging fields from context.
// Returns key-value pairs suitable for use with Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}

	if id, ok := ctx.Value(sessionIDKey).(string); ok && id != "" {
		fields = append(fields, "session_id", id)
	}
	if tree, ok := ctx.Value(treeKey).(string); ok && tree != "" {
		fields = append(fields, FieldTree, tree)
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
//	type Engine struct {
//	    logger *zap.SugaredLogger
//	}
//
//	func NewEngine() *Engine {
//	    return &Engine{logger: logger.ComponentLogger("activation")}
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
