package logging

import (
	"context"
	"log/slog"

	"wcpack/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for subsystem names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for compiler run identifiers.
	FieldRunID = "run_id"
	// FieldWebComponent is the standardized structured logging key for registered web component names.
	FieldWebComponent = "web_component"
	// FieldStream names the child process stream a relayed line came from.
	FieldStream = "stream"
	// FieldEventType classifies notable log lines for filtering.
	FieldEventType = "event_type"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if name, ok := services.ComponentNameFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldWebComponent, name))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
