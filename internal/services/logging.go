package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ServiceLogger provides structured logging for service layer operations
type ServiceLogger struct {
	logger *slog.Logger
}

func NewServiceLogger(logger *slog.Logger, component string) *ServiceLogger {
	return &ServiceLogger{
		logger: logger.With("service", "teacher-portal", "component", component),
	}
}

func (l *ServiceLogger) Logger() *slog.Logger {
	return l.logger
}

// LogOperation logs the outcome of an operation, graded by error class.
func (l *ServiceLogger) LogOperation(ctx context.Context, operation, teacherID, resourceID, resourceType string, duration time.Duration, err error) {
	level := slog.LevelInfo
	status := "success"

	if err != nil {
		level = slog.LevelError
		status = "error"

		switch {
		case IsValidation(err) || IsBusinessRule(err):
			level = slog.LevelWarn
			status = "validation_error"
		case IsUnauthorized(err) || IsForbidden(err):
			level = slog.LevelWarn
			status = "unauthorized"
		case IsConflict(err):
			level = slog.LevelWarn
			status = "conflict"
		case IsNotFound(err):
			level = slog.LevelInfo
			status = "not_found"
		}
	}

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("teacher_id", teacherID),
		slog.String("resource_id", resourceID),
		slog.String("resource_type", resourceType),
		slog.String("status", status),
		slog.Duration("duration", duration),
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))

		var verrs ValidationErrors
		if se, ok := AsSubmissionError(err); ok {
			attrs = append(attrs, slog.String("submission_operation", string(se.Operation)), slog.String("reason", se.Reason))
		} else if asValidationErrors(err, &verrs) {
			attrs = append(attrs, slog.Int("validation_errors_count", len(verrs)))
		}
	}

	l.logger.LogAttrs(ctx, level, fmt.Sprintf("%s operation %s", operation, status), attrs...)
}

// Operation starts timing an operation; call the returned func with its result.
func (l *ServiceLogger) Operation(ctx context.Context, operation, teacherID, resourceID, resourceType string) func(err error) {
	start := time.Now()
	return func(err error) {
		l.LogOperation(ctx, operation, teacherID, resourceID, resourceType, time.Since(start), err)
	}
}
