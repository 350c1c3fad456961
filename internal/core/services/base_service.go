package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/bank_ledger_api/internal/apperrors"
	"github.com/SscSPs/bank_ledger_api/internal/core/duplicates"
	"github.com/SscSPs/bank_ledger_api/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Clock duplicates.Clock
}

// ServiceOption is a functional option shared by every service constructor
type ServiceOption func(*BaseService)

// WithClock sets the time source used for audit timestamps
func WithClock(c duplicates.Clock) ServiceOption {
	return func(s *BaseService) {
		s.Clock = c
	}
}

func (s *BaseService) apply(options []ServiceOption) {
	for _, option := range options {
		option(s)
	}
}

// Now returns the current time from the configured clock
func (s *BaseService) Now() time.Time {
	if s.Clock == nil {
		return duplicates.SystemClock.Now()
	}
	return s.Clock.Now()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// requireName rejects blank names the same way a missing parameter is rejected.
func requireName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.Validation("param is missing or the value is empty: name")
	}
	return name, nil
}
