package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/weqtian/user_center/internal/apperrors"
	"github.com/weqtian/user_center/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct{}

// GetLogger gets the request logger from context
func (s *BaseService) GetLogger(ctx context.Context) *zerolog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string) {
	s.GetLogger(ctx).Error().Err(err).Msg(msg)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string) {
	s.GetLogger(ctx).Info().Msg(msg)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string) {
	s.GetLogger(ctx).Debug().Msg(msg)
}

// SystemError logs err and wraps it so that callers only see a generic failure.
func (s *BaseService) SystemError(ctx context.Context, err error, msg string) error {
	s.LogError(ctx, err, msg)
	return apperrors.System(err)
}
