package services

import (
	"context"
	"errors"

	"github.com/weqtian/user_center/internal/apperrors"
	"github.com/weqtian/user_center/internal/core/domain"
	portsrepo "github.com/weqtian/user_center/internal/core/ports/repositories"
	portssvc "github.com/weqtian/user_center/internal/core/ports/services"
	"github.com/weqtian/user_center/internal/platform/telemetry"
	"github.com/weqtian/user_center/internal/utils/pagination"
)

type userService struct {
	BaseService
	userRepo portsrepo.UserReader
}

// NewUserService creates a new UserService.
func NewUserService(userRepo portsrepo.UserReader) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

// GetUserByID retrieves a user by ID.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.UserNotExist()
		}
		return nil, s.SystemError(ctx, err, "Failed to get user by ID")
	}
	return user, nil
}

// ListUsers retrieves a page of users that are not soft-deleted.
func (s *userService) ListUsers(ctx context.Context, page pagination.Page) (result *domain.UserPage, err error) {
	ctx, span := telemetry.StartSpan(ctx, "user.list")
	defer func() { telemetry.EndSpan(span, err) }()

	total, err := s.userRepo.CountUsers(ctx)
	if err != nil {
		return nil, s.SystemError(ctx, err, "Failed to count users")
	}

	users, err := s.userRepo.FindUsers(ctx, page.Limit(), page.Offset(), page.Order)
	if err != nil {
		return nil, s.SystemError(ctx, err, "Failed to list users")
	}
	if users == nil {
		users = []domain.User{}
	}

	return &domain.UserPage{
		Users:    users,
		Total:    total,
		Page:     page.Number,
		PageSize: page.Size,
	}, nil
}
