package services

import (
	"context"

	"github.com/weqtian/user_center/internal/core/domain"
	"github.com/weqtian/user_center/internal/utils/pagination"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// ListUsers retrieves a page of users that are not soft-deleted.
	ListUsers(ctx context.Context, page pagination.Page) (*domain.UserPage, error)
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
}
