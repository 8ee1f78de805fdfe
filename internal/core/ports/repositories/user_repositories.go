package repositories

import (
	"context"

	"github.com/weqtian/user_center/internal/core/domain"
)

// UserReader defines read operations for user data.
// Lookups that find nothing return apperrors.ErrNotFound. Soft-deleted users are never returned.
type UserReader interface {
	// FindUserByID retrieves a specific user by their user_id.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user by their normalized email.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUsers retrieves a page of users ordered by creation time.
	FindUsers(ctx context.Context, limit int, offset int, order domain.SortOrder) ([]domain.User, error)

	// CountUsers counts users that are not soft-deleted.
	CountUsers(ctx context.Context) (int64, error)
}

// UserIdentifierChecker answers uniqueness questions for generated identifiers.
// Soft-deleted users still hold their identifiers.
type UserIdentifierChecker interface {
	UserIDExists(ctx context.Context, userID string) (bool, error)
	DisplayIDExists(ctx context.Context, displayID string) (bool, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// CreateUser persists a new user and returns the stored record.
	// A unique-key violation returns apperrors.ErrDuplicate.
	CreateUser(ctx context.Context, user domain.User) (*domain.User, error)

	// UpdateSessionTokens replaces the session pointers of a user.
	// Returns apperrors.ErrNotFound when no record matches.
	UpdateSessionTokens(ctx context.Context, update domain.SessionUpdate) error
}

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// UserRepositoryFacade combines all user-related repository interfaces
// This is a facade for clients that need access to all operations
type UserRepositoryFacade interface {
	UserReader
	UserIdentifierChecker
	UserWriter
	HealthChecker
}
