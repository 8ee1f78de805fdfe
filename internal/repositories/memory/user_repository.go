package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/weqtian/user_center/internal/apperrors"
	"github.com/weqtian/user_center/internal/core/domain"
	"github.com/weqtian/user_center/internal/core/ports/repositories"
)

// UserRepository keeps users in process memory. It enforces the same unique
// keys as the database adapters and is used for tests and local development.
type UserRepository struct {
	mu        sync.RWMutex
	byUserID  map[string]*domain.User
	byEmail   map[string]string // email -> user_id
	displayID map[string]string // display_id -> user_id
}

// NewUserRepository creates an empty in-memory user repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		byUserID:  make(map[string]*domain.User),
		byEmail:   make(map[string]string),
		displayID: make(map[string]string),
	}
}

var _ repositories.UserRepositoryFacade = (*UserRepository)(nil)

func (r *UserRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (r *UserRepository) CreateUser(ctx context.Context, user domain.User) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUserID[user.UserID]; ok {
		return nil, &apperrors.DuplicateKeyError{Key: apperrors.DuplicateKeyUserID}
	}
	if _, ok := r.byEmail[user.Email]; ok {
		return nil, &apperrors.DuplicateKeyError{Key: apperrors.DuplicateKeyEmail}
	}
	if _, ok := r.displayID[user.DisplayID]; ok {
		return nil, &apperrors.DuplicateKeyError{Key: apperrors.DuplicateKeyDisplayID}
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	stored := cloneUser(user)
	r.byUserID[user.UserID] = &stored
	r.byEmail[user.Email] = user.UserID
	r.displayID[user.DisplayID] = user.UserID

	created := cloneUser(stored)
	return &created, nil
}

func (r *UserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.liveUser(userID)
}

func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	userID, ok := r.byEmail[email]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return r.liveUser(userID)
}

func (r *UserRepository) liveUser(userID string) (*domain.User, error) {
	stored, ok := r.byUserID[userID]
	if !ok || stored.IsDeleted {
		return nil, apperrors.ErrNotFound
	}
	user := cloneUser(*stored)
	return &user, nil
}

func (r *UserRepository) UserIDExists(ctx context.Context, userID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byUserID[userID]
	return ok, nil
}

func (r *UserRepository) DisplayIDExists(ctx context.Context, displayID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.displayID[displayID]
	return ok, nil
}

func (r *UserRepository) FindUsers(ctx context.Context, limit int, offset int, order domain.SortOrder) ([]domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	live := make([]domain.User, 0, len(r.byUserID))
	for _, stored := range r.byUserID {
		if !stored.IsDeleted {
			live = append(live, cloneUser(*stored))
		}
	}
	r.mu.RUnlock()

	sort.Slice(live, func(i, j int) bool {
		a, b := live[i], live[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			if order == domain.SortOldestFirst {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.CreatedAt.After(b.CreatedAt)
		}
		if order == domain.SortOldestFirst {
			return a.UserID < b.UserID
		}
		return a.UserID > b.UserID
	})

	if offset < 0 {
		offset = 0
	}
	if offset >= len(live) || limit <= 0 {
		return []domain.User{}, nil
	}
	end := len(live)
	if limit < end-offset {
		end = offset + limit
	}
	return live[offset:end], nil
}

func (r *UserRepository) CountUsers(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total int64
	for _, stored := range r.byUserID {
		if !stored.IsDeleted {
			total++
		}
	}
	return total, nil
}

func (r *UserRepository) UpdateSessionTokens(ctx context.Context, update domain.SessionUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byUserID[update.UserID]
	if !ok || stored.IsDeleted {
		return apperrors.ErrNotFound
	}
	if update.ExpectedRefreshToken != nil &&
		(stored.RefreshToken == nil || *stored.RefreshToken != *update.ExpectedRefreshToken) {
		return apperrors.ErrNotFound
	}

	stored.AccessToken = cloneString(update.AccessToken)
	stored.RefreshToken = cloneString(update.RefreshToken)
	stored.LastUpdatedAt = update.ModifiedAt
	stored.LastUpdatedBy = update.ModifiedBy
	return nil
}

func cloneUser(u domain.User) domain.User {
	u.RoleID = cloneString(u.RoleID)
	u.CreateIP = cloneString(u.CreateIP)
	u.AccessToken = cloneString(u.AccessToken)
	u.RefreshToken = cloneString(u.RefreshToken)
	return u
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
