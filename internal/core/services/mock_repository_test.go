package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/weqtian/user_center/internal/core/domain"
)

// --- Mock UserRepository (based on auth and user service usage) ---
type MockUserRepository struct {
	mock.Mock
	CreateUserFn          func(ctx context.Context, user domain.User) (*domain.User, error)
	UserIDExistsFn        func(ctx context.Context, userID string) (bool, error)
	DisplayIDExistsFn     func(ctx context.Context, displayID string) (bool, error)
	UpdateSessionTokensFn func(ctx context.Context, update domain.SessionUpdate) error
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUsers(ctx context.Context, limit, offset int, order domain.SortOrder) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset, order)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) CountUsers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) UserIDExists(ctx context.Context, userID string) (bool, error) {
	if m.UserIDExistsFn != nil {
		return m.UserIDExistsFn(ctx, userID)
	}
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) DisplayIDExists(ctx context.Context, displayID string) (bool, error) {
	if m.DisplayIDExistsFn != nil {
		return m.DisplayIDExistsFn(ctx, displayID)
	}
	args := m.Called(ctx, displayID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user domain.User) (*domain.User, error) {
	if m.CreateUserFn != nil {
		return m.CreateUserFn(ctx, user)
	}
	args := m.Called(ctx, user)
	var created *domain.User
	if args.Get(0) != nil {
		created = args.Get(0).(*domain.User)
	}
	return created, args.Error(1)
}

func (m *MockUserRepository) UpdateSessionTokens(ctx context.Context, update domain.SessionUpdate) error {
	if m.UpdateSessionTokensFn != nil {
		return m.UpdateSessionTokensFn(ctx, update)
	}
	args := m.Called(ctx, update)
	return args.Error(0)
}

func (m *MockUserRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
