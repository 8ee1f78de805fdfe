package memory

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weqtian/user_center/internal/apperrors"
	"github.com/weqtian/user_center/internal/core/domain"
)

var baseTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func seedUser(t *testing.T, repo *UserRepository, n int, deleted bool) domain.User {
	t.Helper()
	user := domain.User{
		UserID:    fmt.Sprintf("%010d", n),
		DisplayID: fmt.Sprintf("%010d", 1_000_000+n),
		Email:     fmt.Sprintf("user%d@example.com", n),
		Nickname:  fmt.Sprintf("user%d", n),
		Gender:    domain.GenderMale,
		IsActive:  true,
		IsDeleted: deleted,
		AuditFields: domain.AuditFields{
			CreatedAt: baseTime.Add(time.Duration(n) * time.Minute),
		},
	}
	created, err := repo.CreateUser(context.Background(), user)
	require.NoError(t, err)
	return *created
}

func TestCreateUserRejectsDuplicates(t *testing.T) {
	repo := NewUserRepository()
	first := seedUser(t, repo, 1, false)
	ctx := context.Background()

	sameEmail := first
	sameEmail.UserID, sameEmail.DisplayID = "0000000099", "0000000098"
	_, err := repo.CreateUser(ctx, sameEmail)
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	assert.Equal(t, apperrors.DuplicateKeyEmail, apperrors.DuplicateKeyOf(err))

	sameUserID := first
	sameUserID.Email, sameUserID.DisplayID = "other@example.com", "0000000098"
	_, err = repo.CreateUser(ctx, sameUserID)
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	assert.Equal(t, apperrors.DuplicateKeyUserID, apperrors.DuplicateKeyOf(err))

	sameDisplayID := first
	sameDisplayID.Email, sameDisplayID.UserID = "other@example.com", "0000000099"
	_, err = repo.CreateUser(ctx, sameDisplayID)
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	assert.Equal(t, apperrors.DuplicateKeyDisplayID, apperrors.DuplicateKeyOf(err))

	count, err := repo.CountUsers(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestFindersHideDeletedUsers(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	live := seedUser(t, repo, 1, false)
	deleted := seedUser(t, repo, 2, true)

	found, err := repo.FindUserByEmail(ctx, live.Email)
	require.NoError(t, err)
	assert.Equal(t, live.UserID, found.UserID)
	assert.NotEmpty(t, found.ID)

	_, err = repo.FindUserByID(ctx, deleted.UserID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = repo.FindUserByEmail(ctx, deleted.Email)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	exists, err := repo.UserIDExists(ctx, deleted.UserID)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.DisplayIDExists(ctx, deleted.DisplayID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestFindUsersPaginates(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	for n := 1; n <= 25; n++ {
		seedUser(t, repo, n, false)
	}
	seedUser(t, repo, 26, true)

	total, err := repo.CountUsers(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 25, total)

	page, err := repo.FindUsers(ctx, 10, 10, domain.SortNewestFirst)
	require.NoError(t, err)
	require.Len(t, page, 10)
	assert.Equal(t, fmt.Sprintf("%010d", 15), page[0].UserID)
	assert.Equal(t, fmt.Sprintf("%010d", 6), page[9].UserID)

	oldest, err := repo.FindUsers(ctx, 10, 20, domain.SortOldestFirst)
	require.NoError(t, err)
	require.Len(t, oldest, 5)
	assert.Equal(t, fmt.Sprintf("%010d", 21), oldest[0].UserID)

	beyond, err := repo.FindUsers(ctx, 10, 30, domain.SortNewestFirst)
	require.NoError(t, err)
	assert.Empty(t, beyond)

	farBeyond, err := repo.FindUsers(ctx, 10, math.MaxInt-10, domain.SortNewestFirst)
	require.NoError(t, err)
	assert.Empty(t, farBeyond)

	negative, err := repo.FindUsers(ctx, 3, -5, domain.SortOldestFirst)
	require.NoError(t, err)
	require.Len(t, negative, 3)
	assert.Equal(t, fmt.Sprintf("%010d", 1), negative[0].UserID)
}

func TestUpdateSessionTokens(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	user := seedUser(t, repo, 1, false)
	access, refresh := "access-1", "refresh-1"

	err := repo.UpdateSessionTokens(ctx, domain.SessionUpdate{
		UserID:       user.UserID,
		AccessToken:  &access,
		RefreshToken: &refresh,
		ModifiedBy:   user.UserID,
		ModifiedAt:   baseTime.Add(time.Hour),
	})
	require.NoError(t, err)

	// Mutating the caller's strings must not reach the stored record.
	refresh = "mutated"
	stored, err := repo.FindUserByID(ctx, user.UserID)
	require.NoError(t, err)
	require.NotNil(t, stored.RefreshToken)
	assert.Equal(t, "refresh-1", *stored.RefreshToken)
	assert.Equal(t, baseTime.Add(time.Hour), stored.LastUpdatedAt)

	stale, next := "refresh-0", "refresh-2"
	err = repo.UpdateSessionTokens(ctx, domain.SessionUpdate{
		UserID:               user.UserID,
		RefreshToken:         &next,
		ExpectedRefreshToken: &stale,
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	current := "refresh-1"
	err = repo.UpdateSessionTokens(ctx, domain.SessionUpdate{
		UserID:               user.UserID,
		RefreshToken:         &next,
		ExpectedRefreshToken: &current,
	})
	require.NoError(t, err)

	err = repo.UpdateSessionTokens(ctx, domain.SessionUpdate{UserID: user.UserID})
	require.NoError(t, err)
	stored, err = repo.FindUserByID(ctx, user.UserID)
	require.NoError(t, err)
	assert.Nil(t, stored.AccessToken)
	assert.Nil(t, stored.RefreshToken)

	err = repo.UpdateSessionTokens(ctx, domain.SessionUpdate{UserID: "missing"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCancelledContext(t *testing.T) {
	repo := NewUserRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, repo.Ping(ctx), context.Canceled)
	_, err := repo.FindUserByID(ctx, "0000000001")
	assert.ErrorIs(t, err, context.Canceled)
}
