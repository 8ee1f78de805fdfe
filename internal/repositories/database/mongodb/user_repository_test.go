package mongodb

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weqtian/user_center/internal/apperrors"
	"github.com/weqtian/user_center/internal/core/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

func duplicateKeyException(index string) error {
	return mongo.WriteException{WriteErrors: mongo.WriteErrors{{
		Code:    11000,
		Message: fmt.Sprintf(`E11000 duplicate key error collection: user_center.user index: %s dup key: { x: "y" }`, index),
	}}}
}

func TestAsDuplicateKey(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		wantDup bool
		wantKey string
	}{
		{"email index", duplicateKeyException(indexUniqEmail), true, apperrors.DuplicateKeyEmail},
		{"user_id index", duplicateKeyException(indexUniqUserID), true, apperrors.DuplicateKeyUserID},
		{"display_id index", duplicateKeyException(indexUniqDisplayID), true, apperrors.DuplicateKeyDisplayID},
		{"wrapped", fmt.Errorf("insert: %w", duplicateKeyException(indexUniqEmail)), true, apperrors.DuplicateKeyEmail},
		{"primary key", duplicateKeyException("_id_"), true, ""},
		{"other write error", mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 121, Message: "Document failed validation"}}}, false, ""},
		{"plain error", errors.New("connection reset"), false, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dup, ok := asDuplicateKey(tc.err)
			assert.Equal(t, tc.wantDup, ok)
			if !tc.wantDup {
				assert.Nil(t, dup)
				return
			}
			require.NotNil(t, dup)
			assert.Equal(t, tc.wantKey, dup.Key)
			assert.ErrorIs(t, dup, apperrors.ErrDuplicate)
		})
	}
}

func TestUserSortUsesCreateTime(t *testing.T) {
	assert.Equal(t,
		bson.D{{Key: "create_time", Value: -1}, {Key: "user_id", Value: -1}},
		userSort(domain.SortNewestFirst))
	assert.Equal(t,
		bson.D{{Key: "create_time", Value: 1}, {Key: "user_id", Value: 1}},
		userSort(domain.SortOldestFirst))
}

func TestSessionFilter(t *testing.T) {
	update := domain.SessionUpdate{UserID: "0000000001", ModifiedAt: time.Unix(1714564800, 0)}

	assert.Equal(t,
		bson.D{{Key: "user_id", Value: "0000000001"}, {Key: "is_deleted", Value: false}},
		sessionFilter(update))

	expected := "old-refresh-fp"
	update.ExpectedRefreshToken = &expected
	assert.Equal(t,
		bson.D{
			{Key: "user_id", Value: "0000000001"},
			{Key: "is_deleted", Value: false},
			{Key: "refresh_token", Value: "old-refresh-fp"},
		},
		sessionFilter(update))
}

func TestSessionSet(t *testing.T) {
	at := time.Date(2024, 5, 1, 20, 0, 0, 0, time.FixedZone("UTC+8", 8*3600))
	access := "access-fp"
	set := sessionSet(domain.SessionUpdate{
		UserID:      "0000000001",
		AccessToken: &access,
		ModifiedBy:  "0000000001",
		ModifiedAt:  at,
	})

	require.Len(t, set, 1)
	assert.Equal(t, "$set", set[0].Key)
	fields, ok := set[0].Value.(bson.D)
	require.True(t, ok)
	values := make(map[string]any, len(fields))
	for _, f := range fields {
		values[f.Key] = f.Value
	}
	assert.Equal(t, &access, values["access_token"])
	assert.Nil(t, values["refresh_token"])
	assert.Equal(t, at.UTC(), values["last_modify_date"])
	assert.Equal(t, at.UnixMilli(), values["last_modify_time"])
	assert.Equal(t, "0000000001", values["last_modify_by"])
}
