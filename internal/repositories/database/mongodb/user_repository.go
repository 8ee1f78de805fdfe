package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/weqtian/user_center/internal/apperrors"
	"github.com/weqtian/user_center/internal/core/domain"
	portsrepo "github.com/weqtian/user_center/internal/core/ports/repositories"
	"github.com/weqtian/user_center/internal/models"
	"github.com/weqtian/user_center/internal/utils/mapping"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// UserRepository stores users in the "user" collection.
type UserRepository struct {
	client           *mongo.Client
	coll             *mongo.Collection
	operationTimeout time.Duration
}

// NewUserRepository binds a repository to the user collection of db.
func NewUserRepository(client *mongo.Client, database string, operationTimeout time.Duration) *UserRepository {
	return &UserRepository{
		client:           client,
		coll:             client.Database(database).Collection(models.UserCollection),
		operationTimeout: operationTimeout,
	}
}

var _ portsrepo.UserRepositoryFacade = (*UserRepository)(nil)

const (
	indexUniqEmail     = "uniq_email"
	indexUniqUserID    = "uniq_user_id"
	indexUniqDisplayID = "uniq_display_id"
)

var uniqueIndexKeys = []struct {
	index string
	key   string
}{
	{indexUniqEmail, apperrors.DuplicateKeyEmail},
	{indexUniqUserID, apperrors.DuplicateKeyUserID},
	{indexUniqDisplayID, apperrors.DuplicateKeyDisplayID},
}

func (r *UserRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.operationTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.operationTimeout)
}

// EnsureIndexes creates the unique and query indexes of the user collection.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetName(indexUniqEmail).SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetName(indexUniqUserID).SetUnique(true)},
		{Keys: bson.D{{Key: "display_id", Value: 1}}, Options: options.Index().SetName(indexUniqDisplayID).SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}, {Key: "user_id", Value: 1}}, Options: options.Index().SetName("idx_email_user_id")},
		{Keys: bson.D{{Key: "create_date", Value: -1}}, Options: options.Index().SetName("idx_create_date")},
		{Keys: bson.D{{Key: "is_active", Value: 1}}, Options: options.Index().SetName("idx_is_active")},
		{Keys: bson.D{{Key: "is_deleted", Value: 1}}, Options: options.Index().SetName("idx_is_deleted")},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	return nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.client.Ping(ctx, readpref.Primary())
}

func (r *UserRepository) CreateUser(ctx context.Context, user domain.User) (*domain.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if user.ID == "" {
		user.ID = bson.NewObjectID().Hex()
	}
	doc := mapping.ToModelUser(user)
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if dup, ok := asDuplicateKey(err); ok {
			return nil, dup
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	created := mapping.ToDomainUser(doc)
	return &created, nil
}

func (r *UserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findOne(ctx, bson.D{{Key: "user_id", Value: userID}, {Key: "is_deleted", Value: false}})
}

func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}, {Key: "is_deleted", Value: false}})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.D) (*domain.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var doc models.User
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	user := mapping.ToDomainUser(doc)
	return &user, nil
}

func (r *UserRepository) UserIDExists(ctx context.Context, userID string) (bool, error) {
	return r.exists(ctx, bson.D{{Key: "user_id", Value: userID}})
}

func (r *UserRepository) DisplayIDExists(ctx context.Context, displayID string) (bool, error) {
	return r.exists(ctx, bson.D{{Key: "display_id", Value: displayID}})
}

func (r *UserRepository) exists(ctx context.Context, filter bson.D) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return n > 0, nil
}

func (r *UserRepository) FindUsers(ctx context.Context, limit int, offset int, order domain.SortOrder) ([]domain.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.Find().
		SetSort(userSort(order)).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.D{{Key: "is_deleted", Value: false}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	var docs []models.User
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return mapping.ToDomainUserSlice(docs), nil
}

func (r *UserRepository) CountUsers(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	total, err := r.coll.CountDocuments(ctx, bson.D{{Key: "is_deleted", Value: false}})
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return total, nil
}

func (r *UserRepository) UpdateSessionTokens(ctx context.Context, update domain.SessionUpdate) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx, sessionFilter(update), sessionSet(update))
	if err != nil {
		return fmt.Errorf("failed to update session of user %s: %w", update.UserID, err)
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// asDuplicateKey reports whether err is a duplicate key error and which
// unique index raised it, read from the server message.
func asDuplicateKey(err error) (*apperrors.DuplicateKeyError, bool) {
	if !mongo.IsDuplicateKeyError(err) {
		return nil, false
	}
	msg := err.Error()
	for _, u := range uniqueIndexKeys {
		if strings.Contains(msg, "index: "+u.index+" ") {
			return &apperrors.DuplicateKeyError{Key: u.key}, true
		}
	}
	return &apperrors.DuplicateKeyError{}, true
}

// userSort orders by registration time, user_id breaking ties.
func userSort(order domain.SortOrder) bson.D {
	direction := -1
	if order == domain.SortOldestFirst {
		direction = 1
	}
	return bson.D{{Key: "create_time", Value: direction}, {Key: "user_id", Value: direction}}
}

// sessionFilter matches the live user and, for a rotation, only while the
// stored refresh token is still the expected one.
func sessionFilter(update domain.SessionUpdate) bson.D {
	filter := bson.D{{Key: "user_id", Value: update.UserID}, {Key: "is_deleted", Value: false}}
	if update.ExpectedRefreshToken != nil {
		filter = append(filter, bson.E{Key: "refresh_token", Value: *update.ExpectedRefreshToken})
	}
	return filter
}

func sessionSet(update domain.SessionUpdate) bson.D {
	return bson.D{{Key: "$set", Value: bson.D{
		{Key: "access_token", Value: update.AccessToken},
		{Key: "refresh_token", Value: update.RefreshToken},
		{Key: "last_modify_date", Value: update.ModifiedAt.UTC()},
		{Key: "last_modify_time", Value: update.ModifiedAt.UnixMilli()},
		{Key: "last_modify_by", Value: update.ModifiedBy},
	}}}
}
