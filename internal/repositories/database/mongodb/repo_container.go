package mongodb

import (
	"context"
	"time"

	portsrepo "github.com/weqtian/user_center/internal/core/ports/repositories"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// NewRepositoryProvider builds the mongodb-backed repositories. With
// ensureIndexes set the user collection indexes are created first.
func NewRepositoryProvider(ctx context.Context, client *mongo.Client, database string, operationTimeout time.Duration, ensureIndexes bool) (portsrepo.RepositoryProvider, error) {
	userRepo := NewUserRepository(client, database, operationTimeout)
	if ensureIndexes {
		if err := userRepo.EnsureIndexes(ctx); err != nil {
			return portsrepo.RepositoryProvider{}, err
		}
	}
	return portsrepo.RepositoryProvider{UserRepo: userRepo}, nil
}
