package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/weqtian/user_center/internal/core/ports/repositories"
)

// NewRepositoryProvider builds the postgres-backed repositories. With
// ensureSchema set the users table and its indexes are created first.
func NewRepositoryProvider(ctx context.Context, dbPool *pgxpool.Pool, operationTimeout time.Duration, ensureSchema bool) (portsrepo.RepositoryProvider, error) {
	userRepo := NewPgxUserRepository(dbPool, operationTimeout)
	if ensureSchema {
		if err := userRepo.EnsureSchema(ctx); err != nil {
			return portsrepo.RepositoryProvider{}, err
		}
	}
	return portsrepo.RepositoryProvider{UserRepo: userRepo}, nil
}
