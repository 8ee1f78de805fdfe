package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/weqtian/user_center/internal/apperrors"
)

// uniqueViolation is the SQLSTATE for a unique constraint violation.
const uniqueViolation = "23505"

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
	// OperationTimeout bounds every statement when positive.
	OperationTimeout time.Duration
}

// withTimeout derives the context a single statement runs under.
func (r *BaseRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.OperationTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.OperationTimeout)
}

// Ping checks that the pool can reach the database.
func (r *BaseRepository) Ping(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.Pool.Ping(ctx)
}

// uniqueConstraintKeys maps constraint names to the key they guard. The
// users_*_key names are what Postgres generated for tables created before
// the constraints were named explicitly.
var uniqueConstraintKeys = map[string]string{
	"uniq_users_email":      apperrors.DuplicateKeyEmail,
	"uniq_users_user_id":    apperrors.DuplicateKeyUserID,
	"uniq_users_display_id": apperrors.DuplicateKeyDisplayID,
	"users_email_key":       apperrors.DuplicateKeyEmail,
	"users_user_id_key":     apperrors.DuplicateKeyUserID,
	"users_display_id_key":  apperrors.DuplicateKeyDisplayID,
}

// asDuplicateKey reports whether err is a unique violation and, if so, which
// key it hit. Unknown constraints yield an empty Key.
func asDuplicateKey(err error) (*apperrors.DuplicateKeyError, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return nil, false
	}
	return &apperrors.DuplicateKeyError{Key: uniqueConstraintKeys[pgErr.ConstraintName]}, true
}
