package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/weqtian/user_center/internal/apperrors"
	"github.com/weqtian/user_center/internal/core/domain"
	portsrepo "github.com/weqtian/user_center/internal/core/ports/repositories"
	"github.com/weqtian/user_center/internal/models"
	"github.com/weqtian/user_center/internal/utils/mapping"
)

type PgxUserRepository struct {
	BaseRepository
}

// NewPgxUserRepository creates a user repository backed by the users table.
func NewPgxUserRepository(db *pgxpool.Pool, operationTimeout time.Duration) *PgxUserRepository {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: db, OperationTimeout: operationTimeout}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const userColumns = `id, user_id, display_id, email, nickname, head_file_url, gender, birthday, password,
	create_ip, role_id, access_token, refresh_token, is_active, is_deleted,
	create_date, create_time, create_by, last_modify_date, last_modify_time, last_modify_by`

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id               TEXT PRIMARY KEY,
		user_id          TEXT NOT NULL CONSTRAINT uniq_users_user_id UNIQUE,
		display_id       TEXT NOT NULL CONSTRAINT uniq_users_display_id UNIQUE,
		email            TEXT NOT NULL CONSTRAINT uniq_users_email UNIQUE,
		nickname         TEXT NOT NULL,
		head_file_url    TEXT NOT NULL,
		gender           SMALLINT NOT NULL,
		birthday         TEXT NOT NULL,
		password         TEXT NOT NULL,
		create_ip        TEXT,
		role_id          TEXT,
		access_token     TEXT,
		refresh_token    TEXT,
		is_active        BOOLEAN NOT NULL DEFAULT TRUE,
		is_deleted       BOOLEAN NOT NULL DEFAULT FALSE,
		create_date      TIMESTAMPTZ NOT NULL,
		create_time      BIGINT NOT NULL,
		create_by        TEXT NOT NULL,
		last_modify_date TIMESTAMPTZ NOT NULL,
		last_modify_time BIGINT NOT NULL,
		last_modify_by   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_email_user_id ON users (email, user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_users_create_date ON users (create_date DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_users_is_active ON users (is_active)`,
	`CREATE INDEX IF NOT EXISTS idx_users_is_deleted ON users (is_deleted)`,
}

// EnsureSchema creates the users table and its indexes when they are missing.
func (r *PgxUserRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := r.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure users schema: %w", err)
		}
	}
	return nil
}

func (r *PgxUserRepository) CreateUser(ctx context.Context, user domain.User) (*domain.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	m := mapping.ToModelUser(user)
	query := `INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err := r.Pool.Exec(ctx, query,
		m.ID, m.UserID, m.DisplayID, m.Email, m.Nickname, m.HeadFileURL, m.Gender, m.Birthday, m.Password,
		m.CreateIP, m.RoleID, m.AccessToken, m.RefreshToken, m.IsActive, m.IsDeleted,
		m.CreateDate, m.CreateTime, m.CreateBy, m.LastModifyDate, m.LastModifyTime, m.LastModifyBy,
	)
	if err != nil {
		if dup, ok := asDuplicateKey(err); ok {
			return nil, dup
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	created := mapping.ToDomainUser(m)
	return &created, nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = $1 AND is_deleted = FALSE`, userID)
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1 AND is_deleted = FALSE`, email)
}

func (r *PgxUserRepository) findOne(ctx context.Context, query string, arg string) (*domain.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.Pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	user := mapping.ToDomainUser(m)
	return &user, nil
}

func (r *PgxUserRepository) UserIDExists(ctx context.Context, userID string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE user_id = $1)`, userID)
}

func (r *PgxUserRepository) DisplayIDExists(ctx context.Context, displayID string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE display_id = $1)`, displayID)
}

func (r *PgxUserRepository) exists(ctx context.Context, query string, arg string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var found bool
	if err := r.Pool.QueryRow(ctx, query, arg).Scan(&found); err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return found, nil
}

func (r *PgxUserRepository) FindUsers(ctx context.Context, limit int, offset int, order domain.SortOrder) ([]domain.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.Pool.Query(ctx, listUsersQuery(order), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		return nil, fmt.Errorf("failed to scan users: %w", err)
	}
	return mapping.ToDomainUserSlice(ms), nil
}

func (r *PgxUserRepository) CountUsers(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int64
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE is_deleted = FALSE`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return total, nil
}

func (r *PgxUserRepository) UpdateSessionTokens(ctx context.Context, update domain.SessionUpdate) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query, args := sessionUpdateQuery(update)
	tag, err := r.Pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update session of user %s: %w", update.UserID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// listUsersQuery orders by registration time with user_id as tiebreaker so
// pages stay stable when users share a create_time.
func listUsersQuery(order domain.SortOrder) string {
	direction := "DESC"
	if order == domain.SortOldestFirst {
		direction = "ASC"
	}
	return `SELECT ` + userColumns + ` FROM users WHERE is_deleted = FALSE
		ORDER BY create_time ` + direction + `, user_id ` + direction + `
		LIMIT $1 OFFSET $2`
}

// sessionUpdateQuery builds the token update. With ExpectedRefreshToken set
// the row only matches while it still holds that refresh token.
func sessionUpdateQuery(update domain.SessionUpdate) (string, []any) {
	query := `UPDATE users SET access_token = $1, refresh_token = $2,
			last_modify_date = $3, last_modify_time = $4, last_modify_by = $5
		WHERE user_id = $6 AND is_deleted = FALSE`
	args := []any{
		update.AccessToken, update.RefreshToken,
		update.ModifiedAt.UTC(), update.ModifiedAt.UnixMilli(), update.ModifiedBy,
		update.UserID,
	}
	if update.ExpectedRefreshToken != nil {
		query += ` AND refresh_token = $7`
		args = append(args, *update.ExpectedRefreshToken)
	}
	return query, args
}
