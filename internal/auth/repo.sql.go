package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shelfspace/shelfspace/internal/platform/httpx"
)

// ErrStaleRefreshHash reports a lost rotation race: the stored hash changed
// between the compare and the conditional write.
var ErrStaleRefreshHash = errors.New("refresh token hash superseded")

// Repository defines persistence operations for the credential store.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByIdentifier(ctx context.Context, identifier string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	Create(ctx context.Context, user *User) error
	SetRefreshTokenHash(ctx context.Context, id uuid.UUID, hash string) error
	RotateRefreshTokenHash(ctx context.Context, id uuid.UUID, oldHash, newHash string) error
	ClearRefreshTokenHash(ctx context.Context, id uuid.UUID) error
}

const userColumns = `id, email, username, password_hash, refresh_token_hash, created_at, updated_at`

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) scanUser(row pgx.Row) (*User, error) {
	var user User
	err := row.Scan(&user.ID, &user.Email, &user.Username, &user.PasswordHash, &user.RefreshTokenHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmail fetches a user by exact email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// FindByUsername fetches a user by username.
func (r *PGRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	return r.scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

// FindByIdentifier fetches a user whose email or username matches, in one query.
func (r *PGRepository) FindByIdentifier(ctx context.Context, identifier string) (*User, error) {
	return r.scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1 OR username = $1`, identifier))
}

// FindByID fetches a user by id.
func (r *PGRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// Create persists a new user record. Uniqueness violations surface as a
// conflict in case a concurrent registration won the race after the
// service-level existence checks.
func (r *PGRepository) Create(ctx context.Context, user *User) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, email, username, password_hash, refresh_token_hash) VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.Email, user.Username, user.PasswordHash, user.RefreshTokenHash)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			return httpx.ErrConflict
		}
		return err
	}
	return nil
}

// SetRefreshTokenHash overwrites the stored hash unconditionally, which
// silently invalidates any previously issued refresh token.
func (r *PGRepository) SetRefreshTokenHash(ctx context.Context, id uuid.UUID, hash string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET refresh_token_hash = $1, updated_at = now() WHERE id = $2`, hash, id)
	return err
}

// RotateRefreshTokenHash replaces the stored hash only when it still equals
// oldHash, making rotation race-free between concurrent refresh calls.
func (r *PGRepository) RotateRefreshTokenHash(ctx context.Context, id uuid.UUID, oldHash, newHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET refresh_token_hash = $1, updated_at = now() WHERE id = $2 AND refresh_token_hash = $3`,
		newHash, id, oldHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStaleRefreshHash
	}
	return nil
}

// ClearRefreshTokenHash nulls the stored hash. A no-op when already null.
func (r *PGRepository) ClearRefreshTokenHash(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET refresh_token_hash = NULL, updated_at = now() WHERE id = $1`, id)
	return err
}

var _ Repository = (*PGRepository)(nil)
