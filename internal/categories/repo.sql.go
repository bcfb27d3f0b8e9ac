package categories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shelfspace/shelfspace/internal/platform/httpx"
)

// Repository defines persistence operations for categories.
type Repository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Category, error)
	FindByID(ctx context.Context, id, userID uuid.UUID) (*Category, error)
	Create(ctx context.Context, category *Category) error
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// ListByUser returns the user's categories sorted by name.
func (r *PGRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Category, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, name, color, created_at, updated_at FROM categories WHERE user_id = $1 ORDER BY name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// FindByID fetches one category scoped to its owner.
func (r *PGRepository) FindByID(ctx context.Context, id, userID uuid.UUID) (*Category, error) {
	var c Category
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, name, color, created_at, updated_at FROM categories WHERE id = $1 AND user_id = $2`, id, userID).
		Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create persists a category; duplicate (user, name) pairs conflict.
func (r *PGRepository) Create(ctx context.Context, category *Category) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO categories (id, user_id, name, color) VALUES ($1, $2, $3, $4) RETURNING created_at, updated_at`,
		category.ID, category.UserID, category.Name, category.Color).
		Scan(&category.CreatedAt, &category.UpdatedAt)
	return mapUnique(err)
}

// Update renames or recolors a category owned by the caller.
func (r *PGRepository) Update(ctx context.Context, category *Category) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE categories SET name = $1, color = $2, updated_at = now() WHERE id = $3 AND user_id = $4`,
		category.Name, category.Color, category.ID, category.UserID)
	if err != nil {
		return mapUnique(err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// Delete removes a category owned by the caller.
func (r *PGRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func mapUnique(err error) error {
	if err == nil {
		return nil
	}
	if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
		return httpx.ErrConflict
	}
	return err
}

var _ Repository = (*PGRepository)(nil)
