package items

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shelfspace/shelfspace/internal/platform/httpx"
)

// Repository defines persistence operations for items.
type Repository interface {
	List(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]Item, error)
	Count(ctx context.Context, userID uuid.UUID, filter ListFilter) (int64, error)
	FindByID(ctx context.Context, id, userID uuid.UUID) (*Item, error)
	Create(ctx context.Context, item *Item) error
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

const itemColumns = `id, user_id, category_id, title, description, image_url, price, acquisition_date, created_at, updated_at`

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// buildWhere renders the filter as a WHERE clause; $1 is always the owner.
func buildWhere(userID uuid.UUID, filter ListFilter) (string, []any) {
	conds := []string{"user_id = $1"}
	args := []any{userID}
	add := func(cond string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.Search != "" {
		add("title ILIKE $%d", "%"+filter.Search+"%")
	}
	if filter.CategoryID != nil {
		add("category_id = $%d", *filter.CategoryID)
	}
	if filter.MinPrice != nil {
		add("price >= $%d", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		add("price <= $%d", *filter.MaxPrice)
	}
	if filter.StartDate != nil {
		add("acquisition_date >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		add("acquisition_date <= $%d", *filter.EndDate)
	}
	return strings.Join(conds, " AND "), args
}

// List returns one page of the user's items under the filter.
func (r *PGRepository) List(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]Item, error) {
	filter.Normalize()
	where, args := buildWhere(userID, filter)
	order := "DESC"
	if filter.Order == "asc" {
		order = "ASC"
	}
	query := fmt.Sprintf(`SELECT %s FROM items WHERE %s ORDER BY %s %s LIMIT %d OFFSET %d`,
		itemColumns, where, sortColumns[filter.SortBy], order, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.UserID, &item.CategoryID, &item.Title, &item.Description,
			&item.ImageURL, &item.Price, &item.AcquisitionDate, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

// Count returns the filtered total, ignoring paging.
func (r *PGRepository) Count(ctx context.Context, userID uuid.UUID, filter ListFilter) (int64, error) {
	where, args := buildWhere(userID, filter)
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM items WHERE `+where, args...).Scan(&total)
	return total, err
}

// FindByID fetches one item scoped to its owner.
func (r *PGRepository) FindByID(ctx context.Context, id, userID uuid.UUID) (*Item, error) {
	var item Item
	err := r.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1 AND user_id = $2`, id, userID).
		Scan(&item.ID, &item.UserID, &item.CategoryID, &item.Title, &item.Description,
			&item.ImageURL, &item.Price, &item.AcquisitionDate, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Create persists a new item.
func (r *PGRepository) Create(ctx context.Context, item *Item) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO items (id, user_id, category_id, title, description, image_url, price, acquisition_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING created_at, updated_at`,
		item.ID, item.UserID, item.CategoryID, item.Title, item.Description,
		item.ImageURL, item.Price, item.AcquisitionDate).
		Scan(&item.CreatedAt, &item.UpdatedAt)
}

// Update rewrites the mutable fields of an item owned by the caller.
func (r *PGRepository) Update(ctx context.Context, item *Item) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE items SET category_id = $1, title = $2, description = $3, image_url = $4,
		 price = $5, acquisition_date = $6, updated_at = now() WHERE id = $7 AND user_id = $8`,
		item.CategoryID, item.Title, item.Description, item.ImageURL,
		item.Price, item.AcquisitionDate, item.ID, item.UserID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// Delete removes an item owned by the caller.
func (r *PGRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM items WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
