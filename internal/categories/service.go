package categories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/shelfspace/shelfspace/internal/platform/httpx"
)

// Service handles category business logic. All operations are scoped to the
// authenticated owner.
type Service struct {
	repo Repository
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the user's categories, name-sorted.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]Category, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Get returns one category or NotFound.
func (s *Service) Get(ctx context.Context, id, userID uuid.UUID) (*Category, error) {
	return s.repo.FindByID(ctx, id, userID)
}

// Create adds a category for the user.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, name string, color *string) (*Category, error) {
	category := &Category{
		ID:     uuid.New(),
		UserID: userID,
		Name:   name,
		Color:  color,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		if errors.Is(err, httpx.ErrConflict) {
			return nil, fmt.Errorf("%w: category name already exists", httpx.ErrConflict)
		}
		return nil, err
	}
	return category, nil
}

// Update renames or recolors an existing category.
func (s *Service) Update(ctx context.Context, id, userID uuid.UUID, name string, color *string) (*Category, error) {
	category := &Category{ID: id, UserID: userID, Name: name, Color: color}
	if err := s.repo.Update(ctx, category); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id, userID)
}

// Delete removes a category. Items keep their reference cleared by the
// database foreign key; callers see their items as uncategorized afterwards.
func (s *Service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.Delete(ctx, id, userID)
}
