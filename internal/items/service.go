package items

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// CategoryVerifier confirms a category exists and belongs to the user
// before an item may reference it.
type CategoryVerifier interface {
	Verify(ctx context.Context, id, userID uuid.UUID) error
}

// CreateInput carries the writable fields of an item.
type CreateInput struct {
	CategoryID      *uuid.UUID
	Title           string
	Description     *string
	ImageURL        *string
	Price           float64
	AcquisitionDate *time.Time
}

// Service handles item business logic, all of it owner-scoped.
type Service struct {
	repo  Repository
	cats  CategoryVerifier
	cache *Cache
}

// NewService builds a Service instance.
func NewService(repo Repository, cats CategoryVerifier, cache *Cache) *Service {
	return &Service{repo: repo, cats: cats, cache: cache}
}

// List returns one filtered, sorted page plus the filtered total. The page
// body and the count are fetched concurrently; results are cached until the
// next mutation bumps the cache version.
func (s *Service) List(ctx context.Context, userID uuid.UUID, filter ListFilter) (*Page, error) {
	filter.Normalize()
	return s.cache.FetchPage(ctx, cacheKeyParts(userID, filter), func(ctx context.Context) (*Page, error) {
		var (
			list  []Item
			total int64
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			list, err = s.repo.List(gctx, userID, filter)
			return err
		})
		g.Go(func() error {
			var err error
			total, err = s.repo.Count(gctx, userID, filter)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		if list == nil {
			list = []Item{}
		}
		return &Page{Items: list, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
	})
}

// Get returns one item or NotFound.
func (s *Service) Get(ctx context.Context, id, userID uuid.UUID) (*Item, error) {
	return s.repo.FindByID(ctx, id, userID)
}

// Create adds an item after verifying any referenced category.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*Item, error) {
	if input.CategoryID != nil {
		if err := s.cats.Verify(ctx, *input.CategoryID, userID); err != nil {
			return nil, err
		}
	}
	item := &Item{
		ID:              uuid.New(),
		UserID:          userID,
		CategoryID:      input.CategoryID,
		Title:           input.Title,
		Description:     input.Description,
		ImageURL:        input.ImageURL,
		Price:           input.Price,
		AcquisitionDate: input.AcquisitionDate,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	_ = s.cache.Bump(ctx)
	return item, nil
}

// Update rewrites an item's writable fields.
func (s *Service) Update(ctx context.Context, id, userID uuid.UUID, input CreateInput) (*Item, error) {
	if input.CategoryID != nil {
		if err := s.cats.Verify(ctx, *input.CategoryID, userID); err != nil {
			return nil, err
		}
	}
	item := &Item{
		ID:              id,
		UserID:          userID,
		CategoryID:      input.CategoryID,
		Title:           input.Title,
		Description:     input.Description,
		ImageURL:        input.ImageURL,
		Price:           input.Price,
		AcquisitionDate: input.AcquisitionDate,
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	_ = s.cache.Bump(ctx)
	return s.repo.FindByID(ctx, id, userID)
}

// Delete removes an item.
func (s *Service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}
	_ = s.cache.Bump(ctx)
	return nil
}

func cacheKeyParts(userID uuid.UUID, filter ListFilter) []string {
	return []string{
		"items", "list", userID.String(),
		fmt.Sprintf("%d:%d:%s:%s", filter.Page, filter.Limit, filter.SortBy, filter.Order),
		filter.Search,
		ptrToken(filter.CategoryID),
		ptrToken(filter.MinPrice), ptrToken(filter.MaxPrice),
		ptrToken(filter.StartDate), ptrToken(filter.EndDate),
	}
}

func ptrToken[T any](v *T) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}
