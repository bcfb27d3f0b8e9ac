package items

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfspace/shelfspace/internal/platform/httpx"
)

type mockRepo struct {
	byID map[uuid.UUID]*Item

	listCalls  int
	countCalls int
}

func newMockRepo() *mockRepo {
	return &mockRepo{byID: make(map[uuid.UUID]*Item)}
}

func (m *mockRepo) List(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]Item, error) {
	m.listCalls++
	var list []Item
	for _, item := range m.byID {
		if item.UserID == userID {
			list = append(list, *item)
		}
	}
	return list, nil
}

func (m *mockRepo) Count(ctx context.Context, userID uuid.UUID, filter ListFilter) (int64, error) {
	m.countCalls++
	var total int64
	for _, item := range m.byID {
		if item.UserID == userID {
			total++
		}
	}
	return total, nil
}

func (m *mockRepo) FindByID(ctx context.Context, id, userID uuid.UUID) (*Item, error) {
	item, ok := m.byID[id]
	if !ok || item.UserID != userID {
		return nil, httpx.ErrNotFound
	}
	cp := *item
	return &cp, nil
}

func (m *mockRepo) Create(ctx context.Context, item *Item) error {
	cp := *item
	m.byID[item.ID] = &cp
	return nil
}

func (m *mockRepo) Update(ctx context.Context, item *Item) error {
	existing, ok := m.byID[item.ID]
	if !ok || existing.UserID != item.UserID {
		return httpx.ErrNotFound
	}
	cp := *item
	m.byID[item.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	item, ok := m.byID[id]
	if !ok || item.UserID != userID {
		return httpx.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

var _ Repository = (*mockRepo)(nil)

type mockVerifier struct {
	known map[uuid.UUID]uuid.UUID // category id -> owner
}

func (m *mockVerifier) Verify(ctx context.Context, id, userID uuid.UUID) error {
	if owner, ok := m.known[id]; ok && owner == userID {
		return nil
	}
	return httpx.ErrNotFound
}

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute)
}

func TestListCachesUntilMutation(t *testing.T) {
	repo := newMockRepo()
	userID := uuid.New()
	svc := NewService(repo, &mockVerifier{}, newTestCache(t))

	first, err := svc.Create(context.Background(), userID, CreateInput{Title: "Dune", Price: 15})
	require.NoError(t, err)

	page, err := svc.List(context.Background(), userID, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Len(t, page.Items, 1)
	require.Equal(t, 1, repo.listCalls)

	// Same filter again: served from cache, no second repo round trip.
	_, err = svc.List(context.Background(), userID, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)
	assert.Equal(t, 1, repo.countCalls)

	// A mutation bumps the version; the next list reloads.
	require.ErrorIs(t, svc.Delete(context.Background(), uuid.New(), userID), httpx.ErrNotFound)
	require.NoError(t, svc.Delete(context.Background(), first.ID, userID))

	page, err = svc.List(context.Background(), userID, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total)
	assert.Equal(t, 2, repo.listCalls)
}

func TestListWorksWithoutCache(t *testing.T) {
	repo := newMockRepo()
	userID := uuid.New()
	svc := NewService(repo, &mockVerifier{}, NewCache(nil, time.Minute))

	_, err := svc.Create(context.Background(), userID, CreateInput{Title: "Dune", Price: 15})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		page, err := svc.List(context.Background(), userID, ListFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
	}
	assert.Equal(t, 2, repo.listCalls)
}

func TestListAppliesPagingDefaults(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, &mockVerifier{}, NewCache(nil, time.Minute))

	page, err := svc.List(context.Background(), uuid.New(), ListFilter{Page: -3, Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, defaultPageSize, page.Limit)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
}

func TestCreateVerifiesCategoryOwnership(t *testing.T) {
	repo := newMockRepo()
	userID := uuid.New()
	categoryID := uuid.New()
	verifier := &mockVerifier{known: map[uuid.UUID]uuid.UUID{categoryID: userID}}
	svc := NewService(repo, verifier, NewCache(nil, time.Minute))

	item, err := svc.Create(context.Background(), userID, CreateInput{Title: "Dune", CategoryID: &categoryID})
	require.NoError(t, err)
	require.NotNil(t, item.CategoryID)
	assert.Equal(t, categoryID, *item.CategoryID)

	// Another user's category id cannot be attached.
	foreign := uuid.New()
	_, err = svc.Create(context.Background(), uuid.New(), CreateInput{Title: "Dune", CategoryID: &categoryID})
	require.ErrorIs(t, err, httpx.ErrNotFound)
	_, err = svc.Create(context.Background(), userID, CreateInput{Title: "Dune", CategoryID: &foreign})
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestUpdateReturnsFreshStateAndChecksOwner(t *testing.T) {
	repo := newMockRepo()
	userID := uuid.New()
	svc := NewService(repo, &mockVerifier{}, NewCache(nil, time.Minute))

	item, err := svc.Create(context.Background(), userID, CreateInput{Title: "Dune", Price: 15})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), item.ID, userID, CreateInput{Title: "Dune Messiah", Price: 18})
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", updated.Title)
	assert.Equal(t, 18.0, updated.Price)

	_, err = svc.Update(context.Background(), item.ID, uuid.New(), CreateInput{Title: "Hijacked"})
	require.ErrorIs(t, err, httpx.ErrNotFound)
}
