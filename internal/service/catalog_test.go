package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuriy-komolov/product-categories/internal/domain/filter"
	"github.com/yuriy-komolov/product-categories/internal/domain/model"
	"github.com/yuriy-komolov/product-categories/internal/repository"
)

// stubSource — управляемый источник каталога для тестов.
type stubSource struct {
	mu    sync.Mutex
	ds    model.Dataset
	err   error
	calls int
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) LoadDataset(_ context.Context) (model.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return model.Dataset{}, s.err
	}
	return s.ds, nil
}

func (s *stubSource) set(ds model.Dataset, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ds, s.err = ds, err
}

func (s *stubSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testDataset() model.Dataset {
	return model.Dataset{
		Users: []model.User{
			{ID: 1, Name: "Roma", Sex: model.SexMale},
			{ID: 2, Name: "Anna", Sex: model.SexFemale},
		},
		Categories: []model.Category{
			{ID: 1, Title: "Fruits", Icon: "🍏", OwnerID: 1},
			{ID: 2, Title: "Nuts", Icon: "🥜", OwnerID: 2},
		},
		Products: []model.Product{
			{ID: 1, Name: "Apple", CategoryID: 1},
			{ID: 2, Name: "Banana", CategoryID: 1},
			{ID: 3, Name: "Apricot", CategoryID: 2},
		},
	}
}

func itemNames(items []model.EnrichedProduct) []string {
	result := make([]string, 0, len(items))
	for _, item := range items {
		result = append(result, item.Name)
	}
	return result
}

func newLoadedService(t *testing.T, cache *CacheService) (*CatalogService, *stubSource) {
	t.Helper()
	src := &stubSource{ds: testDataset()}
	svc := NewCatalogService(src, cache, 0, discardLogger())
	require.NoError(t, svc.Load(context.Background()))
	return svc, src
}

func TestCatalogService_VisibleBeforeLoad(t *testing.T) {
	svc := NewCatalogService(&stubSource{}, nil, 0, discardLogger())

	_, err := svc.Visible(context.Background(), filter.Initial())
	assert.ErrorIs(t, err, ErrNotLoaded)

	status, _ := svc.CheckReady()
	assert.Equal(t, "fail", status)
	assert.Nil(t, svc.Users())
}

func TestCatalogService_Visible(t *testing.T) {
	svc, _ := newLoadedService(t, nil)
	ctx := context.Background()

	view, err := svc.Visible(ctx, filter.State{Search: "ap", User: "Roma"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple"}, itemNames(view.Items))
	assert.Equal(t, 3, view.Total)
	assert.NotEmpty(t, view.Items)

	view, err = svc.Visible(ctx, filter.State{Search: "kiwi"})
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Equal(t, filter.AllUsers, view.State.User)
}

func TestCatalogService_DispatchReset(t *testing.T) {
	svc, _ := newLoadedService(t, nil)

	view, err := svc.Dispatch(context.Background(), filter.State{Search: "zzz", User: "Anna"}, filter.ResetAll())
	require.NoError(t, err)
	assert.Equal(t, filter.Initial(), view.State)
	assert.Equal(t, []string{"Apple", "Banana", "Apricot"}, itemNames(view.Items))
}

func TestCatalogService_CacheHit(t *testing.T) {
	cache := NewCacheService(16, time.Minute)
	svc, _ := newLoadedService(t, cache)
	ctx := context.Background()

	first, err := svc.Visible(ctx, filter.New("a", ""))
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())

	// Эквивалентное состояние (пустой user == all) использует ту же запись
	second, err := svc.Visible(ctx, filter.State{Search: "a", User: filter.AllUsers})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, itemNames(first.Items), itemNames(second.Items))
}

func TestCatalogService_ReloadReplacesSnapshot(t *testing.T) {
	cache := NewCacheService(16, time.Minute)
	svc, src := newLoadedService(t, cache)
	ctx := context.Background()

	view, err := svc.Visible(ctx, filter.New("", "Anna"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Apricot"}, itemNames(view.Items))

	// Категория 1 переходит к Anna
	ds := testDataset()
	ds.Categories[0].OwnerID = 2
	src.set(ds, nil)

	result, err := svc.Reload(ctx)
	require.NoError(t, err)
	assert.Equal(t, "stub", result.Source)
	assert.Equal(t, 3, result.Products)
	assert.Equal(t, 0, cache.Len())

	view, err = svc.Visible(ctx, filter.New("", "Anna"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple", "Banana", "Apricot"}, itemNames(view.Items))
}

func TestCatalogService_ReloadErrorKeepsSnapshot(t *testing.T) {
	svc, src := newLoadedService(t, nil)
	src.set(model.Dataset{}, repository.ErrSourceUnavailable)

	_, err := svc.Reload(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, repository.ErrSourceUnavailable))

	view, err := svc.Visible(context.Background(), filter.Initial())
	require.NoError(t, err)
	assert.Len(t, view.Items, 3)

	status, _ := svc.CheckReady()
	assert.Equal(t, "ok", status)
}

func TestCatalogService_UsersAndCategoriesAreCopies(t *testing.T) {
	svc, _ := newLoadedService(t, nil)

	users := svc.Users()
	require.Len(t, users, 2)
	users[0].Name = "changed"
	assert.Equal(t, "Roma", svc.Users()[0].Name)

	categories := svc.Categories()
	require.Len(t, categories, 2)
	assert.Equal(t, "Fruits", categories[0].Title)
}

func TestCatalogService_StartStop(t *testing.T) {
	src := &stubSource{ds: testDataset()}
	svc := NewCatalogService(src, nil, 10*time.Millisecond, discardLogger())
	require.NoError(t, svc.Load(context.Background()))

	svc.Start(context.Background())
	assert.Eventually(t, func() bool { return src.callCount() >= 3 }, time.Second, 5*time.Millisecond)
	svc.Stop()

	calls := src.callCount()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, src.callCount(), "после Stop перезагрузок быть не должно")
}

func TestCatalogService_StartWithoutInterval(t *testing.T) {
	svc, src := newLoadedService(t, nil)

	svc.Start(context.Background())
	svc.Stop()
	assert.Equal(t, 1, src.callCount())
}

func TestCatalogService_ReloadLogsPurgedCache(t *testing.T) {
	var logs bytes.Buffer
	cache := NewCacheService(16, time.Minute)
	svc := NewCatalogService(&stubSource{ds: testDataset()}, cache, 0, slog.New(slog.NewTextHandler(&logs, nil)))
	ctx := context.Background()
	require.NoError(t, svc.Load(ctx))
	assert.Contains(t, logs.String(), "cache_purged=0")

	_, err := svc.Visible(ctx, filter.New("a", ""))
	require.NoError(t, err)
	_, err = svc.Visible(ctx, filter.New("", "Anna"))
	require.NoError(t, err)
	require.Equal(t, 2, cache.Len())

	logs.Reset()
	_, err = svc.Reload(ctx)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(logs.String()), "\n")
	assert.Contains(t, lines[len(lines)-1], "cache_purged=2")
	assert.Equal(t, 0, cache.Len())
}
