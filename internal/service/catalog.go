// catalog.go — сервис каталога: снимок обогащённой коллекции и видимые подмножества.
//
// Базовые коллекции загружаются из источника один раз при старте (Load),
// обогащённая коллекция вычисляется из них сразу и хранится как неизменяемый снимок.
// Visible пересчитывает видимое подмножество для полного текущего состояния фильтров.
// Reload заменяет снимок целиком; при PC_RELOAD_INTERVAL > 0 вызывается периодически.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/yuriy-komolov/product-categories/internal/catalog"
	"github.com/yuriy-komolov/product-categories/internal/domain/filter"
	"github.com/yuriy-komolov/product-categories/internal/domain/model"
	"github.com/yuriy-komolov/product-categories/internal/repository"
)

// ErrNotLoaded — каталог ещё не загружен.
var ErrNotLoaded = errors.New("каталог не загружен")

// Prometheus-метрики каталога.
var (
	filterTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pc_filter_total",
		Help: "Общее количество вычислений видимой коллекции.",
	})
	filterDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pc_filter_duration_seconds",
		Help:    "Длительность вычисления видимой коллекции.",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
	})
	catalogProducts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pc_catalog_products",
		Help: "Количество товаров в текущем снимке каталога.",
	})
	catalogReloadTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pc_catalog_reload_total",
		Help: "Количество загрузок базовых коллекций по результату.",
	}, []string{"result"}) // result: ok, error
)

// snapshot — неизменяемый снимок базовых и обогащённой коллекций.
type snapshot struct {
	generation uint64
	dataset    model.Dataset
	items      []model.EnrichedProduct
	loadedAt   time.Time
}

// View — видимая коллекция для состояния фильтров.
type View struct {
	// State — нормализованное состояние, для которого вычислен результат
	State filter.State
	// Items — видимые товары в исходном порядке (только чтение)
	Items []model.EnrichedProduct
	// Total — размер полной обогащённой коллекции
	Total int
}

// ReloadResult — итог загрузки базовых коллекций.
type ReloadResult struct {
	Source     string    `json:"source"`
	Users      int       `json:"users"`
	Categories int       `json:"categories"`
	Products   int       `json:"products"`
	LoadedAt   time.Time `json:"loaded_at"`
}

// CatalogService — сервис каталога товаров.
type CatalogService struct {
	source   repository.DatasetSource
	cache    *CacheService
	interval time.Duration
	logger   *slog.Logger

	mu   sync.RWMutex
	snap *snapshot

	cancel context.CancelFunc
	done   chan struct{}
}

// NewCatalogService создаёт сервис каталога.
// cache может быть nil — тогда каждое вычисление выполняется заново.
// interval — период перезагрузки для Start (0 — без периодической перезагрузки).
func NewCatalogService(
	source repository.DatasetSource,
	cache *CacheService,
	interval time.Duration,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		source:   source,
		cache:    cache,
		interval: interval,
		logger:   logger.With(slog.String("component", "catalog_service")),
	}
}

// Load выполняет первичную загрузку каталога.
func (s *CatalogService) Load(ctx context.Context) error {
	_, err := s.Reload(ctx)
	return err
}

// Reload перечитывает базовые коллекции из источника, пересчитывает
// обогащённую коллекцию и атомарно заменяет снимок.
// При ошибке предыдущий снимок остаётся в силе.
func (s *CatalogService) Reload(ctx context.Context) (*ReloadResult, error) {
	ds, err := s.source.LoadDataset(ctx)
	if err != nil {
		catalogReloadTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("загрузка каталога из %s: %w", s.source.Name(), err)
	}

	items := catalog.Enrich(ds)
	now := time.Now().UTC()

	s.mu.Lock()
	var generation uint64 = 1
	if s.snap != nil {
		generation = s.snap.generation + 1
	}
	s.snap = &snapshot{
		generation: generation,
		dataset:    ds,
		items:      items,
		loadedAt:   now,
	}
	s.mu.Unlock()

	purged := 0
	if s.cache != nil {
		purged = s.cache.Len()
		s.cache.Purge()
	}

	catalogReloadTotal.WithLabelValues("ok").Inc()
	catalogProducts.Set(float64(len(items)))

	s.logger.Info("Каталог загружен",
		slog.String("source", s.source.Name()),
		slog.Int("users", len(ds.Users)),
		slog.Int("categories", len(ds.Categories)),
		slog.Int("products", len(ds.Products)),
		slog.Uint64("generation", generation),
		slog.Int("cache_purged", purged),
	)

	return &ReloadResult{
		Source:     s.source.Name(),
		Users:      len(ds.Users),
		Categories: len(ds.Categories),
		Products:   len(ds.Products),
		LoadedAt:   now,
	}, nil
}

// Visible вычисляет видимую коллекцию для состояния фильтров.
// Оба предиката применяются к каждому товару при каждом вызове;
// кэш хранит результат только для того же снимка и того же полного состояния.
func (s *CatalogService) Visible(_ context.Context, state filter.State) (*View, error) {
	snap := s.current()
	if snap == nil {
		return nil, ErrNotLoaded
	}

	state = state.Normalize()
	view := &View{State: state, Total: len(snap.items)}

	if s.cache != nil {
		if items, ok := s.cache.Get(snap.generation, state); ok {
			view.Items = items
			return view, nil
		}
	}

	start := time.Now()
	filterTotal.Inc()

	view.Items = catalog.Filter(snap.items, state)

	duration := time.Since(start)
	filterDuration.Observe(duration.Seconds())

	if s.cache != nil {
		s.cache.Set(snap.generation, state, view.Items)
	}

	s.logger.Debug("Видимая коллекция вычислена",
		slog.String("search", state.Search),
		slog.String("user", state.User),
		slog.Int("matched", len(view.Items)),
		slog.Int("total", view.Total),
		slog.Duration("duration", duration),
	)

	return view, nil
}

// Dispatch применяет действие к состоянию и пересчитывает видимую коллекцию.
func (s *CatalogService) Dispatch(ctx context.Context, state filter.State, action filter.Action) (*View, error) {
	return s.Visible(ctx, filter.Reduce(state, action))
}

// Users возвращает пользователей в порядке базовой коллекции (копия).
func (s *CatalogService) Users() []model.User {
	snap := s.current()
	if snap == nil {
		return nil
	}
	result := make([]model.User, len(snap.dataset.Users))
	copy(result, snap.dataset.Users)
	return result
}

// Categories возвращает категории в порядке базовой коллекции (копия).
func (s *CatalogService) Categories() []model.Category {
	snap := s.current()
	if snap == nil {
		return nil
	}
	result := make([]model.Category, len(snap.dataset.Categories))
	copy(result, snap.dataset.Categories)
	return result
}

// CheckReady реализует проверку готовности для /health/ready.
func (s *CatalogService) CheckReady() (status string, message string) {
	snap := s.current()
	if snap == nil {
		return "fail", "каталог не загружен"
	}
	return "ok", fmt.Sprintf("товаров: %d, загружен %s", len(snap.items), snap.loadedAt.Format(time.RFC3339))
}

// Start запускает фоновую периодическую перезагрузку.
// При нулевом интервале ничего не делает.
func (s *CatalogService) Start(ctx context.Context) {
	if s.interval <= 0 {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)

		s.logger.Info("Периодическая перезагрузка каталога запущена",
			slog.String("interval", s.interval.String()),
		)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.logger.Info("Периодическая перезагрузка каталога остановлена")
				return
			case <-ticker.C:
				if _, err := s.Reload(ctx); err != nil {
					s.logger.Error("Ошибка периодической перезагрузки каталога",
						slog.String("error", err.Error()),
					)
				}
			}
		}
	}()
}

// Stop останавливает фоновую перезагрузку и ждёт завершения горутины.
func (s *CatalogService) Stop() {
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
}

// current возвращает текущий снимок под read-lock.
func (s *CatalogService) current() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}
