// Пакет service — бизнес-логика Product Categories.
// CacheService — LRU-кэш результатов фильтрации с TTL.
// Обёртка над hashicorp/golang-lru/v2/expirable.
package service

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/yuriy-komolov/product-categories/internal/domain/filter"
	"github.com/yuriy-komolov/product-categories/internal/domain/model"
)

// Prometheus-метрики кэша.
var (
	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pc_filter_cache_hits_total",
		Help: "Общее количество попаданий в кэш результатов фильтрации.",
	})
	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pc_filter_cache_misses_total",
		Help: "Общее количество промахов кэша результатов фильтрации.",
	})
)

// cacheKey — ключ кэша: поколение снимка каталога и нормализованное состояние фильтров.
// Поколение исключает попадание результатов старого снимка после перезагрузки.
type cacheKey struct {
	generation uint64
	state      filter.State
}

// CacheService — кэш видимых коллекций.
// Закэшированные срезы разделяются между запросами и только читаются.
type CacheService struct {
	cache *expirable.LRU[cacheKey, []model.EnrichedProduct]
}

// NewCacheService создаёт LRU-кэш с указанным максимальным размером и TTL.
func NewCacheService(maxSize int, ttl time.Duration) *CacheService {
	cache := expirable.NewLRU[cacheKey, []model.EnrichedProduct](maxSize, nil, ttl)
	return &CacheService{cache: cache}
}

// Get возвращает результат фильтрации для поколения снимка и состояния.
func (c *CacheService) Get(generation uint64, state filter.State) ([]model.EnrichedProduct, bool) {
	items, ok := c.cache.Get(cacheKey{generation: generation, state: state.Normalize()})
	if ok {
		cacheHitsTotal.Inc()
		return items, true
	}
	cacheMissesTotal.Inc()
	return nil, false
}

// Set сохраняет результат фильтрации.
func (c *CacheService) Set(generation uint64, state filter.State, items []model.EnrichedProduct) {
	c.cache.Add(cacheKey{generation: generation, state: state.Normalize()}, items)
}

// Purge очищает кэш (при перезагрузке базовых коллекций).
func (c *CacheService) Purge() {
	c.cache.Purge()
}

// Len возвращает количество записей в кэше.
func (c *CacheService) Len() int {
	return c.cache.Len()
}
