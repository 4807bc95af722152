package data

import (
	"fmt"
	"sync"
	"time"

	"github.com/dcat-quant/dcat-backtest/pkg/types"
)

// MemoryCache implements BarCache using in-memory storage.
type MemoryCache struct {
	cache map[string][]types.Bar
	mutex sync.RWMutex
}

// NewMemoryCache creates a new in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		cache: make(map[string][]types.Bar),
	}
}

// Get retrieves a series from cache if available.
func (c *MemoryCache) Get(key string) ([]types.Bar, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	bars, exists := c.cache[key]
	if exists {
		// Return a copy to prevent external modifications
		result := make([]types.Bar, len(bars))
		copy(result, bars)
		return result, true
	}

	return nil, false
}

// Set stores a series in cache.
func (c *MemoryCache) Set(key string, bars []types.Bar) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	cached := make([]types.Bar, len(bars))
	copy(cached, bars)
	c.cache[key] = cached
}

// Clear removes all cached series.
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache = make(map[string][]types.Bar)
}

// Size returns the number of cached entries.
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.cache)
}

// CachedProvider wraps another BarProvider with request-level caching. A sweep
// hits the benchmark series once per date range instead of once per symbol.
type CachedProvider struct {
	provider BarProvider
	cache    BarCache
}

// NewCachedProvider creates a new cached bar provider.
func NewCachedProvider(provider BarProvider) *CachedProvider {
	return &CachedProvider{
		provider: provider,
		cache:    NewMemoryCache(),
	}
}

// NewCachedProviderWithCache creates a cached bar provider with a custom cache.
func NewCachedProviderWithCache(provider BarProvider, cache BarCache) *CachedProvider {
	return &CachedProvider{
		provider: provider,
		cache:    cache,
	}
}

// GetName returns the name of the underlying provider with cache indication.
func (p *CachedProvider) GetName() string {
	return "Cached " + p.provider.GetName()
}

// GetBars loads bars with caching.
func (p *CachedProvider) GetBars(symbol string, symbolType types.SymbolType, start, end time.Time) ([]types.Bar, error) {
	key := cacheKey(symbol, symbolType, start, end)
	if cached, exists := p.cache.Get(key); exists {
		return cached, nil
	}

	bars, err := p.provider.GetBars(symbol, symbolType, start, end)
	if err != nil {
		return nil, err
	}

	p.cache.Set(key, bars)
	return bars, nil
}

// ValidateBars validates using the underlying provider.
func (p *CachedProvider) ValidateBars(bars []types.Bar) error {
	return p.provider.ValidateBars(bars)
}

// ClearCache clears all cached series.
func (p *CachedProvider) ClearCache() {
	p.cache.Clear()
}

// CacheSize returns the number of cached entries.
func (p *CachedProvider) CacheSize() int {
	return p.cache.Size()
}

func cacheKey(symbol string, symbolType types.SymbolType, start, end time.Time) string {
	return fmt.Sprintf("%s|%s|%s|%s", symbol, symbolType, start.Format("2006-01-02"), end.Format("2006-01-02"))
}
