package cache

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/suchimauz/appointment-board/internal/config"
	"github.com/suchimauz/appointment-board/internal/core/domain"
	"github.com/suchimauz/appointment-board/internal/core/ports/out"
)

// CacheAdapter хранит готовые представления табло.
// Ключ включает поколение снимка, поэтому после обновления старые записи просто не находятся.
type CacheAdapter struct {
	viewsCache *lru.Cache[out.ViewCacheKey, *domain.BoardView]
	mu         sync.RWMutex
	logger     out.LoggerPort
}

func NewCacheAdapter(cfg *config.Config, logger out.LoggerPort) (*CacheAdapter, error) {
	if !cfg.Cache.Enabled {
		logger.Info("cache.disabled", out.LogFields{
			"message": "Cache is disabled",
		})
		return nil, nil
	}

	lruViewsCache, err := lru.New[out.ViewCacheKey, *domain.BoardView](cfg.Cache.Size)
	if err != nil {
		logger.Error("cache.views.init.failed", out.LogFields{
			"error": err.Error(),
			"size":  cfg.Cache.Size,
		})
		return nil, err
	}

	return &CacheAdapter{
		viewsCache: lruViewsCache,
		logger:     logger.WithModule("CacheAdapter"),
	}, nil
}

func (c *CacheAdapter) GetView(ctx context.Context, key out.ViewCacheKey) (*domain.BoardView, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	view, exists := c.viewsCache.Get(key)
	if !exists {
		c.logger.Debug("cache.views.get.miss", out.LogFields{
			"generation": key.Generation,
			"page":       key.State.Page,
		})
		return nil, false
	}

	c.logger.Debug("cache.views.get.hit", out.LogFields{
		"generation": key.Generation,
		"page":       key.State.Page,
		"rowsCount":  len(view.Rows),
	})
	return view, true
}

func (c *CacheAdapter) StoreView(ctx context.Context, key out.ViewCacheKey, view domain.BoardView) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Debug("cache.views.store", out.LogFields{
		"generation": key.Generation,
		"page":       key.State.Page,
		"rowsCount":  len(view.Rows),
	})

	c.viewsCache.Add(key, &view)
}

func (c *CacheAdapter) InvalidateAllViewsCache(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Debug("cache.views.invalidate_all", out.LogFields{
		"count": c.viewsCache.Len(),
	})

	c.viewsCache.Purge()
}

func (c *CacheAdapter) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.viewsCache.Len()
}
