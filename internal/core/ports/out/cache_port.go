package out

import (
	"context"

	"github.com/suchimauz/appointment-board/internal/core/domain"
)

// ViewCacheKey однозначно определяет представление для конкретного снимка данных
type ViewCacheKey struct {
	Generation uint64
	State      domain.ViewState
	PageSize   int
}

type ViewCachePort interface {
	GetView(ctx context.Context, key ViewCacheKey) (*domain.BoardView, bool)
	StoreView(ctx context.Context, key ViewCacheKey, view domain.BoardView)
	InvalidateAllViewsCache(ctx context.Context)
}
