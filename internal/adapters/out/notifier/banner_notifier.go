package notifier

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/suchimauz/appointment-board/internal/core/domain"
	"github.com/suchimauz/appointment-board/internal/core/ports/out"
)

const (
	SuccessTTL = 2500 * time.Millisecond
	ErrorTTL   = 4 * time.Second
)

// BannerNotifier хранит одно последнее уведомление. Новое вытесняет предыдущее.
type BannerNotifier struct {
	mu      sync.RWMutex
	current *domain.Notification
	now     func() time.Time
	logger  out.LoggerPort
}

func NewBannerNotifier(logger out.LoggerPort) *BannerNotifier {
	return &BannerNotifier{
		now:    time.Now,
		logger: logger.WithModule("BannerNotifier"),
	}
}

func (n *BannerNotifier) Notify(message string, kind domain.NotificationKind) {
	createdAt := n.now()

	ttl := SuccessTTL
	if kind == domain.NotificationError {
		ttl = ErrorTTL
	}

	notification := &domain.Notification{
		ID:        uuid.New(),
		Message:   message,
		Kind:      kind,
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(ttl),
	}

	n.mu.Lock()
	n.current = notification
	n.mu.Unlock()

	n.logger.Debug("notifier.notify", out.LogFields{
		"id":      notification.ID,
		"kind":    kind,
		"message": message,
	})
}

// Current возвращает действующее уведомление или nil, если оно истекло
func (n *BannerNotifier) Current() *domain.Notification {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.current == nil || !n.now().Before(n.current.ExpiresAt) {
		return nil
	}

	notification := *n.current
	return &notification
}
