package board_service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/suchimauz/appointment-board/internal/core/domain"
	"github.com/suchimauz/appointment-board/internal/core/ports/out"
	"golang.org/x/sync/errgroup"
)

const messageConnectionFailed = "Erreur de connexion à l'API"

// Snapshot хранит последний примененный полный набор данных из хранилища
type Snapshot struct {
	Appointments  []domain.Appointment
	Patients      []domain.Patient
	Practitioners []domain.Practitioner
	Lookup        Lookup
	Generation    uint64
	FetchedAt     time.Time
	Timings       domain.StageTimings
}

// RefreshCoordinator перечитывает все коллекции и заменяет снимок целиком.
// Каждое обновление получает возрастающий токен: ответ применяется, только если
// он новее последнего примененного, поэтому устаревший ответ не затирает свежий.
type RefreshCoordinator struct {
	storePort out.StorePort
	notifier  out.NotifierPort
	logger    out.LoggerPort
	onApply   func(ctx context.Context, snapshot Snapshot)

	nextToken atomic.Uint64
	inFlight  atomic.Int32

	mu       sync.RWMutex
	snapshot Snapshot
}

func NewRefreshCoordinator(
	storePort out.StorePort,
	notifier out.NotifierPort,
	logger out.LoggerPort,
	onApply func(ctx context.Context, snapshot Snapshot),
) *RefreshCoordinator {
	return &RefreshCoordinator{
		storePort: storePort,
		notifier:  notifier,
		logger:    logger.WithModule("RefreshCoordinator"),
		onApply:   onApply,
		snapshot:  Snapshot{Lookup: NewLookup(nil, nil)},
	}
}

func (r *RefreshCoordinator) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.snapshot
}

func (r *RefreshCoordinator) Loading() bool {
	return r.inFlight.Load() > 0
}

func (r *RefreshCoordinator) Refresh(ctx context.Context) error {
	token := r.nextToken.Add(1)
	r.inFlight.Add(1)
	defer r.inFlight.Add(-1)

	logger := r.logger.WithFields(out.LogFields{
		"refreshId": uuid.New(),
		"token":     token,
	})
	logger.Info("board.refresh.started", out.LogFields{})

	var (
		appointments  []domain.Appointment
		patients      []domain.Patient
		practitioners []domain.Practitioner
	)

	// Каждая горутина пишет только в свой элемент
	timings := domain.StageTimings{
		domain.StartStage("appointments"),
		domain.StartStage("patients"),
		domain.StartStage("practitioners"),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer timings[0].Stop()
		var err error
		appointments, err = r.storePort.ListAppointments(gctx)
		return err
	})
	g.Go(func() error {
		defer timings[1].Stop()
		var err error
		patients, err = r.storePort.ListPatients(gctx)
		return err
	})
	g.Go(func() error {
		defer timings[2].Stop()
		var err error
		practitioners, err = r.storePort.ListPractitioners(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Error("board.refresh.fetch_failed", out.LogFields{
			"error":   err.Error(),
			"timings": timings.LogValue(),
		})
		r.notifier.Notify(messageConnectionFailed, domain.NotificationError)
		return fmt.Errorf("board.refresh.fetch_failed: %w", err)
	}

	snapshot := Snapshot{
		Appointments:  nonNil(appointments),
		Patients:      nonNil(patients),
		Practitioners: nonNil(practitioners),
		Lookup:        NewLookup(patients, practitioners),
		Generation:    token,
		FetchedAt:     time.Now(),
		Timings:       timings,
	}

	r.mu.Lock()
	if token <= r.snapshot.Generation {
		current := r.snapshot.Generation
		r.mu.Unlock()

		logger.Warn("board.refresh.stale_dropped", out.LogFields{
			"appliedToken": current,
		})
		return nil
	}
	r.snapshot = snapshot
	r.mu.Unlock()

	logger.Info("board.refresh.applied", out.LogFields{
		"appointments":  len(snapshot.Appointments),
		"patients":      len(snapshot.Patients),
		"practitioners": len(snapshot.Practitioners),
		"timings":       timings.LogValue(),
	})

	if r.onApply != nil {
		r.onApply(ctx, snapshot)
	}

	return nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
