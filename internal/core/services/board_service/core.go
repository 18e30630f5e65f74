package board_service

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/suchimauz/appointment-board/internal/core/domain"
	"github.com/suchimauz/appointment-board/internal/core/ports/out"
)

const messageExported = "Export réussi !"

// BoardService держит сессию табло: снимок данных, состояние представления и форму
type BoardService struct {
	refresher *RefreshCoordinator
	mutations *MutationController
	cachePort out.ViewCachePort
	exporter  out.ExporterPort
	notifier  out.NotifierPort
	logger    out.LoggerPort
	pageSize  int

	mu    sync.RWMutex
	state domain.ViewState
}

func NewBoardService(
	storePort out.StorePort,
	cachePort out.ViewCachePort,
	exporter out.ExporterPort,
	notifier out.NotifierPort,
	logger out.LoggerPort,
	pageSize int,
) *BoardService {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	s := &BoardService{
		cachePort: cachePort,
		exporter:  exporter,
		notifier:  notifier,
		logger:    logger.WithModule("BoardService"),
		pageSize:  pageSize,
		state:     domain.DefaultViewState(),
	}

	s.refresher = NewRefreshCoordinator(storePort, notifier, logger, s.onSnapshotApplied)
	s.mutations = NewMutationController(storePort, s.refresher, notifier, logger)

	return s
}

func (s *BoardService) onSnapshotApplied(ctx context.Context, snapshot Snapshot) {
	if s.cachePort != nil {
		s.cachePort.InvalidateAllViewsCache(ctx)
	}
}

// Синхронизация

func (s *BoardService) Refresh(ctx context.Context) error {
	return s.refresher.Refresh(ctx)
}

func (s *BoardService) Loading() bool {
	return s.refresher.Loading()
}

// Представление

func (s *BoardService) ViewState() domain.ViewState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}

func (s *BoardService) UpdateViewState(update func(state *domain.ViewState)) domain.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()

	update(&s.state)
	return s.state
}

func (s *BoardService) ToggleSort(field domain.SortField) domain.Sort {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Sort = ToggleSort(s.state.Sort, field)
	return s.state.Sort
}

func (s *BoardService) View(ctx context.Context) domain.BoardView {
	snapshot := s.refresher.Snapshot()
	state := s.ViewState()

	key := out.ViewCacheKey{
		Generation: snapshot.Generation,
		State:      state,
		PageSize:   s.pageSize,
	}

	// Проверяем кэш только если он включен
	if s.cachePort != nil {
		if cached, exists := s.cachePort.GetView(ctx, key); exists {
			view := *cached
			view.Loading = s.Loading()
			return view
		}
	}

	filtered := Apply(snapshot.Appointments, state.Criteria, state.Sort, snapshot.Lookup)
	page := Paginate(filtered, s.pageSize, state.Page)

	view := domain.BoardView{
		Rows:       buildRows(page.Items, snapshot.Lookup),
		Total:      len(filtered),
		TotalPages: page.TotalPages,
		Page:       page.Page,
		PageSize:   s.pageSize,
		Counts:     CountByStatus(snapshot.Appointments),
		State:      state,
		Generation: snapshot.Generation,
	}

	if s.cachePort != nil {
		s.cachePort.StoreView(ctx, key, view)
	}

	view.Loading = s.Loading()
	return view
}

func (s *BoardService) Patients() []domain.Patient {
	return s.refresher.Snapshot().Patients
}

func (s *BoardService) Practitioners() []domain.Practitioner {
	return s.refresher.Snapshot().Practitioners
}

// Экспорт

func (s *BoardService) ExportRows(ctx context.Context) []domain.ExportRow {
	snapshot := s.refresher.Snapshot()
	state := s.ViewState()

	filtered := Apply(snapshot.Appointments, state.Criteria, state.Sort, snapshot.Lookup)
	return BuildExportRows(filtered, snapshot.Lookup)
}

func (s *BoardService) Export(ctx context.Context, w io.Writer) error {
	if s.exporter == nil {
		return fmt.Errorf("board.export: exporter is not configured")
	}

	rows := s.ExportRows(ctx)
	if err := s.exporter.Export(ctx, rows, w); err != nil {
		s.logger.Error("board.export.failed", out.LogFields{
			"rows":  len(rows),
			"error": err.Error(),
		})
		return fmt.Errorf("board.export.failed: %w", err)
	}

	s.logger.Info("board.export.success", out.LogFields{
		"rows": len(rows),
	})
	s.notifier.Notify(messageExported, domain.NotificationSuccess)
	return nil
}

// Форма

func (s *BoardService) Form() domain.FormState {
	return s.mutations.Form()
}

func (s *BoardService) OpenCreate() domain.FormState {
	return s.mutations.OpenCreate()
}

func (s *BoardService) OpenEdit(id int64) (domain.FormState, error) {
	for _, appointment := range s.refresher.Snapshot().Appointments {
		if appointment.ID == id {
			return s.mutations.OpenEdit(appointment), nil
		}
	}
	return s.mutations.Form(), fmt.Errorf("%w: %d", ErrNotFound, id)
}

func (s *BoardService) ToggleForm() domain.FormState {
	return s.mutations.Toggle()
}

func (s *BoardService) CancelForm() {
	s.mutations.Cancel()
}

func (s *BoardService) UpdateDraft(draft domain.Draft) (domain.FormState, error) {
	return s.mutations.UpdateDraft(draft)
}

func (s *BoardService) Submit(ctx context.Context, draft domain.Draft) error {
	return s.mutations.Submit(ctx, draft)
}

func (s *BoardService) Delete(ctx context.Context, id int64, confirm out.ConfirmPort) error {
	return s.mutations.Delete(ctx, id, confirm)
}
