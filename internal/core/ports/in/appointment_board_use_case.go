package in

import (
	"context"
	"io"

	"github.com/suchimauz/appointment-board/internal/core/domain"
	"github.com/suchimauz/appointment-board/internal/core/ports/out"
)

type AppointmentBoardUseCase interface {
	// Полная синхронизация с хранилищем
	Refresh(ctx context.Context) error
	Loading() bool

	// Представление: пересчитывается по загруженным данным без обращения к сети
	View(ctx context.Context) domain.BoardView
	ViewState() domain.ViewState
	UpdateViewState(update func(state *domain.ViewState)) domain.ViewState
	ToggleSort(field domain.SortField) domain.Sort
	Patients() []domain.Patient
	Practitioners() []domain.Practitioner

	// Экспорт отфильтрованного и отсортированного набора без пагинации
	ExportRows(ctx context.Context) []domain.ExportRow
	Export(ctx context.Context, w io.Writer) error

	// Форма записи
	Form() domain.FormState
	OpenCreate() domain.FormState
	OpenEdit(id int64) (domain.FormState, error)
	ToggleForm() domain.FormState
	CancelForm()
	UpdateDraft(draft domain.Draft) (domain.FormState, error)
	Submit(ctx context.Context, draft domain.Draft) error
	Delete(ctx context.Context, id int64, confirm out.ConfirmPort) error
}
