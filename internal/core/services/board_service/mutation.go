package board_service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/suchimauz/appointment-board/internal/core/domain"
	"github.com/suchimauz/appointment-board/internal/core/json_types"
	"github.com/suchimauz/appointment-board/internal/core/ports/out"
	"github.com/suchimauz/appointment-board/internal/utils"
)

// После любой записи список перечитывается целиком, локальное состояние не патчится
type ConsistencyModel string

const RefetchOnWrite ConsistencyModel = "refetch-on-write"

const DeleteConfirmationMessage = "Supprimer ce rendez-vous ?"

// Тексты уведомлений
const (
	messageCreated     = "Rendez-vous ajouté !"
	messageUpdated     = "Rendez-vous modifié !"
	messageSaveFailed  = "Erreur lors de l'enregistrement"
	messageDeleted     = "Rendez-vous supprimé"
	messageDeleteFail  = "Erreur suppression"
	messageInvalidForm = "Formulaire invalide"
)

type refresher interface {
	Refresh(ctx context.Context) error
}

// MutationController владеет состоянием формы и единственный инициирует запись в хранилище
type MutationController struct {
	storePort out.StorePort
	refresher refresher
	notifier  out.NotifierPort
	logger    out.LoggerPort
	validate  *validator.Validate

	mu   sync.Mutex
	form domain.FormState
}

func NewMutationController(
	storePort out.StorePort,
	refresher refresher,
	notifier out.NotifierPort,
	logger out.LoggerPort,
) *MutationController {
	validate := validator.New()
	// В сообщениях используем имена полей формы
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return &MutationController{
		storePort: storePort,
		refresher: refresher,
		notifier:  notifier,
		logger:    logger.WithModule("MutationController"),
		validate:  validate,
		form:      domain.FormState{Draft: domain.NewDraft()},
	}
}

func (c *MutationController) Form() domain.FormState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.form
}

func (c *MutationController) OpenCreate() domain.FormState {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.form = domain.FormState{
		Visible: true,
		Mode:    domain.FormModeCreate,
		Draft:   domain.NewDraft(),
	}
	return c.form
}

// OpenEdit копирует запись в черновик, дата приводится к локальному формату формы
func (c *MutationController) OpenEdit(record domain.Appointment) domain.FormState {
	c.mu.Lock()
	defer c.mu.Unlock()

	status := record.Status
	if !status.IsValid() {
		status = domain.AppointmentStatusPending
	}

	c.form = domain.FormState{
		Visible: true,
		Mode:    domain.FormModeEdit,
		Draft: domain.Draft{
			ID:              record.ID,
			PatientKey:      record.PatientKey,
			PractitionerKey: record.PractitionerKey,
			ScheduledAt:     utils.FormatEditable(record.ScheduledAt.Date),
			Status:          status,
			ParentID:        record.ParentID.String(),
		},
	}
	return c.form
}

// Toggle: открытая форма закрывается, закрытая открывается на создание
func (c *MutationController) Toggle() domain.FormState {
	if c.Form().Visible {
		c.Cancel()
		return c.Form()
	}
	return c.OpenCreate()
}

func (c *MutationController) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.form = domain.FormState{Draft: domain.NewDraft()}
}

// UpdateDraft заменяет значения полей формы. Идентификатор записи формой не меняется.
func (c *MutationController) UpdateDraft(draft domain.Draft) (domain.FormState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.form.Visible {
		return c.form, ErrFormClosed
	}

	draft.ID = c.form.Draft.ID
	if draft.Status == "" {
		draft.Status = domain.AppointmentStatusPending
	}

	c.form.Draft = draft
	return c.form, nil
}

// Submit сохраняет черновик: создание или полная замена записи по ID.
// При ошибке форма остается открытой с введенными значениями.
func (c *MutationController) Submit(ctx context.Context, draft domain.Draft) error {
	form, err := c.UpdateDraft(draft)
	if err != nil {
		return err
	}

	appointment, verr := c.prepare(form)
	if verr != nil {
		c.logger.Warn("form.submit.validation_failed", out.LogFields{
			"mode":  form.Mode,
			"error": verr.Error(),
		})
		c.notifier.Notify(messageInvalidForm+": "+verr.Reason, domain.NotificationError)
		return verr
	}

	var stored *domain.Appointment
	if form.Mode == domain.FormModeEdit {
		stored, err = c.storePort.UpdateAppointment(ctx, appointment.ID, appointment)
	} else {
		stored, err = c.storePort.CreateAppointment(ctx, appointment)
	}
	if err != nil {
		c.logger.Error("form.submit.store_failed", out.LogFields{
			"mode":  form.Mode,
			"id":    appointment.ID,
			"error": err.Error(),
		})
		c.notifier.Notify(messageSaveFailed, domain.NotificationError)
		return fmt.Errorf("form.submit.store_failed: %w", err)
	}

	c.logger.Info("form.submit.success", out.LogFields{
		"mode": form.Mode,
		"id":   storedID(stored, appointment),
	})

	c.Cancel()
	if form.Mode == domain.FormModeEdit {
		c.notifier.Notify(messageUpdated, domain.NotificationSuccess)
	} else {
		c.notifier.Notify(messageCreated, domain.NotificationSuccess)
	}

	// Ошибку обновления списка уже обработал refresher, запись при этом сохранена
	_ = c.refresher.Refresh(ctx)

	return nil
}

// Delete удаляет запись после подтверждения. При отказе ничего не происходит.
func (c *MutationController) Delete(ctx context.Context, id int64, confirm out.ConfirmPort) error {
	if confirm == nil {
		return ErrNotConfirmed
	}

	ok, err := confirm.Confirm(ctx, DeleteConfirmationMessage)
	if err != nil {
		c.logger.Warn("appointment.delete.confirm_failed", out.LogFields{
			"id":    id,
			"error": err.Error(),
		})
		return fmt.Errorf("%w: %v", ErrNotConfirmed, err)
	}
	if !ok {
		c.logger.Debug("appointment.delete.not_confirmed", out.LogFields{
			"id": id,
		})
		return ErrNotConfirmed
	}

	if err := c.storePort.DeleteAppointment(ctx, id); err != nil {
		c.logger.Error("appointment.delete.store_failed", out.LogFields{
			"id":    id,
			"error": err.Error(),
		})
		c.notifier.Notify(messageDeleteFail, domain.NotificationError)
		return fmt.Errorf("appointment.delete.store_failed: %w", err)
	}

	c.logger.Info("appointment.delete.success", out.LogFields{
		"id": id,
	})
	c.notifier.Notify(messageDeleted, domain.NotificationSuccess)

	_ = c.refresher.Refresh(ctx)

	return nil
}

// prepare проверяет черновик и собирает запись для хранилища
func (c *MutationController) prepare(form domain.FormState) (domain.Appointment, *ValidationError) {
	draft := form.Draft

	if err := c.validate.Struct(draft); err != nil {
		return domain.Appointment{}, invalid(formatValidationError(err))
	}

	if !draft.Status.IsValid() {
		return domain.Appointment{}, invalid(fmt.Sprintf("statut %q is not allowed", draft.Status))
	}

	scheduledAt, err := utils.ParseDate(draft.ScheduledAt)
	if err != nil {
		return domain.Appointment{}, invalid("dateHeure " + err.Error())
	}

	parentID, err := json_types.ParseOptionalID(draft.ParentID)
	if err != nil {
		return domain.Appointment{}, invalid("idRdvParent " + err.Error())
	}

	appointment := domain.Appointment{
		PatientKey:      draft.PatientKey,
		PractitionerKey: draft.PractitionerKey,
		ScheduledAt:     json_types.NewDateTime(scheduledAt),
		Status:          draft.Status,
		ParentID:        parentID,
	}

	// ID назначает хранилище, при создании клиент его не передает
	if form.Mode == domain.FormModeEdit {
		if draft.ID == 0 {
			return domain.Appointment{}, invalid("idRdv is required to update")
		}
		appointment.ID = draft.ID
	}

	return appointment, nil
}

func formatValidationError(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err.Error()
	}

	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		switch e.Tag() {
		case "required":
			messages = append(messages, e.Field()+" is required")
		case "numeric":
			messages = append(messages, e.Field()+" must be numeric")
		default:
			messages = append(messages, e.Field()+" is invalid")
		}
	}
	return strings.Join(messages, ", ")
}

func storedID(stored *domain.Appointment, sent domain.Appointment) int64 {
	if stored != nil {
		return stored.ID
	}
	return sent.ID
}
