package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/suchimauz/appointment-board/internal/config"
	"github.com/suchimauz/appointment-board/internal/core/domain"
	"github.com/suchimauz/appointment-board/internal/core/ports/out"
)

const (
	appointmentsPath  = "/rendezvous"
	patientsPath      = "/patients"
	practitionersPath = "/praticiens"
)

type StoreAdapter struct {
	client  *http.Client
	baseURL string
	logger  out.LoggerPort
}

func NewStoreAdapter(cfg *config.Config, logger out.LoggerPort) *StoreAdapter {
	return &StoreAdapter{
		client:  &http.Client{Timeout: cfg.Store.Timeout},
		baseURL: cfg.Store.URL,
		logger:  logger.WithModule("StoreAdapter"),
	}
}

func (a *StoreAdapter) ListPatients(ctx context.Context) ([]domain.Patient, error) {
	a.logger.Debug("store.patients.fetch", out.LogFields{})

	var patients []domain.Patient
	if err := a.do(ctx, "store.patients.fetch", http.MethodGet, patientsPath, nil, &patients); err != nil {
		return nil, err
	}

	a.logger.Debug("store.patients.fetch_success", out.LogFields{
		"count": len(patients),
	})
	return patients, nil
}

func (a *StoreAdapter) ListPractitioners(ctx context.Context) ([]domain.Practitioner, error) {
	a.logger.Debug("store.practitioners.fetch", out.LogFields{})

	var practitioners []domain.Practitioner
	if err := a.do(ctx, "store.practitioners.fetch", http.MethodGet, practitionersPath, nil, &practitioners); err != nil {
		return nil, err
	}

	a.logger.Debug("store.practitioners.fetch_success", out.LogFields{
		"count": len(practitioners),
	})
	return practitioners, nil
}

func (a *StoreAdapter) ListAppointments(ctx context.Context) ([]domain.Appointment, error) {
	a.logger.Debug("store.appointments.fetch", out.LogFields{})

	var appointments []domain.Appointment
	if err := a.do(ctx, "store.appointments.fetch", http.MethodGet, appointmentsPath, nil, &appointments); err != nil {
		return nil, err
	}

	// Отсутствующие ключи не проходят через UnmarshalJSON, поэтому проверяем записи отдельно
	for _, appointment := range appointments {
		if err := validateAppointment(appointment); err != nil {
			return nil, a.fail("store.appointments.fetch", &out.StoreError{Op: "store.appointments.fetch", Err: err})
		}
	}

	a.logger.Debug("store.appointments.fetch_success", out.LogFields{
		"count": len(appointments),
	})
	return appointments, nil
}

func (a *StoreAdapter) CreateAppointment(ctx context.Context, appointment domain.Appointment) (*domain.Appointment, error) {
	a.logger.Info("store.appointment.create", out.LogFields{
		"patientKey":      appointment.PatientKey,
		"practitionerKey": appointment.PractitionerKey,
	})

	// Идентификатор назначает хранилище
	appointment.ID = 0

	var created domain.Appointment
	if err := a.do(ctx, "store.appointment.create", http.MethodPost, appointmentsPath, appointment, &created); err != nil {
		return nil, err
	}

	a.logger.Info("store.appointment.create_success", out.LogFields{
		"id": created.ID,
	})
	return &created, nil
}

func (a *StoreAdapter) UpdateAppointment(ctx context.Context, id int64, appointment domain.Appointment) (*domain.Appointment, error) {
	a.logger.Info("store.appointment.update", out.LogFields{
		"id": id,
	})

	appointment.ID = id
	path := fmt.Sprintf("%s/%d", appointmentsPath, id)

	var updated domain.Appointment
	if err := a.do(ctx, "store.appointment.update", http.MethodPut, path, appointment, &updated); err != nil {
		return nil, err
	}

	a.logger.Info("store.appointment.update_success", out.LogFields{
		"id": id,
	})
	return &updated, nil
}

func (a *StoreAdapter) DeleteAppointment(ctx context.Context, id int64) error {
	a.logger.Info("store.appointment.delete", out.LogFields{
		"id": id,
	})

	path := fmt.Sprintf("%s/%d", appointmentsPath, id)
	if err := a.do(ctx, "store.appointment.delete", http.MethodDelete, path, nil, nil); err != nil {
		return err
	}

	a.logger.Info("store.appointment.delete_success", out.LogFields{
		"id": id,
	})
	return nil
}

// do выполняет запрос к хранилищу. body и result могут быть nil.
func (a *StoreAdapter) do(ctx context.Context, op, method, path string, body, result interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return a.fail(op, &out.StoreError{Op: op, Err: err})
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return a.fail(op, &out.StoreError{Op: op, Err: err})
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return a.fail(op, &out.StoreError{Op: op, Err: err})
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return a.fail(op, &out.StoreError{Op: op, Status: resp.StatusCode, Err: out.ErrStoreNotFound})
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return a.fail(op, &out.StoreError{Op: op, Status: resp.StatusCode})
	}

	if result == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil && !errors.Is(err, io.EOF) {
		return a.fail(op, &out.StoreError{Op: op, Err: fmt.Errorf("decode response: %w", err)})
	}

	return nil
}

func validateAppointment(appointment domain.Appointment) error {
	if !appointment.Status.IsValid() {
		return fmt.Errorf("appointment %d: missing or unknown statut %q", appointment.ID, string(appointment.Status))
	}
	if appointment.ScheduledAt.IsZero() {
		return fmt.Errorf("appointment %d: missing dateHeure", appointment.ID)
	}
	return nil
}

func (a *StoreAdapter) fail(op string, err *out.StoreError) error {
	fields := out.LogFields{}
	if err.Status != 0 {
		fields["status"] = err.Status
	}
	if err.Err != nil {
		fields["error"] = err.Err.Error()
	}

	a.logger.Error(op+"_failed", fields)
	return err
}
