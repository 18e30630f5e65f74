package out

import (
	"context"
	"errors"
	"fmt"

	"github.com/suchimauz/appointment-board/internal/core/domain"
)

// Клиент удаленного хранилища записей и справочников
type StorePort interface {
	// Справочники, загружаются целиком
	ListPatients(ctx context.Context) ([]domain.Patient, error)
	ListPractitioners(ctx context.Context) ([]domain.Practitioner, error)

	// Записи на прием
	ListAppointments(ctx context.Context) ([]domain.Appointment, error)
	CreateAppointment(ctx context.Context, appointment domain.Appointment) (*domain.Appointment, error)
	UpdateAppointment(ctx context.Context, id int64, appointment domain.Appointment) (*domain.Appointment, error)
	DeleteAppointment(ctx context.Context, id int64) error
}

var ErrStoreNotFound = errors.New("store: resource not found")

// StoreError оборачивает любую ошибку обращения к хранилищу
type StoreError struct {
	Op     string
	Status int
	Err    error
}

func (e *StoreError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: unexpected status code: %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
