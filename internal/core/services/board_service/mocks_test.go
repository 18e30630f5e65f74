package board_service

import (
	"context"
	"sync"
	"time"

	"github.com/suchimauz/appointment-board/internal/core/domain"
	"github.com/suchimauz/appointment-board/internal/core/json_types"
)

type mockStore struct {
	mu sync.Mutex

	appointments  []domain.Appointment
	patients      []domain.Patient
	practitioners []domain.Practitioner

	listAppointmentsFn func(ctx context.Context) ([]domain.Appointment, error)

	listErr   error
	createErr error
	updateErr error
	deleteErr error

	created []domain.Appointment
	updated map[int64]domain.Appointment
	deleted []int64
	nextID  int64
}

func (m *mockStore) ListPatients(ctx context.Context) ([]domain.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]domain.Patient(nil), m.patients...), nil
}

func (m *mockStore) ListPractitioners(ctx context.Context) ([]domain.Practitioner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]domain.Practitioner(nil), m.practitioners...), nil
}

func (m *mockStore) ListAppointments(ctx context.Context) ([]domain.Appointment, error) {
	if m.listAppointmentsFn != nil {
		return m.listAppointmentsFn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]domain.Appointment(nil), m.appointments...), nil
}

func (m *mockStore) CreateAppointment(ctx context.Context, appointment domain.Appointment) (*domain.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.created = append(m.created, appointment)
	if m.createErr != nil {
		return nil, m.createErr
	}

	m.nextID++
	appointment.ID = 100 + m.nextID
	m.appointments = append(m.appointments, appointment)
	return &appointment, nil
}

func (m *mockStore) UpdateAppointment(ctx context.Context, id int64, appointment domain.Appointment) (*domain.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.updated == nil {
		m.updated = make(map[int64]domain.Appointment)
	}
	m.updated[id] = appointment
	if m.updateErr != nil {
		return nil, m.updateErr
	}

	for i := range m.appointments {
		if m.appointments[i].ID == id {
			m.appointments[i] = appointment
		}
	}
	return &appointment, nil
}

func (m *mockStore) DeleteAppointment(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.deleted = append(m.deleted, id)
	if m.deleteErr != nil {
		return m.deleteErr
	}

	kept := m.appointments[:0]
	for _, a := range m.appointments {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	m.appointments = kept
	return nil
}

func (m *mockStore) storeCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.created) + len(m.updated) + len(m.deleted)
}

type sentNotification struct {
	message string
	kind    domain.NotificationKind
}

type mockNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (m *mockNotifier) Notify(message string, kind domain.NotificationKind) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sent = append(m.sent, sentNotification{message: message, kind: kind})
}

func (m *mockNotifier) last() (sentNotification, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sent) == 0 {
		return sentNotification{}, false
	}
	return m.sent[len(m.sent)-1], true
}

type mockRefresher struct {
	calls int
	err   error
}

func (m *mockRefresher) Refresh(ctx context.Context) error {
	m.calls++
	return m.err
}

func appointment(id int64, status domain.AppointmentStatus, scheduledAt string) domain.Appointment {
	at, err := time.Parse("2006-01-02T15:04", scheduledAt)
	if err != nil {
		panic(err)
	}
	return domain.Appointment{
		ID:              id,
		PatientKey:      "P1",
		PractitionerKey: "D1",
		ScheduledAt:     json_types.NewDateTime(at),
		Status:          status,
	}
}

func ids(appointments []domain.Appointment) []int64 {
	result := make([]int64, 0, len(appointments))
	for _, a := range appointments {
		result = append(result, a.ID)
	}
	return result
}
