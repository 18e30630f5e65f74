package board_service

import (
	"context"
	"errors"
	"slices"
	"sync/atomic"
	"testing"

	"github.com/suchimauz/appointment-board/internal/core/domain"
	"github.com/suchimauz/appointment-board/internal/core/ports/out"
)

func TestRefresh_AppliesSnapshot(t *testing.T) {
	store := &mockStore{
		appointments:  []domain.Appointment{appointment(1, domain.AppointmentStatusPending, "2024-01-10T09:00")},
		patients:      []domain.Patient{{Key: "P1", LastName: "Alaoui", FirstName: "Sara"}},
		practitioners: []domain.Practitioner{{Key: "D1", LastName: "Tazi", FirstName: "Omar"}},
	}

	applied := 0
	coordinator := NewRefreshCoordinator(store, &mockNotifier{}, out.NopLogger{}, func(ctx context.Context, snapshot Snapshot) {
		applied++
	})

	if err := coordinator.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snapshot := coordinator.Snapshot()
	if snapshot.Generation != 1 {
		t.Errorf("generation = %d, want 1", snapshot.Generation)
	}
	if got := ids(snapshot.Appointments); !slices.Equal(got, []int64{1}) {
		t.Errorf("appointments = %v", got)
	}
	if snapshot.Lookup.PatientName("P1") != "Alaoui Sara" {
		t.Errorf("lookup not rebuilt: %q", snapshot.Lookup.PatientName("P1"))
	}
	if len(snapshot.Timings) != 3 {
		t.Errorf("expected 3 stage timings, got %d", len(snapshot.Timings))
	}
	if applied != 1 {
		t.Errorf("onApply calls = %d, want 1", applied)
	}
	if coordinator.Loading() {
		t.Error("loading should be false after refresh")
	}
}

func TestRefresh_FailureLeavesStateUnchanged(t *testing.T) {
	store := &mockStore{
		appointments: []domain.Appointment{appointment(1, domain.AppointmentStatusPending, "2024-01-10T09:00")},
	}
	notifier := &mockNotifier{}
	coordinator := NewRefreshCoordinator(store, notifier, out.NopLogger{}, nil)

	if err := coordinator.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := coordinator.Snapshot()

	store.mu.Lock()
	store.listErr = errors.New("connection refused")
	store.mu.Unlock()

	if err := coordinator.Refresh(context.Background()); err == nil {
		t.Fatal("expected error")
	}

	after := coordinator.Snapshot()
	if after.Generation != before.Generation || !slices.Equal(ids(after.Appointments), ids(before.Appointments)) {
		t.Errorf("state changed after failed refresh: %+v", after)
	}

	last, _ := notifier.last()
	if last != (sentNotification{message: "Erreur de connexion à l'API", kind: domain.NotificationError}) {
		t.Errorf("unexpected notification %+v", last)
	}
}

func TestRefresh_StaleResponseDropped(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32

	store := &mockStore{}
	store.listAppointmentsFn = func(ctx context.Context) ([]domain.Appointment, error) {
		if calls.Add(1) == 1 {
			close(entered)
			<-release
			return []domain.Appointment{appointment(1, domain.AppointmentStatusPending, "2024-01-10T09:00")}, nil
		}
		return []domain.Appointment{appointment(2, domain.AppointmentStatusConfirmed, "2024-01-11T09:00")}, nil
	}

	coordinator := NewRefreshCoordinator(store, &mockNotifier{}, out.NopLogger{}, nil)

	done := make(chan error, 1)
	go func() {
		done <- coordinator.Refresh(context.Background())
	}()

	<-entered
	if !coordinator.Loading() {
		t.Error("loading should be true while a refresh is in flight")
	}

	if err := coordinator.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("unexpected error from stale refresh: %v", err)
	}

	snapshot := coordinator.Snapshot()
	if snapshot.Generation != 2 {
		t.Errorf("generation = %d, want 2", snapshot.Generation)
	}
	if got := ids(snapshot.Appointments); !slices.Equal(got, []int64{2}) {
		t.Errorf("stale response overwrote newer data: %v", got)
	}
	if coordinator.Loading() {
		t.Error("loading should be false once all refreshes finished")
	}
}

func TestRefresh_EmptyCollectionsAreNonNil(t *testing.T) {
	coordinator := NewRefreshCoordinator(&mockStore{}, &mockNotifier{}, out.NopLogger{}, nil)

	if err := coordinator.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snapshot := coordinator.Snapshot()
	if snapshot.Appointments == nil || snapshot.Patients == nil || snapshot.Practitioners == nil {
		t.Errorf("expected empty non-nil collections, got %+v", snapshot)
	}
}
