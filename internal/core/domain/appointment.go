package domain

import (
	"encoding/json"
	"fmt"

	"github.com/suchimauz/appointment-board/internal/core/json_types"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Коды статусов в хранилище
var appointmentStatusWireCodes = map[AppointmentStatus]string{
	AppointmentStatusPending:   "en_attente",
	AppointmentStatusConfirmed: "confirme",
	AppointmentStatusCancelled: "annule",
}

var appointmentStatusLabels = map[AppointmentStatus]string{
	AppointmentStatusPending:   "En attente",
	AppointmentStatusConfirmed: "Confirmé",
	AppointmentStatusCancelled: "Annulé",
}

// AppointmentStatuses перечисляет статусы в порядке отображения фильтров
var AppointmentStatuses = []AppointmentStatus{
	AppointmentStatusPending,
	AppointmentStatusConfirmed,
	AppointmentStatusCancelled,
}

func (s AppointmentStatus) IsValid() bool {
	_, ok := appointmentStatusWireCodes[s]
	return ok
}

func (s AppointmentStatus) WireCode() string {
	return appointmentStatusWireCodes[s]
}

// Label возвращает локализованное название, неизвестные статусы считаются ожидающими
func (s AppointmentStatus) Label() string {
	if label, ok := appointmentStatusLabels[s]; ok {
		return label
	}
	return appointmentStatusLabels[AppointmentStatusPending]
}

// ParseAppointmentStatus принимает как код хранилища, так и внутреннее имя статуса
func ParseAppointmentStatus(raw string) (AppointmentStatus, error) {
	for status, code := range appointmentStatusWireCodes {
		if raw == code || raw == string(status) {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown appointment status %q", raw)
}

func (s AppointmentStatus) MarshalJSON() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("unknown appointment status %q", string(s))
	}
	return json.Marshal(s.WireCode())
}

func (s *AppointmentStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("appointment status must be a string: %w", err)
	}

	status, err := ParseAppointmentStatus(raw)
	if err != nil {
		return err
	}

	*s = status
	return nil
}

type Appointment struct {
	ID              int64                 `json:"idRdv,omitempty"`
	PatientKey      string                `json:"cinPatient"`
	PractitionerKey string                `json:"cinPraticien"`
	ScheduledAt     json_types.DateTime   `json:"dateHeure"`
	Status          AppointmentStatus     `json:"statut"`
	ParentID        json_types.OptionalID `json:"idRdvParent"`
}
