package domain

type FormMode string

const (
	FormModeCreate FormMode = "create"
	FormModeEdit   FormMode = "edit"
)

// ScheduledAt хранится в формате datetime-local ("2006-01-02T15:04").
type Draft struct {
	ID              int64             `json:"idRdv,omitempty"`
	PatientKey      string            `json:"cinPatient" validate:"required"`
	PractitionerKey string            `json:"cinPraticien" validate:"required"`
	ScheduledAt     string            `json:"dateHeure" validate:"required"`
	Status          AppointmentStatus `json:"statut"`
	ParentID        string            `json:"idRdvParent" validate:"omitempty,numeric"`
}

func NewDraft() Draft {
	return Draft{Status: AppointmentStatusPending}
}

type FormState struct {
	Visible bool     `json:"visible"`
	Mode    FormMode `json:"mode,omitempty"`
	Draft   Draft    `json:"draft"`
}
