package domain

type QuickFilter string

const (
	QuickFilterAll       QuickFilter = "all"
	QuickFilterPending   QuickFilter = QuickFilter(AppointmentStatusPending)
	QuickFilterConfirmed QuickFilter = QuickFilter(AppointmentStatusConfirmed)
	QuickFilterCancelled QuickFilter = QuickFilter(AppointmentStatusCancelled)
)

// ParseQuickFilter принимает "all"/"tous", коды хранилища и внутренние имена статусов
func ParseQuickFilter(raw string) (QuickFilter, bool) {
	if raw == "" || raw == string(QuickFilterAll) || raw == "tous" {
		return QuickFilterAll, true
	}
	status, err := ParseAppointmentStatus(raw)
	if err != nil {
		return "", false
	}
	return QuickFilter(status), true
}

type Criteria struct {
	PatientText      string            `json:"patient"`
	PractitionerText string            `json:"practitioner"`
	StatusFilter     AppointmentStatus `json:"status,omitempty"`
	QuickFilter      QuickFilter       `json:"filter"`
}

type SortField string

const (
	SortFieldScheduledAt     SortField = "scheduledAt"
	SortFieldStatus          SortField = "status"
	SortFieldID              SortField = "id"
	SortFieldPatientKey      SortField = "patientKey"
	SortFieldPractitionerKey SortField = "practitionerKey"
	SortFieldParentID        SortField = "parentId"
)

var sortFieldAliases = map[string]SortField{
	"scheduledAt":     SortFieldScheduledAt,
	"dateHeure":       SortFieldScheduledAt,
	"status":          SortFieldStatus,
	"statut":          SortFieldStatus,
	"id":              SortFieldID,
	"idRdv":           SortFieldID,
	"patientKey":      SortFieldPatientKey,
	"cinPatient":      SortFieldPatientKey,
	"practitionerKey": SortFieldPractitionerKey,
	"cinPraticien":    SortFieldPractitionerKey,
	"parentId":        SortFieldParentID,
	"idRdvParent":     SortFieldParentID,
}

func ParseSortField(raw string) (SortField, bool) {
	field, ok := sortFieldAliases[raw]
	return field, ok
}

type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

func (d SortDirection) Toggle() SortDirection {
	if d == SortAscending {
		return SortDescending
	}
	return SortAscending
}

type Sort struct {
	Field     SortField     `json:"field"`
	Direction SortDirection `json:"direction"`
}

func DefaultSort() Sort {
	return Sort{Field: SortFieldScheduledAt, Direction: SortAscending}
}

// ViewState не сохраняется между сессиями
type ViewState struct {
	Criteria Criteria `json:"criteria"`
	Sort     Sort     `json:"sort"`
	Page     int      `json:"page"`
}

func DefaultViewState() ViewState {
	return ViewState{
		Criteria: Criteria{QuickFilter: QuickFilterAll},
		Sort:     DefaultSort(),
		Page:     1,
	}
}

type StatusCounts struct {
	All       int `json:"all"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Cancelled int `json:"cancelled"`
}

type Page[T any] struct {
	Items      []T `json:"items"`
	TotalPages int `json:"totalPages"`
	Page       int `json:"page"`
}

type BoardRow struct {
	Appointment
	PatientName      string `json:"patientName"`
	PractitionerName string `json:"practitionerName"`
}

type BoardView struct {
	Rows       []BoardRow   `json:"rows"`
	Total      int          `json:"total"`
	TotalPages int          `json:"totalPages"`
	Page       int          `json:"page"`
	PageSize   int          `json:"pageSize"`
	Counts     StatusCounts `json:"counts"`
	State      ViewState    `json:"state"`
	Loading    bool         `json:"loading"`
	Generation uint64       `json:"generation"`
}

// ExportRow передается адаптеру экспорта
type ExportRow struct {
	ID                      int64  `json:"id"`
	PatientDisplayName      string `json:"patient"`
	PractitionerDisplayName string `json:"practitioner"`
	FormattedDateTime       string `json:"date"`
	LocalizedStatus         string `json:"status"`
	ParentIDOrDash          string `json:"parent"`
}
