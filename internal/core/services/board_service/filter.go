package board_service

import (
	"cmp"
	"slices"
	"strings"

	"github.com/suchimauz/appointment-board/internal/core/domain"
)

// Matches проверяет запись по всем активным условиям (логическое И)
func Matches(appointment domain.Appointment, criteria domain.Criteria, lookup Lookup) bool {
	patientText := strings.ToLower(criteria.PatientText)
	if patientText != "" && !strings.Contains(strings.ToLower(lookup.PatientName(appointment.PatientKey)), patientText) {
		return false
	}

	practitionerText := strings.ToLower(criteria.PractitionerText)
	if practitionerText != "" && !strings.Contains(strings.ToLower(lookup.PractitionerName(appointment.PractitionerKey)), practitionerText) {
		return false
	}

	if criteria.StatusFilter != "" && appointment.Status != criteria.StatusFilter {
		return false
	}

	if criteria.QuickFilter != "" && criteria.QuickFilter != domain.QuickFilterAll &&
		appointment.Status != domain.AppointmentStatus(criteria.QuickFilter) {
		return false
	}

	return true
}

// Apply фильтрует и сортирует записи, входной слайс не изменяется.
// Сортировка стабильная в обоих направлениях: записи с равными ключами сохраняют входной порядок.
func Apply(appointments []domain.Appointment, criteria domain.Criteria, sort domain.Sort, lookup Lookup) []domain.Appointment {
	result := make([]domain.Appointment, 0, len(appointments))
	for _, appointment := range appointments {
		if Matches(appointment, criteria, lookup) {
			result = append(result, appointment)
		}
	}

	slices.SortStableFunc(result, func(a, b domain.Appointment) int {
		c := compareByField(a, b, sort.Field)
		if sort.Direction == domain.SortDescending {
			return -c
		}
		return c
	})

	return result
}

func compareByField(a, b domain.Appointment, field domain.SortField) int {
	switch field {
	case domain.SortFieldStatus:
		return cmp.Compare(string(a.Status), string(b.Status))
	case domain.SortFieldID:
		return cmp.Compare(a.ID, b.ID)
	case domain.SortFieldPatientKey:
		return cmp.Compare(a.PatientKey, b.PatientKey)
	case domain.SortFieldPractitionerKey:
		return cmp.Compare(a.PractitionerKey, b.PractitionerKey)
	case domain.SortFieldParentID:
		// Записи без родителя идут первыми
		if a.ParentID.Valid != b.ParentID.Valid {
			if !a.ParentID.Valid {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.ParentID.ID, b.ParentID.ID)
	default:
		return a.ScheduledAt.Date.Compare(b.ScheduledAt.Date)
	}
}

// ToggleSort: повторный выбор поля меняет направление, новое поле сортируется по возрастанию
func ToggleSort(current domain.Sort, field domain.SortField) domain.Sort {
	if current.Field == field {
		return domain.Sort{Field: field, Direction: current.Direction.Toggle()}
	}
	return domain.Sort{Field: field, Direction: domain.SortAscending}
}
