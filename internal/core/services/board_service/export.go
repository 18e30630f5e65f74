package board_service

import (
	"github.com/samber/lo"
	"github.com/suchimauz/appointment-board/internal/core/domain"
	"github.com/suchimauz/appointment-board/internal/utils"
)

// BuildExportRows готовит строки для адаптера экспорта из отфильтрованного и отсортированного набора
func BuildExportRows(appointments []domain.Appointment, lookup Lookup) []domain.ExportRow {
	return lo.Map(appointments, func(a domain.Appointment, _ int) domain.ExportRow {
		parent := a.ParentID.String()
		if parent == "" {
			parent = "-"
		}

		return domain.ExportRow{
			ID:                      a.ID,
			PatientDisplayName:      lookup.PatientName(a.PatientKey),
			PractitionerDisplayName: lookup.PractitionerName(a.PractitionerKey),
			FormattedDateTime:       utils.FormatDisplay(a.ScheduledAt.Date),
			LocalizedStatus:         a.Status.Label(),
			ParentIDOrDash:          parent,
		}
	})
}

func buildRows(appointments []domain.Appointment, lookup Lookup) []domain.BoardRow {
	return lo.Map(appointments, func(a domain.Appointment, _ int) domain.BoardRow {
		return domain.BoardRow{
			Appointment:      a,
			PatientName:      lookup.PatientName(a.PatientKey),
			PractitionerName: lookup.PractitionerName(a.PractitionerKey),
		}
	})
}
