package board_service

import (
	"github.com/samber/lo"
	"github.com/suchimauz/appointment-board/internal/core/domain"
)

// CountByStatus считается только по полному набору записей, фильтры и страница на него не влияют
func CountByStatus(appointments []domain.Appointment) domain.StatusCounts {
	byStatus := lo.CountValuesBy(appointments, func(a domain.Appointment) domain.AppointmentStatus {
		return a.Status
	})

	return domain.StatusCounts{
		All:       len(appointments),
		Pending:   byStatus[domain.AppointmentStatusPending],
		Confirmed: byStatus[domain.AppointmentStatusConfirmed],
		Cancelled: byStatus[domain.AppointmentStatusCancelled],
	}
}
