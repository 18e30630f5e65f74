package out

import "github.com/suchimauz/appointment-board/internal/core/domain"

type NotifierPort interface {
	Notify(message string, kind domain.NotificationKind)
}
