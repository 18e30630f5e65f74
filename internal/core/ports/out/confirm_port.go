package out

import "context"

// Подтверждение пользователя перед удалением, false означает отказ
type ConfirmPort interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

type ConfirmFunc func(ctx context.Context, message string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, message string) (bool, error) {
	return f(ctx, message)
}
