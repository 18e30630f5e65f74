package board_service

import "errors"

var (
	ErrValidation   = errors.New("validation failed")
	ErrFormClosed   = errors.New("form is not open")
	ErrNotFound     = errors.New("appointment not found")
	ErrNotConfirmed = errors.New("deletion not confirmed")
)

// Черновик не прошел локальную проверку, в хранилище ничего не отправлялось
type ValidationError struct {
	Reason string
}

func invalid(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": " + e.Reason
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
