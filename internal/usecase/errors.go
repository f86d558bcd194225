package usecase

import (
	"errors"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// ValidationError rejeita a requisição antes de qualquer I/O.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func IsValidationError(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}

// StoreWriteError means the stage write failed or was not acknowledged.
// The board has already been rolled back when this is returned.
type StoreWriteError struct {
	ProspectID string
	Stage      entity.Stage
	Err        error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("store write failed for prospect %s (stage %s): %v", e.ProspectID, e.Stage, e.Err)
}

func (e *StoreWriteError) Unwrap() error {
	return e.Err
}

func IsStoreWriteError(err error) bool {
	var s *StoreWriteError
	return errors.As(err, &s)
}

// DispatchError keeps the message text so the caller can offer a manual retry.
type DispatchError struct {
	ProspectID string
	Message    string
	Err        error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch to prospect %s failed: %v", e.ProspectID, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

func IsDispatchError(err error) bool {
	var d *DispatchError
	return errors.As(err, &d)
}

// LookupError is non-fatal: callers substitute a placeholder.
type LookupError struct {
	Kind string
	ID   string
	Err  error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s %q not resolved: %v", e.Kind, e.ID, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}
