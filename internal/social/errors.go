package social

import (
	"errors"
	"fmt"

	"github.com/npezzotti/campus-connect/internal/database"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrSelfReference      = errors.New("cannot act on yourself")
	ErrDuplicateAction    = errors.New("already done")
	ErrQuotaExceeded      = errors.New("weekly limit reached")
	ErrForbidden          = errors.New("forbidden")
	ErrNotMember          = errors.New("not a member")
	ErrValidation         = errors.New("invalid input")
	ErrStore              = errors.New("store failure")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnverified         = errors.New("email not verified")
)

// storeErr translates a repository error for the named operation.
func storeErr(op string, err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStore, err)
}

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
