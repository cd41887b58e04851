package social

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/npezzotti/campus-connect/internal/database"
	"github.com/npezzotti/campus-connect/internal/notify"
	"go.uber.org/zap"
)

// Service holds the campus domain operations. Every mutation is a
// read-modify-write of a single document; there is no optimistic
// concurrency, so concurrent writes to the same document are last-write-wins.
type Service struct {
	db       database.CampusRepository
	notifier notify.Notifier
	log      *zap.Logger
	validate *validator.Validate
	now      func() time.Time
	hashCost int
}

func NewService(db database.CampusRepository, notifier notify.Notifier, logger *zap.Logger) *Service {
	return &Service{
		db:       db,
		notifier: notifier,
		log:      logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      func() time.Time { return time.Now().UTC() },
		hashCost: 12,
	}
}

// SetClock replaces the time source used for quota windows.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// check runs struct validation and reports the first failing field as an
// ErrValidation.
func (s *Service) check(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return validationErr("%v", err)
	}

	fe := fieldErrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return validationErr("%s is required", field)
	case "email":
		return validationErr("%s must be a valid email address", field)
	case "min":
		return validationErr("%s must be at least %s characters", field, fe.Param())
	case "max":
		return validationErr("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return validationErr("%s must be one of: %s", field, fe.Param())
	default:
		return validationErr("%s is invalid", field)
	}
}

// normalizeTags trims interest tags and drops blanks and repeats.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
	}
	return out
}
