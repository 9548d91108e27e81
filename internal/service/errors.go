package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/markkent-max/schedease/internal/dto"
	pkgerrors "github.com/markkent-max/schedease/pkg/errors"
)

// ── not found ──

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrRoomNotFound       = errors.New("room not found")
	ErrInstructorNotFound = errors.New("instructor not found")
	ErrStudentNotFound    = errors.New("student not found")
	ErrScheduleNotFound   = errors.New("schedule not found")
	ErrRequestNotFound    = errors.New("schedule request not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
)

// ── conflicts of state ──

var (
	ErrDuplicateEnrollment    = errors.New("student is already enrolled in this schedule")
	ErrDuplicateCourseCode    = errors.New("course code already exists")
	ErrDuplicateEmail         = errors.New("email already in use")
	ErrDuplicateStudentNumber = errors.New("student number already exists")
	ErrDuplicateProfile       = errors.New("user already has a profile of this kind")
	ErrConcurrentModification = errors.New("record was modified concurrently, retry")
	ErrResourceBusy           = errors.New("room or instructor is being scheduled by another request, retry")
	ErrInvalidTransition      = errors.New("invalid request status transition")
	ErrScheduleCanceled       = errors.New("schedule is canceled")
	ErrRoleMismatch           = errors.New("user role does not match the profile")
	ErrNothingToExport        = errors.New("no schedules for this term")
	ErrExportGenerateFail     = errors.New("failed to generate spreadsheet")
)

// ValidationError a request failed field validation before any write.
type ValidationError struct {
	Fields  []dto.FieldErrorResponse
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s failed %s", f.Field, f.Rule))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func invalid(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func fromValidator(err error) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return &ValidationError{Message: err.Error()}
	}
	out := &ValidationError{}
	for _, fe := range ves {
		out.Fields = append(out.Fields, dto.FieldErrorResponse{
			Field: fe.Field(),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}

// ConflictError blocks an approval. Conflicts is the list persisted on the request.
type ConflictError struct {
	RequestID string
	Conflicts []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("request %s has %d unresolved conflict(s)", e.RequestID, len(e.Conflicts))
}

// notFound maps gorm.ErrRecordNotFound to sentinel and passes anything else through.
func notFound(err error, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

// storeWriteError maps optimistic lock failures.
func storeWriteError(err error) error {
	if errors.Is(err, pkgerrors.ErrOptimisticLock) {
		return fmt.Errorf("%w: %w", ErrConcurrentModification, err)
	}
	if errors.Is(err, pkgerrors.ErrLockBusy) {
		return fmt.Errorf("%w: %w", ErrResourceBusy, err)
	}
	return err
}
