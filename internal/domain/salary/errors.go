package salary

import (
	"errors"
	"fmt"

	"github.com/cmlabs-hris/salary-engine/internal/pkg/lifecycle"
)

var (
	ErrSalaryNotFound      = errors.New("salary not found")
	ErrSalaryAlreadyExists = errors.New("salary already exists for this employee and period")
	ErrSalaryNumberExists  = errors.New("salary number already in use")
	ErrInvalidTransition   = errors.New("salary status does not allow this operation")
	ErrInvalidStatus       = errors.New("invalid salary status")
)

// TransitionError is returned when an action is not allowed from the current status.
type TransitionError struct {
	Action lifecycle.Action
	Status SalaryStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s salary in status %q", e.Action, e.Status)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
