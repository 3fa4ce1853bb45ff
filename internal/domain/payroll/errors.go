package payroll

import (
	"errors"
	"fmt"

	"github.com/cmlabs-hris/salary-engine/internal/pkg/lifecycle"
)

var (
	ErrPayrollNotFound      = errors.New("payroll not found")
	ErrPayrollAlreadyExists = errors.New("payroll already exists for this period")
	ErrPayrollNumberExists  = errors.New("payroll number already in use")
	ErrInvalidTransition    = errors.New("payroll status does not allow this operation")
	ErrNothingToCalculate   = errors.New("no salary records exist for this payroll period")
	ErrInvalidStatus        = errors.New("invalid payroll status")
)

// TransitionError is returned when an action is not allowed from the current status.
type TransitionError struct {
	Action lifecycle.Action
	Status PayrollStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s payroll in status %q", e.Action, e.Status)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
