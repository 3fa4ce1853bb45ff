package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/salary-engine/internal/domain/component"
	"github.com/cmlabs-hris/salary-engine/internal/domain/employee"
	"github.com/cmlabs-hris/salary-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/salary-engine/internal/domain/ratesetting"
	"github.com/cmlabs-hris/salary-engine/internal/domain/salary"
	"github.com/cmlabs-hris/salary-engine/internal/pkg/period"
	"github.com/cmlabs-hris/salary-engine/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var salaryTransition *salary.TransitionError
	if errors.As(err, &salaryTransition) {
		Conflict(w, salaryTransition.Error(), map[string]string{
			"action": string(salaryTransition.Action),
			"status": string(salaryTransition.Status),
		})
		return
	}

	var payrollTransition *payroll.TransitionError
	if errors.As(err, &payrollTransition) {
		Conflict(w, payrollTransition.Error(), map[string]string{
			"action": string(payrollTransition.Action),
			"status": string(payrollTransition.Status),
		})
		return
	}

	switch {
	// Salary domain errors
	case errors.Is(err, salary.ErrSalaryNotFound):
		NotFound(w, "Salary not found")
	case errors.Is(err, salary.ErrSalaryAlreadyExists):
		Conflict(w, "Salary already exists for this employee and period", nil)
	case errors.Is(err, salary.ErrSalaryNumberExists):
		Conflict(w, "Salary number already in use, retry the request", nil)
	case errors.Is(err, salary.ErrInvalidTransition):
		Conflict(w, err.Error(), nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollNotFound):
		NotFound(w, "Payroll not found")
	case errors.Is(err, payroll.ErrPayrollAlreadyExists):
		Conflict(w, "Payroll already exists for this period", nil)
	case errors.Is(err, payroll.ErrPayrollNumberExists):
		Conflict(w, "Payroll number already in use, retry the request", nil)
	case errors.Is(err, payroll.ErrInvalidTransition):
		Conflict(w, err.Error(), nil)
	case errors.Is(err, payroll.ErrNothingToCalculate):
		UnprocessableEntity(w, "NOTHING_TO_CALCULATE", "No salary records exist for this payroll period")

	// Employee directory errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeInactive):
		UnprocessableEntity(w, "EMPLOYEE_INACTIVE", "Employee is not active")

	// Component catalog errors
	case errors.Is(err, component.ErrComponentNotFound):
		NotFound(w, "Salary component not found")
	case errors.Is(err, component.ErrComponentCodeExists):
		Conflict(w, "Salary component code already exists", nil)
	case errors.Is(err, component.ErrComponentAlreadyInactive):
		Conflict(w, "Salary component already inactive", nil)

	// Rate settings errors
	case errors.Is(err, ratesetting.ErrRateSettingNotFound):
		NotFound(w, "Rate setting not found")
	case errors.Is(err, ratesetting.ErrInvalidRateKey):
		ValidationError(w, map[string]string{"key": err.Error()})

	case errors.Is(err, period.ErrInvalidPeriod):
		ValidationError(w, map[string]string{"period": err.Error()})

	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
