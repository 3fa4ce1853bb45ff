package payroll

import (
	"context"
	"time"

	"github.com/cmlabs-hris/salary-engine/internal/domain/salary"
)

type PayrollService interface {
	CreatePayroll(ctx context.Context, req CreatePayrollRequest) (PayrollResponse, error)
	GetPayroll(ctx context.Context, id string) (PayrollResponse, error)
	ListPayrolls(ctx context.Context, filter PayrollFilter) (ListPayrollResponse, error)
	ListPayrollSalaries(ctx context.Context, id string) ([]salary.SalaryResponse, error)

	// Lifecycle
	CalculatePayroll(ctx context.Context, id string) (PayrollResponse, error)
	ApprovePayroll(ctx context.Context, id string, approverID string, notes *string) (PayrollResponse, error)
	PayPayroll(ctx context.Context, id string, payerID string) (PayrollResponse, error)
	CancelPayroll(ctx context.Context, id string, reason *string) (PayrollResponse, error)
	// CalculateDuePayrolls calculates draft payrolls whose period ended before asOf.
	CalculateDuePayrolls(ctx context.Context, asOf time.Time) (int, error)
}
