package payroll

import "context"

type PayrollRepository interface {
	Create(ctx context.Context, payroll Payroll) (Payroll, error)
	GetByID(ctx context.Context, id string) (Payroll, error)
	// GetByIDForUpdate locks the row for the surrounding transaction.
	GetByIDForUpdate(ctx context.Context, id string) (Payroll, error)
	List(ctx context.Context, filter PayrollFilter) ([]Payroll, int64, error)
	Update(ctx context.Context, payroll Payroll) error
}
