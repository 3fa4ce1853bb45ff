package salary

import "context"

type SalaryService interface {
	CreateSalary(ctx context.Context, req CreateSalaryRequest) (SalaryResponse, error)
	GetSalary(ctx context.Context, id string) (SalaryResponse, error)
	ListSalaries(ctx context.Context, filter SalaryFilter) (ListSalaryResponse, error)
	UpdateSalary(ctx context.Context, req UpdateSalaryRequest) (SalaryResponse, error)
	DeleteSalary(ctx context.Context, id string) error
	GetSalaryItems(ctx context.Context, id string) ([]SalaryItemResponse, error)

	// Lifecycle
	CalculateSalary(ctx context.Context, id string) (SalaryResponse, error)
	ApproveSalary(ctx context.Context, id string, approverID string, notes *string) (SalaryResponse, error)
	PaySalary(ctx context.Context, id string, payerID string) (SalaryResponse, error)
	CancelSalary(ctx context.Context, id string, reason *string) (SalaryResponse, error)
	ReopenSalary(ctx context.Context, id string) (SalaryResponse, error)
}
