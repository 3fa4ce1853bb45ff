package salary

import "context"

type SalaryRepository interface {
	Create(ctx context.Context, salary Salary) (Salary, error)
	GetByID(ctx context.Context, id string) (Salary, error)
	// GetByIDForUpdate locks the row for the surrounding transaction.
	GetByIDForUpdate(ctx context.Context, id string) (Salary, error)
	List(ctx context.Context, filter SalaryFilter) ([]Salary, int64, error)
	// ListByPeriod returns every salary of the period regardless of status.
	ListByPeriod(ctx context.Context, period string) ([]Salary, error)
	// Update writes the whole row, status and derived totals included, in one statement.
	Update(ctx context.Context, salary Salary) error
	Delete(ctx context.Context, id string) error

	// ReplaceItems deletes every item of the salary and inserts the given set.
	ReplaceItems(ctx context.Context, salaryID string, items []SalaryItem) ([]SalaryItem, error)
	GetItems(ctx context.Context, salaryID string) ([]SalaryItem, error)
}
