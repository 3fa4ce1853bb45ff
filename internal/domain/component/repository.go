package component

import "context"

type ComponentRepository interface {
	Create(ctx context.Context, component SalaryComponent) (SalaryComponent, error)
	GetByID(ctx context.Context, id string) (SalaryComponent, error)
	// List returns components ordered by type, then name.
	List(ctx context.Context, activeOnly bool) ([]SalaryComponent, error)
	Update(ctx context.Context, component SalaryComponent) (SalaryComponent, error)
}
