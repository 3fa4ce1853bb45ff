package component

import "context"

type ComponentService interface {
	CreateComponent(ctx context.Context, req CreateComponentRequest) (ComponentResponse, error)
	GetComponent(ctx context.Context, id string) (ComponentResponse, error)
	ListComponents(ctx context.Context, activeOnly bool) ([]ComponentResponse, error)
	UpdateComponent(ctx context.Context, req UpdateComponentRequest) (ComponentResponse, error)
	DeactivateComponent(ctx context.Context, id string) error
	// ActiveComponents returns the catalog snapshot used by salary calculation.
	ActiveComponents(ctx context.Context) ([]SalaryComponent, error)
	// SeedDefaults creates the given components whose codes are not in the catalog yet.
	SeedDefaults(ctx context.Context, defaults []SalaryComponent) (int, error)
}
