package employee

import "context"

// Directory is the external employee directory. The salary engine never writes to it.
type Directory interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]Employee, error)
}
