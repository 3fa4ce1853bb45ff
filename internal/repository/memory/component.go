package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/salary-engine/internal/domain/component"
	"github.com/google/uuid"
)

type componentRepository struct {
	store *Store
}

func NewComponentRepository(store *Store) component.ComponentRepository {
	return &componentRepository{store: store}
}

func (r *componentRepository) Create(ctx context.Context, c component.SalaryComponent) (component.SalaryComponent, error) {
	defer r.store.lockWrite(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.components {
		if existing.Code == c.Code {
			return component.SalaryComponent{}, component.ErrComponentCodeExists
		}
	}

	now := clock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	r.store.components[c.ID] = c
	return c, nil
}

func (r *componentRepository) GetByID(_ context.Context, id string) (component.SalaryComponent, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.components[id]
	if !ok {
		return component.SalaryComponent{}, component.ErrComponentNotFound
	}
	return c, nil
}

func (r *componentRepository) List(_ context.Context, activeOnly bool) ([]component.SalaryComponent, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var components []component.SalaryComponent
	for _, c := range r.store.components {
		if activeOnly && !c.IsActive {
			continue
		}
		components = append(components, c)
	}
	sort.Slice(components, func(i, j int) bool {
		if components[i].Type != components[j].Type {
			return components[i].Type < components[j].Type
		}
		if components[i].Name != components[j].Name {
			return components[i].Name < components[j].Name
		}
		return components[i].ID < components[j].ID
	})
	return components, nil
}

func (r *componentRepository) Update(ctx context.Context, c component.SalaryComponent) (component.SalaryComponent, error) {
	defer r.store.lockWrite(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.components[c.ID]
	if !ok {
		return component.SalaryComponent{}, component.ErrComponentNotFound
	}
	for id, other := range r.store.components {
		if id != c.ID && other.Code == c.Code {
			return component.SalaryComponent{}, component.ErrComponentCodeExists
		}
	}
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = clock()
	r.store.components[c.ID] = c
	return c, nil
}
