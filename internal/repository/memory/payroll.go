package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/salary-engine/internal/domain/payroll"
	"github.com/google/uuid"
)

type payrollRepository struct {
	store *Store
}

func NewPayrollRepository(store *Store) payroll.PayrollRepository {
	return &payrollRepository{store: store}
}

func (r *payrollRepository) Create(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	defer r.store.lockWrite(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.payrolls {
		if existing.Period == p.Period && existing.Status != payroll.PayrollStatusCancelled {
			return payroll.Payroll{}, payroll.ErrPayrollAlreadyExists
		}
		if p.PayrollNumber != "" && existing.PayrollNumber == p.PayrollNumber {
			return payroll.Payroll{}, payroll.ErrPayrollNumberExists
		}
	}

	now := clock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	r.store.payrolls[p.ID] = p
	return p, nil
}

func (r *payrollRepository) GetByID(_ context.Context, id string) (payroll.Payroll, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.payrolls[id]
	if !ok {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	return p, nil
}

// GetByIDForUpdate relies on the transaction manager for exclusion.
func (r *payrollRepository) GetByIDForUpdate(ctx context.Context, id string) (payroll.Payroll, error) {
	return r.GetByID(ctx, id)
}

func (r *payrollRepository) List(_ context.Context, filter payroll.PayrollFilter) ([]payroll.Payroll, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var matched []payroll.Payroll
	for _, p := range r.store.payrolls {
		if filter.Period != nil && p.Period != *filter.Period {
			continue
		}
		if filter.Status != nil && string(p.Status) != *filter.Status {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Period != matched[j].Period {
			return matched[i].Period > matched[j].Period
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if filter.Limit > 0 {
		offset := (filter.Page - 1) * filter.Limit
		if offset < 0 {
			offset = 0
		}
		if offset >= len(matched) {
			return []payroll.Payroll{}, total, nil
		}
		end := offset + filter.Limit
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[offset:end]
	}
	return matched, total, nil
}

func (r *payrollRepository) Update(ctx context.Context, p payroll.Payroll) error {
	defer r.store.lockWrite(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.payrolls[p.ID]
	if !ok {
		return payroll.ErrPayrollNotFound
	}
	p.CreatedAt = existing.CreatedAt
	r.store.payrolls[p.ID] = p
	return nil
}
