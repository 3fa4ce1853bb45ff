package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/cmlabs-hris/salary-engine/internal/domain/salary"
	"github.com/google/uuid"
)

type salaryRepository struct {
	store *Store
}

func NewSalaryRepository(store *Store) salary.SalaryRepository {
	return &salaryRepository{store: store}
}

func (r *salaryRepository) Create(ctx context.Context, s salary.Salary) (salary.Salary, error) {
	defer r.store.lockWrite(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.salaries {
		if existing.EmployeeID == s.EmployeeID && existing.Period == s.Period && existing.Status != salary.SalaryStatusCancelled {
			return salary.Salary{}, salary.ErrSalaryAlreadyExists
		}
		if s.SalaryNumber != "" && existing.SalaryNumber == s.SalaryNumber {
			return salary.Salary{}, salary.ErrSalaryNumberExists
		}
	}

	now := clock()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.CreatedAt = now
	s.UpdatedAt = now
	r.store.salaries[s.ID] = s
	return s, nil
}

func (r *salaryRepository) GetByID(_ context.Context, id string) (salary.Salary, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	s, ok := r.store.salaries[id]
	if !ok {
		return salary.Salary{}, salary.ErrSalaryNotFound
	}
	r.joinEmployee(&s)
	return s, nil
}

// GetByIDForUpdate relies on the transaction manager for exclusion.
func (r *salaryRepository) GetByIDForUpdate(ctx context.Context, id string) (salary.Salary, error) {
	return r.GetByID(ctx, id)
}

func (r *salaryRepository) List(_ context.Context, filter salary.SalaryFilter) ([]salary.Salary, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var matched []salary.Salary
	for _, s := range r.store.salaries {
		if filter.Period != nil && s.Period != *filter.Period {
			continue
		}
		if filter.Status != nil && string(s.Status) != *filter.Status {
			continue
		}
		if filter.EmployeeID != nil && s.EmployeeID != *filter.EmployeeID {
			continue
		}
		r.joinEmployee(&s)
		matched = append(matched, s)
	}

	less := salaryLess(filter.SortBy)
	desc := !strings.EqualFold(filter.SortOrder, "asc")
	sort.Slice(matched, func(i, j int) bool {
		if desc {
			return less(matched[j], matched[i])
		}
		return less(matched[i], matched[j])
	})

	total := int64(len(matched))
	if filter.Limit > 0 {
		offset := (filter.Page - 1) * filter.Limit
		if offset < 0 {
			offset = 0
		}
		if offset >= len(matched) {
			return []salary.Salary{}, total, nil
		}
		end := offset + filter.Limit
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[offset:end]
	}
	return matched, total, nil
}

func salaryLess(sortBy string) func(a, b salary.Salary) bool {
	switch sortBy {
	case "period":
		return func(a, b salary.Salary) bool {
			if a.Period != b.Period {
				return a.Period < b.Period
			}
			return a.SalaryNumber < b.SalaryNumber
		}
	case "net_salary":
		return func(a, b salary.Salary) bool {
			if !a.NetSalary.Equal(b.NetSalary) {
				return a.NetSalary.LessThan(b.NetSalary)
			}
			return a.SalaryNumber < b.SalaryNumber
		}
	case "salary_number":
		return func(a, b salary.Salary) bool { return a.SalaryNumber < b.SalaryNumber }
	default:
		return func(a, b salary.Salary) bool {
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.SalaryNumber < b.SalaryNumber
		}
	}
}

func (r *salaryRepository) ListByPeriod(_ context.Context, period string) ([]salary.Salary, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var salaries []salary.Salary
	for _, s := range r.store.salaries {
		if s.Period == period {
			r.joinEmployee(&s)
			salaries = append(salaries, s)
		}
	}
	sort.Slice(salaries, func(i, j int) bool { return salaries[i].SalaryNumber < salaries[j].SalaryNumber })
	return salaries, nil
}

func (r *salaryRepository) Update(ctx context.Context, s salary.Salary) error {
	defer r.store.lockWrite(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.salaries[s.ID]
	if !ok {
		return salary.ErrSalaryNotFound
	}
	s.CreatedAt = existing.CreatedAt
	s.EmployeeName = nil
	s.EmployeeCode = nil
	r.store.salaries[s.ID] = s
	return nil
}

func (r *salaryRepository) Delete(ctx context.Context, id string) error {
	defer r.store.lockWrite(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.salaries[id]; !ok {
		return salary.ErrSalaryNotFound
	}
	delete(r.store.salaries, id)
	delete(r.store.items, id)
	return nil
}

func (r *salaryRepository) ReplaceItems(ctx context.Context, salaryID string, items []salary.SalaryItem) ([]salary.SalaryItem, error) {
	defer r.store.lockWrite(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.salaries[salaryID]; !ok {
		return nil, salary.ErrSalaryNotFound
	}

	saved := make([]salary.SalaryItem, 0, len(items))
	for i, item := range items {
		item.ID = uuid.NewString()
		item.SalaryID = salaryID
		item.Position = i
		saved = append(saved, item)
	}
	r.store.items[salaryID] = saved
	return append([]salary.SalaryItem(nil), saved...), nil
}

func (r *salaryRepository) GetItems(_ context.Context, salaryID string) ([]salary.SalaryItem, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return append([]salary.SalaryItem(nil), r.store.items[salaryID]...), nil
}

// joinEmployee mirrors the employees join the SQL repository performs. Caller holds the lock.
func (r *salaryRepository) joinEmployee(s *salary.Salary) {
	if e, ok := r.store.employees[s.EmployeeID]; ok {
		name, code := e.FullName, e.EmployeeCode
		s.EmployeeName = &name
		s.EmployeeCode = &code
	}
}
