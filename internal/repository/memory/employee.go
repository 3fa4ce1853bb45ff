package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/cmlabs-hris/salary-engine/internal/domain/employee"
	"github.com/shopspring/decimal"
)

// EmployeeDirectory is a read-only directory over seeded employees.
type EmployeeDirectory struct {
	store *Store
}

func NewEmployeeDirectory(store *Store) *EmployeeDirectory {
	return &EmployeeDirectory{store: store}
}

// Seed adds or replaces directory records.
func (d *EmployeeDirectory) Seed(employees ...employee.Employee) {
	d.store.mu.Lock()
	defer d.store.mu.Unlock()

	for _, e := range employees {
		d.store.employees[e.ID] = e
	}
}

func (d *EmployeeDirectory) GetByID(_ context.Context, id string) (employee.Employee, error) {
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()

	e, ok := d.store.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (d *EmployeeDirectory) GetByIDs(_ context.Context, ids []string) (map[string]employee.Employee, error) {
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()

	found := make(map[string]employee.Employee, len(ids))
	for _, id := range ids {
		if e, ok := d.store.employees[id]; ok {
			found[id] = e
		}
	}
	return found, nil
}

type seedEmployee struct {
	ID               string           `json:"id"`
	EmployeeCode     string           `json:"employee_code"`
	FullName         string           `json:"full_name"`
	EmploymentStatus string           `json:"employment_status"`
	BaseSalary       *decimal.Decimal `json:"base_salary"`
}

// LoadEmployees reads a JSON array of directory records for the memory driver.
func LoadEmployees(r io.Reader) ([]employee.Employee, error) {
	var seeds []seedEmployee
	if err := json.NewDecoder(r).Decode(&seeds); err != nil {
		return nil, fmt.Errorf("failed to decode employee seed: %w", err)
	}

	employees := make([]employee.Employee, 0, len(seeds))
	for i, s := range seeds {
		if s.ID == "" {
			return nil, fmt.Errorf("employee seed %d: id is required", i)
		}
		status := employee.EmploymentStatus(s.EmploymentStatus)
		if status == "" {
			status = employee.EmploymentStatusActive
		}
		employees = append(employees, employee.Employee{
			ID:               s.ID,
			EmployeeCode:     s.EmployeeCode,
			FullName:         s.FullName,
			EmploymentStatus: status,
			BaseSalary:       s.BaseSalary,
		})
	}
	return employees, nil
}
