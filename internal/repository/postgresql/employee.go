package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/salary-engine/internal/domain/employee"
	"github.com/cmlabs-hris/salary-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeDirectory struct {
	db *database.DB
}

// NewEmployeeDirectory reads the employees table owned by the HR directory.
func NewEmployeeDirectory(db *database.DB) employee.Directory {
	return &employeeDirectory{db: db}
}

func (r *employeeDirectory) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_code, full_name, employment_status, base_salary
		FROM employees
		WHERE id = $1 AND deleted_at IS NULL
	`

	var e employee.Employee
	err := q.QueryRow(ctx, query, id).Scan(&e.ID, &e.EmployeeCode, &e.FullName, &e.EmploymentStatus, &e.BaseSalary)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

func (r *employeeDirectory) GetByIDs(ctx context.Context, ids []string) (map[string]employee.Employee, error) {
	found := make(map[string]employee.Employee, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_code, full_name, employment_status, base_salary
		FROM employees
		WHERE id = ANY($1::text[]) AND deleted_at IS NULL
	`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get employees: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e employee.Employee
		if err := rows.Scan(&e.ID, &e.EmployeeCode, &e.FullName, &e.EmploymentStatus, &e.BaseSalary); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		found[e.ID] = e
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}
	return found, nil
}
