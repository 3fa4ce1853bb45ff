package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/salary-engine/internal/domain/salary"
	"github.com/cmlabs-hris/salary-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type salaryRepository struct {
	db *database.DB
}

func NewSalaryRepository(db *database.DB) salary.SalaryRepository {
	return &salaryRepository{db: db}
}

const salaryColumns = `s.id, s.salary_number, s.employee_id, s.period, s.period_start, s.period_end, s.pay_date,
	s.base_salary, s.hours_worked, s.performance_factor,
	s.total_allowances, s.total_deductions, s.total_taxes, s.total_social_security,
	s.gross_salary, s.net_salary, s.status, s.notes, s.breakdown,
	s.calculated_at, s.approved_by, s.approved_at, s.paid_by, s.paid_at, s.cancelled_at,
	s.created_at, s.updated_at, e.full_name, e.employee_code`

const salaryFrom = `FROM salaries s LEFT JOIN employees e ON e.id = s.employee_id`

var salarySortColumns = map[string]string{
	"created_at":    "s.created_at",
	"period":        "s.period",
	"net_salary":    "s.net_salary",
	"salary_number": "s.salary_number",
}

func scanSalary(row pgx.Row) (salary.Salary, error) {
	var s salary.Salary
	var breakdown []byte
	err := row.Scan(
		&s.ID, &s.SalaryNumber, &s.EmployeeID, &s.Period, &s.PeriodStart, &s.PeriodEnd, &s.PayDate,
		&s.BaseSalary, &s.HoursWorked, &s.PerformanceFactor,
		&s.TotalAllowances, &s.TotalDeductions, &s.TotalTaxes, &s.TotalSocialSecurity,
		&s.GrossSalary, &s.NetSalary, &s.Status, &s.Notes, &breakdown,
		&s.CalculatedAt, &s.ApprovedBy, &s.ApprovedAt, &s.PaidBy, &s.PaidAt, &s.CancelledAt,
		&s.CreatedAt, &s.UpdatedAt, &s.EmployeeName, &s.EmployeeCode,
	)
	if err != nil {
		return salary.Salary{}, err
	}
	if len(breakdown) > 0 {
		var b salary.Breakdown
		if err := json.Unmarshal(breakdown, &b); err != nil {
			return salary.Salary{}, fmt.Errorf("failed to decode salary breakdown: %w", err)
		}
		s.Breakdown = &b
	}
	return s, nil
}

func (r *salaryRepository) Create(ctx context.Context, s salary.Salary) (salary.Salary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO salaries (
			salary_number, employee_id, period, period_start, period_end, pay_date,
			base_salary, hours_worked, performance_factor, status, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		s.SalaryNumber, s.EmployeeID, s.Period, s.PeriodStart, s.PeriodEnd, s.PayDate,
		s.BaseSalary, s.HoursWorked, s.PerformanceFactor, s.Status, s.Notes,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err, "uk_salary_employee_period") {
			return salary.Salary{}, salary.ErrSalaryAlreadyExists
		}
		if isUniqueViolation(err, "uk_salary_number") {
			return salary.Salary{}, salary.ErrSalaryNumberExists
		}
		return salary.Salary{}, fmt.Errorf("failed to create salary: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *salaryRepository) GetByID(ctx context.Context, id string) (salary.Salary, error) {
	return r.get(ctx, id, "")
}

func (r *salaryRepository) GetByIDForUpdate(ctx context.Context, id string) (salary.Salary, error) {
	return r.get(ctx, id, " FOR UPDATE OF s")
}

func (r *salaryRepository) get(ctx context.Context, id string, lock string) (salary.Salary, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + salaryColumns + ` ` + salaryFrom + ` WHERE s.id = $1` + lock

	s, err := scanSalary(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.Salary{}, salary.ErrSalaryNotFound
		}
		return salary.Salary{}, fmt.Errorf("failed to get salary: %w", err)
	}
	return s, nil
}

func (r *salaryRepository) List(ctx context.Context, filter salary.SalaryFilter) ([]salary.Salary, int64, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	argIdx := 1

	if filter.Period != nil {
		conditions = append(conditions, fmt.Sprintf("s.period = $%d", argIdx))
		args = append(args, *filter.Period)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("s.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("s.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM salaries s`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count salaries: %w", err)
	}

	sortColumn, ok := salarySortColumns[filter.SortBy]
	if !ok {
		sortColumn = "s.created_at"
	}
	sortOrder := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	query := fmt.Sprintf(`SELECT %s %s%s ORDER BY %s %s, s.salary_number %s LIMIT $%d OFFSET $%d`,
		salaryColumns, salaryFrom, where, sortColumn, sortOrder, sortOrder, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list salaries: %w", err)
	}
	defer rows.Close()

	var salaries []salary.Salary
	for rows.Next() {
		s, err := scanSalary(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan salary: %w", err)
		}
		salaries = append(salaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate salaries: %w", err)
	}
	return salaries, total, nil
}

func (r *salaryRepository) ListByPeriod(ctx context.Context, period string) ([]salary.Salary, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + salaryColumns + ` ` + salaryFrom + ` WHERE s.period = $1 ORDER BY s.salary_number`

	rows, err := q.Query(ctx, query, period)
	if err != nil {
		return nil, fmt.Errorf("failed to list salaries by period: %w", err)
	}
	defer rows.Close()

	var salaries []salary.Salary
	for rows.Next() {
		s, err := scanSalary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary: %w", err)
		}
		salaries = append(salaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate salaries: %w", err)
	}
	return salaries, nil
}

func (r *salaryRepository) Update(ctx context.Context, s salary.Salary) error {
	q := GetQuerier(ctx, r.db)

	var breakdown []byte
	if s.Breakdown != nil {
		encoded, err := json.Marshal(s.Breakdown)
		if err != nil {
			return fmt.Errorf("failed to encode salary breakdown: %w", err)
		}
		breakdown = encoded
	}

	query := `
		UPDATE salaries
		SET pay_date = $2, base_salary = $3, hours_worked = $4, performance_factor = $5,
			total_allowances = $6, total_deductions = $7, total_taxes = $8, total_social_security = $9,
			gross_salary = $10, net_salary = $11, status = $12, notes = $13, breakdown = $14,
			calculated_at = $15, approved_by = $16, approved_at = $17, paid_by = $18, paid_at = $19,
			cancelled_at = $20, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		s.ID, s.PayDate, s.BaseSalary, s.HoursWorked, s.PerformanceFactor,
		s.TotalAllowances, s.TotalDeductions, s.TotalTaxes, s.TotalSocialSecurity,
		s.GrossSalary, s.NetSalary, s.Status, s.Notes, breakdown,
		s.CalculatedAt, s.ApprovedBy, s.ApprovedAt, s.PaidBy, s.PaidAt,
		s.CancelledAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update salary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return salary.ErrSalaryNotFound
	}
	return nil
}

func (r *salaryRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM salaries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete salary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return salary.ErrSalaryNotFound
	}
	return nil
}

func (r *salaryRepository) ReplaceItems(ctx context.Context, salaryID string, items []salary.SalaryItem) ([]salary.SalaryItem, error) {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM salary_items WHERE salary_id = $1`, salaryID); err != nil {
		return nil, fmt.Errorf("failed to delete salary items: %w", err)
	}

	query := `
		INSERT INTO salary_items (
			salary_id, component_id, snapshot, amount, rate, quantity,
			tax_amount, social_security_amount, position
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	saved := make([]salary.SalaryItem, 0, len(items))
	for i, item := range items {
		snapshot, err := json.Marshal(item.Snapshot)
		if err != nil {
			return nil, fmt.Errorf("failed to encode item snapshot: %w", err)
		}
		item.SalaryID = salaryID
		item.Position = i

		err = q.QueryRow(ctx, query,
			salaryID, item.ComponentID, snapshot, item.Amount, item.Rate, item.Quantity,
			item.TaxAmount, item.SocialSecurityAmount, item.Position,
		).Scan(&item.ID, &item.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert salary item: %w", err)
		}
		saved = append(saved, item)
	}
	return saved, nil
}

func (r *salaryRepository) GetItems(ctx context.Context, salaryID string) ([]salary.SalaryItem, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, salary_id, component_id, snapshot, amount, rate, quantity,
			tax_amount, social_security_amount, position, created_at
		FROM salary_items
		WHERE salary_id = $1
		ORDER BY position
	`

	rows, err := q.Query(ctx, query, salaryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get salary items: %w", err)
	}
	defer rows.Close()

	var items []salary.SalaryItem
	for rows.Next() {
		var item salary.SalaryItem
		var snapshot []byte
		if err := rows.Scan(
			&item.ID, &item.SalaryID, &item.ComponentID, &snapshot, &item.Amount, &item.Rate, &item.Quantity,
			&item.TaxAmount, &item.SocialSecurityAmount, &item.Position, &item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan salary item: %w", err)
		}
		if err := json.Unmarshal(snapshot, &item.Snapshot); err != nil {
			return nil, fmt.Errorf("failed to decode item snapshot: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate salary items: %w", err)
	}
	return items, nil
}
