package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/salary-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/salary-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payrollColumns = `id, payroll_number, period, period_start, period_end, payment_date, status,
	total_employees, total_gross_salary, total_net_salary, total_taxes, total_social_security,
	total_allowances, total_deductions, summary, notes, calculated_at,
	approved_by, approved_at, paid_by, paid_at, cancelled_at, created_at, updated_at`

func scanPayroll(row pgx.Row) (payroll.Payroll, error) {
	var p payroll.Payroll
	var summary []byte
	err := row.Scan(
		&p.ID, &p.PayrollNumber, &p.Period, &p.PeriodStart, &p.PeriodEnd, &p.PaymentDate, &p.Status,
		&p.TotalEmployees, &p.TotalGrossSalary, &p.TotalNetSalary, &p.TotalTaxes, &p.TotalSocialSecurity,
		&p.TotalAllowances, &p.TotalDeductions, &summary, &p.Notes, &p.CalculatedAt,
		&p.ApprovedBy, &p.ApprovedAt, &p.PaidBy, &p.PaidAt, &p.CancelledAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return payroll.Payroll{}, err
	}
	if len(summary) > 0 {
		var s payroll.Summary
		if err := json.Unmarshal(summary, &s); err != nil {
			return payroll.Payroll{}, fmt.Errorf("failed to decode payroll summary: %w", err)
		}
		p.Summary = &s
	}
	return p, nil
}

func (r *payrollRepository) Create(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payrolls (payroll_number, period, period_start, period_end, payment_date, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + payrollColumns

	created, err := scanPayroll(q.QueryRow(ctx, query,
		p.PayrollNumber, p.Period, p.PeriodStart, p.PeriodEnd, p.PaymentDate, p.Status, p.Notes,
	))
	if err != nil {
		if isUniqueViolation(err, "uk_payroll_period") {
			return payroll.Payroll{}, payroll.ErrPayrollAlreadyExists
		}
		if isUniqueViolation(err, "uk_payroll_number") {
			return payroll.Payroll{}, payroll.ErrPayrollNumberExists
		}
		return payroll.Payroll{}, fmt.Errorf("failed to create payroll: %w", err)
	}
	return created, nil
}

func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.Payroll, error) {
	return r.get(ctx, id, "")
}

func (r *payrollRepository) GetByIDForUpdate(ctx context.Context, id string) (payroll.Payroll, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *payrollRepository) get(ctx context.Context, id string, lock string) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanPayroll(q.QueryRow(ctx, `SELECT `+payrollColumns+` FROM payrolls WHERE id = $1`+lock, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to get payroll: %w", err)
	}
	return p, nil
}

func (r *payrollRepository) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.Payroll, int64, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	argIdx := 1

	if filter.Period != nil {
		conditions = append(conditions, fmt.Sprintf("period = $%d", argIdx))
		args = append(args, *filter.Period)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM payrolls`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payrolls: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM payrolls%s ORDER BY period DESC, created_at DESC LIMIT $%d OFFSET $%d`,
		payrollColumns, where, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payrolls: %w", err)
	}
	defer rows.Close()

	var payrolls []payroll.Payroll
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll: %w", err)
		}
		payrolls = append(payrolls, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate payrolls: %w", err)
	}
	return payrolls, total, nil
}

func (r *payrollRepository) Update(ctx context.Context, p payroll.Payroll) error {
	q := GetQuerier(ctx, r.db)

	var summary []byte
	if p.Summary != nil {
		encoded, err := json.Marshal(p.Summary)
		if err != nil {
			return fmt.Errorf("failed to encode payroll summary: %w", err)
		}
		summary = encoded
	}

	query := `
		UPDATE payrolls
		SET payment_date = $2, status = $3, total_employees = $4,
			total_gross_salary = $5, total_net_salary = $6, total_taxes = $7, total_social_security = $8,
			total_allowances = $9, total_deductions = $10, summary = $11, notes = $12, calculated_at = $13,
			approved_by = $14, approved_at = $15, paid_by = $16, paid_at = $17, cancelled_at = $18,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		p.ID, p.PaymentDate, p.Status, p.TotalEmployees,
		p.TotalGrossSalary, p.TotalNetSalary, p.TotalTaxes, p.TotalSocialSecurity,
		p.TotalAllowances, p.TotalDeductions, summary, p.Notes, p.CalculatedAt,
		p.ApprovedBy, p.ApprovedAt, p.PaidBy, p.PaidAt, p.CancelledAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update payroll: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollNotFound
	}
	return nil
}
