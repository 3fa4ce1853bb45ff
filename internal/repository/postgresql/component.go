package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/salary-engine/internal/domain/component"
	"github.com/cmlabs-hris/salary-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type componentRepository struct {
	db *database.DB
}

func NewComponentRepository(db *database.DB) component.ComponentRepository {
	return &componentRepository{db: db}
}

const componentColumns = `id, name, code, description, type, calculation_type, default_value,
	is_taxable, is_social_security_liable, is_mandatory, is_active, tax_rate, social_security_rate,
	created_at, updated_at`

func scanComponent(row pgx.Row) (component.SalaryComponent, error) {
	var c component.SalaryComponent
	err := row.Scan(
		&c.ID, &c.Name, &c.Code, &c.Description, &c.Type, &c.CalculationType, &c.DefaultValue,
		&c.IsTaxable, &c.IsSocialSecurityLiable, &c.IsMandatory, &c.IsActive, &c.TaxRate, &c.SocialSecurityRate,
		&c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

func (r *componentRepository) Create(ctx context.Context, c component.SalaryComponent) (component.SalaryComponent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO salary_components (
			name, code, description, type, calculation_type, default_value,
			is_taxable, is_social_security_liable, is_mandatory, is_active, tax_rate, social_security_rate
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + componentColumns

	created, err := scanComponent(q.QueryRow(ctx, query,
		c.Name, c.Code, c.Description, c.Type, c.CalculationType, c.DefaultValue,
		c.IsTaxable, c.IsSocialSecurityLiable, c.IsMandatory, c.IsActive, c.TaxRate, c.SocialSecurityRate,
	))
	if err != nil {
		if isUniqueViolation(err, "uk_salary_component_code") {
			return component.SalaryComponent{}, component.ErrComponentCodeExists
		}
		return component.SalaryComponent{}, fmt.Errorf("failed to create salary component: %w", err)
	}
	return created, nil
}

func (r *componentRepository) GetByID(ctx context.Context, id string) (component.SalaryComponent, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + componentColumns + ` FROM salary_components WHERE id = $1`

	c, err := scanComponent(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return component.SalaryComponent{}, component.ErrComponentNotFound
		}
		return component.SalaryComponent{}, fmt.Errorf("failed to get salary component: %w", err)
	}
	return c, nil
}

func (r *componentRepository) List(ctx context.Context, activeOnly bool) ([]component.SalaryComponent, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + componentColumns + ` FROM salary_components`
	if activeOnly {
		query += " WHERE is_active = true"
	}
	query += " ORDER BY type, name, id"

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary components: %w", err)
	}
	defer rows.Close()

	var components []component.SalaryComponent
	for rows.Next() {
		c, err := scanComponent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary component: %w", err)
		}
		components = append(components, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate salary components: %w", err)
	}
	return components, nil
}

func (r *componentRepository) Update(ctx context.Context, c component.SalaryComponent) (component.SalaryComponent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE salary_components
		SET name = $2, description = $3, calculation_type = $4, default_value = $5,
			is_taxable = $6, is_social_security_liable = $7, is_mandatory = $8, is_active = $9,
			tax_rate = $10, social_security_rate = $11, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + componentColumns

	updated, err := scanComponent(q.QueryRow(ctx, query,
		c.ID, c.Name, c.Description, c.CalculationType, c.DefaultValue,
		c.IsTaxable, c.IsSocialSecurityLiable, c.IsMandatory, c.IsActive,
		c.TaxRate, c.SocialSecurityRate,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return component.SalaryComponent{}, component.ErrComponentNotFound
		}
		return component.SalaryComponent{}, fmt.Errorf("failed to update salary component: %w", err)
	}
	return updated, nil
}
