package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/salary-engine/internal/domain/ratesetting"
	"github.com/cmlabs-hris/salary-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type rateSettingRepository struct {
	db *database.DB
}

func NewRateSettingRepository(db *database.DB) ratesetting.RateSettingRepository {
	return &rateSettingRepository{db: db}
}

func (r *rateSettingRepository) Get(ctx context.Context, key string) (ratesetting.RateSetting, error) {
	q := GetQuerier(ctx, r.db)

	var s ratesetting.RateSetting
	err := q.QueryRow(ctx, `SELECT key, value, description, updated_at FROM rate_settings WHERE key = $1`, key).
		Scan(&s.Key, &s.Value, &s.Description, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ratesetting.RateSetting{}, ratesetting.ErrRateSettingNotFound
		}
		return ratesetting.RateSetting{}, fmt.Errorf("failed to get rate setting: %w", err)
	}
	return s, nil
}

func (r *rateSettingRepository) List(ctx context.Context) ([]ratesetting.RateSetting, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT key, value, description, updated_at FROM rate_settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list rate settings: %w", err)
	}
	defer rows.Close()

	var settings []ratesetting.RateSetting
	for rows.Next() {
		var s ratesetting.RateSetting
		if err := rows.Scan(&s.Key, &s.Value, &s.Description, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rate setting: %w", err)
		}
		settings = append(settings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rate settings: %w", err)
	}
	return settings, nil
}

func (r *rateSettingRepository) Upsert(ctx context.Context, setting ratesetting.RateSetting) (ratesetting.RateSetting, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO rate_settings (key, value, description)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			description = COALESCE(EXCLUDED.description, rate_settings.description),
			updated_at = NOW()
		RETURNING key, value, description, updated_at
	`

	var s ratesetting.RateSetting
	err := q.QueryRow(ctx, query, setting.Key, setting.Value, setting.Description).
		Scan(&s.Key, &s.Value, &s.Description, &s.UpdatedAt)
	if err != nil {
		return ratesetting.RateSetting{}, fmt.Errorf("failed to upsert rate setting: %w", err)
	}
	return s, nil
}

func (r *rateSettingRepository) Delete(ctx context.Context, key string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM rate_settings WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("failed to delete rate setting: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ratesetting.ErrRateSettingNotFound
	}
	return nil
}
