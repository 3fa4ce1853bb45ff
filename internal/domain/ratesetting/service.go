package ratesetting

import (
	"context"

	"github.com/shopspring/decimal"
)

type RateSettingService interface {
	// GetRate returns the stored value for key, or fallback when the key is absent.
	GetRate(ctx context.Context, key string, fallback decimal.Decimal) (decimal.Decimal, error)
	// Snapshot reads every rate a calculation needs in one pass.
	Snapshot(ctx context.Context) (Rates, error)
	ListSettings(ctx context.Context) ([]RateSettingResponse, error)
	GetSetting(ctx context.Context, key string) (RateSettingResponse, error)
	UpsertSetting(ctx context.Context, req UpsertRateSettingRequest) (RateSettingResponse, error)
	DeleteSetting(ctx context.Context, key string) error
}
