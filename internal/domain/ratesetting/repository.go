package ratesetting

import "context"

type RateSettingRepository interface {
	Get(ctx context.Context, key string) (RateSetting, error)
	List(ctx context.Context) ([]RateSetting, error)
	Upsert(ctx context.Context, setting RateSetting) (RateSetting, error)
	Delete(ctx context.Context, key string) error
}
