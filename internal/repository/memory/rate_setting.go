package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/salary-engine/internal/domain/ratesetting"
)

type rateSettingRepository struct {
	store *Store
}

func NewRateSettingRepository(store *Store) ratesetting.RateSettingRepository {
	return &rateSettingRepository{store: store}
}

func (r *rateSettingRepository) Get(_ context.Context, key string) (ratesetting.RateSetting, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	s, ok := r.store.rates[key]
	if !ok {
		return ratesetting.RateSetting{}, ratesetting.ErrRateSettingNotFound
	}
	return s, nil
}

func (r *rateSettingRepository) List(_ context.Context) ([]ratesetting.RateSetting, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	settings := make([]ratesetting.RateSetting, 0, len(r.store.rates))
	for _, s := range r.store.rates {
		settings = append(settings, s)
	}
	sort.Slice(settings, func(i, j int) bool { return settings[i].Key < settings[j].Key })
	return settings, nil
}

func (r *rateSettingRepository) Upsert(ctx context.Context, s ratesetting.RateSetting) (ratesetting.RateSetting, error) {
	defer r.store.lockWrite(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if existing, ok := r.store.rates[s.Key]; ok && s.Description == nil {
		s.Description = existing.Description
	}
	s.UpdatedAt = clock()
	r.store.rates[s.Key] = s
	return s, nil
}

func (r *rateSettingRepository) Delete(ctx context.Context, key string) error {
	defer r.store.lockWrite(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.rates[key]; !ok {
		return ratesetting.ErrRateSettingNotFound
	}
	delete(r.store.rates, key)
	return nil
}
