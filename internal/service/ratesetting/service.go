package ratesetting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/salary-engine/internal/domain/ratesetting"
	"github.com/shopspring/decimal"
)

type RateSettingServiceImpl struct {
	rateRepo ratesetting.RateSettingRepository
}

func NewRateSettingService(rateRepo ratesetting.RateSettingRepository) ratesetting.RateSettingService {
	return &RateSettingServiceImpl{rateRepo: rateRepo}
}

func (s *RateSettingServiceImpl) GetRate(ctx context.Context, key string, fallback decimal.Decimal) (decimal.Decimal, error) {
	setting, err := s.rateRepo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ratesetting.ErrRateSettingNotFound) {
			return fallback, nil
		}
		return decimal.Zero, fmt.Errorf("failed to read rate %s: %w", key, err)
	}
	return setting.Value, nil
}

func (s *RateSettingServiceImpl) Snapshot(ctx context.Context) (ratesetting.Rates, error) {
	taxRate, err := s.GetRate(ctx, ratesetting.KeyTaxRate, ratesetting.DefaultTaxRate)
	if err != nil {
		return ratesetting.Rates{}, err
	}
	ssRate, err := s.GetRate(ctx, ratesetting.KeySocialSecurityRate, ratesetting.DefaultSocialSecurityRate)
	if err != nil {
		return ratesetting.Rates{}, err
	}
	return ratesetting.Rates{TaxRate: taxRate, SocialSecurityRate: ssRate}, nil
}

// ListSettings returns the stored settings plus a default entry for every known key not stored.
func (s *RateSettingServiceImpl) ListSettings(ctx context.Context) ([]ratesetting.RateSettingResponse, error) {
	settings, err := s.rateRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	stored := make(map[string]bool, len(settings))
	responses := make([]ratesetting.RateSettingResponse, 0, len(settings)+2)
	for _, setting := range settings {
		stored[setting.Key] = true
		responses = append(responses, ratesetting.ToResponse(setting))
	}
	for _, key := range []string{ratesetting.KeySocialSecurityRate, ratesetting.KeyTaxRate} {
		if stored[key] {
			continue
		}
		value, _ := ratesetting.DefaultFor(key)
		responses = append(responses, ratesetting.RateSettingResponse{Key: key, Value: value, IsDefault: true})
	}
	return responses, nil
}

func (s *RateSettingServiceImpl) GetSetting(ctx context.Context, key string) (ratesetting.RateSettingResponse, error) {
	setting, err := s.rateRepo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ratesetting.ErrRateSettingNotFound) {
			if value, ok := ratesetting.DefaultFor(key); ok {
				return ratesetting.RateSettingResponse{Key: key, Value: value, IsDefault: true}, nil
			}
		}
		return ratesetting.RateSettingResponse{}, err
	}
	return ratesetting.ToResponse(setting), nil
}

func (s *RateSettingServiceImpl) UpsertSetting(ctx context.Context, req ratesetting.UpsertRateSettingRequest) (ratesetting.RateSettingResponse, error) {
	req.Key = strings.TrimSpace(req.Key)
	if err := req.Validate(); err != nil {
		return ratesetting.RateSettingResponse{}, err
	}

	saved, err := s.rateRepo.Upsert(ctx, ratesetting.RateSetting{
		Key:         req.Key,
		Value:       req.Value,
		Description: req.Description,
	})
	if err != nil {
		return ratesetting.RateSettingResponse{}, err
	}

	slog.Info("Rate setting saved", "key", saved.Key, "value", saved.Value.String())
	return ratesetting.ToResponse(saved), nil
}

// DeleteSetting removes a stored value; known keys fall back to their defaults afterwards.
func (s *RateSettingServiceImpl) DeleteSetting(ctx context.Context, key string) error {
	if err := s.rateRepo.Delete(ctx, key); err != nil {
		return err
	}
	slog.Info("Rate setting deleted", "key", key)
	return nil
}
