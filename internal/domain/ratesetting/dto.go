package ratesetting

import (
	"time"

	"github.com/cmlabs-hris/salary-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type UpsertRateSettingRequest struct {
	Key         string          `json:"-"`
	Value       decimal.Decimal `json:"value"`
	Description *string         `json:"description,omitempty"`
}

func (r *UpsertRateSettingRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidRateKey(r.Key) {
		errs = append(errs, validator.ValidationError{Field: "key", Message: "must be snake_case, 2-64 characters"})
	}
	if !validator.IsPercentage(r.Value) {
		errs = append(errs, validator.ValidationError{Field: "value", Message: "must be between 0 and 100"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RateSettingResponse struct {
	Key         string          `json:"key"`
	Value       decimal.Decimal `json:"value"`
	Description *string         `json:"description,omitempty"`
	IsDefault   bool            `json:"is_default"`
	UpdatedAt   *string         `json:"updated_at,omitempty"`
}

func ToResponse(s RateSetting) RateSettingResponse {
	resp := RateSettingResponse{
		Key:         s.Key,
		Value:       s.Value,
		Description: s.Description,
	}
	if !s.UpdatedAt.IsZero() {
		str := s.UpdatedAt.Format(time.RFC3339)
		resp.UpdatedAt = &str
	}
	return resp
}
