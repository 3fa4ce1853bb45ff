package ratesetting

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	KeyTaxRate            = "tax_rate"
	KeySocialSecurityRate = "social_security_rate"
)

var (
	DefaultTaxRate            = decimal.NewFromInt(20)
	DefaultSocialSecurityRate = decimal.NewFromInt(15)
)

// RateSetting - Named decimal configuration value
type RateSetting struct {
	Key         string
	Value       decimal.Decimal
	Description *string
	UpdatedAt   time.Time
}

// Rates is the snapshot of levy rates (percent) used for one calculation pass.
type Rates struct {
	TaxRate            decimal.Decimal
	SocialSecurityRate decimal.Decimal
}

// DefaultRates returns the fallback rates used when no setting is stored.
func DefaultRates() Rates {
	return Rates{
		TaxRate:            DefaultTaxRate,
		SocialSecurityRate: DefaultSocialSecurityRate,
	}
}

// DefaultFor returns the fallback for a known key and whether one exists.
func DefaultFor(key string) (decimal.Decimal, bool) {
	switch key {
	case KeyTaxRate:
		return DefaultTaxRate, true
	case KeySocialSecurityRate:
		return DefaultSocialSecurityRate, true
	}
	return decimal.Zero, false
}
