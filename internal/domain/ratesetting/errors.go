package ratesetting

import "errors"

var (
	ErrRateSettingNotFound = errors.New("rate setting not found")
	ErrInvalidRateKey      = errors.New("invalid rate setting key")
)
