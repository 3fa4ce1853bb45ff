package validator

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// UUID regex: any version, case-insensitive.
var uuidRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[1-8][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// UUID validation
func IsValidUUID(uuid string) bool {
	return uuidRegex.MatchString(strings.ToLower(uuid))
}

// Component code: 2-32 chars, upper-case letters, digits and underscores, starting with a letter.
var componentCodeRegex = regexp.MustCompile(`^[A-Z][A-Z0-9_]{1,31}$`)

func IsValidComponentCode(code string) bool {
	return componentCodeRegex.MatchString(code)
}

// Rate setting key: snake_case, 2-64 chars.
var rateKeyRegex = regexp.MustCompile(`^[a-z][a-z0-9_]{1,63}$`)

func IsValidRateKey(key string) bool {
	return rateKeyRegex.MatchString(key)
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// IsNonNegative reports whether d is zero or positive.
func IsNonNegative(d decimal.Decimal) bool {
	return !d.IsNegative()
}

// IsPercentage reports whether d lies in [0, 100].
func IsPercentage(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(decimal.NewFromInt(100))
}
