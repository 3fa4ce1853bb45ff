package numbering

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/salary-engine/internal/pkg/period"
	"github.com/google/uuid"
)

const (
	SalaryPrefix  = "SAL"
	PayrollPrefix = "PAY"

	// Attempts bounds how often a caller draws a new number after a collision.
	Attempts = 3

	suffixLen = 12
)

// Generator produces a document number for a prefix and period label.
type Generator func(prefix, periodLabel string) (string, error)

// New returns a document number like SAL-202503-9F1C27AB04D3 for a normalized period label.
// The suffix is the last 48 random bits of a v7 UUID.
func New(prefix, periodLabel string) (string, error) {
	label, err := period.Normalize(periodLabel)
	if err != nil {
		return "", err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate number: %w", err)
	}
	hex := strings.ReplaceAll(id.String(), "-", "")
	return fmt.Sprintf("%s-%s-%s", prefix, period.Compact(label), strings.ToUpper(hex[len(hex)-suffixLen:])), nil
}
