package period

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Layout is the canonical period label format.
const Layout = "2006-01"

var ErrInvalidPeriod = errors.New("invalid period, expected YYYY-MM")

var (
	isoRegex     = regexp.MustCompile(`^(\d{4})[-/.](\d{1,2})$`)
	compactRegex = regexp.MustCompile(`^(\d{4})(\d{2})$`)
	monthYear    = regexp.MustCompile(`^(\d{1,2})[-/.](\d{4})$`)
)

// Normalize converts the accepted period spellings (YYYY-MM, YYYY/MM, YYYYMM, MM/YYYY)
// into the canonical YYYY-MM label.
func Normalize(label string) (string, error) {
	label = strings.TrimSpace(label)

	var yearStr, monthStr string
	switch {
	case isoRegex.MatchString(label):
		m := isoRegex.FindStringSubmatch(label)
		yearStr, monthStr = m[1], m[2]
	case compactRegex.MatchString(label):
		m := compactRegex.FindStringSubmatch(label)
		yearStr, monthStr = m[1], m[2]
	case monthYear.MatchString(label):
		m := monthYear.FindStringSubmatch(label)
		yearStr, monthStr = m[2], m[1]
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, label)
	}

	year, _ := strconv.Atoi(yearStr)
	month, _ := strconv.Atoi(monthStr)
	if month < 1 || month > 12 || year < 1900 {
		return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, label)
	}

	return fmt.Sprintf("%04d-%02d", year, month), nil
}

// Bounds returns the first and last calendar day (UTC) of a canonical period label.
func Bounds(label string) (start, end time.Time, err error) {
	start, err = time.Parse(Layout, label)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, label)
	}
	end = start.AddDate(0, 1, -1)
	return start, end, nil
}

// Compact returns the label without separator, e.g. "2025-03" -> "202503".
func Compact(label string) string {
	return strings.ReplaceAll(label, "-", "")
}
