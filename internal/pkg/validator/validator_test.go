package validator

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b", // v7
		"0188D0F2-7B8C-7B4A-8A2B-6B8B8B8B8B8B", // v7 (uppercase)
		"123e4567-e89b-42d3-a456-426614174000", // v4
	}
	invalid := []string{
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",     // missing dashes
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b", // invalid hex
		"",                                     // empty
	}
	for _, uuid := range valid {
		if !IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = false, want true", uuid)
		}
	}
	for _, uuid := range invalid {
		if IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = true, want false", uuid)
		}
	}
}

func TestIsValidComponentCode(t *testing.T) {
	valid := []string{"TRANSPORT", "OT_150", "BONUS2025", "AB"}
	invalid := []string{"", "A", "transport", "1BONUS", "HOUSING-ALLOWANCE", "TOO_LONG_COMPONENT_CODE_FOR_CATALOG"}
	for _, code := range valid {
		if !IsValidComponentCode(code) {
			t.Errorf("IsValidComponentCode(%q) = false, want true", code)
		}
	}
	for _, code := range invalid {
		if IsValidComponentCode(code) {
			t.Errorf("IsValidComponentCode(%q) = true, want false", code)
		}
	}
}

func TestIsValidRateKey(t *testing.T) {
	valid := []string{"tax_rate", "social_security_rate", "ot2"}
	invalid := []string{"", "t", "Tax_Rate", "tax-rate", "_tax"}
	for _, key := range valid {
		if !IsValidRateKey(key) {
			t.Errorf("IsValidRateKey(%q) = false, want true", key)
		}
	}
	for _, key := range invalid {
		if IsValidRateKey(key) {
			t.Errorf("IsValidRateKey(%q) = true, want false", key)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "2023-01-32", "2023/01/01", "01-01-2023", ""}
	for _, s := range valid {
		_, ok := IsValidDate(s)
		if !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		_, ok := IsValidDate(s)
		if ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsPercentage(t *testing.T) {
	if !IsPercentage(decimal.NewFromInt(0)) || !IsPercentage(decimal.NewFromInt(100)) {
		t.Errorf("IsPercentage bounds should be inclusive")
	}
	if IsPercentage(decimal.NewFromInt(-1)) || IsPercentage(decimal.RequireFromString("100.01")) {
		t.Errorf("IsPercentage accepted an out-of-range value")
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "code", Message: "invalid"},
		{Field: "name", Message: "required"},
	}
	got := errs.Error()
	want := "code: invalid; name: required"
	if got != want {
		t.Errorf("ValidationErrors.Error() = %q, want %q", got, want)
	}
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "code", Message: "invalid"},
		{Field: "name", Message: "required"},
	}
	got := errs.ToMap()
	want := map[string]string{"code": "invalid", "name": "required"}
	if len(got) != len(want) {
		t.Errorf("ValidationErrors.ToMap() length = %d, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("ValidationErrors.ToMap()[%q] = %q, want %q", k, got[k], v)
		}
	}
}
