package numbering

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	n, err := New(SalaryPrefix, "2025-03")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^SAL-202503-[0-9A-F]{12}$`), n)

	other, err := New(SalaryPrefix, "2025-03")
	require.NoError(t, err)
	assert.NotEqual(t, n, other)
}

func TestNew_InvalidPeriod(t *testing.T) {
	_, err := New(PayrollPrefix, "March")
	assert.Error(t, err)
}
