package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseApprovalPolicy(t *testing.T) {
	p, err := ParseApprovalPolicy("")
	require.NoError(t, err)
	assert.Equal(t, ApprovalPermissive, p)

	p, err = ParseApprovalPolicy(" Strict ")
	require.NoError(t, err)
	assert.Equal(t, ApprovalStrict, p)
	assert.False(t, p.AllowsUncalculated())

	_, err = ParseApprovalPolicy("lenient")
	assert.Error(t, err)
}
