package salary

import (
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/salary-engine/internal/pkg/lifecycle"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []SalaryStatus{
	SalaryStatusDraft,
	SalaryStatusCalculated,
	SalaryStatusApproved,
	SalaryStatusPaid,
	SalaryStatusCancelled,
}

func TestSalaryStatus_Allows(t *testing.T) {
	tests := []struct {
		action  lifecycle.Action
		policy  lifecycle.ApprovalPolicy
		allowed []SalaryStatus
	}{
		{lifecycle.ActionCalculate, lifecycle.ApprovalPermissive, []SalaryStatus{SalaryStatusDraft}},
		{lifecycle.ActionApprove, lifecycle.ApprovalPermissive, []SalaryStatus{SalaryStatusDraft, SalaryStatusCalculated}},
		{lifecycle.ActionApprove, lifecycle.ApprovalStrict, []SalaryStatus{SalaryStatusCalculated}},
		{lifecycle.ActionMarkPaid, lifecycle.ApprovalPermissive, []SalaryStatus{SalaryStatusApproved}},
		{lifecycle.ActionCancel, lifecycle.ApprovalPermissive, []SalaryStatus{SalaryStatusDraft, SalaryStatusCalculated}},
		{lifecycle.ActionReopen, lifecycle.ApprovalPermissive, []SalaryStatus{SalaryStatusCalculated}},
		{lifecycle.ActionEdit, lifecycle.ApprovalPermissive, []SalaryStatus{SalaryStatusDraft}},
		{lifecycle.ActionDelete, lifecycle.ApprovalPermissive, []SalaryStatus{SalaryStatusDraft, SalaryStatusCancelled}},
	}

	for _, tt := range tests {
		t.Run(string(tt.action)+"/"+string(tt.policy), func(t *testing.T) {
			for _, status := range allStatuses {
				want := false
				for _, a := range tt.allowed {
					if a == status {
						want = true
					}
				}
				assert.Equal(t, want, status.Allows(tt.action, tt.policy), "status %s", status)
			}
		})
	}
}

func TestSalary_TransitionErrorCarriesStatus(t *testing.T) {
	s := Salary{Status: SalaryStatusPaid}
	err := s.Cancel(nil, time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	var te *TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, SalaryStatusPaid, te.Status)
	assert.Equal(t, lifecycle.ActionCancel, te.Action)
	assert.Equal(t, SalaryStatusPaid, s.Status)
	assert.Nil(t, s.Notes)
}

func TestSalary_ApproveAndPay(t *testing.T) {
	at := time.Date(2025, 3, 31, 10, 0, 0, 0, time.UTC)
	notes := "checked by finance"
	s := Salary{Status: SalaryStatusCalculated}

	require.NoError(t, s.Approve("manager-1", &notes, at, lifecycle.ApprovalStrict))
	assert.Equal(t, SalaryStatusApproved, s.Status)
	assert.Equal(t, "manager-1", *s.ApprovedBy)
	assert.Equal(t, at, *s.ApprovedAt)
	assert.Equal(t, "approved: checked by finance", *s.Notes)

	require.NoError(t, s.MarkPaid("treasurer-1", at.Add(time.Hour)))
	assert.Equal(t, SalaryStatusPaid, s.Status)
	assert.Equal(t, "treasurer-1", *s.PaidBy)

	assert.ErrorIs(t, s.MarkPaid("treasurer-1", at), ErrInvalidTransition)
}

func TestSalary_CancelAppendsReason(t *testing.T) {
	existing := "imported from legacy system"
	reason := "employee resigned"
	s := Salary{Status: SalaryStatusDraft, Notes: &existing}

	require.NoError(t, s.Cancel(&reason, time.Now()))
	assert.Equal(t, SalaryStatusCancelled, s.Status)
	assert.Equal(t, "imported from legacy system\ncancelled: employee resigned", *s.Notes)
	assert.NotNil(t, s.CancelledAt)
}

func TestSalary_ReopenClearsDerivedFields(t *testing.T) {
	at := time.Now()
	s := Salary{
		Status:          SalaryStatusCalculated,
		BaseSalary:      decimal.NewFromInt(300000),
		GrossSalary:     decimal.NewFromInt(340000),
		NetSalary:       decimal.NewFromInt(322500),
		TotalAllowances: decimal.NewFromInt(50000),
		Breakdown:       &Breakdown{},
		CalculatedAt:    &at,
	}

	require.NoError(t, s.Reopen(at))
	assert.Equal(t, SalaryStatusDraft, s.Status)
	assert.True(t, s.GrossSalary.IsZero())
	assert.True(t, s.NetSalary.IsZero())
	assert.True(t, s.TotalAllowances.IsZero())
	assert.Nil(t, s.Breakdown)
	assert.Nil(t, s.CalculatedAt)
	assert.True(t, s.BaseSalary.Equal(decimal.NewFromInt(300000)))
}

func TestSalary_ApplyCalculationRequiresDraft(t *testing.T) {
	s := Salary{Status: SalaryStatusApproved}
	err := s.ApplyCalculation(Calculation{GrossSalary: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.True(t, s.GrossSalary.IsZero())
}

func TestCreateSalaryRequest_ValidateNormalizesPeriod(t *testing.T) {
	base := decimal.NewFromInt(300000)
	req := CreateSalaryRequest{EmployeeID: "emp-1", BaseSalary: &base, Period: "2025/3"}
	require.NoError(t, req.Validate())
	assert.Equal(t, "2025-03", req.Period)

	start, end := "2025-03-31", "2025-03-01"
	bad := CreateSalaryRequest{EmployeeID: "emp-1", Period: "March", PeriodStart: &start, PeriodEnd: &end}
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "period:")
	assert.Contains(t, err.Error(), "period_end:")
}
