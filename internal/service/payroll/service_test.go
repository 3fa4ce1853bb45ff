package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/salary-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/salary-engine/internal/domain/salary"
	"github.com/cmlabs-hris/salary-engine/internal/pkg/lifecycle"
	"github.com/cmlabs-hris/salary-engine/internal/pkg/metrics"
	"github.com/cmlabs-hris/salary-engine/internal/pkg/numbering"
	"github.com/cmlabs-hris/salary-engine/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fixture struct {
	service  payroll.PayrollService
	salaries salary.SalaryRepository
}

func newFixture(t *testing.T, policy lifecycle.ApprovalPolicy, opts ...Option) fixture {
	t.Helper()
	store := memory.NewStore()
	salaries := memory.NewSalaryRepository(store)
	svc := NewPayrollService(
		memory.NewTransactionManager(store),
		memory.NewPayrollRepository(store),
		salaries,
		metrics.New(),
		policy,
		append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)...,
	)
	return fixture{service: svc, salaries: salaries}
}

func (f fixture) seedSalary(t *testing.T, employeeID, period string, status salary.SalaryStatus, base, gross, net, taxes, ss, allowances, deductions string) {
	t.Helper()
	_, err := f.salaries.Create(context.Background(), salary.Salary{
		SalaryNumber:        "SAL-" + employeeID + "-" + period,
		EmployeeID:          employeeID,
		Period:              period,
		BaseSalary:          d(base),
		GrossSalary:         d(gross),
		NetSalary:           d(net),
		TotalTaxes:          d(taxes),
		TotalSocialSecurity: d(ss),
		TotalAllowances:     d(allowances),
		TotalDeductions:     d(deductions),
		Status:              status,
	})
	require.NoError(t, err)
}

func TestPayrollService_AggregatesEveryStatus(t *testing.T) {
	f := newFixture(t, lifecycle.ApprovalPermissive)
	ctx := context.Background()

	f.seedSalary(t, "emp-1", "2025-03", salary.SalaryStatusCalculated, "300000", "340000", "322500", "10000", "7500", "50000", "10000")
	f.seedSalary(t, "emp-2", "2025-03", salary.SalaryStatusPaid, "500000", "500000", "425000", "50000", "25000", "0", "0")
	f.seedSalary(t, "emp-3", "2025-03", salary.SalaryStatusDraft, "200000", "0", "0", "0", "0", "0", "0")
	f.seedSalary(t, "emp-4", "2025-03", salary.SalaryStatusCancelled, "100000", "100000", "100000", "0", "0", "0", "0")
	f.seedSalary(t, "emp-1", "2025-04", salary.SalaryStatusCalculated, "999", "999", "999", "0", "0", "0", "0")

	created, err := f.service.CreatePayroll(ctx, payroll.CreatePayrollRequest{Period: "202503"})
	require.NoError(t, err)
	assert.Equal(t, "2025-03", created.Period)
	assert.Equal(t, "draft", created.Status)
	assert.Regexp(t, `^PAY-202503-[0-9A-F]{12}$`, created.PayrollNumber)

	calculated, err := f.service.CalculatePayroll(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "calculated", calculated.Status)
	assert.Equal(t, 4, calculated.TotalEmployees)
	assert.True(t, d("940000").Equal(calculated.TotalGrossSalary))
	assert.True(t, d("847500").Equal(calculated.TotalNetSalary))
	assert.True(t, d("60000").Equal(calculated.TotalTaxes))
	assert.True(t, d("32500").Equal(calculated.TotalSocialSecurity))
	assert.True(t, d("50000").Equal(calculated.TotalAllowances))
	assert.True(t, d("10000").Equal(calculated.TotalDeductions))

	require.NotNil(t, calculated.Summary)
	assert.True(t, d("235000").Equal(calculated.Summary.AverageGrossSalary))
	assert.True(t, d("1100000").Equal(calculated.Summary.TotalBaseSalary))
	assert.Equal(t, 1, calculated.Summary.StatusCounts[salary.SalaryStatusCancelled])
	assert.Equal(t, fixedNow, calculated.Summary.CalculatedAt)

	salaries, err := f.service.ListPayrollSalaries(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, salaries, 4)
}

func TestPayrollService_NothingToCalculate(t *testing.T) {
	f := newFixture(t, lifecycle.ApprovalPermissive)
	ctx := context.Background()

	created, err := f.service.CreatePayroll(ctx, payroll.CreatePayrollRequest{Period: "2025-05"})
	require.NoError(t, err)

	_, err = f.service.CalculatePayroll(ctx, created.ID)
	assert.ErrorIs(t, err, payroll.ErrNothingToCalculate)

	stored, err := f.service.GetPayroll(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "draft", stored.Status)
	assert.Zero(t, stored.TotalEmployees)
	assert.Nil(t, stored.Summary)
}

func TestPayrollService_Lifecycle(t *testing.T) {
	f := newFixture(t, lifecycle.ApprovalStrict)
	ctx := context.Background()
	f.seedSalary(t, "emp-1", "2025-03", salary.SalaryStatusCalculated, "1", "1", "1", "0", "0", "0", "0")

	created, err := f.service.CreatePayroll(ctx, payroll.CreatePayrollRequest{Period: "2025-03"})
	require.NoError(t, err)

	_, err = f.service.ApprovePayroll(ctx, created.ID, "approver-1", nil)
	assert.ErrorIs(t, err, payroll.ErrInvalidTransition)

	_, err = f.service.PayPayroll(ctx, created.ID, "payer-1")
	assert.ErrorIs(t, err, payroll.ErrInvalidTransition)

	_, err = f.service.CalculatePayroll(ctx, created.ID)
	require.NoError(t, err)

	approved, err := f.service.ApprovePayroll(ctx, created.ID, "approver-1", nil)
	require.NoError(t, err)
	assert.Equal(t, "approved", approved.Status)

	_, err = f.service.CancelPayroll(ctx, created.ID, nil)
	assert.ErrorIs(t, err, payroll.ErrInvalidTransition)

	paid, err := f.service.PayPayroll(ctx, created.ID, "payer-1")
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.Status)
	require.NotNil(t, paid.PaidBy)
	assert.Equal(t, "payer-1", *paid.PaidBy)
}

func TestPayrollService_OnePayrollPerPeriod(t *testing.T) {
	f := newFixture(t, lifecycle.ApprovalPermissive)
	ctx := context.Background()

	first, err := f.service.CreatePayroll(ctx, payroll.CreatePayrollRequest{Period: "2025-03"})
	require.NoError(t, err)

	_, err = f.service.CreatePayroll(ctx, payroll.CreatePayrollRequest{Period: "03/2025"})
	assert.ErrorIs(t, err, payroll.ErrPayrollAlreadyExists)

	reason := "duplicate run"
	cancelled, err := f.service.CancelPayroll(ctx, first.ID, &reason)
	require.NoError(t, err)
	require.NotNil(t, cancelled.Notes)
	assert.Equal(t, "cancelled: duplicate run", *cancelled.Notes)

	_, err = f.service.CreatePayroll(ctx, payroll.CreatePayrollRequest{Period: "2025-03"})
	require.NoError(t, err)

	list, err := f.service.ListPayrolls(ctx, payroll.PayrollFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.TotalCount)
}

func TestPayrollService_CreateDrawsAgainOnTakenNumber(t *testing.T) {
	numbers := []string{"PAY-000000000001", "PAY-000000000001", "PAY-000000000001", "PAY-000000000002"}
	drawn := 0
	gen := func(string, string) (string, error) {
		n := numbers[drawn]
		drawn++
		return n, nil
	}
	f := newFixture(t, lifecycle.ApprovalPermissive, WithNumberGenerator(gen))
	ctx := context.Background()

	first, err := f.service.CreatePayroll(ctx, payroll.CreatePayrollRequest{Period: "2025-03"})
	require.NoError(t, err)
	assert.Equal(t, "PAY-000000000001", first.PayrollNumber)

	second, err := f.service.CreatePayroll(ctx, payroll.CreatePayrollRequest{Period: "2025-04"})
	require.NoError(t, err)
	assert.Equal(t, "PAY-000000000002", second.PayrollNumber)
	assert.Equal(t, 1+numbering.Attempts, drawn)
}

func TestPayrollService_CalculateDuePayrolls(t *testing.T) {
	f := newFixture(t, lifecycle.ApprovalPermissive)
	ctx := context.Background()
	f.seedSalary(t, "emp-1", "2025-02", salary.SalaryStatusCalculated, "10", "10", "8", "2", "0", "0", "0")
	f.seedSalary(t, "emp-1", "2025-04", salary.SalaryStatusDraft, "10", "0", "0", "0", "0", "0", "0")

	feb, err := f.service.CreatePayroll(ctx, payroll.CreatePayrollRequest{Period: "2025-02"})
	require.NoError(t, err)
	_, err = f.service.CreatePayroll(ctx, payroll.CreatePayrollRequest{Period: "2025-01"})
	require.NoError(t, err)
	apr, err := f.service.CreatePayroll(ctx, payroll.CreatePayrollRequest{Period: "2025-04"})
	require.NoError(t, err)

	count, err := f.service.CalculateDuePayrolls(ctx, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := f.service.GetPayroll(ctx, feb.ID)
	require.NoError(t, err)
	assert.Equal(t, "calculated", got.Status)

	got, err = f.service.GetPayroll(ctx, apr.ID)
	require.NoError(t, err)
	assert.Equal(t, "draft", got.Status)
}
