package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/salary-engine/internal/domain/payroll"
)

type PayrollJobs struct {
	payrollService payroll.PayrollService
	interval       time.Duration
	now            func() time.Time
}

func NewPayrollJobs(payrollService payroll.PayrollService, interval time.Duration) *PayrollJobs {
	return &PayrollJobs{
		payrollService: payrollService,
		interval:       interval,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler) error {
	return scheduler.AddJob("calculate_due_payrolls", j.interval, j.CalculateDuePayrolls)
}

// CalculateDuePayrolls calculates draft payrolls whose period has ended.
func (j *PayrollJobs) CalculateDuePayrolls(ctx context.Context) error {
	asOf := j.now()
	count, err := j.payrollService.CalculateDuePayrolls(ctx, asOf)
	if err != nil {
		return err
	}
	if count > 0 {
		slog.Info("Cron: Due payrolls calculated", "count", count, "as_of", asOf)
	}
	return nil
}
