package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/salary-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/salary-engine/internal/domain/salary"
	"github.com/cmlabs-hris/salary-engine/internal/pkg/database"
	"github.com/cmlabs-hris/salary-engine/internal/pkg/lifecycle"
	"github.com/cmlabs-hris/salary-engine/internal/pkg/metrics"
	"github.com/cmlabs-hris/salary-engine/internal/pkg/numbering"
	"github.com/cmlabs-hris/salary-engine/internal/pkg/period"
	"github.com/cmlabs-hris/salary-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type PayrollServiceImpl struct {
	txManager   database.TxManager
	payrollRepo payroll.PayrollRepository
	salaryRepo  salary.SalaryRepository
	metrics     *metrics.Metrics
	policy      lifecycle.ApprovalPolicy
	now         func() time.Time
	newNumber   numbering.Generator
}

type Option func(*PayrollServiceImpl)

// WithClock overrides the time source used for summaries and transition timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *PayrollServiceImpl) { s.now = now }
}

// WithNumberGenerator overrides how payroll numbers are drawn.
func WithNumberGenerator(gen numbering.Generator) Option {
	return func(s *PayrollServiceImpl) { s.newNumber = gen }
}

func NewPayrollService(
	txManager database.TxManager,
	payrollRepo payroll.PayrollRepository,
	salaryRepo salary.SalaryRepository,
	m *metrics.Metrics,
	policy lifecycle.ApprovalPolicy,
	opts ...Option,
) payroll.PayrollService {
	s := &PayrollServiceImpl{
		txManager:   txManager,
		payrollRepo: payrollRepo,
		salaryRepo:  salaryRepo,
		metrics:     m,
		policy:      policy,
		now:         func() time.Time { return time.Now().UTC() },
		newNumber:   numbering.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *PayrollServiceImpl) CreatePayroll(ctx context.Context, req payroll.CreatePayrollRequest) (payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	start, end, err := period.Bounds(req.Period)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	if req.PeriodStart != nil {
		start, _ = validator.IsValidDate(*req.PeriodStart)
	}
	if req.PeriodEnd != nil {
		end, _ = validator.IsValidDate(*req.PeriodEnd)
	}
	if end.Before(start) {
		return payroll.PayrollResponse{}, validator.ValidationErrors{
			{Field: "period_end", Message: "must not be before period_start"},
		}
	}

	newPayroll := payroll.Payroll{
		Period:              req.Period,
		PeriodStart:         start,
		PeriodEnd:           end,
		Status:              payroll.PayrollStatusDraft,
		TotalGrossSalary:    decimal.Zero,
		TotalNetSalary:      decimal.Zero,
		TotalTaxes:          decimal.Zero,
		TotalSocialSecurity: decimal.Zero,
		TotalAllowances:     decimal.Zero,
		TotalDeductions:     decimal.Zero,
		Notes:               req.Notes,
	}
	if req.PaymentDate != nil {
		paymentDate, _ := validator.IsValidDate(*req.PaymentDate)
		newPayroll.PaymentDate = &paymentDate
	}

	created, err := s.createNumbered(ctx, newPayroll)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	slog.Info("Payroll created", "payroll_id", created.ID, "payroll_number", created.PayrollNumber, "period", created.Period)
	return payroll.ToResponse(created), nil
}

// createNumbered inserts p under a fresh payroll number, drawing again when the number is taken.
func (s *PayrollServiceImpl) createNumbered(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	for attempt := 1; ; attempt++ {
		number, err := s.newNumber(numbering.PayrollPrefix, p.Period)
		if err != nil {
			return payroll.Payroll{}, err
		}
		p.PayrollNumber = number

		created, err := s.payrollRepo.Create(ctx, p)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, payroll.ErrPayrollNumberExists) || attempt >= numbering.Attempts {
			return payroll.Payroll{}, err
		}
		slog.Warn("Payroll number taken, drawing another", "payroll_number", number, "attempt", attempt)
	}
}

func (s *PayrollServiceImpl) GetPayroll(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	p, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	return payroll.ToResponse(p), nil
}

func (s *PayrollServiceImpl) ListPayrolls(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListPayrollResponse{}, err
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}

	payrolls, total, err := s.payrollRepo.List(ctx, filter)
	if err != nil {
		return payroll.ListPayrollResponse{}, err
	}

	data := make([]payroll.PayrollResponse, 0, len(payrolls))
	for _, p := range payrolls {
		data = append(data, payroll.ToResponse(p))
	}
	return payroll.ListPayrollResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// ListPayrollSalaries returns every salary sharing the payroll's period label.
func (s *PayrollServiceImpl) ListPayrollSalaries(ctx context.Context, id string) ([]salary.SalaryResponse, error) {
	p, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	salaries, err := s.salaryRepo.ListByPeriod(ctx, p.Period)
	if err != nil {
		return nil, fmt.Errorf("failed to list salaries for period %s: %w", p.Period, err)
	}

	responses := make([]salary.SalaryResponse, 0, len(salaries))
	for _, sal := range salaries {
		responses = append(responses, salary.ToResponse(sal, nil))
	}
	return responses, nil
}

// CalculatePayroll aggregates all salaries of the period, whatever their status.
func (s *PayrollServiceImpl) CalculatePayroll(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	var result payroll.Payroll
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		p, err := s.payrollRepo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if err := p.CanCalculate(); err != nil {
			return err
		}

		salaries, err := s.salaryRepo.ListByPeriod(txCtx, p.Period)
		if err != nil {
			return fmt.Errorf("failed to list salaries for period %s: %w", p.Period, err)
		}
		if len(salaries) == 0 {
			return payroll.ErrNothingToCalculate
		}

		if err := p.ApplySummary(payroll.Summarize(salaries, s.now())); err != nil {
			return err
		}
		if err := s.payrollRepo.Update(txCtx, p); err != nil {
			return fmt.Errorf("failed to update payroll: %w", err)
		}
		result = p
		return nil
	})
	if err != nil {
		if errors.Is(err, payroll.ErrNothingToCalculate) {
			slog.Warn("Payroll has no salaries to aggregate", "payroll_id", id)
		}
		return payroll.PayrollResponse{}, s.rejected(err)
	}

	s.metrics.PayrollCalculated(result.TotalEmployees)
	s.metrics.Transition("payroll", string(lifecycle.ActionCalculate))
	slog.Info("Payroll calculated", "payroll_id", result.ID, "period", result.Period,
		"total_employees", result.TotalEmployees, "total_net_salary", result.TotalNetSalary.String())
	return payroll.ToResponse(result), nil
}

func (s *PayrollServiceImpl) ApprovePayroll(ctx context.Context, id string, approverID string, notes *string) (payroll.PayrollResponse, error) {
	return s.transition(ctx, id, lifecycle.ActionApprove, func(p *payroll.Payroll, at time.Time) error {
		return p.Approve(approverID, notes, at, s.policy)
	})
}

func (s *PayrollServiceImpl) PayPayroll(ctx context.Context, id string, payerID string) (payroll.PayrollResponse, error) {
	return s.transition(ctx, id, lifecycle.ActionMarkPaid, func(p *payroll.Payroll, at time.Time) error {
		return p.MarkPaid(payerID, at)
	})
}

func (s *PayrollServiceImpl) CancelPayroll(ctx context.Context, id string, reason *string) (payroll.PayrollResponse, error) {
	return s.transition(ctx, id, lifecycle.ActionCancel, func(p *payroll.Payroll, at time.Time) error {
		return p.Cancel(reason, at)
	})
}

// CalculateDuePayrolls calculates every draft payroll whose period ended before asOf.
// Payrolls without salaries stay in draft and are retried on the next run.
func (s *PayrollServiceImpl) CalculateDuePayrolls(ctx context.Context, asOf time.Time) (int, error) {
	draft := string(payroll.PayrollStatusDraft)
	filter := payroll.PayrollFilter{Status: &draft, Page: 1, Limit: maxPageLimit}

	var due []payroll.Payroll
	for {
		page, total, err := s.payrollRepo.List(ctx, filter)
		if err != nil {
			return 0, fmt.Errorf("failed to list draft payrolls: %w", err)
		}
		for _, p := range page {
			if p.PeriodEnd.Before(asOf) {
				due = append(due, p)
			}
		}
		if len(page) == 0 || int64(filter.Page*filter.Limit) >= total {
			break
		}
		filter.Page++
	}

	calculated := 0
	for _, p := range due {
		if err := ctx.Err(); err != nil {
			return calculated, err
		}
		if _, err := s.CalculatePayroll(ctx, p.ID); err != nil {
			if errors.Is(err, payroll.ErrNothingToCalculate) || errors.Is(err, payroll.ErrInvalidTransition) {
				continue
			}
			return calculated, err
		}
		calculated++
	}
	return calculated, nil
}

func (s *PayrollServiceImpl) transition(ctx context.Context, id string, action lifecycle.Action, fn func(*payroll.Payroll, time.Time) error) (payroll.PayrollResponse, error) {
	var result payroll.Payroll
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		p, err := s.payrollRepo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if err := fn(&p, s.now()); err != nil {
			return err
		}
		if err := s.payrollRepo.Update(txCtx, p); err != nil {
			return fmt.Errorf("failed to update payroll: %w", err)
		}
		result = p
		return nil
	})
	if err != nil {
		return payroll.PayrollResponse{}, s.rejected(err)
	}

	s.metrics.Transition("payroll", string(action))
	slog.Info("Payroll status changed", "payroll_id", result.ID, "action", action, "status", result.Status)
	return payroll.ToResponse(result), nil
}

func (s *PayrollServiceImpl) rejected(err error) error {
	var te *payroll.TransitionError
	if errors.As(err, &te) {
		slog.Warn("Payroll transition rejected", "action", te.Action, "status", te.Status)
		s.metrics.TransitionRejected("payroll", string(te.Action), string(te.Status))
	}
	return err
}
