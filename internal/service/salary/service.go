package salary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/salary-engine/internal/domain/component"
	"github.com/cmlabs-hris/salary-engine/internal/domain/employee"
	"github.com/cmlabs-hris/salary-engine/internal/domain/ratesetting"
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

type SalaryServiceImpl struct {
	txManager     database.TxManager
	salaryRepo    salary.SalaryRepository
	componentRepo component.ComponentRepository
	rates         ratesetting.RateSettingService
	directory     employee.Directory
	metrics       *metrics.Metrics
	policy        lifecycle.ApprovalPolicy
	now           func() time.Time
	newNumber     numbering.Generator
}

type Option func(*SalaryServiceImpl)

// WithClock overrides the time source used for calculation and transition timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *SalaryServiceImpl) { s.now = now }
}

// WithNumberGenerator overrides how salary numbers are drawn.
func WithNumberGenerator(gen numbering.Generator) Option {
	return func(s *SalaryServiceImpl) { s.newNumber = gen }
}

func NewSalaryService(
	txManager database.TxManager,
	salaryRepo salary.SalaryRepository,
	componentRepo component.ComponentRepository,
	rates ratesetting.RateSettingService,
	directory employee.Directory,
	m *metrics.Metrics,
	policy lifecycle.ApprovalPolicy,
	opts ...Option,
) salary.SalaryService {
	s := &SalaryServiceImpl{
		txManager:     txManager,
		salaryRepo:    salaryRepo,
		componentRepo: componentRepo,
		rates:         rates,
		directory:     directory,
		metrics:       m,
		policy:        policy,
		now:           func() time.Time { return time.Now().UTC() },
		newNumber:     numbering.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SalaryServiceImpl) CreateSalary(ctx context.Context, req salary.CreateSalaryRequest) (salary.SalaryResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.SalaryResponse{}, err
	}

	emp, err := s.directory.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return salary.SalaryResponse{}, err
	}
	if !emp.IsActive() {
		return salary.SalaryResponse{}, employee.ErrEmployeeInactive
	}

	baseSalary := req.BaseSalary
	if baseSalary == nil {
		baseSalary = emp.BaseSalary
	}
	if baseSalary == nil {
		return salary.SalaryResponse{}, validator.ValidationErrors{
			{Field: "base_salary", Message: "is required when the employee has no base salary on record"},
		}
	}

	start, end, err := period.Bounds(req.Period)
	if err != nil {
		return salary.SalaryResponse{}, err
	}
	if req.PeriodStart != nil {
		start, _ = validator.IsValidDate(*req.PeriodStart)
	}
	if req.PeriodEnd != nil {
		end, _ = validator.IsValidDate(*req.PeriodEnd)
	}
	if end.Before(start) {
		return salary.SalaryResponse{}, validator.ValidationErrors{
			{Field: "period_end", Message: "must not be before period_start"},
		}
	}

	newSalary := salary.Salary{
		EmployeeID:          emp.ID,
		Period:              req.Period,
		PeriodStart:         start,
		PeriodEnd:           end,
		BaseSalary:          baseSalary.Round(moneyPlaces),
		HoursWorked:         valueOrZero(req.HoursWorked),
		PerformanceFactor:   valueOrZero(req.PerformanceFactor),
		TotalAllowances:     decimal.Zero,
		TotalDeductions:     decimal.Zero,
		TotalTaxes:          decimal.Zero,
		TotalSocialSecurity: decimal.Zero,
		GrossSalary:         decimal.Zero,
		NetSalary:           decimal.Zero,
		Status:              salary.SalaryStatusDraft,
		Notes:               req.Notes,
	}
	if req.PayDate != nil {
		payDate, _ := validator.IsValidDate(*req.PayDate)
		newSalary.PayDate = &payDate
	}

	created, err := s.createNumbered(ctx, newSalary)
	if err != nil {
		return salary.SalaryResponse{}, err
	}
	created.EmployeeName = &emp.FullName
	created.EmployeeCode = &emp.EmployeeCode

	slog.Info("Salary created", "salary_id", created.ID, "salary_number", created.SalaryNumber, "employee_id", created.EmployeeID, "period", created.Period)
	return salary.ToResponse(created, nil), nil
}

// createNumbered inserts sal under a fresh salary number, drawing again when the number is taken.
func (s *SalaryServiceImpl) createNumbered(ctx context.Context, sal salary.Salary) (salary.Salary, error) {
	for attempt := 1; ; attempt++ {
		number, err := s.newNumber(numbering.SalaryPrefix, sal.Period)
		if err != nil {
			return salary.Salary{}, err
		}
		sal.SalaryNumber = number

		created, err := s.salaryRepo.Create(ctx, sal)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, salary.ErrSalaryNumberExists) || attempt >= numbering.Attempts {
			return salary.Salary{}, err
		}
		slog.Warn("Salary number taken, drawing another", "salary_number", number, "attempt", attempt)
	}
}

func (s *SalaryServiceImpl) GetSalary(ctx context.Context, id string) (salary.SalaryResponse, error) {
	sal, err := s.salaryRepo.GetByID(ctx, id)
	if err != nil {
		return salary.SalaryResponse{}, err
	}
	items, err := s.salaryRepo.GetItems(ctx, id)
	if err != nil {
		return salary.SalaryResponse{}, err
	}
	s.attachEmployees(ctx, []*salary.Salary{&sal})
	return salary.ToResponse(sal, items), nil
}

func (s *SalaryServiceImpl) ListSalaries(ctx context.Context, filter salary.SalaryFilter) (salary.ListSalaryResponse, error) {
	if err := filter.Validate(); err != nil {
		return salary.ListSalaryResponse{}, err
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

	salaries, total, err := s.salaryRepo.List(ctx, filter)
	if err != nil {
		return salary.ListSalaryResponse{}, err
	}

	refs := make([]*salary.Salary, len(salaries))
	for i := range salaries {
		refs[i] = &salaries[i]
	}
	s.attachEmployees(ctx, refs)

	data := make([]salary.SalaryResponse, 0, len(salaries))
	for _, sal := range salaries {
		data = append(data, salary.ToResponse(sal, nil))
	}
	return salary.ListSalaryResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *SalaryServiceImpl) UpdateSalary(ctx context.Context, req salary.UpdateSalaryRequest) (salary.SalaryResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.SalaryResponse{}, err
	}

	var updated salary.Salary
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		sal, err := s.salaryRepo.GetByIDForUpdate(txCtx, req.ID)
		if err != nil {
			return err
		}
		if err := sal.CanEdit(); err != nil {
			return err
		}

		if req.BaseSalary != nil {
			sal.BaseSalary = req.BaseSalary.Round(moneyPlaces)
		}
		if req.HoursWorked != nil {
			sal.HoursWorked = *req.HoursWorked
		}
		if req.PerformanceFactor != nil {
			sal.PerformanceFactor = *req.PerformanceFactor
		}
		if req.PayDate != nil {
			payDate, _ := validator.IsValidDate(*req.PayDate)
			sal.PayDate = &payDate
		}
		if req.Notes != nil {
			sal.Notes = req.Notes
		}
		sal.UpdatedAt = s.now()

		if err := s.salaryRepo.Update(txCtx, sal); err != nil {
			return fmt.Errorf("failed to update salary: %w", err)
		}
		updated = sal
		return nil
	})
	if err != nil {
		return salary.SalaryResponse{}, s.rejected(err)
	}

	items, err := s.salaryRepo.GetItems(ctx, updated.ID)
	if err != nil {
		return salary.SalaryResponse{}, err
	}
	s.attachEmployees(ctx, []*salary.Salary{&updated})
	return salary.ToResponse(updated, items), nil
}

func (s *SalaryServiceImpl) DeleteSalary(ctx context.Context, id string) error {
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		sal, err := s.salaryRepo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if err := sal.CanDelete(); err != nil {
			return err
		}
		return s.salaryRepo.Delete(txCtx, id)
	})
	if err != nil {
		return s.rejected(err)
	}

	slog.Info("Salary deleted", "salary_id", id)
	return nil
}

func (s *SalaryServiceImpl) GetSalaryItems(ctx context.Context, id string) ([]salary.SalaryItemResponse, error) {
	if _, err := s.salaryRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	items, err := s.salaryRepo.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}

	responses := make([]salary.SalaryItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, salary.ToItemResponse(item))
	}
	return responses, nil
}

// CalculateSalary replaces the salary's items and totals and advances draft -> calculated.
// The row is locked for the whole pass, so a concurrent calculate sees the new status and is rejected.
func (s *SalaryServiceImpl) CalculateSalary(ctx context.Context, id string) (salary.SalaryResponse, error) {
	started := time.Now()

	var result salary.Salary
	var items []salary.SalaryItem
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		sal, err := s.salaryRepo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if err := sal.CanCalculate(); err != nil {
			return err
		}

		components, err := s.componentRepo.List(txCtx, true)
		if err != nil {
			return fmt.Errorf("failed to load salary components: %w", err)
		}
		rates, err := s.rates.Snapshot(txCtx)
		if err != nil {
			return fmt.Errorf("failed to load rate settings: %w", err)
		}

		calc := Calculate(sal, components, rates, s.now())
		for _, gap := range calc.Gaps {
			slog.Warn("Salary component skipped due to configuration gap",
				"salary_id", sal.ID, "component_id", gap.ComponentID, "component_code", gap.ComponentCode, "reason", gap.Reason)
			s.metrics.ConfigurationGap(gap.ComponentCode)
		}

		saved, err := s.salaryRepo.ReplaceItems(txCtx, sal.ID, calc.Items)
		if err != nil {
			return fmt.Errorf("failed to replace salary items: %w", err)
		}
		if err := sal.ApplyCalculation(calc); err != nil {
			return err
		}
		if err := s.salaryRepo.Update(txCtx, sal); err != nil {
			return fmt.Errorf("failed to update salary: %w", err)
		}

		result = sal
		items = saved
		return nil
	})
	if err != nil {
		return salary.SalaryResponse{}, s.rejected(err)
	}

	s.metrics.SalaryCalculated(time.Since(started))
	s.metrics.Transition("salary", string(lifecycle.ActionCalculate))
	slog.Info("Salary calculated", "salary_id", result.ID, "items", len(items), "gross_salary", result.GrossSalary.String(), "net_salary", result.NetSalary.String())

	s.attachEmployees(ctx, []*salary.Salary{&result})
	return salary.ToResponse(result, items), nil
}

func (s *SalaryServiceImpl) ApproveSalary(ctx context.Context, id string, approverID string, notes *string) (salary.SalaryResponse, error) {
	return s.transition(ctx, id, lifecycle.ActionApprove, func(sal *salary.Salary, at time.Time) error {
		uncalculated := sal.Status == salary.SalaryStatusDraft
		if err := sal.Approve(approverID, notes, at, s.policy); err != nil {
			return err
		}
		if uncalculated {
			slog.Warn("Salary approved without calculation", "salary_id", sal.ID, "approved_by", approverID)
		}
		return nil
	})
}

func (s *SalaryServiceImpl) PaySalary(ctx context.Context, id string, payerID string) (salary.SalaryResponse, error) {
	return s.transition(ctx, id, lifecycle.ActionMarkPaid, func(sal *salary.Salary, at time.Time) error {
		return sal.MarkPaid(payerID, at)
	})
}

func (s *SalaryServiceImpl) CancelSalary(ctx context.Context, id string, reason *string) (salary.SalaryResponse, error) {
	return s.transition(ctx, id, lifecycle.ActionCancel, func(sal *salary.Salary, at time.Time) error {
		return sal.Cancel(reason, at)
	})
}

func (s *SalaryServiceImpl) ReopenSalary(ctx context.Context, id string) (salary.SalaryResponse, error) {
	return s.transition(ctx, id, lifecycle.ActionReopen, func(sal *salary.Salary, at time.Time) error {
		return sal.Reopen(at)
	})
}

// transition locks the salary, applies fn and writes the row back in one unit of work.
func (s *SalaryServiceImpl) transition(ctx context.Context, id string, action lifecycle.Action, fn func(*salary.Salary, time.Time) error) (salary.SalaryResponse, error) {
	var result salary.Salary
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		sal, err := s.salaryRepo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if err := fn(&sal, s.now()); err != nil {
			return err
		}
		if err := s.salaryRepo.Update(txCtx, sal); err != nil {
			return fmt.Errorf("failed to update salary: %w", err)
		}
		result = sal
		return nil
	})
	if err != nil {
		return salary.SalaryResponse{}, s.rejected(err)
	}

	s.metrics.Transition("salary", string(action))
	slog.Info("Salary status changed", "salary_id", result.ID, "action", action, "status", result.Status)

	items, err := s.salaryRepo.GetItems(ctx, result.ID)
	if err != nil {
		return salary.SalaryResponse{}, err
	}
	s.attachEmployees(ctx, []*salary.Salary{&result})
	return salary.ToResponse(result, items), nil
}

// rejected logs and counts transition refusals and passes every error through unchanged.
func (s *SalaryServiceImpl) rejected(err error) error {
	var te *salary.TransitionError
	if errors.As(err, &te) {
		slog.Warn("Salary transition rejected", "action", te.Action, "status", te.Status)
		s.metrics.TransitionRejected("salary", string(te.Action), string(te.Status))
	}
	return err
}

// attachEmployees fills display fields the repository did not join. Directory failures are not fatal.
func (s *SalaryServiceImpl) attachEmployees(ctx context.Context, salaries []*salary.Salary) {
	var ids []string
	for _, sal := range salaries {
		if sal.EmployeeName == nil {
			ids = append(ids, sal.EmployeeID)
		}
	}
	if len(ids) == 0 {
		return
	}

	employees, err := s.directory.GetByIDs(ctx, ids)
	if err != nil {
		slog.Warn("Failed to load employees for salaries", "error", err)
		return
	}
	for _, sal := range salaries {
		if emp, ok := employees[sal.EmployeeID]; ok && sal.EmployeeName == nil {
			name, code := emp.FullName, emp.EmployeeCode
			sal.EmployeeName = &name
			sal.EmployeeCode = &code
		}
	}
}

func valueOrZero(v *decimal.Decimal) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return *v
}
