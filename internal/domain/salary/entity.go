package salary

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/salary-engine/internal/domain/component"
	"github.com/cmlabs-hris/salary-engine/internal/pkg/lifecycle"
	"github.com/shopspring/decimal"
)

// SalaryStatus enum
type SalaryStatus string

const (
	SalaryStatusDraft      SalaryStatus = "draft"
	SalaryStatusCalculated SalaryStatus = "calculated"
	SalaryStatusApproved   SalaryStatus = "approved"
	SalaryStatusPaid       SalaryStatus = "paid"
	SalaryStatusCancelled  SalaryStatus = "cancelled"
)

func (s SalaryStatus) Valid() bool {
	switch s {
	case SalaryStatusDraft, SalaryStatusCalculated, SalaryStatusApproved, SalaryStatusPaid, SalaryStatusCancelled:
		return true
	}
	return false
}

var transitions = map[lifecycle.Action][]SalaryStatus{
	lifecycle.ActionCalculate: {SalaryStatusDraft},
	lifecycle.ActionApprove:   {SalaryStatusDraft, SalaryStatusCalculated},
	lifecycle.ActionMarkPaid:  {SalaryStatusApproved},
	lifecycle.ActionCancel:    {SalaryStatusDraft, SalaryStatusCalculated},
	lifecycle.ActionReopen:    {SalaryStatusCalculated},
	lifecycle.ActionEdit:      {SalaryStatusDraft},
	lifecycle.ActionDelete:    {SalaryStatusDraft, SalaryStatusCancelled},
}

// Allows reports whether action may be applied to a salary in status s.
func (s SalaryStatus) Allows(action lifecycle.Action, policy lifecycle.ApprovalPolicy) bool {
	if action == lifecycle.ActionApprove && s == SalaryStatusDraft && !policy.AllowsUncalculated() {
		return false
	}
	for _, from := range transitions[action] {
		if from == s {
			return true
		}
	}
	return false
}

// Salary - One employee's pay record for one period
type Salary struct {
	ID                  string
	SalaryNumber        string
	EmployeeID          string
	Period              string
	PeriodStart         time.Time
	PeriodEnd           time.Time
	PayDate             *time.Time
	BaseSalary          decimal.Decimal
	HoursWorked         decimal.Decimal
	PerformanceFactor   decimal.Decimal
	TotalAllowances     decimal.Decimal
	TotalDeductions     decimal.Decimal
	TotalTaxes          decimal.Decimal
	TotalSocialSecurity decimal.Decimal
	GrossSalary         decimal.Decimal
	NetSalary           decimal.Decimal
	Status              SalaryStatus
	Notes               *string
	Breakdown           *Breakdown
	CalculatedAt        *time.Time
	ApprovedBy          *string
	ApprovedAt          *time.Time
	PaidBy              *string
	PaidAt              *time.Time
	CancelledAt         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
}

// Breakdown is the snapshot captured when a salary is calculated.
type Breakdown struct {
	BaseSalary          decimal.Decimal `json:"base_salary"`
	TotalAllowances     decimal.Decimal `json:"total_allowances"`
	TotalDeductions     decimal.Decimal `json:"total_deductions"`
	TotalTaxes          decimal.Decimal `json:"total_taxes"`
	TotalSocialSecurity decimal.Decimal `json:"total_social_security"`
	GrossSalary         decimal.Decimal `json:"gross_salary"`
	NetSalary           decimal.Decimal `json:"net_salary"`
	TaxRate             decimal.Decimal `json:"tax_rate"`
	SocialSecurityRate  decimal.Decimal `json:"social_security_rate"`
	ItemCount           int             `json:"item_count"`
	SkippedComponents   []string        `json:"skipped_components,omitempty"`
	CalculatedAt        time.Time       `json:"calculated_at"`
}

// ComponentSnapshot freezes the component fields an item was computed from.
type ComponentSnapshot struct {
	Code                   string                    `json:"code"`
	Name                   string                    `json:"name"`
	Type                   component.ComponentType   `json:"type"`
	CalculationType        component.CalculationType `json:"calculation_type"`
	Unit                   string                    `json:"unit"`
	IsTaxable              bool                      `json:"is_taxable"`
	IsSocialSecurityLiable bool                      `json:"is_social_security_liable"`
	BaseAmount             decimal.Decimal           `json:"base_amount"`
}

// SalaryItem - One materialized application of a component to a salary
type SalaryItem struct {
	ID                   string
	SalaryID             string
	ComponentID          *string
	Snapshot             ComponentSnapshot
	Amount               decimal.Decimal
	Rate                 *decimal.Decimal
	Quantity             decimal.Decimal
	TaxAmount            decimal.Decimal
	SocialSecurityAmount decimal.Decimal
	Position             int
	CreatedAt            time.Time
}

// Calculation is the derived state produced by one calculation pass.
type Calculation struct {
	Items               []SalaryItem
	TotalAllowances     decimal.Decimal
	TotalDeductions     decimal.Decimal
	TotalTaxes          decimal.Decimal
	TotalSocialSecurity decimal.Decimal
	GrossSalary         decimal.Decimal
	NetSalary           decimal.Decimal
	Breakdown           Breakdown
	Gaps                []ConfigurationGap
}

// ConfigurationGap records a component that could not produce an amount.
type ConfigurationGap struct {
	ComponentID   string
	ComponentCode string
	Reason        string
}

func (s *Salary) guard(action lifecycle.Action, policy lifecycle.ApprovalPolicy) error {
	if !s.Status.Allows(action, policy) {
		return &TransitionError{Action: action, Status: s.Status}
	}
	return nil
}

// CanEdit reports whether base inputs may be changed.
func (s *Salary) CanEdit() error {
	return s.guard(lifecycle.ActionEdit, lifecycle.ApprovalPermissive)
}

// CanDelete reports whether the record may be removed.
func (s *Salary) CanDelete() error {
	return s.guard(lifecycle.ActionDelete, lifecycle.ApprovalPermissive)
}

// CanCalculate reports whether the calculate transition is allowed.
func (s *Salary) CanCalculate() error {
	return s.guard(lifecycle.ActionCalculate, lifecycle.ApprovalPermissive)
}

// ApplyCalculation stores the derived totals and advances draft -> calculated.
func (s *Salary) ApplyCalculation(c Calculation) error {
	if err := s.CanCalculate(); err != nil {
		return err
	}
	at := c.Breakdown.CalculatedAt
	breakdown := c.Breakdown

	s.TotalAllowances = c.TotalAllowances
	s.TotalDeductions = c.TotalDeductions
	s.TotalTaxes = c.TotalTaxes
	s.TotalSocialSecurity = c.TotalSocialSecurity
	s.GrossSalary = c.GrossSalary
	s.NetSalary = c.NetSalary
	s.Breakdown = &breakdown
	s.CalculatedAt = &at
	s.Status = SalaryStatusCalculated
	s.UpdatedAt = at
	return nil
}

func (s *Salary) Approve(approverID string, notes *string, at time.Time, policy lifecycle.ApprovalPolicy) error {
	if err := s.guard(lifecycle.ActionApprove, policy); err != nil {
		return err
	}
	s.ApprovedBy = &approverID
	s.ApprovedAt = &at
	if notes != nil && strings.TrimSpace(*notes) != "" {
		s.appendNote("approved: " + strings.TrimSpace(*notes))
	}
	s.Status = SalaryStatusApproved
	s.UpdatedAt = at
	return nil
}

func (s *Salary) MarkPaid(payerID string, at time.Time) error {
	if err := s.guard(lifecycle.ActionMarkPaid, lifecycle.ApprovalPermissive); err != nil {
		return err
	}
	s.PaidBy = &payerID
	s.PaidAt = &at
	s.Status = SalaryStatusPaid
	s.UpdatedAt = at
	return nil
}

func (s *Salary) Cancel(reason *string, at time.Time) error {
	if err := s.guard(lifecycle.ActionCancel, lifecycle.ApprovalPermissive); err != nil {
		return err
	}
	note := "cancelled"
	if reason != nil && strings.TrimSpace(*reason) != "" {
		note += ": " + strings.TrimSpace(*reason)
	}
	s.appendNote(note)
	s.CancelledAt = &at
	s.Status = SalaryStatusCancelled
	s.UpdatedAt = at
	return nil
}

// Reopen moves a calculated salary back to draft and clears every derived field.
// Items stay until the next calculation replaces them.
func (s *Salary) Reopen(at time.Time) error {
	if err := s.guard(lifecycle.ActionReopen, lifecycle.ApprovalPermissive); err != nil {
		return err
	}
	s.TotalAllowances = decimal.Zero
	s.TotalDeductions = decimal.Zero
	s.TotalTaxes = decimal.Zero
	s.TotalSocialSecurity = decimal.Zero
	s.GrossSalary = decimal.Zero
	s.NetSalary = decimal.Zero
	s.Breakdown = nil
	s.CalculatedAt = nil
	s.Status = SalaryStatusDraft
	s.UpdatedAt = at
	return nil
}

func (s *Salary) appendNote(note string) {
	if s.Notes == nil || *s.Notes == "" {
		s.Notes = &note
		return
	}
	joined := *s.Notes + "\n" + note
	s.Notes = &joined
}
