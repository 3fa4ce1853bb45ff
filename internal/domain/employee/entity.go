package employee

import "github.com/shopspring/decimal"

// Employee is the read-only view of a directory record the salary engine needs.
type Employee struct {
	ID               string
	EmployeeCode     string
	FullName         string
	EmploymentStatus EmploymentStatus
	BaseSalary       *decimal.Decimal
}

type EmploymentStatus string

const (
	EmploymentStatusActive   EmploymentStatus = "active"
	EmploymentStatusResigned EmploymentStatus = "resigned"
	EmploymentStatusInactive EmploymentStatus = "inactive"
)

func (e Employee) IsActive() bool {
	return e.EmploymentStatus == EmploymentStatusActive
}
