// Package memory keeps every table in process memory. It backs the tests and DB_DRIVER=memory.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/cmlabs-hris/salary-engine/internal/domain/component"
	"github.com/cmlabs-hris/salary-engine/internal/domain/employee"
	"github.com/cmlabs-hris/salary-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/salary-engine/internal/domain/ratesetting"
	"github.com/cmlabs-hris/salary-engine/internal/domain/salary"
)

var clock = func() time.Time { return time.Now().UTC() }

// Store guards its maps with mu. gate orders writers against transactions so a
// rollback never discards a write made outside the transaction.
type Store struct {
	gate       sync.Mutex
	mu         sync.RWMutex
	components map[string]component.SalaryComponent
	rates      map[string]ratesetting.RateSetting
	salaries   map[string]salary.Salary
	items      map[string][]salary.SalaryItem
	payrolls   map[string]payroll.Payroll
	employees  map[string]employee.Employee
}

func NewStore() *Store {
	return &Store{
		components: make(map[string]component.SalaryComponent),
		rates:      make(map[string]ratesetting.RateSetting),
		salaries:   make(map[string]salary.Salary),
		items:      make(map[string][]salary.SalaryItem),
		payrolls:   make(map[string]payroll.Payroll),
		employees:  make(map[string]employee.Employee),
	}
}

// lockWrite takes the write gate unless ctx runs inside a transaction on s,
// which already holds it. Call the returned func to release.
func (s *Store) lockWrite(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.gate.Lock()
	return s.gate.Unlock
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, ok := ctx.Value(txKey{}).(*Store)
	return ok && owner == s
}

type snapshot struct {
	components map[string]component.SalaryComponent
	rates      map[string]ratesetting.RateSetting
	salaries   map[string]salary.Salary
	items      map[string][]salary.SalaryItem
	payrolls   map[string]payroll.Payroll
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make(map[string][]salary.SalaryItem, len(s.items))
	for id, list := range s.items {
		items[id] = append([]salary.SalaryItem(nil), list...)
	}
	return snapshot{
		components: maps.Clone(s.components),
		rates:      maps.Clone(s.rates),
		salaries:   maps.Clone(s.salaries),
		items:      items,
		payrolls:   maps.Clone(s.payrolls),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.components = snap.components
	s.rates = snap.rates
	s.salaries = snap.salaries
	s.items = snap.items
	s.payrolls = snap.payrolls
}
