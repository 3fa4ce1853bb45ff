package memory

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/salary-engine/internal/pkg/database"
)

type txKey struct{}

// TransactionManager serializes units of work against every store write and
// rolls the store back when fn fails.
type TransactionManager struct {
	store *Store
}

func NewTransactionManager(store *Store) database.TxManager {
	return &TransactionManager{store: store}
}

func (m *TransactionManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if m.store.inTx(ctx) {
		return fn(ctx)
	}

	m.store.gate.Lock()
	defer m.store.gate.Unlock()

	snap := m.store.snapshot()
	defer func() {
		if p := recover(); p != nil {
			m.store.restore(snap)
			panic(p)
		}
		if err != nil {
			m.store.restore(snap)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, m.store)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
