package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/cmlabs-hris/salary-engine/internal/domain/salary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	store := NewStore()
	repo := NewSalaryRepository(store)
	tx := NewTransactionManager(store)
	ctx := context.Background()

	created, err := repo.Create(ctx, salary.Salary{EmployeeID: "emp-1", Period: "2025-03", Status: salary.SalaryStatusDraft})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := repo.ReplaceItems(txCtx, created.ID, []salary.SalaryItem{{}}); err != nil {
			return err
		}
		s, err := repo.GetByIDForUpdate(txCtx, created.ID)
		if err != nil {
			return err
		}
		s.Status = salary.SalaryStatusCalculated
		if err := repo.Update(txCtx, s); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, salary.SalaryStatusDraft, stored.Status)

	items, err := repo.GetItems(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestTransactionManager_NestedJoinsOuter(t *testing.T) {
	store := NewStore()
	tx := NewTransactionManager(store)

	calls := 0
	err := tx.RunInTx(context.Background(), func(outer context.Context) error {
		return tx.RunInTx(outer, func(context.Context) error {
			calls++
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestTransactionManager_RollbackKeepsConcurrentWrites(t *testing.T) {
	store := NewStore()
	repo := NewSalaryRepository(store)
	tx := NewTransactionManager(store)
	ctx := context.Background()

	target, err := repo.Create(ctx, salary.Salary{EmployeeID: "emp-0", Period: "2025-03", Status: salary.SalaryStatusDraft})
	require.NoError(t, err)

	rejected := errors.New("rejected")
	done := make(chan struct{})
	var rollbacks sync.WaitGroup
	rollbacks.Add(1)
	go func() {
		defer rollbacks.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			_ = tx.RunInTx(ctx, func(txCtx context.Context) error {
				s, err := repo.GetByIDForUpdate(txCtx, target.ID)
				if err != nil {
					return err
				}
				s.Status = salary.SalaryStatusCalculated
				if err := repo.Update(txCtx, s); err != nil {
					return err
				}
				return rejected
			})
		}
	}()

	const writers, perWriter = 4, 250
	ids := make(chan string, writers*perWriter)
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				s, err := repo.Create(ctx, salary.Salary{
					EmployeeID: fmt.Sprintf("emp-%d-%d", w, i),
					Period:     "2025-03",
					Status:     salary.SalaryStatusDraft,
				})
				if assert.NoError(t, err) {
					ids <- s.ID
				}
			}
		}(w)
	}
	wg.Wait()
	close(done)
	rollbacks.Wait()
	close(ids)

	lost := 0
	for id := range ids {
		if _, err := repo.GetByID(ctx, id); err != nil {
			lost++
		}
	}
	assert.Zero(t, lost)

	stored, err := repo.GetByID(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, salary.SalaryStatusDraft, stored.Status)
}

func TestTransactionManager_WritesInsideTxDoNotBlock(t *testing.T) {
	store := NewStore()
	repo := NewSalaryRepository(store)
	tx := NewTransactionManager(store)

	err := tx.RunInTx(context.Background(), func(txCtx context.Context) error {
		_, err := repo.Create(txCtx, salary.Salary{EmployeeID: "emp-1", Period: "2025-03", Status: salary.SalaryStatusDraft})
		return err
	})
	require.NoError(t, err)

	list, total, err := repo.List(context.Background(), salary.SalaryFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)
}
