package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/salary-engine/internal/domain/payroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunOnceJoinsErrors(t *testing.T) {
	s := NewScheduler()
	var ran []string

	require.NoError(t, s.AddJob("ok", time.Minute, func(ctx context.Context) error {
		ran = append(ran, "ok")
		return nil
	}))
	require.NoError(t, s.AddJob("fails", time.Minute, func(ctx context.Context) error {
		ran = append(ran, "fails")
		return errors.New("boom")
	}))
	require.NoError(t, s.AddJob("panics", time.Minute, func(ctx context.Context) error {
		ran = append(ran, "panics")
		panic("unexpected")
	}))

	err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Contains(t, err.Error(), "panicked")
	assert.Equal(t, []string{"ok", "fails", "panics"}, ran)
}

func TestScheduler_RejectsNonPositiveInterval(t *testing.T) {
	s := NewScheduler()
	assert.Error(t, s.AddJob("never", 0, func(ctx context.Context) error { return nil }))
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler()
	var calls atomic.Int32
	done := make(chan struct{}, 1)

	require.NoError(t, s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		calls.Add(1)
		select {
		case done <- struct{}{}:
		default:
		}
		return nil
	}))

	s.Start(context.Background())
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()

	assert.Equal(t, int32(1), calls.Load())
}

type stubPayrollService struct {
	payroll.PayrollService
	asOf  time.Time
	count int
	err   error
}

func (s *stubPayrollService) CalculateDuePayrolls(ctx context.Context, asOf time.Time) (int, error) {
	s.asOf = asOf
	return s.count, s.err
}

func TestPayrollJobs_CalculateDuePayrolls(t *testing.T) {
	now := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	stub := &stubPayrollService{count: 2}
	jobs := NewPayrollJobs(stub, time.Hour)
	jobs.now = func() time.Time { return now }

	s := NewScheduler()
	require.NoError(t, jobs.RegisterJobs(s))
	require.NoError(t, s.RunOnce(context.Background()))
	assert.Equal(t, now, stub.asOf)

	stub.err = errors.New("database unavailable")
	assert.ErrorContains(t, s.RunOnce(context.Background()), "database unavailable")
}
