package scheduler_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/scheduler"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

type countingAuditor struct {
	calls int32
	err   error
}

func (a *countingAuditor) Audit(context.Context) (*dto.ReconciliationReport, error) {
	atomic.AddInt32(&a.calls, 1)
	if a.err != nil {
		return nil, a.err
	}
	return &dto.ReconciliationReport{Drifts: []dto.DriftDTO{{Entity: "lote", ID: "x"}}}, nil
}

func TestStart_ExpresionInvalida(t *testing.T) {
	s := scheduler.New(&countingAuditor{}, "no es cron", time.Second, logger.Nop())
	assert.Error(t, s.Start())
}

func TestStart_EjecutaPeriodicamente(t *testing.T) {
	a := &countingAuditor{}
	s := scheduler.New(a, "@every 1s", time.Second, logger.Nop())
	require.NoError(t, s.Start())
	defer s.Stop(context.Background())

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&a.calls) >= 1 }, 3*time.Second, 50*time.Millisecond)
}

func TestRunOnce_ErrorNoEntraEnPanico(t *testing.T) {
	a := &countingAuditor{err: errors.New("db caída")}
	s := scheduler.New(a, "@every 1h", 0, logger.Nop())
	s.RunOnce()
	assert.Equal(t, int32(1), atomic.LoadInt32(&a.calls))
}
