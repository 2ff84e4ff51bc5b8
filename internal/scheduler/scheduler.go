package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

// Auditor es lo que el scheduler necesita del caso de uso de conciliación.
type Auditor interface {
	Audit(ctx context.Context) (*dto.ReconciliationReport, error)
}

// Scheduler ejecuta la auditoría de stock periódicamente.
type Scheduler struct {
	cron    *cron.Cron
	auditor Auditor
	expr    string
	timeout time.Duration
	log     *logger.Logger
}

// New crea el scheduler. expr usa la sintaxis de robfig/cron (5 campos o descriptores como "@every 1h").
func New(auditor Auditor, expr string, timeout time.Duration, log *logger.Logger) *Scheduler {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Scheduler{
		// Una auditoría lenta no se solapa con la siguiente.
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		auditor: auditor,
		expr:    expr,
		timeout: timeout,
		log:     log.Named("scheduler"),
	}
}

// Start registra la tarea y arranca el cron. Devuelve error si la expresión es inválida.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.expr, s.RunOnce); err != nil {
		return fmt.Errorf("programar auditoría %q: %w", s.expr, err)
	}
	s.log.Info().Str("expr", s.expr).Msg("iniciando scheduler de auditoría")
	s.cron.Start()
	return nil
}

// Stop detiene el cron y espera a que termine la tarea en curso o a que venza ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	s.log.Info().Msg("deteniendo scheduler")
	done := s.cron.Stop().Done()
	select {
	case <-done:
	case <-ctx.Done():
		s.log.Warn().Msg("auditoría en curso no terminó antes del apagado")
	}
}

// RunOnce ejecuta una auditoría con timeout. Los errores solo se registran.
func (s *Scheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	report, err := s.auditor.Audit(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("auditoría de stock fallida")
		return
	}
	if !report.Consistent() {
		s.log.Warn().Int("drifts", len(report.Drifts)).Msg("auditoría de stock con diferencias")
	}
}
