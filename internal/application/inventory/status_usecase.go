package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

// StatusUseCase cambia el estado de un movimiento. Nunca toca cantidades ni revalida stock.
// Es la única vía de escritura de estado; UpdateMovement también pasa por aquí.
type StatusUseCase struct {
	tx  TxRunner
	log *logger.Logger
	now func() time.Time
}

// NewStatusUseCase construye el caso de uso.
func NewStatusUseCase(tx TxRunner, log *logger.Logger) *StatusUseCase {
	return &StatusUseCase{tx: tx, log: log.Named("status"), now: func() time.Time { return time.Now().UTC() }}
}

// SetStatus fija el estado de un movimiento del tipo indicado.
func (uc *StatusUseCase) SetStatus(ctx context.Context, actorID string, kind entity.MovementKind, id, status string) (*dto.MovementResponse, error) {
	st, err := parseStatus(status)
	if err != nil {
		return nil, err
	}

	var out *dto.MovementResponse
	err = uc.tx.Run(ctx, func(r Repos) error {
		m, err := loadMovement(ctx, r, kind, id, true)
		if err != nil {
			return err
		}
		if err := uc.apply(ctx, r, m, st, actorID); err != nil {
			return err
		}
		out, err = snapshot(ctx, r, m)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// apply escribe el estado si cambia. Repetir el mismo estado no escribe nada.
func (uc *StatusUseCase) apply(ctx context.Context, r Repos, m *entity.Movement, status entity.MovementStatus, actorID string) error {
	if m.Status == status {
		return nil
	}
	now := uc.now()
	if err := r.Movements.UpdateStatus(ctx, m.ID, status, actorID, now); err != nil {
		return err
	}
	uc.log.Info().
		Str("movement_id", m.ID).
		Str("kind", string(m.Kind)).
		Str("from", string(m.Status)).
		Str("to", string(status)).
		Str("actor", actorID).
		Msg("estado de movimiento actualizado")
	m.Status = status
	m.UpdatedAt = now
	m.UpdatedBy = actorID
	return nil
}

func parseStatus(s string) (entity.MovementStatus, error) {
	st := entity.MovementStatus(strings.ToUpper(strings.TrimSpace(s)))
	if st == "" {
		return "", domain.Invalid(domain.EntityMovement, "", "el estado es obligatorio")
	}
	if !st.Valid() {
		return "", domain.Invalid(domain.EntityMovement, "", "estado desconocido: "+string(st))
	}
	return st, nil
}

// loadMovement carga un movimiento y verifica su tipo. Un movimiento de otro tipo cuenta como inexistente.
func loadMovement(ctx context.Context, r Repos, kind entity.MovementKind, id string, forUpdate bool) (*entity.Movement, error) {
	var (
		m   *entity.Movement
		err error
	)
	if forUpdate {
		m, err = r.Movements.GetByIDForUpdate(ctx, id)
	} else {
		m, err = r.Movements.GetByID(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	if m == nil || m.Kind != kind {
		return nil, domain.NotFound(domain.EntityMovement, id)
	}
	return m, nil
}

// snapshot arma la respuesta leyendo producto y lote sin bloquear.
func snapshot(ctx context.Context, r Repos, m *entity.Movement) (*dto.MovementResponse, error) {
	product, err := r.Products.GetByID(ctx, m.ProductID)
	if err != nil {
		return nil, err
	}
	lot, err := r.Lots.GetByID(ctx, m.LotID)
	if err != nil {
		return nil, err
	}
	return toMovementResponse(m, product, lot), nil
}
