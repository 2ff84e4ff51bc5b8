package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/stock"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

// MovementHandler operaciones de un tipo de movimiento (entrada, salida o pedido).
type MovementHandler interface {
	Create(ctx context.Context, actorID string, in dto.CreateMovementRequest) (*dto.MovementResponse, error)
	Get(ctx context.Context, id string) (*dto.MovementResponse, error)
	Update(ctx context.Context, actorID, id string, in dto.UpdateMovementRequest) (*dto.MovementResponse, error)
	SetStatus(ctx context.Context, actorID, id, status string) (*dto.MovementResponse, error)
	Delete(ctx context.Context, id string) error
}

// MovementUseCase registra entradas, salidas y pedidos de forma transaccional:
// bloquea producto y lote (SELECT FOR UPDATE), aplica el delta con signo a ambos y guarda el movimiento.
type MovementUseCase struct {
	tx       TxRunner
	cache    StockCache
	status   *StatusUseCase
	log      *logger.Logger
	now      func() time.Time
	handlers map[entity.MovementKind]MovementHandler
}

// NewMovementUseCase construye el motor de movimientos con un handler por tipo.
func NewMovementUseCase(tx TxRunner, cache StockCache, status *StatusUseCase, log *logger.Logger) *MovementUseCase {
	uc := &MovementUseCase{
		tx:     tx,
		cache:  cache,
		status: status,
		log:    log.Named("movements"),
		now:    func() time.Time { return time.Now().UTC() },
	}
	uc.handlers = map[entity.MovementKind]MovementHandler{
		entity.MovementKindReceipt: &kindHandler{uc: uc, variant: receiptVariant{}},
		entity.MovementKindExit:    &kindHandler{uc: uc, variant: exitVariant{}},
		entity.MovementKindOrder:   &kindHandler{uc: uc, variant: orderVariant{}},
	}
	return uc
}

// Handler devuelve el handler del tipo indicado.
func (uc *MovementUseCase) Handler(kind entity.MovementKind) (MovementHandler, error) {
	h, ok := uc.handlers[kind]
	if !ok {
		return nil, domain.Invalid(domain.EntityMovement, "", "tipo de movimiento desconocido: "+string(kind))
	}
	return h, nil
}

// CreateMovement registra un movimiento nuevo del tipo indicado.
func (uc *MovementUseCase) CreateMovement(ctx context.Context, actorID string, kind entity.MovementKind, in dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	h, err := uc.Handler(kind)
	if err != nil {
		return nil, err
	}
	return h.Create(ctx, actorID, in)
}

// UpdateMovement modifica un movimiento aplicando solo la diferencia de cantidad.
func (uc *MovementUseCase) UpdateMovement(ctx context.Context, actorID string, kind entity.MovementKind, id string, in dto.UpdateMovementRequest) (*dto.MovementResponse, error) {
	h, err := uc.Handler(kind)
	if err != nil {
		return nil, err
	}
	return h.Update(ctx, actorID, id, in)
}

// DeleteMovement revierte el efecto del movimiento y lo elimina.
func (uc *MovementUseCase) DeleteMovement(ctx context.Context, kind entity.MovementKind, id string) error {
	h, err := uc.Handler(kind)
	if err != nil {
		return err
	}
	return h.Delete(ctx, id)
}

// GetMovement devuelve un movimiento del tipo indicado.
func (uc *MovementUseCase) GetMovement(ctx context.Context, kind entity.MovementKind, id string) (*dto.MovementResponse, error) {
	h, err := uc.Handler(kind)
	if err != nil {
		return nil, err
	}
	return h.Get(ctx, id)
}

// ListMovementsByLot lista todos los movimientos de un lote, de cualquier tipo.
func (uc *MovementUseCase) ListMovementsByLot(ctx context.Context, lotID string) ([]*dto.MovementResponse, error) {
	var out []*dto.MovementResponse
	err := uc.tx.Run(ctx, func(r Repos) error {
		lot, err := r.Lots.GetByID(ctx, lotID)
		if err != nil {
			return err
		}
		if lot == nil {
			return domain.NotFound(domain.EntityLot, lotID)
		}
		product, err := r.Products.GetByID(ctx, lot.ProductID)
		if err != nil {
			return err
		}
		movements, err := r.Movements.ListByLot(ctx, lotID)
		if err != nil {
			return err
		}
		out = make([]*dto.MovementResponse, 0, len(movements))
		for _, m := range movements {
			out = append(out, toMovementResponse(m, product, lot))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListOrdersByCustomer lista los pedidos de un cliente. Un cliente sin pedidos se informa como no encontrado.
func (uc *MovementUseCase) ListOrdersByCustomer(ctx context.Context, customerID string) ([]*dto.MovementResponse, error) {
	var out []*dto.MovementResponse
	err := uc.tx.Run(ctx, func(r Repos) error {
		c, err := r.Customers.GetByID(ctx, customerID)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.NotFound(domain.EntityCustomer, customerID)
		}
		orders, err := r.Movements.ListByCustomer(ctx, customerID)
		if err != nil {
			return err
		}
		if len(orders) == 0 {
			return &domain.EntityError{Entity: domain.EntityCustomer, ID: customerID, Reason: "el cliente no tiene pedidos", Err: domain.ErrNotFound}
		}
		out = make([]*dto.MovementResponse, 0, len(orders))
		for _, m := range orders {
			res, err := snapshot(ctx, r, m)
			if err != nil {
				return err
			}
			out = append(out, res)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// kindHandler implementa MovementHandler para un tipo; lo específico lo aporta variant.
type kindHandler struct {
	uc      *MovementUseCase
	variant movementVariant
}

func (h *kindHandler) kind() entity.MovementKind { return h.variant.kind() }

func (h *kindHandler) Create(ctx context.Context, actorID string, in dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	if in.ProductID == "" {
		return nil, domain.Invalid(domain.EntityProduct, "", "product_id es obligatorio")
	}
	if err := stock.ValidateQuantity(in.Quantity); err != nil {
		return nil, err
	}
	status := entity.MovementStatusPending
	if in.Status != "" {
		st, err := parseStatus(in.Status)
		if err != nil {
			return nil, err
		}
		status = st
	}

	now := h.uc.now()
	date := now
	if in.MovementDate != nil {
		date = in.MovementDate.UTC()
	}
	m := &entity.Movement{
		ID:           uuid.New().String(),
		Kind:         h.kind(),
		ProductID:    in.ProductID,
		Quantity:     in.Quantity,
		Status:       status,
		MovementDate: date,
		CreatedAt:    now,
		UpdatedAt:    now,
		CreatedBy:    actorID,
		UpdatedBy:    actorID,
	}

	var (
		product *entity.Product
		lot     *entity.StockLot
	)
	pub := newStockPublication(h.uc.cache, h.uc.log)
	err := h.uc.tx.Run(ctx, func(r Repos) error {
		lotID, err := resolveLotID(ctx, r, in.LotID, in.LotCode)
		if err != nil {
			return err
		}
		p, l, err := lockPair(ctx, r, in.ProductID, lotID)
		if err != nil {
			return err
		}
		if stock.Sign(m.Kind) < 0 {
			if err := stock.CheckAvailable(l, m.Quantity); err != nil {
				return err
			}
		}
		if err := h.variant.prepare(ctx, r, m, in, l); err != nil {
			return err
		}
		m.LotID = l.ID
		m.UnitPrice = p.UnitPrice
		m.TotalPrice = stock.TotalPrice(p.UnitPrice, m.Quantity)

		if err := stock.ApplyDelta(l, p, stock.SignedDelta(m.Kind, m.Quantity)); err != nil {
			return err
		}
		if err := persistPair(ctx, r, p, l, actorID, now); err != nil {
			return err
		}
		if err := r.Movements.Create(ctx, m); err != nil {
			return err
		}
		product, lot = p, l
		pub.publish(ctx, l, p)
		return nil
	})
	if err != nil {
		pub.discard(ctx)
		return nil, err
	}

	h.uc.log.Info().
		Str("movement_id", m.ID).
		Str("kind", string(m.Kind)).
		Str("lot_id", lot.ID).
		Int64("quantity", m.Quantity).
		Int64("lot_quantity", lot.Quantity).
		Str("actor", actorID).
		Msg("movimiento registrado")
	return toMovementResponse(m, product, lot), nil
}

func (h *kindHandler) Get(ctx context.Context, id string) (*dto.MovementResponse, error) {
	var out *dto.MovementResponse
	err := h.uc.tx.Run(ctx, func(r Repos) error {
		m, err := loadMovement(ctx, r, h.kind(), id, false)
		if err != nil {
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

// Update aplica solo la diferencia entre la cantidad nueva y la anterior.
// El lote es siempre el guardado en el movimiento; no se puede mover a otro lote.
func (h *kindHandler) Update(ctx context.Context, actorID, id string, in dto.UpdateMovementRequest) (*dto.MovementResponse, error) {
	if in.Quantity != nil {
		if err := stock.ValidateQuantity(*in.Quantity); err != nil {
			return nil, err
		}
	}
	var newStatus entity.MovementStatus
	if in.Status != nil {
		st, err := parseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		newStatus = st
	}

	var (
		out     *dto.MovementResponse
		product *entity.Product
		lot     *entity.StockLot
		delta   int64
	)
	pub := newStockPublication(h.uc.cache, h.uc.log)
	err := h.uc.tx.Run(ctx, func(r Repos) error {
		m, err := loadMovement(ctx, r, h.kind(), id, true)
		if err != nil {
			return err
		}
		now := h.uc.now()

		if in.Quantity != nil {
			delta = *in.Quantity - m.Quantity
		}
		if delta != 0 {
			p, l, err := lockPair(ctx, r, m.ProductID, m.LotID)
			if err != nil {
				return err
			}
			if err := stock.ApplyDelta(l, p, stock.SignedDelta(m.Kind, delta)); err != nil {
				return err
			}
			if err := persistPair(ctx, r, p, l, actorID, now); err != nil {
				return err
			}
			m.Quantity = *in.Quantity
			m.TotalPrice = stock.TotalPrice(m.UnitPrice, m.Quantity)
			product, lot = p, l
		}

		if in.MovementDate != nil {
			m.MovementDate = in.MovementDate.UTC()
		}
		if err := h.variant.amend(m, in); err != nil {
			return err
		}
		m.UpdatedAt = now
		m.UpdatedBy = actorID
		if err := r.Movements.Update(ctx, m); err != nil {
			return err
		}
		if newStatus != "" {
			if err := h.uc.status.apply(ctx, r, m, newStatus, actorID); err != nil {
				return err
			}
		}
		out, err = snapshot(ctx, r, m)
		if err != nil {
			return err
		}
		if lot != nil {
			pub.publish(ctx, lot, product)
		}
		return nil
	})
	if err != nil {
		pub.discard(ctx)
		return nil, err
	}

	h.uc.log.Info().
		Str("movement_id", id).
		Str("kind", string(h.kind())).
		Int64("delta", delta).
		Str("actor", actorID).
		Msg("movimiento actualizado")
	return out, nil
}

func (h *kindHandler) SetStatus(ctx context.Context, actorID, id, status string) (*dto.MovementResponse, error) {
	return h.uc.status.SetStatus(ctx, actorID, h.kind(), id, status)
}

// Delete revierte por completo el efecto del movimiento. Revertir una entrada cuyo stock
// ya se consumió devuelve ErrInsufficientStock y no modifica nada.
func (h *kindHandler) Delete(ctx context.Context, id string) error {
	var lot *entity.StockLot
	pub := newStockPublication(h.uc.cache, h.uc.log)
	err := h.uc.tx.Run(ctx, func(r Repos) error {
		m, err := loadMovement(ctx, r, h.kind(), id, true)
		if err != nil {
			return err
		}
		p, l, err := lockPair(ctx, r, m.ProductID, m.LotID)
		if err != nil {
			return err
		}
		if err := stock.ApplyDelta(l, p, -stock.SignedDelta(m.Kind, m.Quantity)); err != nil {
			return err
		}
		now := h.uc.now()
		p.UpdatedAt = now
		l.UpdatedAt = now
		if err := r.Lots.UpdateQuantities(ctx, l); err != nil {
			return err
		}
		if err := r.Products.UpdateStock(ctx, p); err != nil {
			return err
		}
		if err := r.Movements.Delete(ctx, id); err != nil {
			return err
		}
		lot = l
		pub.publish(ctx, l, p)
		return nil
	})
	if err != nil {
		pub.discard(ctx)
		return err
	}

	h.uc.log.Info().
		Str("movement_id", id).
		Str("kind", string(h.kind())).
		Int64("lot_quantity", lot.Quantity).
		Msg("movimiento eliminado")
	return nil
}

// persistPair guarda lote y producto después de aplicar un delta.
func persistPair(ctx context.Context, r Repos, p *entity.Product, l *entity.StockLot, actorID string, now time.Time) error {
	l.UpdatedAt = now
	l.UpdatedBy = actorID
	if err := r.Lots.UpdateQuantities(ctx, l); err != nil {
		return err
	}
	p.UpdatedAt = now
	p.UpdatedBy = actorID
	return r.Products.UpdateStock(ctx, p)
}
