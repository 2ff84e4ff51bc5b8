package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/stock"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

// LotUseCase gestiona los lotes de un producto y mantiene los agregados del producto al día.
type LotUseCase struct {
	tx    TxRunner
	cache StockCache
	log   *logger.Logger
	now   func() time.Time
}

// NewLotUseCase construye el caso de uso. cache puede ser NoopStockCache{}.
func NewLotUseCase(tx TxRunner, cache StockCache, log *logger.Logger) *LotUseCase {
	return &LotUseCase{tx: tx, cache: cache, log: log.Named("lots"), now: func() time.Time { return time.Now().UTC() }}
}

// CreateLot crea un lote con original = cantidad = initial_quantity y lo acredita al producto.
func (uc *LotUseCase) CreateLot(ctx context.Context, actorID, productID string, in dto.CreateLotRequest) (*dto.LotResponse, error) {
	if in.InitialQuantity < 0 {
		return nil, domain.Invalid(domain.EntityLot, "", "la cantidad inicial no puede ser negativa")
	}
	discount := decimal.Zero
	if in.Discount != nil {
		if in.Discount.IsNegative() {
			return nil, domain.Invalid(domain.EntityLot, "", "el descuento no puede ser negativo")
		}
		discount = *in.Discount
	}

	now := uc.now()
	lot := &entity.StockLot{
		ID:               uuid.New().String(),
		ProductID:        productID,
		Code:             strings.TrimSpace(in.Code),
		Location:         strings.TrimSpace(in.Location),
		Discount:         discount,
		OriginalQuantity: in.InitialQuantity,
		Quantity:         in.InitialQuantity,
		CreatedAt:        now,
		UpdatedAt:        now,
		CreatedBy:        actorID,
		UpdatedBy:        actorID,
	}

	pub := newStockPublication(uc.cache, uc.log)
	err := uc.tx.Run(ctx, func(r Repos) error {
		p, err := r.Products.GetByIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.NotFound(domain.EntityProduct, productID)
		}
		if lot.Code != "" {
			existing, err := r.Lots.GetByCode(ctx, lot.Code)
			if err != nil {
				return err
			}
			if existing != nil {
				return domain.Conflict(domain.EntityLot, lot.Code, "el código de lote ya está en uso")
			}
		}
		if err := stock.CreditLot(p, lot); err != nil {
			return err
		}
		if err := r.Lots.Create(ctx, lot); err != nil {
			return err
		}
		p.UpdatedAt = now
		p.UpdatedBy = actorID
		if err := r.Products.UpdateStock(ctx, p); err != nil {
			return err
		}
		pub.publish(ctx, lot, p)
		return nil
	})
	if err != nil {
		pub.discard(ctx)
		return nil, err
	}

	uc.log.Info().
		Str("lot_id", lot.ID).
		Str("product_id", productID).
		Int64("quantity", lot.Quantity).
		Str("actor", actorID).
		Msg("lote creado")
	return toLotResponse(lot), nil
}

// DeleteLot elimina un lote sin movimientos y descuenta sus cantidades del producto.
func (uc *LotUseCase) DeleteLot(ctx context.Context, lotID string) error {
	var productID string
	pub := newStockPublication(uc.cache, uc.log)
	err := uc.tx.Run(ctx, func(r Repos) error {
		p, lot, err := lockByLotID(ctx, r, lotID)
		if err != nil {
			return err
		}
		if err := ensureNoMovements(ctx, r, lotID); err != nil {
			return err
		}
		if err := stock.DebitLot(p, lot); err != nil {
			return err
		}
		p.UpdatedAt = uc.now()
		if err := r.Products.UpdateStock(ctx, p); err != nil {
			return err
		}
		if err := r.Lots.Delete(ctx, lotID); err != nil {
			return err
		}
		productID = p.ID
		pub.drop(ctx, lotID)
		pub.publish(ctx, nil, p)
		return nil
	})
	if err != nil {
		pub.discard(ctx)
		return err
	}

	uc.log.Info().Str("lot_id", lotID).Str("product_id", productID).Msg("lote eliminado")
	return nil
}

// referencingKinds mensajes de conflicto por tipo de movimiento que referencia un lote.
var referencingKinds = []struct {
	kind   entity.MovementKind
	reason string
}{
	{entity.MovementKindReceipt, "el lote tiene entradas registradas"},
	{entity.MovementKindExit, "el lote tiene salidas registradas"},
	{entity.MovementKindOrder, "el lote tiene pedidos registrados"},
}

func ensureNoMovements(ctx context.Context, r Repos, lotID string) error {
	for _, ref := range referencingKinds {
		exists, err := r.Movements.ExistsByLotAndKind(ctx, lotID, ref.kind)
		if err != nil {
			return err
		}
		if exists {
			return domain.Conflict(domain.EntityLot, lotID, ref.reason)
		}
	}
	return nil
}

// UpdateLot corrige el saldo original del lote en delta conservando lo ya consumido.
func (uc *LotUseCase) UpdateLot(ctx context.Context, actorID, lotID string, in dto.UpdateLotRequest) (*dto.LotResponse, error) {
	if in.Discount != nil && in.Discount.IsNegative() {
		return nil, domain.Invalid(domain.EntityLot, lotID, "el descuento no puede ser negativo")
	}

	var lot *entity.StockLot
	pub := newStockPublication(uc.cache, uc.log)
	err := uc.tx.Run(ctx, func(r Repos) error {
		p, l, err := lockByLotID(ctx, r, lotID)
		if err != nil {
			return err
		}
		if err := stock.AdjustLot(l, p, in.Delta); err != nil {
			return err
		}
		if in.Discount != nil {
			l.Discount = *in.Discount
		}
		if in.Location != nil {
			l.Location = strings.TrimSpace(*in.Location)
		}
		now := uc.now()
		l.UpdatedAt = now
		l.UpdatedBy = actorID
		if err := r.Lots.UpdateQuantities(ctx, l); err != nil {
			return err
		}
		if in.Delta != 0 {
			p.UpdatedAt = now
			p.UpdatedBy = actorID
			if err := r.Products.UpdateStock(ctx, p); err != nil {
				return err
			}
		}
		lot = l
		pub.publish(ctx, l, p)
		return nil
	})
	if err != nil {
		pub.discard(ctx)
		return nil, err
	}

	uc.log.Info().
		Str("lot_id", lotID).
		Int64("delta", in.Delta).
		Int64("quantity", lot.Quantity).
		Str("actor", actorID).
		Msg("lote actualizado")
	return toLotResponse(lot), nil
}

// GetLot devuelve un lote por ID.
func (uc *LotUseCase) GetLot(ctx context.Context, lotID string) (*dto.LotResponse, error) {
	var lot *entity.StockLot
	err := uc.tx.Run(ctx, func(r Repos) error {
		l, err := r.Lots.GetByID(ctx, lotID)
		if err != nil {
			return err
		}
		if l == nil {
			return domain.NotFound(domain.EntityLot, lotID)
		}
		lot = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toLotResponse(lot), nil
}

// ListLotsByProduct lista los lotes de un producto existente.
func (uc *LotUseCase) ListLotsByProduct(ctx context.Context, productID string) ([]*dto.LotResponse, error) {
	var lots []*entity.StockLot
	err := uc.tx.Run(ctx, func(r Repos) error {
		p, err := r.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.NotFound(domain.EntityProduct, productID)
		}
		lots, err = r.Lots.ListByProduct(ctx, productID)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]*dto.LotResponse, 0, len(lots))
	for _, l := range lots {
		out = append(out, toLotResponse(l))
	}
	return out, nil
}

// GetLotStock lee el saldo del lote primero desde la caché y, si no está, desde el almacén.
// La lectura del almacén bloquea el lote para repoblar la caché en el mismo orden que las escrituras.
func (uc *LotUseCase) GetLotStock(ctx context.Context, lotID string) (*dto.LotStockResponse, error) {
	qty, ok, err := uc.cache.LotQuantity(ctx, lotID)
	if err != nil {
		uc.log.Warn().Err(err).Str("lot_id", lotID).Msg("caché de stock no disponible, se lee del almacén")
	}
	if err == nil && ok {
		return &dto.LotStockResponse{LotID: lotID, Quantity: qty, Source: "cache"}, nil
	}

	pub := newStockPublication(uc.cache, uc.log)
	err = uc.tx.Run(ctx, func(r Repos) error {
		l, err := r.Lots.GetByIDForUpdate(ctx, lotID)
		if err != nil {
			return err
		}
		if l == nil {
			return domain.NotFound(domain.EntityLot, lotID)
		}
		qty = l.Quantity
		pub.publish(ctx, l, nil)
		return nil
	})
	if err != nil {
		pub.discard(ctx)
		return nil, err
	}
	return &dto.LotStockResponse{LotID: lotID, Quantity: qty, Source: "store"}, nil
}
