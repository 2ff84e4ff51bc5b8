package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/stock"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

// ReconcileUseCase audita los saldos guardados contra los recalculados desde los movimientos.
// Solo lee; no corrige nada.
type ReconcileUseCase struct {
	tx       TxRunner
	log      *logger.Logger
	pageSize int
	now      func() time.Time
}

// NewReconcileUseCase construye el auditor. pageSize <= 0 usa el tamaño por defecto de PageRequest.
func NewReconcileUseCase(tx TxRunner, log *logger.Logger, pageSize int) *ReconcileUseCase {
	return &ReconcileUseCase{tx: tx, log: log.Named("reconcile"), pageSize: pageSize, now: func() time.Time { return time.Now().UTC() }}
}

// Audit recorre todos los productos por páginas y reporta cada diferencia encontrada.
func (uc *ReconcileUseCase) Audit(ctx context.Context) (*dto.ReconciliationReport, error) {
	report := &dto.ReconciliationReport{GeneratedAt: uc.now(), Drifts: []dto.DriftDTO{}}
	page := dto.PageRequest{Limit: uc.pageSize}
	page.DefaultPage()

	for {
		var products []*entity.Product
		err := uc.tx.Run(ctx, func(r Repos) error {
			var err error
			products, err = r.Products.List(ctx, page.Limit, page.Offset)
			if err != nil {
				return err
			}
			for _, p := range products {
				if err := auditProduct(ctx, r, p, report); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		report.CheckedProducts += len(products)
		if len(products) < page.Limit {
			break
		}
		page.Next()
	}

	for _, d := range report.Drifts {
		uc.log.Warn().
			Str("entity", d.Entity).
			Str("id", d.ID).
			Str("field", d.Field).
			Int64("expected", d.Expected).
			Int64("actual", d.Actual).
			Msg("diferencia de stock detectada")
	}
	uc.log.Info().
		Int("products", report.CheckedProducts).
		Int("lots", report.CheckedLots).
		Int("drifts", len(report.Drifts)).
		Msg("auditoría de stock finalizada")
	return report, nil
}

func auditProduct(ctx context.Context, r Repos, p *entity.Product, report *dto.ReconciliationReport) error {
	lots, err := r.Lots.ListByProduct(ctx, p.ID)
	if err != nil {
		return err
	}
	var sumQty, sumOriginal int64
	for _, l := range lots {
		report.CheckedLots++
		movements, err := r.Movements.ListByLot(ctx, l.ID)
		if err != nil {
			return err
		}
		if expected := stock.ExpectedLotQuantity(l, movements); expected != l.Quantity {
			report.Drifts = append(report.Drifts, dto.DriftDTO{
				Entity: domain.EntityLot, ID: l.ID, ProductID: p.ID, Field: "quantity",
				Expected: expected, Actual: l.Quantity,
			})
		}
		sumQty += l.Quantity
		sumOriginal += l.OriginalQuantity
	}
	if sumQty != p.StockQuantity {
		report.Drifts = append(report.Drifts, dto.DriftDTO{
			Entity: domain.EntityProduct, ID: p.ID, ProductID: p.ID, Field: "stock_quantity",
			Expected: sumQty, Actual: p.StockQuantity,
		})
	}
	if sumOriginal != p.OriginalStockQuantity {
		report.Drifts = append(report.Drifts, dto.DriftDTO{
			Entity: domain.EntityProduct, ID: p.ID, ProductID: p.ID, Field: "original_stock_quantity",
			Expected: sumOriginal, Actual: p.OriginalStockQuantity,
		})
	}
	return nil
}
