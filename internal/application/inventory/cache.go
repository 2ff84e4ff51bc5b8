package inventory

import (
	"context"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

// stockPublication publica saldos dentro de la transacción, con lote y producto aún bloqueados,
// así el orden en caché sigue el orden de commit. Si la transacción termina en error, discard
// borra las claves publicadas para que la siguiente lectura vaya al almacén.
// Un fallo de caché no revierte nada, solo se registra.
type stockPublication struct {
	cache     StockCache
	log       *logger.Logger
	lotID     string
	productID string
}

func newStockPublication(cache StockCache, log *logger.Logger) *stockPublication {
	return &stockPublication{cache: cache, log: log}
}

// publish se llama al final del closure de tx.Run, después de la última escritura.
func (p *stockPublication) publish(ctx context.Context, lot *entity.StockLot, product *entity.Product) {
	if lot != nil {
		p.lotID = lot.ID
		if err := p.cache.PublishLot(ctx, lot.ID, lot.Quantity); err != nil {
			p.log.Warn().Err(err).Str("lot_id", lot.ID).Msg("no se pudo publicar saldo de lote en caché")
		}
	}
	if product != nil {
		p.productID = product.ID
		if err := p.cache.PublishProduct(ctx, product.ID, product.StockQuantity); err != nil {
			p.log.Warn().Err(err).Str("product_id", product.ID).Msg("no se pudo publicar saldo de producto en caché")
		}
	}
}

// drop invalida un lote que deja de existir.
func (p *stockPublication) drop(ctx context.Context, lotID string) {
	if err := p.cache.Forget(ctx, lotID, ""); err != nil {
		p.log.Warn().Err(err).Str("lot_id", lotID).Msg("no se pudo invalidar lote en caché")
	}
}

// discard borra lo publicado por una transacción que no llegó a confirmarse.
func (p *stockPublication) discard(ctx context.Context) {
	if p.lotID == "" && p.productID == "" {
		return
	}
	if err := p.cache.Forget(ctx, p.lotID, p.productID); err != nil {
		p.log.Warn().Err(err).
			Str("lot_id", p.lotID).
			Str("product_id", p.productID).
			Msg("no se pudo descartar saldo no confirmado en caché")
	}
}
