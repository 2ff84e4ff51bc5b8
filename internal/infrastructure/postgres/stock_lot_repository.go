package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var _ repository.StockLotRepository = (*StockLotRepo)(nil)

// StockLotRepo implementación de StockLotRepository sobre PostgreSQL (usable con pool o tx).
type StockLotRepo struct {
	q Querier
}

// NewStockLotRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewStockLotRepository(q Querier) *StockLotRepo {
	return &StockLotRepo{q: q}
}

const lotColumns = `id, product_id, COALESCE(code, ''), location, discount, original_quantity, quantity,
	created_at, updated_at, created_by, updated_by`

func scanLot(row pgx.Row) (*entity.StockLot, error) {
	var l entity.StockLot
	err := row.Scan(
		&l.ID, &l.ProductID, &l.Code, &l.Location, &l.Discount, &l.OriginalQuantity, &l.Quantity,
		&l.CreatedAt, &l.UpdatedAt, &l.CreatedBy, &l.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Create persiste un lote nuevo. Un código repetido devuelve ErrConflict.
func (r *StockLotRepo) Create(ctx context.Context, l *entity.StockLot) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_lots (id, product_id, code, location, discount, original_quantity, quantity, created_at, updated_at, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		l.ID, l.ProductID, nullIfEmpty(l.Code), l.Location, l.Discount, l.OriginalQuantity, l.Quantity,
		l.CreatedAt, l.UpdatedAt, l.CreatedBy, l.UpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict(domain.EntityLot, l.Code, "el código de lote ya está en uso")
		}
		return storageErr("insert stock lot", err)
	}
	return nil
}

func (r *StockLotRepo) getOne(ctx context.Context, op, query string, arg string) (*entity.StockLot, error) {
	l, err := scanLot(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRow(err) {
			return nil, nil
		}
		return nil, storageErr(op, err)
	}
	return l, nil
}

// GetByID obtiene un lote por ID.
func (r *StockLotRepo) GetByID(ctx context.Context, id string) (*entity.StockLot, error) {
	return r.getOne(ctx, "get stock lot", `SELECT `+lotColumns+` FROM stock_lots WHERE id = $1`, id)
}

// GetByIDForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE).
func (r *StockLotRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockLot, error) {
	return r.getOne(ctx, "get stock lot for update", `SELECT `+lotColumns+` FROM stock_lots WHERE id = $1 FOR UPDATE`, id)
}

// GetByCode obtiene un lote por su código.
func (r *StockLotRepo) GetByCode(ctx context.Context, code string) (*entity.StockLot, error) {
	return r.getOne(ctx, "get stock lot by code", `SELECT `+lotColumns+` FROM stock_lots WHERE code = $1`, code)
}

// ListByProduct lista los lotes de un producto en orden de creación.
func (r *StockLotRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockLot, error) {
	rows, err := r.q.Query(ctx, `SELECT `+lotColumns+` FROM stock_lots WHERE product_id = $1 ORDER BY created_at, id`, productID)
	if err != nil {
		return nil, storageErr("list stock lots", err)
	}
	defer rows.Close()

	out := make([]*entity.StockLot, 0)
	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, storageErr("scan stock lot", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list stock lots", err)
	}
	return out, nil
}

// UpdateQuantities persiste cantidades, descuento, ubicación y auditoría del lote.
func (r *StockLotRepo) UpdateQuantities(ctx context.Context, l *entity.StockLot) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE stock_lots
		SET original_quantity = $2, quantity = $3, discount = $4, location = $5, updated_at = $6, updated_by = $7
		WHERE id = $1`,
		l.ID, l.OriginalQuantity, l.Quantity, l.Discount, l.Location, l.UpdatedAt, l.UpdatedBy,
	)
	if err != nil {
		if isCheckViolation(err) {
			return domain.InsufficientStock(l.ID, l.Quantity, 0)
		}
		return storageErr("update stock lot", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound(domain.EntityLot, l.ID)
	}
	return nil
}

// Delete elimina el lote. Si aún hay movimientos la FK lo impide y se devuelve ErrConflict.
func (r *StockLotRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM stock_lots WHERE id = $1`, id)
	if err != nil {
		if hasCode(err, "23503") {
			return domain.Conflict(domain.EntityLot, id, "el lote tiene movimientos registrados")
		}
		return storageErr("delete stock lot", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound(domain.EntityLot, id)
	}
	return nil
}
