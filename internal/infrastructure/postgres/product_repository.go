package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `
	p.id, p.name, p.product_code, p.description, p.unit_price, p.stock_quantity, p.original_stock_quantity,
	COALESCE(p.category_id::text, ''),
	ARRAY(SELECT ps.supplier_id::text FROM product_suppliers ps WHERE ps.product_id = p.id ORDER BY ps.supplier_id),
	p.created_at, p.updated_at, p.updated_by`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.ProductCode, &p.Description, &p.UnitPrice, &p.StockQuantity, &p.OriginalStockQuantity,
		&p.CategoryID, &p.SupplierIDs, &p.CreatedAt, &p.UpdatedAt, &p.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = $1`, id))
	if err != nil {
		if isNoRow(err) {
			return nil, nil
		}
		return nil, storageErr("get product", err)
	}
	return p, nil
}

// GetByIDForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE).
func (r *ProductRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = $1 FOR UPDATE OF p`, id))
	if err != nil {
		if isNoRow(err) {
			return nil, nil
		}
		return nil, storageErr("get product for update", err)
	}
	return p, nil
}

// UpdateStock actualiza solo los agregados de stock (usado por el motor de movimientos y lotes).
func (r *ProductRepo) UpdateStock(ctx context.Context, p *entity.Product) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET stock_quantity = $2, original_stock_quantity = $3, updated_at = $4, updated_by = $5 WHERE id = $1`,
		p.ID, p.StockQuantity, p.OriginalStockQuantity, p.UpdatedAt, p.UpdatedBy,
	)
	if err != nil {
		if isCheckViolation(err) {
			return domain.Conflict(domain.EntityProduct, p.ID, "el agregado de stock quedaría negativo")
		}
		return storageErr("update product stock", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound(domain.EntityProduct, p.ID)
	}
	return nil
}

// List lista productos ordenados por ID con paginación.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products p ORDER BY p.id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, storageErr("list products", err)
	}
	defer rows.Close()

	out := make([]*entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, storageErr("scan product", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list products", err)
	}
	return out, nil
}
