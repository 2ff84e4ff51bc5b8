package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación de MovementRepository sobre PostgreSQL (usable con pool o tx).
// Entradas, salidas y pedidos comparten la tabla movements, discriminados por kind.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador de movimientos. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, kind, product_id, lot_id, quantity, status, movement_date,
	COALESCE(supplier_id::text, ''), description, lot_code, COALESCE(customer_id::text, ''), payment_method,
	unit_price, total_price, created_at, updated_at, created_by, updated_by`

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var (
		m       entity.Movement
		kind    string
		status  string
		payment string
	)
	err := row.Scan(
		&m.ID, &kind, &m.ProductID, &m.LotID, &m.Quantity, &status, &m.MovementDate,
		&m.SupplierID, &m.Description, &m.LotCode, &m.CustomerID, &payment,
		&m.UnitPrice, &m.TotalPrice, &m.CreatedAt, &m.UpdatedAt, &m.CreatedBy, &m.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	m.Kind = entity.MovementKind(kind)
	m.Status = entity.MovementStatus(status)
	m.PaymentMethod = entity.PaymentMethod(payment)
	return &m, nil
}

// Create inserta un movimiento.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO movements (id, kind, product_id, lot_id, quantity, status, movement_date,
			supplier_id, description, lot_code, customer_id, payment_method,
			unit_price, total_price, created_at, updated_at, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		m.ID, string(m.Kind), m.ProductID, m.LotID, m.Quantity, string(m.Status), m.MovementDate,
		nullIfEmpty(m.SupplierID), m.Description, m.LotCode, nullIfEmpty(m.CustomerID), string(m.PaymentMethod),
		m.UnitPrice, m.TotalPrice, m.CreatedAt, m.UpdatedAt, m.CreatedBy, m.UpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict(domain.EntityMovement, m.ID, "ID duplicado")
		}
		return storageErr("insert movement", err)
	}
	return nil
}

func (r *MovementRepo) getOne(ctx context.Context, op, query, id string) (*entity.Movement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRow(err) {
			return nil, nil
		}
		return nil, storageErr(op, err)
	}
	return m, nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	return r.getOne(ctx, "get movement", `SELECT `+movementColumns+` FROM movements WHERE id = $1`, id)
}

// GetByIDForUpdate obtiene el movimiento y bloquea la fila.
func (r *MovementRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	return r.getOne(ctx, "get movement for update", `SELECT `+movementColumns+` FROM movements WHERE id = $1 FOR UPDATE`, id)
}

// Update persiste cantidad, precios, fecha y campos de variante. El estado se escribe solo con UpdateStatus.
func (r *MovementRepo) Update(ctx context.Context, m *entity.Movement) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE movements
		SET quantity = $2, movement_date = $3, description = $4, payment_method = $5,
			unit_price = $6, total_price = $7, updated_at = $8, updated_by = $9
		WHERE id = $1`,
		m.ID, m.Quantity, m.MovementDate, m.Description, string(m.PaymentMethod),
		m.UnitPrice, m.TotalPrice, m.UpdatedAt, m.UpdatedBy,
	)
	if err != nil {
		return storageErr("update movement", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound(domain.EntityMovement, m.ID)
	}
	return nil
}

// UpdateStatus cambia solo el estado y la auditoría.
func (r *MovementRepo) UpdateStatus(ctx context.Context, id string, status entity.MovementStatus, actorID string, at time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE movements SET status = $2, updated_by = $3, updated_at = $4 WHERE id = $1`,
		id, string(status), actorID, at,
	)
	if err != nil {
		return storageErr("update movement status", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound(domain.EntityMovement, id)
	}
	return nil
}

// Delete elimina el movimiento.
func (r *MovementRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM movements WHERE id = $1`, id)
	if err != nil {
		return storageErr("delete movement", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound(domain.EntityMovement, id)
	}
	return nil
}

// ListByLot lista los movimientos de un lote en orden de alta.
func (r *MovementRepo) ListByLot(ctx context.Context, lotID string) ([]*entity.Movement, error) {
	return r.list(ctx, "list movements by lot",
		`SELECT `+movementColumns+` FROM movements WHERE lot_id = $1 ORDER BY created_at, id`, lotID)
}

// ListByCustomer lista los pedidos de un cliente en orden de alta.
func (r *MovementRepo) ListByCustomer(ctx context.Context, customerID string) ([]*entity.Movement, error) {
	return r.list(ctx, "list orders by customer",
		`SELECT `+movementColumns+` FROM movements WHERE customer_id = $1 AND kind = $2 ORDER BY created_at, id`,
		customerID, string(entity.MovementKindOrder))
}

func (r *MovementRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	out := make([]*entity.Movement, 0)
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, storageErr("scan movement", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return out, nil
}

// ExistsByLotAndKind indica si el lote tiene al menos un movimiento del tipo dado.
func (r *MovementRepo) ExistsByLotAndKind(ctx context.Context, lotID string, kind entity.MovementKind) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM movements WHERE lot_id = $1 AND kind = $2)`,
		lotID, string(kind),
	).Scan(&exists)
	if err != nil {
		return false, storageErr("exists movement", err)
	}
	return exists, nil
}
