package postgres

import (
	"context"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo adaptador de solo lectura para clientes.
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	var (
		c       entity.Customer
		payment string
	)
	err := r.q.QueryRow(ctx, `
		SELECT id, full_name, email, phone, status, preferred_payment, created_at, updated_at
		FROM customers WHERE id = $1`, id,
	).Scan(&c.ID, &c.FullName, &c.Email, &c.Phone, &c.Status, &payment, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isNoRow(err) {
			return nil, nil
		}
		return nil, storageErr("get customer", err)
	}
	c.PreferredPayment = entity.PaymentMethod(payment)
	return &c, nil
}
