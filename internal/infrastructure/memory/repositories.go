package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// Los repositorios se usan solo dentro de Store.Run, que ya tiene el mutex tomado.
// GetByIDForUpdate equivale a GetByID: la exclusión la da la transacción serializada.

type productRepo struct{ s *Store }

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r productRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r productRepo) UpdateStock(_ context.Context, p *entity.Product) error {
	cur, ok := r.s.products[p.ID]
	if !ok {
		return domain.NotFound(domain.EntityProduct, p.ID)
	}
	cur.StockQuantity = p.StockQuantity
	cur.OriginalStockQuantity = p.OriginalStockQuantity
	cur.UpdatedAt = p.UpdatedAt
	cur.UpdatedBy = p.UpdatedBy
	r.s.products[p.ID] = cur
	return nil
}

func (r productRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	ids := make([]string, 0, len(r.s.products))
	for id := range r.s.products {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if offset >= len(ids) {
		return []*entity.Product{}, nil
	}
	end := offset + limit
	if end > len(ids) {
		end = len(ids)
	}
	out := make([]*entity.Product, 0, end-offset)
	for _, id := range ids[offset:end] {
		p := r.s.products[id]
		out = append(out, &p)
	}
	return out, nil
}

type lotRepo struct{ s *Store }

func (r lotRepo) Create(_ context.Context, l *entity.StockLot) error {
	if _, ok := r.s.lots[l.ID]; ok {
		return domain.Conflict(domain.EntityLot, l.ID, "ID duplicado")
	}
	if l.Code != "" {
		for _, other := range r.s.lots {
			if other.Code == l.Code {
				return domain.Conflict(domain.EntityLot, l.Code, "el código de lote ya está en uso")
			}
		}
	}
	r.s.lots[l.ID] = *l
	return nil
}

func (r lotRepo) GetByID(_ context.Context, id string) (*entity.StockLot, error) {
	l, ok := r.s.lots[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r lotRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockLot, error) {
	return r.GetByID(ctx, id)
}

func (r lotRepo) GetByCode(_ context.Context, code string) (*entity.StockLot, error) {
	for _, l := range r.s.lots {
		if l.Code == code {
			l := l
			return &l, nil
		}
	}
	return nil, nil
}

func (r lotRepo) ListByProduct(_ context.Context, productID string) ([]*entity.StockLot, error) {
	out := make([]*entity.StockLot, 0)
	for _, l := range r.s.lots {
		if l.ProductID == productID {
			l := l
			out = append(out, &l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r lotRepo) UpdateQuantities(_ context.Context, l *entity.StockLot) error {
	if _, ok := r.s.lots[l.ID]; !ok {
		return domain.NotFound(domain.EntityLot, l.ID)
	}
	if l.Quantity < 0 || l.OriginalQuantity < 0 {
		return domain.Invalid(domain.EntityLot, l.ID, "cantidad negativa")
	}
	r.s.lots[l.ID] = *l
	return nil
}

func (r lotRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.s.lots[id]; !ok {
		return domain.NotFound(domain.EntityLot, id)
	}
	delete(r.s.lots, id)
	return nil
}

type movementRepo struct{ s *Store }

func (r movementRepo) Create(_ context.Context, m *entity.Movement) error {
	if _, ok := r.s.movements[m.ID]; ok {
		return domain.Conflict(domain.EntityMovement, m.ID, "ID duplicado")
	}
	r.s.seq++
	r.s.order[m.ID] = r.s.seq
	r.s.movements[m.ID] = *m
	return nil
}

func (r movementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	m, ok := r.s.movements[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r movementRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	return r.GetByID(ctx, id)
}

func (r movementRepo) Update(_ context.Context, m *entity.Movement) error {
	cur, ok := r.s.movements[m.ID]
	if !ok {
		return domain.NotFound(domain.EntityMovement, m.ID)
	}
	status := cur.Status
	cur = *m
	cur.Status = status
	r.s.movements[m.ID] = cur
	return nil
}

func (r movementRepo) UpdateStatus(_ context.Context, id string, status entity.MovementStatus, actorID string, at time.Time) error {
	cur, ok := r.s.movements[id]
	if !ok {
		return domain.NotFound(domain.EntityMovement, id)
	}
	cur.Status = status
	cur.UpdatedBy = actorID
	cur.UpdatedAt = at
	r.s.movements[id] = cur
	return nil
}

func (r movementRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.s.movements[id]; !ok {
		return domain.NotFound(domain.EntityMovement, id)
	}
	delete(r.s.movements, id)
	delete(r.s.order, id)
	return nil
}

func (r movementRepo) ListByLot(_ context.Context, lotID string) ([]*entity.Movement, error) {
	return r.list(func(m entity.Movement) bool { return m.LotID == lotID }), nil
}

func (r movementRepo) ListByCustomer(_ context.Context, customerID string) ([]*entity.Movement, error) {
	return r.list(func(m entity.Movement) bool {
		return m.Kind == entity.MovementKindOrder && m.CustomerID == customerID
	}), nil
}

func (r movementRepo) list(filter func(entity.Movement) bool) []*entity.Movement {
	ids := r.s.sortedMovementIDs(filter)
	out := make([]*entity.Movement, 0, len(ids))
	for _, id := range ids {
		m := r.s.movements[id]
		out = append(out, &m)
	}
	return out
}

func (r movementRepo) ExistsByLotAndKind(_ context.Context, lotID string, kind entity.MovementKind) (bool, error) {
	for _, m := range r.s.movements {
		if m.LotID == lotID && m.Kind == kind {
			return true, nil
		}
	}
	return false, nil
}

type supplierRepo struct{ s *Store }

func (r supplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	sp, ok := r.s.suppliers[id]
	if !ok {
		return nil, nil
	}
	return &sp, nil
}

type customerRepo struct{ s *Store }

func (r customerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	c, ok := r.s.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}
