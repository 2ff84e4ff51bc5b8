// Package memory implementa los puertos de persistencia en memoria.
// Se usa en tests y en modo demo (STORE_DRIVER=memory); no persiste entre reinicios.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

var _ inventory.TxRunner = (*Store)(nil)

// Store guarda las entidades por valor. Las transacciones se serializan con mu y
// un error en fn restaura la foto tomada al inicio.
type Store struct {
	mu        sync.Mutex
	products  map[string]entity.Product
	lots      map[string]entity.StockLot
	movements map[string]entity.Movement
	order     map[string]int64 // movimiento -> secuencia de alta
	seq       int64
	suppliers map[string]entity.Supplier
	customers map[string]entity.Customer

	failNextCommit bool
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		products:  map[string]entity.Product{},
		lots:      map[string]entity.StockLot{},
		movements: map[string]entity.Movement{},
		order:     map[string]int64{},
		suppliers: map[string]entity.Supplier{},
		customers: map[string]entity.Customer{},
	}
}

type snapshot struct {
	products  map[string]entity.Product
	lots      map[string]entity.StockLot
	movements map[string]entity.Movement
	order     map[string]int64
	seq       int64
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *Store) take() snapshot {
	return snapshot{
		products:  copyMap(s.products),
		lots:      copyMap(s.lots),
		movements: copyMap(s.movements),
		order:     copyMap(s.order),
		seq:       s.seq,
	}
}

func (s *Store) restore(snap snapshot) {
	s.products = snap.products
	s.lots = snap.lots
	s.movements = snap.movements
	s.order = snap.order
	s.seq = snap.seq
}

// Run ejecuta fn con acceso exclusivo al almacén. Si fn falla, o el commit simulado falla,
// se restaura el estado previo.
func (s *Store) Run(ctx context.Context, fn func(r inventory.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.take()
	if err := fn(s.repos()); err != nil {
		s.restore(snap)
		return err
	}
	if s.failNextCommit {
		s.failNextCommit = false
		s.restore(snap)
		return fmt.Errorf("commit transaction: %w", domain.ErrStorage)
	}
	return nil
}

// FailNextCommit hace que el próximo commit falle con ErrStorage.
func (s *Store) FailNextCommit() {
	s.mu.Lock()
	s.failNextCommit = true
	s.mu.Unlock()
}

func (s *Store) repos() inventory.Repos {
	return inventory.Repos{
		Products:  productRepo{s},
		Lots:      lotRepo{s},
		Movements: movementRepo{s},
		Suppliers: supplierRepo{s},
		Customers: customerRepo{s},
	}
}

// AddProduct registra un producto (el catálogo se gestiona fuera del núcleo de stock).
func (s *Store) AddProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

// AddSupplier registra un proveedor.
func (s *Store) AddSupplier(sp entity.Supplier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suppliers[sp.ID] = sp
}

// AddCustomer registra un cliente.
func (s *Store) AddCustomer(c entity.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[c.ID] = c
}

// Product devuelve una copia del producto (tests).
func (s *Store) Product(id string) (entity.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	return p, ok
}

// Lot devuelve una copia del lote (tests).
func (s *Store) Lot(id string) (entity.StockLot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lots[id]
	return l, ok
}

// PutLot sobrescribe un lote sin pasar por las reglas de negocio (tests de auditoría).
func (s *Store) PutLot(l entity.StockLot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lots[l.ID] = l
}

func (s *Store) sortedMovementIDs(filter func(entity.Movement) bool) []string {
	ids := make([]string, 0)
	for id, m := range s.movements {
		if filter(m) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return s.order[ids[i]] < s.order[ids[j]] })
	return ids
}
