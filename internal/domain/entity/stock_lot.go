package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLot representa un lote (inventario) de un producto con saldo propio.
// Quantity = OriginalQuantity + Σ entradas − Σ salidas − Σ pedidos; nunca negativo.
type StockLot struct {
	ID               string
	ProductID        string
	Code             string // etiqueta única opcional, usada para búsqueda por código
	Location         string
	Discount         decimal.Decimal
	OriginalQuantity int64
	Quantity         int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
	CreatedBy        string
	UpdatedBy        string
}

// Consumed devuelve lo que los movimientos netos han retirado del saldo original.
func (l *StockLot) Consumed() int64 {
	return l.OriginalQuantity - l.Quantity
}
