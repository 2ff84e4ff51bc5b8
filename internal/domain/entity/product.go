package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// StockQuantity y OriginalStockQuantity son agregados cacheados: siempre iguales a la suma
// de Quantity y OriginalQuantity de sus lotes. Solo los modifican los casos de uso de
// inventario (lotes y movimientos).
type Product struct {
	ID                    string
	Name                  string
	ProductCode           string
	Description           string
	UnitPrice             decimal.Decimal
	StockQuantity         int64
	OriginalStockQuantity int64
	CategoryID            string
	SupplierIDs           []string
	CreatedAt             time.Time
	UpdatedAt             time.Time
	UpdatedBy             string
}
