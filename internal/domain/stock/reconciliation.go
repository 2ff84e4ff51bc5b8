// Package stock contiene las reglas puras de conciliación de cantidades entre lote y producto.
// No hace I/O: los casos de uso cargan y persisten las entidades.
package stock

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// Sign devuelve el signo del efecto de un tipo de movimiento sobre el lote:
// +1 para entradas, −1 para salidas y pedidos.
func Sign(kind entity.MovementKind) int64 {
	if kind == entity.MovementKindReceipt {
		return 1
	}
	return -1
}

// SignedDelta es el efecto con signo de un movimiento de la cantidad dada.
func SignedDelta(kind entity.MovementKind, quantity int64) int64 {
	return Sign(kind) * quantity
}

// ValidateQuantity exige una cantidad estrictamente positiva.
func ValidateQuantity(quantity int64) error {
	if quantity <= 0 {
		return domain.Invalid(domain.EntityMovement, "", "la cantidad debe ser mayor que cero")
	}
	return nil
}

// CheckAvailable verifica que el lote cubra una salida de la cantidad dada.
func CheckAvailable(lot *entity.StockLot, quantity int64) error {
	if lot.Quantity < quantity {
		return domain.InsufficientStock(lot.ID, lot.Quantity, quantity)
	}
	return nil
}

// overflows indica si sumar delta a base supera el máximo de int64.
func overflows(base, delta int64) bool {
	return delta > 0 && base > math.MaxInt64-delta
}

func tooLarge(entityName, id string) error {
	return domain.Invalid(entityName, id, "la cantidad excede el máximo admitido")
}

// ApplyDelta aplica delta al saldo del lote y al agregado del producto de forma simétrica.
// Valida antes de mutar: si alguno quedara negativo no modifica nada.
func ApplyDelta(lot *entity.StockLot, product *entity.Product, delta int64) error {
	if overflows(lot.Quantity, delta) {
		return tooLarge(domain.EntityLot, lot.ID)
	}
	if overflows(product.StockQuantity, delta) {
		return tooLarge(domain.EntityProduct, product.ID)
	}
	if lot.Quantity+delta < 0 {
		return domain.InsufficientStock(lot.ID, lot.Quantity, -delta)
	}
	if product.StockQuantity+delta < 0 {
		return domain.Conflict(domain.EntityProduct, product.ID, "el agregado de stock quedaría negativo")
	}
	lot.Quantity += delta
	product.StockQuantity += delta
	return nil
}

// AdjustLot corrige el saldo original de un lote en delta.
// La nueva cantidad es (original_anterior − consumido) + delta, es decir cantidad + delta.
// El mismo delta se propaga a ambos agregados del producto.
func AdjustLot(lot *entity.StockLot, product *entity.Product, delta int64) error {
	if overflows(lot.OriginalQuantity, delta) {
		return tooLarge(domain.EntityLot, lot.ID)
	}
	if overflows(product.OriginalStockQuantity, delta) || overflows(product.StockQuantity, delta) {
		return tooLarge(domain.EntityProduct, product.ID)
	}
	newOriginal := lot.OriginalQuantity + delta
	newQuantity := (lot.OriginalQuantity - lot.Consumed()) + delta
	if newOriginal < 0 || newQuantity < 0 {
		return domain.Invalid(domain.EntityLot, lot.ID, "el ajuste dejaría el lote con cantidad negativa")
	}
	if product.StockQuantity+delta < 0 || product.OriginalStockQuantity+delta < 0 {
		return domain.Conflict(domain.EntityProduct, product.ID, "el agregado de stock quedaría negativo")
	}
	lot.OriginalQuantity = newOriginal
	lot.Quantity = newQuantity
	product.StockQuantity += delta
	product.OriginalStockQuantity += delta
	return nil
}

// CreditLot suma un lote recién creado a los agregados del producto.
func CreditLot(product *entity.Product, lot *entity.StockLot) error {
	if overflows(product.StockQuantity, lot.Quantity) || overflows(product.OriginalStockQuantity, lot.OriginalQuantity) {
		return tooLarge(domain.EntityProduct, product.ID)
	}
	product.StockQuantity += lot.Quantity
	product.OriginalStockQuantity += lot.OriginalQuantity
	return nil
}

// DebitLot retira un lote eliminado de los agregados del producto.
func DebitLot(product *entity.Product, lot *entity.StockLot) error {
	if product.StockQuantity < lot.Quantity || product.OriginalStockQuantity < lot.OriginalQuantity {
		return domain.Conflict(domain.EntityProduct, product.ID, "el agregado de stock quedaría negativo")
	}
	product.StockQuantity -= lot.Quantity
	product.OriginalStockQuantity -= lot.OriginalQuantity
	return nil
}

// ExpectedLotQuantity recalcula el saldo de un lote desde sus movimientos:
// original + Σ entradas − Σ salidas − Σ pedidos.
func ExpectedLotQuantity(lot *entity.StockLot, movements []*entity.Movement) int64 {
	q := lot.OriginalQuantity
	for _, m := range movements {
		q += SignedDelta(m.Kind, m.Quantity)
	}
	return q
}

// TotalPrice = unitPrice × quantity.
func TotalPrice(unitPrice decimal.Decimal, quantity int64) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(quantity))
}
