package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind tipo cerrado de movimiento de stock.
type MovementKind string

// Tipos de movimiento.
const (
	MovementKindReceipt MovementKind = "RECEIPT" // entrada (recebimento)
	MovementKindExit    MovementKind = "EXIT"    // salida sin venta
	MovementKindOrder   MovementKind = "ORDER"   // salida por venta
)

// Valid indica si el tipo pertenece al conjunto cerrado.
func (k MovementKind) Valid() bool {
	switch k {
	case MovementKindReceipt, MovementKindExit, MovementKindOrder:
		return true
	}
	return false
}

// MovementStatus estado de ciclo de vida, independiente del efecto en cantidades.
type MovementStatus string

// Estados válidos de un movimiento.
const (
	MovementStatusPending   MovementStatus = "PENDING"
	MovementStatusCompleted MovementStatus = "COMPLETED"
	MovementStatusCanceled  MovementStatus = "CANCELED"
	MovementStatusReturned  MovementStatus = "RETURNED"
)

// Valid indica si el estado es reconocido.
func (s MovementStatus) Valid() bool {
	switch s {
	case MovementStatusPending, MovementStatusCompleted, MovementStatusCanceled, MovementStatusReturned:
		return true
	}
	return false
}

// PaymentMethod forma de pago de un pedido.
type PaymentMethod string

// Formas de pago aceptadas.
const (
	PaymentCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentDebitCard  PaymentMethod = "DEBIT_CARD"
	PaymentPix        PaymentMethod = "PIX"
	PaymentMoney      PaymentMethod = "MONEY"
	PaymentAny        PaymentMethod = "ANY"
)

// Valid indica si la forma de pago es reconocida.
func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCreditCard, PaymentDebitCard, PaymentPix, PaymentMoney, PaymentAny:
		return true
	}
	return false
}

// Movement representa una entrada, salida o pedido asociado a un lote.
// Los campos de variante quedan vacíos cuando no aplican al tipo.
type Movement struct {
	ID           string
	Kind         MovementKind
	ProductID    string
	LotID        string
	Quantity     int64
	Status       MovementStatus
	MovementDate time.Time

	// Entrada
	SupplierID  string
	Description string

	// Salida
	LotCode string

	// Pedido
	CustomerID    string
	PaymentMethod PaymentMethod

	// Entrada y pedido: precio unitario al momento del registro y total (UnitPrice × Quantity)
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy string
	UpdatedBy string
}
