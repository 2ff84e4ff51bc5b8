package entity

import "time"

// Customer representa un cliente que origina pedidos. Su gestión es externa al núcleo de stock.
type Customer struct {
	ID               string
	FullName         string
	Email            string
	Phone            string
	Status           string // ACTIVE, INACTIVE
	PreferredPayment PaymentMethod
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
