package entity

import "time"

// Supplier representa un proveedor de entradas. Su gestión es externa al núcleo de stock.
type Supplier struct {
	ID            string
	SocialReason  string
	Email         string
	TaxID         string // CNPJ
	ContactPerson string
	Status        string // ACTIVE, INACTIVE
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
