package dto

import "time"

// DriftDTO diferencia entre el saldo guardado y el recalculado.
type DriftDTO struct {
	Entity    string `json:"entity"` // "lote" | "producto"
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Field     string `json:"field"`
	Expected  int64  `json:"expected"`
	Actual    int64  `json:"actual"`
}

// ReconciliationReport resultado de una auditoría de saldos.
type ReconciliationReport struct {
	GeneratedAt     time.Time  `json:"generated_at"`
	CheckedProducts int        `json:"checked_products"`
	CheckedLots     int        `json:"checked_lots"`
	Drifts          []DriftDTO `json:"drifts"`
}

// Consistent es true si no se encontró ninguna diferencia.
func (r *ReconciliationReport) Consistent() bool {
	return len(r.Drifts) == 0
}
