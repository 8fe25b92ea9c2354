package dto

import "time"

// ── Request DTOs ──────────────────────────────────────────────────────────────

// TipoMedicamentoRequest is the body of POST and PUT. ID is only read on PUT.
type TipoMedicamentoRequest struct {
	ID          any     `json:"id"`
	Nombre      string  `json:"nombre"      validate:"notblank"`
	Descripcion *string `json:"descripcion"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type TipoMedicamentoResponse struct {
	ID           int64                 `json:"id"`
	Nombre       string                `json:"nombre"`
	Descripcion  *string               `json:"descripcion"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
	Medicamentos []MedicamentoResponse `json:"medicamentos"`
}

// TipoMedicamentoResumen is the category as embedded in a medication.
type TipoMedicamentoResumen struct {
	ID          int64     `json:"id"`
	Nombre      string    `json:"nombre"`
	Descripcion *string   `json:"descripcion"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
