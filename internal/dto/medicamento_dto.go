package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// MedicamentoRequest is the body of POST and PUT (full replace). Pointer
// fields tell "not provided" apart from a zero value.
type MedicamentoRequest struct {
	ID                any              `json:"id"`
	Nombre            string           `json:"nombre"            validate:"notblank"`
	Descripcion       *string          `json:"descripcion"`
	Precio            *decimal.Decimal `json:"precio"            validate:"required,gt=0"`
	Stock             *int             `json:"stock"             validate:"required,min=0"`
	FechaVencimiento  string           `json:"fechaVencimiento"  validate:"required,fecha"`
	Laboratorio       string           `json:"laboratorio"       validate:"notblank"`
	TipoMedicamentoID int64            `json:"tipoMedicamentoId" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MedicamentoResponse struct {
	ID                int64                   `json:"id"`
	Nombre            string                  `json:"nombre"`
	Descripcion       *string                 `json:"descripcion"`
	Precio            decimal.Decimal         `json:"precio"`
	Stock             int                     `json:"stock"`
	FechaVencimiento  time.Time               `json:"fechaVencimiento"`
	Laboratorio       string                  `json:"laboratorio"`
	TipoMedicamentoID int64                   `json:"tipoMedicamentoId"`
	CreatedAt         time.Time               `json:"createdAt"`
	UpdatedAt         time.Time               `json:"updatedAt"`
	TipoMedicamento   *TipoMedicamentoResumen `json:"tipoMedicamento,omitempty"`
}

// AlertaResponse is a medication that needs attention: low stock, near expiry or expired.
type AlertaResponse struct {
	MedicamentoResponse
	EstadoStock    string `json:"estadoStock"`
	ProximoAVencer bool   `json:"proximoAVencer"`
	Vencido        bool   `json:"vencido"`
	DiasParaVencer int    `json:"diasParaVencer"`
}

// MensajeResponse confirms a deletion.
type MensajeResponse struct {
	Message string `json:"message"`
}
