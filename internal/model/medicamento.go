package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Labels shown next to the stock figure in the inventory views.
const (
	EstadoEnStock      = "En Stock"
	EstadoBajoStock    = "Bajo Stock"
	EstadoStockCritico = "Stock Crítico"
)

// Medicamento is an inventory item belonging to exactly one TipoMedicamento.
type Medicamento struct {
	ID                int64  `gorm:"primaryKey;autoIncrement"`
	Nombre            string `gorm:"index;not null"`
	Descripcion       *string
	Precio            decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Stock             int             `gorm:"not null;default:0"`
	FechaVencimiento  time.Time       `gorm:"type:date;not null"`
	Laboratorio       string          `gorm:"not null"`
	TipoMedicamentoID int64           `gorm:"not null;index"`
	CreatedAt         time.Time       `gorm:"index"`
	UpdatedAt         time.Time

	TipoMedicamento *TipoMedicamento `gorm:"foreignKey:TipoMedicamentoID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (Medicamento) TableName() string { return "medicamentos" }

// EstadoStock classifies the current stock: above bajo is "En Stock",
// above critico is "Bajo Stock", anything else is "Stock Crítico".
func (m Medicamento) EstadoStock(bajo, critico int) string {
	switch {
	case m.Stock > bajo:
		return EstadoEnStock
	case m.Stock > critico:
		return EstadoBajoStock
	default:
		return EstadoStockCritico
	}
}

// ProximoAVencer reports whether the medication expires within dias days of
// ahora. Already expired medications are included.
func (m Medicamento) ProximoAVencer(ahora time.Time, dias int) bool {
	return !m.FechaVencimiento.After(ahora.AddDate(0, 0, dias))
}

// Vencido reports whether the expiry date is not after ahora.
func (m Medicamento) Vencido(ahora time.Time) bool {
	return !m.FechaVencimiento.After(ahora)
}

// DiasParaVencer returns whole days from ahora until expiry; negative once expired.
func (m Medicamento) DiasParaVencer(ahora time.Time) int {
	return int(m.FechaVencimiento.Sub(ahora).Hours() / 24)
}
