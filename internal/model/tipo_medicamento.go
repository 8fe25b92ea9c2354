package model

import "time"

// TipoMedicamento is a therapeutic classification grouping medications.
// It never owns its medications: deletion is blocked while any reference it.
type TipoMedicamento struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Nombre      string `gorm:"uniqueIndex;not null"`
	Descripcion *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Medicamentos []Medicamento `gorm:"foreignKey:TipoMedicamentoID"`
}

// TableName overrides GORM's default singular → plural logic for Spanish names.
func (TipoMedicamento) TableName() string { return "tipos_medicamento" }
