package repository

import (
	"context"
	"time"

	"farmacia/internal/model"

	"gorm.io/gorm"
)

// MedicamentoRepository defines the data access contract for medications.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type MedicamentoRepository interface {
	Crear(ctx context.Context, m *model.Medicamento) error
	Listar(ctx context.Context) ([]model.Medicamento, error)
	ObtenerPorID(ctx context.Context, id int64) (*model.Medicamento, error)
	Actualizar(ctx context.Context, m *model.Medicamento) error
	Eliminar(ctx context.Context, id int64) error

	// ListarAlertas returns medications with stock <= stockMax or expiring on or before hasta.
	ListarAlertas(ctx context.Context, stockMax int, hasta time.Time) ([]model.Medicamento, error)
}

type medicamentoRepo struct{ db *gorm.DB }

func NewMedicamentoRepository(db *gorm.DB) MedicamentoRepository { return &medicamentoRepo{db: db} }

func (r *medicamentoRepo) Crear(ctx context.Context, m *model.Medicamento) error {
	return clasificar(r.db.WithContext(ctx).Omit("TipoMedicamento").Create(m).Error)
}

func (r *medicamentoRepo) Listar(ctx context.Context) ([]model.Medicamento, error) {
	var list []model.Medicamento
	err := r.db.WithContext(ctx).
		Preload("TipoMedicamento").
		Order("created_at desc, id desc").
		Find(&list).Error
	return list, clasificar(err)
}

func (r *medicamentoRepo) ObtenerPorID(ctx context.Context, id int64) (*model.Medicamento, error) {
	var m model.Medicamento
	err := r.db.WithContext(ctx).Preload("TipoMedicamento").First(&m, "id = ?", id).Error
	if err != nil {
		return nil, clasificar(err)
	}
	return &m, nil
}

// Actualizar replaces every mutable field of the row identified by m.ID.
func (r *medicamentoRepo) Actualizar(ctx context.Context, m *model.Medicamento) error {
	res := r.db.WithContext(ctx).Model(&model.Medicamento{}).
		Where("id = ?", m.ID).
		Updates(map[string]interface{}{
			"nombre":              m.Nombre,
			"descripcion":         m.Descripcion,
			"precio":              m.Precio,
			"stock":               m.Stock,
			"fecha_vencimiento":   m.FechaVencimiento,
			"laboratorio":         m.Laboratorio,
			"tipo_medicamento_id": m.TipoMedicamentoID,
		})
	return filasAfectadas(res)
}

func (r *medicamentoRepo) Eliminar(ctx context.Context, id int64) error {
	return filasAfectadas(r.db.WithContext(ctx).Delete(&model.Medicamento{}, id))
}

func (r *medicamentoRepo) ListarAlertas(ctx context.Context, stockMax int, hasta time.Time) ([]model.Medicamento, error) {
	var list []model.Medicamento
	err := r.db.WithContext(ctx).
		Preload("TipoMedicamento").
		Where("stock <= ? OR fecha_vencimiento <= ?", stockMax, hasta).
		Order("fecha_vencimiento asc, stock asc, id asc").
		Find(&list).Error
	return list, clasificar(err)
}
