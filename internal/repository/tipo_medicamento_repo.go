package repository

import (
	"context"

	"farmacia/internal/model"

	"gorm.io/gorm"
)

// TipoMedicamentoRepository defines CRUD operations for TipoMedicamento.
// Every error it returns has already been through clasificar.
type TipoMedicamentoRepository interface {
	Crear(ctx context.Context, t *model.TipoMedicamento) error
	Listar(ctx context.Context) ([]model.TipoMedicamento, error)
	ObtenerPorID(ctx context.Context, id int64) (*model.TipoMedicamento, error)
	Existe(ctx context.Context, id int64) (bool, error)
	Actualizar(ctx context.Context, t *model.TipoMedicamento) error
	ContarMedicamentos(ctx context.Context, id int64) (int64, error)
	Eliminar(ctx context.Context, id int64) error
}

type tipoMedicamentoRepository struct{ db *gorm.DB }

func NewTipoMedicamentoRepository(db *gorm.DB) TipoMedicamentoRepository {
	return &tipoMedicamentoRepository{db: db}
}

func (r *tipoMedicamentoRepository) Crear(ctx context.Context, t *model.TipoMedicamento) error {
	return clasificar(r.db.WithContext(ctx).Omit("Medicamentos").Create(t).Error)
}

func (r *tipoMedicamentoRepository) Listar(ctx context.Context) ([]model.TipoMedicamento, error) {
	var list []model.TipoMedicamento
	err := r.db.WithContext(ctx).
		Preload("Medicamentos", ordenMedicamentos).
		Order("created_at desc, id desc").
		Find(&list).Error
	return list, clasificar(err)
}

func (r *tipoMedicamentoRepository) ObtenerPorID(ctx context.Context, id int64) (*model.TipoMedicamento, error) {
	var t model.TipoMedicamento
	err := r.db.WithContext(ctx).
		Preload("Medicamentos", ordenMedicamentos).
		First(&t, "id = ?", id).Error
	if err != nil {
		return nil, clasificar(err)
	}
	return &t, nil
}

func (r *tipoMedicamentoRepository) Existe(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.TipoMedicamento{}).Where("id = ?", id).Count(&n).Error
	return n > 0, clasificar(err)
}

// Actualizar replaces the mutable fields of the row identified by t.ID.
func (r *tipoMedicamentoRepository) Actualizar(ctx context.Context, t *model.TipoMedicamento) error {
	res := r.db.WithContext(ctx).Model(&model.TipoMedicamento{}).
		Where("id = ?", t.ID).
		Updates(map[string]interface{}{
			"nombre":      t.Nombre,
			"descripcion": t.Descripcion,
		})
	return filasAfectadas(res)
}

func (r *tipoMedicamentoRepository) ContarMedicamentos(ctx context.Context, id int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Medicamento{}).Where("tipo_medicamento_id = ?", id).Count(&n).Error
	return n, clasificar(err)
}

func (r *tipoMedicamentoRepository) Eliminar(ctx context.Context, id int64) error {
	return filasAfectadas(r.db.WithContext(ctx).Delete(&model.TipoMedicamento{}, id))
}

func ordenMedicamentos(db *gorm.DB) *gorm.DB {
	return db.Order("created_at desc, id desc")
}
