package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"farmacia/internal/apierror"
	"farmacia/internal/dto"
	"farmacia/internal/model"
	"farmacia/internal/repository"
)

const (
	msgNombreRequerido         = "El nombre es requerido"
	msgIDRequerido             = "ID es requerido y debe ser válido"
	msgTipoNoEncontrado        = "Tipo de medicamento no encontrado"
	msgTipoDuplicado           = "Ya existe un tipo de medicamento con ese nombre"
	msgTipoEliminado           = "Tipo de medicamento eliminado correctamente"
	msgErrorObtenerTipos       = "Error al obtener tipos de medicamento"
	msgErrorCrearTipo          = "Error al crear tipo de medicamento"
	msgErrorActualizarTipo     = "Error al actualizar tipo de medicamento"
	msgErrorEliminarTipo       = "Error al eliminar tipo de medicamento"
	formatoTipoConDependencias = "No se puede eliminar el tipo porque tiene %d medicamento(s) asociado(s)"
)

// TipoMedicamentoService defines business operations for medication categories.
type TipoMedicamentoService interface {
	Listar(ctx context.Context) ([]dto.TipoMedicamentoResponse, error)
	Obtener(ctx context.Context, id int64) (*dto.TipoMedicamentoResponse, error)
	Crear(ctx context.Context, req dto.TipoMedicamentoRequest) (*dto.TipoMedicamentoResponse, error)
	Actualizar(ctx context.Context, req dto.TipoMedicamentoRequest) (*dto.TipoMedicamentoResponse, error)
	Eliminar(ctx context.Context, id int64) (*dto.MensajeResponse, error)
}

type tipoMedicamentoService struct {
	repo repository.TipoMedicamentoRepository
}

func NewTipoMedicamentoService(repo repository.TipoMedicamentoRepository) TipoMedicamentoService {
	return &tipoMedicamentoService{repo: repo}
}

func (s *tipoMedicamentoService) Listar(ctx context.Context) ([]dto.TipoMedicamentoResponse, error) {
	list, err := s.repo.Listar(ctx)
	if err != nil {
		return nil, apierror.Inesperado(msgErrorObtenerTipos, err)
	}
	result := make([]dto.TipoMedicamentoResponse, 0, len(list))
	for _, t := range list {
		result = append(result, mapTipoMedicamento(t))
	}
	return result, nil
}

func (s *tipoMedicamentoService) Obtener(ctx context.Context, id int64) (*dto.TipoMedicamentoResponse, error) {
	t, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoEncontrado) {
			return nil, apierror.NoEncontrado(msgTipoNoEncontrado)
		}
		return nil, apierror.Inesperado(msgErrorObtenerTipos, err)
	}
	resp := mapTipoMedicamento(*t)
	return &resp, nil
}

func (s *tipoMedicamentoService) Crear(ctx context.Context, req dto.TipoMedicamentoRequest) (*dto.TipoMedicamentoResponse, error) {
	if detalles := validarTipoMedicamento(&req); len(detalles) > 0 {
		return nil, apierror.Validacion(msgNombreRequerido, detalles)
	}

	t := &model.TipoMedicamento{
		Nombre:      strings.TrimSpace(req.Nombre),
		Descripcion: recortarOpcional(req.Descripcion),
	}
	if err := s.repo.Crear(ctx, t); err != nil {
		if errors.Is(err, repository.ErrDuplicado) {
			return nil, apierror.Conflicto(msgTipoDuplicado)
		}
		return nil, apierror.Inesperado(msgErrorCrearTipo, err)
	}
	resp := mapTipoMedicamento(*t)
	return &resp, nil
}

func (s *tipoMedicamentoService) Actualizar(ctx context.Context, req dto.TipoMedicamentoRequest) (*dto.TipoMedicamentoResponse, error) {
	id, ok := dto.ParseID(req.ID)
	if !ok {
		return nil, apierror.ArgumentoInvalido(msgIDRequerido)
	}
	if detalles := validarTipoMedicamento(&req); len(detalles) > 0 {
		return nil, apierror.Validacion(msgNombreRequerido, detalles)
	}

	t := &model.TipoMedicamento{
		ID:          id,
		Nombre:      strings.TrimSpace(req.Nombre),
		Descripcion: recortarOpcional(req.Descripcion),
	}
	if err := s.repo.Actualizar(ctx, t); err != nil {
		switch {
		case errors.Is(err, repository.ErrNoEncontrado):
			return nil, apierror.NoEncontrado(msgTipoNoEncontrado)
		case errors.Is(err, repository.ErrDuplicado):
			return nil, apierror.Conflicto(msgTipoDuplicado)
		}
		return nil, apierror.Inesperado(msgErrorActualizarTipo, err)
	}

	actualizado, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoEncontrado) {
			return nil, apierror.NoEncontrado(msgTipoNoEncontrado)
		}
		return nil, apierror.Inesperado(msgErrorActualizarTipo, err)
	}
	resp := mapTipoMedicamento(*actualizado)
	return &resp, nil
}

// Eliminar refuses to delete a category that still has medications. The
// count and the delete are not atomic; a medication inserted in between makes
// the store reject the delete, and the dependents are counted again.
func (s *tipoMedicamentoService) Eliminar(ctx context.Context, id int64) (*dto.MensajeResponse, error) {
	n, err := s.repo.ContarMedicamentos(ctx, id)
	if err != nil {
		return nil, apierror.Inesperado(msgErrorEliminarTipo, err)
	}
	if n > 0 {
		return nil, apierror.DependenciasExistentes(fmt.Sprintf(formatoTipoConDependencias, n))
	}

	err = s.repo.Eliminar(ctx, id)
	switch {
	case err == nil:
		return &dto.MensajeResponse{Message: msgTipoEliminado}, nil
	case errors.Is(err, repository.ErrNoEncontrado):
		return nil, apierror.NoEncontrado(msgTipoNoEncontrado)
	case errors.Is(err, repository.ErrReferencia):
		n, cerr := s.repo.ContarMedicamentos(ctx, id)
		if cerr != nil || n == 0 {
			return nil, apierror.Inesperado(msgErrorEliminarTipo, err)
		}
		return nil, apierror.DependenciasExistentes(fmt.Sprintf(formatoTipoConDependencias, n))
	default:
		return nil, apierror.Inesperado(msgErrorEliminarTipo, err)
	}
}

// mapTipoMedicamento converts a model to a DTO response.
func mapTipoMedicamento(t model.TipoMedicamento) dto.TipoMedicamentoResponse {
	meds := make([]dto.MedicamentoResponse, 0, len(t.Medicamentos))
	for _, m := range t.Medicamentos {
		meds = append(meds, mapMedicamento(m))
	}
	return dto.TipoMedicamentoResponse{
		ID:           t.ID,
		Nombre:       t.Nombre,
		Descripcion:  t.Descripcion,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
		Medicamentos: meds,
	}
}

func mapTipoResumen(t *model.TipoMedicamento) *dto.TipoMedicamentoResumen {
	if t == nil {
		return nil
	}
	return &dto.TipoMedicamentoResumen{
		ID:          t.ID,
		Nombre:      t.Nombre,
		Descripcion: t.Descripcion,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
