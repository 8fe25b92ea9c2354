package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"farmacia/internal/apierror"
	"farmacia/internal/dto"
	"farmacia/internal/model"
	"farmacia/internal/repository"
)

const (
	msgMedicamentoNoEncontrado    = "Medicamento no encontrado"
	msgMedicamentoEliminado       = "Medicamento eliminado correctamente"
	msgTipoInexistente            = "El tipo de medicamento especificado no existe"
	msgErrorObtenerMedicamentos   = "Error al obtener medicamentos"
	msgErrorCrearMedicamento      = "Error al crear medicamento"
	msgErrorActualizarMedicamento = "Error al actualizar medicamento"
	msgErrorEliminarMedicamento   = "Error al eliminar medicamento"
)

// MedicamentoService defines the business logic contract for medications.
type MedicamentoService interface {
	Listar(ctx context.Context) ([]dto.MedicamentoResponse, error)
	Obtener(ctx context.Context, id int64) (*dto.MedicamentoResponse, error)
	Crear(ctx context.Context, req dto.MedicamentoRequest) (*dto.MedicamentoResponse, error)
	Actualizar(ctx context.Context, req dto.MedicamentoRequest) (*dto.MedicamentoResponse, error)
	Eliminar(ctx context.Context, id int64) (*dto.MensajeResponse, error)
}

type medicamentoService struct {
	repo     repository.MedicamentoRepository
	tipoRepo repository.TipoMedicamentoRepository
	ahora    func() time.Time
}

// NewMedicamentoService builds the service; ahora is the clock used by the
// future-expiry rule and defaults to time.Now.
func NewMedicamentoService(repo repository.MedicamentoRepository, tipoRepo repository.TipoMedicamentoRepository, ahora func() time.Time) MedicamentoService {
	if ahora == nil {
		ahora = time.Now
	}
	return &medicamentoService{repo: repo, tipoRepo: tipoRepo, ahora: ahora}
}

func (s *medicamentoService) Listar(ctx context.Context) ([]dto.MedicamentoResponse, error) {
	list, err := s.repo.Listar(ctx)
	if err != nil {
		return nil, apierror.Inesperado(msgErrorObtenerMedicamentos, err)
	}
	result := make([]dto.MedicamentoResponse, 0, len(list))
	for _, m := range list {
		result = append(result, mapMedicamento(m))
	}
	return result, nil
}

func (s *medicamentoService) Obtener(ctx context.Context, id int64) (*dto.MedicamentoResponse, error) {
	return s.recargar(ctx, id, msgErrorObtenerMedicamentos)
}

func (s *medicamentoService) Crear(ctx context.Context, req dto.MedicamentoRequest) (*dto.MedicamentoResponse, error) {
	if detalles := validarMedicamento(&req, modoCreacion, s.ahora()); len(detalles) > 0 {
		return nil, apierror.Validacion(msgErroresValidacion, detalles)
	}
	if err := s.verificarTipo(ctx, req.TipoMedicamentoID, msgErrorCrearMedicamento); err != nil {
		return nil, err
	}

	m := nuevoMedicamento(req)
	if err := s.repo.Crear(ctx, m); err != nil {
		if errors.Is(err, repository.ErrReferencia) {
			return nil, apierror.ReferenciaInvalida(msgTipoInexistente)
		}
		return nil, apierror.Inesperado(msgErrorCrearMedicamento, err)
	}
	return s.recargar(ctx, m.ID, msgErrorCrearMedicamento)
}

// Actualizar replaces every mutable field. The expiry date is not required to
// be in the future here, so historical records can be corrected.
func (s *medicamentoService) Actualizar(ctx context.Context, req dto.MedicamentoRequest) (*dto.MedicamentoResponse, error) {
	id, ok := dto.ParseID(req.ID)
	if !ok {
		return nil, apierror.ArgumentoInvalido(msgIDRequerido)
	}
	if detalles := validarMedicamento(&req, modoReemplazo, s.ahora()); len(detalles) > 0 {
		return nil, apierror.Validacion(msgErroresValidacion, detalles)
	}
	if err := s.verificarTipo(ctx, req.TipoMedicamentoID, msgErrorActualizarMedicamento); err != nil {
		return nil, err
	}

	m := nuevoMedicamento(req)
	m.ID = id
	if err := s.repo.Actualizar(ctx, m); err != nil {
		switch {
		case errors.Is(err, repository.ErrNoEncontrado):
			return nil, apierror.NoEncontrado(msgMedicamentoNoEncontrado)
		case errors.Is(err, repository.ErrReferencia):
			return nil, apierror.ReferenciaInvalida(msgTipoInexistente)
		}
		return nil, apierror.Inesperado(msgErrorActualizarMedicamento, err)
	}
	return s.recargar(ctx, id, msgErrorActualizarMedicamento)
}

func (s *medicamentoService) Eliminar(ctx context.Context, id int64) (*dto.MensajeResponse, error) {
	if err := s.repo.Eliminar(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNoEncontrado) {
			return nil, apierror.NoEncontrado(msgMedicamentoNoEncontrado)
		}
		return nil, apierror.Inesperado(msgErrorEliminarMedicamento, err)
	}
	return &dto.MensajeResponse{Message: msgMedicamentoEliminado}, nil
}

func (s *medicamentoService) verificarTipo(ctx context.Context, tipoID int64, msgError string) error {
	existe, err := s.tipoRepo.Existe(ctx, tipoID)
	if err != nil {
		return apierror.Inesperado(msgError, err)
	}
	if !existe {
		return apierror.ReferenciaInvalida(msgTipoInexistente)
	}
	return nil
}

// recargar reads the row back joined with its category.
func (s *medicamentoService) recargar(ctx context.Context, id int64, msgError string) (*dto.MedicamentoResponse, error) {
	m, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoEncontrado) {
			return nil, apierror.NoEncontrado(msgMedicamentoNoEncontrado)
		}
		return nil, apierror.Inesperado(msgError, err)
	}
	resp := mapMedicamento(*m)
	return &resp, nil
}

// nuevoMedicamento normalizes an already validated request.
func nuevoMedicamento(req dto.MedicamentoRequest) *model.Medicamento {
	fecha, _ := parseFecha(req.FechaVencimiento)
	return &model.Medicamento{
		Nombre:            strings.TrimSpace(req.Nombre),
		Descripcion:       recortarOpcional(req.Descripcion),
		Precio:            req.Precio.Round(2),
		Stock:             *req.Stock,
		FechaVencimiento:  fecha,
		Laboratorio:       strings.TrimSpace(req.Laboratorio),
		TipoMedicamentoID: req.TipoMedicamentoID,
	}
}

func mapMedicamento(m model.Medicamento) dto.MedicamentoResponse {
	return dto.MedicamentoResponse{
		ID:                m.ID,
		Nombre:            m.Nombre,
		Descripcion:       m.Descripcion,
		Precio:            m.Precio,
		Stock:             m.Stock,
		FechaVencimiento:  m.FechaVencimiento,
		Laboratorio:       m.Laboratorio,
		TipoMedicamentoID: m.TipoMedicamentoID,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
		TipoMedicamento:   mapTipoResumen(m.TipoMedicamento),
	}
}
