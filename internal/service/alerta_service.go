package service

import (
	"context"
	"time"

	"farmacia/internal/apierror"
	"farmacia/internal/dto"
	"farmacia/internal/repository"
)

const msgErrorObtenerAlertas = "Error al obtener alertas de inventario"

// AlertaConfig holds the thresholds used to flag medications.
type AlertaConfig struct {
	StockBajo         int // stock at or below this is "Bajo Stock"
	StockCritico      int // stock at or below this is "Stock Crítico"
	DiasProximoVencer int
}

// AlertaService reports medications that need restocking or are about to expire.
// It never mutates inventory.
type AlertaService interface {
	Listar(ctx context.Context) ([]dto.AlertaResponse, error)
}

type alertaService struct {
	repo  repository.MedicamentoRepository
	cfg   AlertaConfig
	ahora func() time.Time
}

func NewAlertaService(repo repository.MedicamentoRepository, cfg AlertaConfig, ahora func() time.Time) AlertaService {
	if ahora == nil {
		ahora = time.Now
	}
	return &alertaService{repo: repo, cfg: cfg, ahora: ahora}
}

// Listar returns alerts ordered by expiry date, soonest first.
func (s *alertaService) Listar(ctx context.Context) ([]dto.AlertaResponse, error) {
	ahora := s.ahora()
	list, err := s.repo.ListarAlertas(ctx, s.cfg.StockBajo, ahora.AddDate(0, 0, s.cfg.DiasProximoVencer))
	if err != nil {
		return nil, apierror.Inesperado(msgErrorObtenerAlertas, err)
	}

	result := make([]dto.AlertaResponse, 0, len(list))
	for _, m := range list {
		result = append(result, dto.AlertaResponse{
			MedicamentoResponse: mapMedicamento(m),
			EstadoStock:         m.EstadoStock(s.cfg.StockBajo, s.cfg.StockCritico),
			ProximoAVencer:      m.ProximoAVencer(ahora, s.cfg.DiasProximoVencer),
			Vencido:             m.Vencido(ahora),
			DiasParaVencer:      m.DiasParaVencer(ahora),
		})
	}
	return result, nil
}
