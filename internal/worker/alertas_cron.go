package worker

// Scheduled inventory alert scan. Read-only: it reports low stock and
// near-expiry medications and, when a recipient is configured, enqueues a
// summary email. Inventory is never modified.

import (
	"context"
	"fmt"
	"strings"

	"farmacia/internal/dto"
	"farmacia/internal/service"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const asuntoAlertas = "Alertas de inventario de farmacia"

// EmailEnqueuer is implemented by *Dispatcher.
type EmailEnqueuer interface {
	EnqueueEmail(ctx context.Context, payload EmailJobPayload) error
}

// AlertasCronConfig holds all dependencies for the alert scan.
type AlertasCronConfig struct {
	Schedule     string // standard 5-field cron expression; empty disables the job
	Alertas      service.AlertaService
	Dispatcher   EmailEnqueuer
	Destinatario string // empty: alerts are only logged
}

// StartAlertasCron registers the scan and starts the scheduler. The scheduler
// stops when ctx is cancelled. Returns nil when the job is disabled.
func StartAlertasCron(ctx context.Context, cfg AlertasCronConfig) (*cron.Cron, error) {
	if cfg.Schedule == "" {
		log.Info().Msg("alertas_cron: disabled")
		return nil, nil
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.Schedule, func() {
		if err := EscanearAlertas(ctx, cfg); err != nil {
			log.Error().Err(err).Msg("alertas_cron: scan failed")
		}
	}); err != nil {
		return nil, fmt.Errorf("alertas_cron: invalid schedule %q: %w", cfg.Schedule, err)
	}
	c.Start()
	log.Info().Str("schedule", cfg.Schedule).Msg("alertas_cron: started")

	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
		log.Info().Msg("alertas_cron: shutting down")
	}()
	return c, nil
}

// EscanearAlertas runs one scan and enqueues the summary email if needed.
func EscanearAlertas(ctx context.Context, cfg AlertasCronConfig) error {
	alertas, err := cfg.Alertas.Listar(ctx)
	if err != nil {
		return err
	}

	log.Info().Int("alertas", len(alertas)).Msg("alertas_cron: scan finished")
	if len(alertas) == 0 || cfg.Destinatario == "" {
		return nil
	}

	return cfg.Dispatcher.EnqueueEmail(ctx, EmailJobPayload{
		ToEmail: cfg.Destinatario,
		Subject: fmt.Sprintf("%s (%d)", asuntoAlertas, len(alertas)),
		Body:    resumenAlertas(alertas),
	})
}

func resumenAlertas(alertas []dto.AlertaResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d medicamento(s) requieren atención:\n\n", len(alertas))
	for _, a := range alertas {
		fmt.Fprintf(&b, "- %s (%s): stock %d [%s], vence %s",
			a.Nombre, a.Laboratorio, a.Stock, a.EstadoStock, a.FechaVencimiento.Format("2006-01-02"))
		switch {
		case a.Vencido:
			b.WriteString(" (vencido)")
		case a.ProximoAVencer:
			fmt.Fprintf(&b, " (en %d días)", a.DiasParaVencer)
		}
		b.WriteString("\n")
	}
	return b.String()
}
