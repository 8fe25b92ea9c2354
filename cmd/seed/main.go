// cmd/seed/main.go loads demo categories and medications.
// Safe to re-run: existing rows (matched by name) are left untouched.
// Usage: go run ./cmd/seed
package main

import (
	"context"
	"os"
	"time"

	"farmacia/internal/config"
	"farmacia/internal/infra"
	"farmacia/internal/model"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type seedMedicamento struct {
	nombre      string
	laboratorio string
	precio      string
	stock       int
	vence       string
	tipo        string
}

var tiposSeed = []struct{ nombre, descripcion string }{
	{"Analgésicos", "Alivio del dolor"},
	{"Antibióticos", "Tratamiento de infecciones bacterianas"},
	{"Antiinflamatorios", "Reducción de la inflamación"},
}

var medicamentosSeed = []seedMedicamento{
	{"Paracetamol", "Pfizer", "10.50", 50, "2099-01-01", "Analgésicos"},
	{"Ibuprofeno 400mg", "Bayer", "8.75", 15, "2099-06-30", "Antiinflamatorios"},
	{"Amoxicilina 500mg", "Roemmers", "22.10", 4, "2099-03-15", "Antibióticos"},
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	if err := infra.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	if err := seed(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
	log.Info().Int("tipos", len(tiposSeed)).Int("medicamentos", len(medicamentosSeed)).Msg("seed complete")
}

func seed(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make(map[string]int64, len(tiposSeed))
		for _, t := range tiposSeed {
			descr := t.descripcion
			tipo := model.TipoMedicamento{Nombre: t.nombre, Descripcion: &descr}
			if err := tx.Where("nombre = ?", t.nombre).FirstOrCreate(&tipo).Error; err != nil {
				return err
			}
			ids[t.nombre] = tipo.ID
		}

		for _, m := range medicamentosSeed {
			vence, err := time.Parse(time.DateOnly, m.vence)
			if err != nil {
				return err
			}
			med := model.Medicamento{
				Nombre:            m.nombre,
				Precio:            decimal.RequireFromString(m.precio),
				Stock:             m.stock,
				FechaVencimiento:  vence,
				Laboratorio:       m.laboratorio,
				TipoMedicamentoID: ids[m.tipo],
			}
			if err := tx.Omit("TipoMedicamento").
				Where("nombre = ? AND laboratorio = ?", m.nombre, m.laboratorio).
				FirstOrCreate(&med).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
