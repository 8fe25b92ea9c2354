package infra

import (
	"fmt"

	"farmacia/internal/config"
	"farmacia/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the pooled GORM connection backed by pgx. The pool is
// built once at startup and handed to the repositories.
// TranslateError makes the driver surface unique and foreign-key violations
// as gorm.ErrDuplicatedKey / gorm.ErrForeignKeyViolated.
func NewDatabase(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Silent
	if cfg.LogLevel == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)

	return db, nil
}

// RunMigrations creates / updates both tables with AutoMigrate, then applies
// the idempotent SQL patches GORM cannot express (CHECK constraints).
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.TipoMedicamento{}, &model.Medicamento{}); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs DDL guarded by existence checks so re-running on an
// already-patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"check medicamentos.precio > 0", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_medicamentos_precio_positivo') THEN
    ALTER TABLE medicamentos ADD CONSTRAINT chk_medicamentos_precio_positivo CHECK (precio > 0);
  END IF;
END $$`},
		{"check medicamentos.stock >= 0", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_medicamentos_stock_no_negativo') THEN
    ALTER TABLE medicamentos ADD CONSTRAINT chk_medicamentos_stock_no_negativo CHECK (stock >= 0);
  END IF;
END $$`},
		// Alert scans filter on expiry date.
		{"index medicamentos.fecha_vencimiento",
			`CREATE INDEX IF NOT EXISTS idx_medicamentos_fecha_vencimiento ON medicamentos (fecha_vencimiento)`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
