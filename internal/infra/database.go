package infra

import (
	"fmt"
	"time"

	"github.com/CzarAl/domus-backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens a GORM connection backed by pgx. When autoMigrate is set
// the tables are created or updated from the models; the idempotent patches
// (partial indexes and check constraints GORM cannot express) always run.
func NewDatabase(dsn string, autoMigrate bool) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if autoMigrate {
		if err := RunMigrations(db); err != nil {
			return nil, err
		}
		return db, nil
	}
	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}
	return db, nil
}

// RunMigrations creates every table from the models and applies the patches.
// Integration tests call it against a fresh container.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Empresa{},
		&model.Sucursal{},
		&model.CuentaMatriz{},
		&model.Usuario{},
		&model.Suscripcion{},
		&model.SesionCaja{},
		&model.MovimientoCaja{},
		&model.Producto{},
		&model.Cliente{},
		&model.Venta{},
		&model.DetalleVenta{},
		&model.AuditoriaTienda{},
		&model.EmpresaBackup{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL. Every statement is guarded so a
// re-run on an already-patched database is a no-op, and tables that do not
// exist yet are skipped.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// One open register session per (tenant, branch).
		{"uq_sesiones_caja_abierta", `
DO $$ BEGIN
  IF to_regclass('sesiones_caja') IS NOT NULL
     AND NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uq_sesiones_caja_abierta') THEN
    CREATE UNIQUE INDEX uq_sesiones_caja_abierta
        ON sesiones_caja (id_raiz, id_sucursal)
        WHERE abierta;
  END IF;
END $$`},
		// Stock never goes negative, whatever path writes it.
		{"chk_inventario_stock", `
DO $$ BEGIN
  IF to_regclass('inventario') IS NOT NULL
     AND NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_inventario_stock') THEN
    ALTER TABLE inventario ADD CONSTRAINT chk_inventario_stock CHECK (stock >= 0);
  END IF;
END $$`},
		{"chk_detalles_venta_cantidad", `
DO $$ BEGIN
  IF to_regclass('detalles_venta') IS NOT NULL
     AND NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_detalles_venta_cantidad') THEN
    ALTER TABLE detalles_venta ADD CONSTRAINT chk_detalles_venta_cantidad CHECK (cantidad > 0);
  END IF;
END $$`},
		// Billing sweep scans active records by due date.
		{"idx_cuentas_matriz_activas", `
DO $$ BEGIN
  IF to_regclass('cuentas_matriz') IS NOT NULL
     AND NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_cuentas_matriz_activas') THEN
    CREATE INDEX idx_cuentas_matriz_activas
        ON cuentas_matriz (fecha_vencimiento)
        WHERE estado = 'activa';
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
