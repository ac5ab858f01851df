package infra

import (
	"fmt"

	"tiendapos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and brings the
// schema up to date.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
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

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates or updates every table and then applies the
// constraints GORM tags cannot express. Safe to run on every start.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Categoria{},
		&model.Area{},
		&model.ProductoInfo{},
		&model.HistorialPrecio{},
		&model.EntradaAlmacen{},
		&model.ProductoUnidad{},
		&model.MovimientoUnidad{},
		&model.SalidaAlmacen{},
		&model.Venta{},
		&model.Transferencia{},
		&model.AjusteInventario{},
		&model.AjusteItem{},
		&model.Cuenta{},
		&model.Transaccion{},
		&model.GastoFijo{},
		&model.GastoVariable{},
		&model.ProductoCafeteria{},
		&model.EntradaCafeteria{},
		&model.SalidaCafeteria{},
		&model.Elaboracion{},
		&model.IngredienteElaboracion{},
		&model.VentaCafeteria{},
		&model.VentaCafeteriaItem{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches adds CHECK constraints as a last line of defence behind
// the service checks. Each one is guarded by an existence check so re-running
// on an already-patched DB is a no-op. A violation surfaces as SQLSTATE 23514.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ nombre, tabla, expr string }{
		// area_id only for units on a floor; sold/adjusted units point at their document
		{"chk_unidad_ubicacion", "producto_unidades", `
			(estado = 'almacen'  AND area_id IS NULL) OR
			(estado = 'area'     AND area_id IS NOT NULL) OR
			(estado IN ('vendida', 'ajustada') AND area_id IS NULL AND documento_id IS NOT NULL)`},
		{"chk_cuenta_saldo", "cuentas", `saldo >= 0`},
		{"chk_transaccion_monto", "transacciones", `monto > 0`},
		{"chk_caf_cantidades", "productos_cafeteria", `cantidad_almacen >= 0 AND cantidad_area >= 0`},
		{"chk_venta_pago", "ventas", `efectivo >= 0 AND transferencia >= 0`},
		{"chk_gasto_fijo_dias", "gastos_fijos", `
			(frecuencia <> 'semanal' OR dia_semana BETWEEN 0 AND 6) AND
			(frecuencia <> 'mensual' OR dia_mes BETWEEN 1 AND 31)`},
	}
	for _, p := range patches {
		sql := fmt.Sprintf(`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%s') THEN
		    ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s);
		  END IF;
		END $$`, p.nombre, p.tabla, p.nombre, p.expr)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.nombre, err)
		}
	}
	return nil
}
