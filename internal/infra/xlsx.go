package infra

import (
	"fmt"

	"tiendapos/internal/dto"

	"github.com/xuri/excelize/v2"
)

const (
	hojaResumen   = "Resumen"
	hojaProductos = "Productos"
)

// GananciasXLSX renders r as a two-sheet workbook: the summary and the
// per-SKU breakdown. Amounts are written as numbers so they can be summed.
func (g *Reportes) GananciasXLSX(r *dto.ReporteGanancias) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", hojaResumen); err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	if _, err := f.NewSheet(hojaProductos); err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	negrita, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}

	resumen := [][]interface{}{
		{g.Tienda, "Reporte de ganancias"},
		{"Desde", r.Desde.Format("2006-01-02")},
		{"Hasta", r.Hasta.Format("2006-01-02")},
		{},
		{"Ventas brutas", r.Bruto.InexactFloat64()},
		{"Efectivo", r.Efectivo.InexactFloat64()},
		{"Transferencia", r.Transferencia.InexactFloat64()},
		{"Costo de mercancia", r.Costo.InexactFloat64()},
		{"Comisiones", r.Comisiones.InexactFloat64()},
		{"Gastos fijos", r.GastosFijos.InexactFloat64()},
		{"Gastos variables", r.GastosVariables.InexactFloat64()},
		{"Ganancia neta", r.Neto.InexactFloat64()},
	}
	if r.AreaID != nil {
		resumen = append(resumen, []interface{}{"Area", r.AreaID.String()})
	}
	for _, gf := range r.DetalleFijos {
		resumen = append(resumen, []interface{}{gf.Descripcion, gf.Total.InexactFloat64(), gf.Ocurrencias})
	}
	for i, row := range resumen {
		celda, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(hojaResumen, celda, &row); err != nil {
			return nil, fmt.Errorf("xlsx: %w", err)
		}
	}
	_ = f.SetCellStyle(hojaResumen, "A1", "B1", negrita)
	_ = f.SetCellStyle(hojaResumen, "A12", "B12", negrita)
	_ = f.SetColWidth(hojaResumen, "A", "A", 28)
	_ = f.SetColWidth(hojaResumen, "B", "B", 16)

	encabezado := []interface{}{"Codigo", "Descripcion", "Unidades", "Bruto", "Costo", "Comisiones"}
	if err := f.SetSheetRow(hojaProductos, "A1", &encabezado); err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	_ = f.SetCellStyle(hojaProductos, "A1", "F1", negrita)
	for i, p := range r.Productos {
		row := []interface{}{
			p.Codigo,
			p.Descripcion,
			p.Unidades,
			p.Bruto.InexactFloat64(),
			p.Costo.InexactFloat64(),
			p.Comisiones.InexactFloat64(),
		}
		celda, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(hojaProductos, celda, &row); err != nil {
			return nil, fmt.Errorf("xlsx: %w", err)
		}
	}
	_ = f.SetColWidth(hojaProductos, "B", "B", 40)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: write: %w", err)
	}
	return buf.Bytes(), nil
}
