package infra

// pdf.go: profit report rendering using go-pdf/fpdf.
// A4 portrait with:
//   - Store name and period header
//   - Summary block (gross, COGS, commissions, expenses, net)
//   - Per-SKU table
//   - Accrued fixed-expense detail

import (
	"bytes"
	"fmt"

	"tiendapos/internal/dto"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// Reportes renders profit reports. It satisfies service.Renderizador.
type Reportes struct {
	Tienda string
}

func NewReportes(tienda string) *Reportes {
	if tienda == "" {
		tienda = "TiendaPOS"
	}
	return &Reportes{Tienda: tienda}
}

// GananciasPDF renders r as an A4 PDF and returns the file bytes.
func (g *Reportes) GananciasPDF(r *dto.ReporteGanancias) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 15)
	pdf.CellFormat(contentW, 8, tr(g.Tienda), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, tr("Reporte de ganancias"), "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 5, fmt.Sprintf("%s al %s", r.Desde.Format("02/01/2006"), r.Hasta.Format("02/01/2006")), "", 1, "C", false, 0, "")
	if r.AreaID != nil {
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(contentW, 5, "Area "+r.AreaID.String(), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	// ── Summary ──────────────────────────────────────────────────────────────
	labelW := contentW * 0.6
	valueW := contentW * 0.4
	fila := func(label string, v decimal.Decimal, bold bool) {
		estilo := ""
		if bold {
			estilo = "B"
		}
		pdf.SetFont("Helvetica", estilo, 9)
		pdf.CellFormat(labelW, 6, tr(label), "", 0, "L", false, 0, "")
		pdf.CellFormat(valueW, 6, "$"+v.StringFixed(2), "", 1, "R", false, 0, "")
	}
	fila("Ventas brutas", r.Bruto, false)
	fila("  en efectivo", r.Efectivo, false)
	fila("  por transferencia", r.Transferencia, false)
	fila("Costo de mercancia", r.Costo, false)
	fila("Comisiones", r.Comisiones, false)
	fila("Gastos fijos", r.GastosFijos, false)
	fila("Gastos variables", r.GastosVariables, false)
	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	fila("Ganancia neta", r.Neto, true)
	pdf.Ln(5)

	// ── Per-SKU table ─────────────────────────────────────────────────────────
	cols := []float64{contentW * 0.16, contentW * 0.34, contentW * 0.1, contentW * 0.14, contentW * 0.13, contentW * 0.13}
	pdf.SetFont("Helvetica", "B", 8)
	for i, h := range []string{"Codigo", "Descripcion", "Unid.", "Bruto", "Costo", "Comision"} {
		align := "R"
		if i < 2 {
			align = "L"
		}
		pdf.CellFormat(cols[i], 6, h, "B", 0, align, false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, p := range r.Productos {
		desc := p.Descripcion
		if len([]rune(desc)) > 34 {
			desc = string([]rune(desc)[:33]) + "."
		}
		pdf.CellFormat(cols[0], 5, tr(p.Codigo), "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[1], 5, tr(desc), "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[2], 5, fmt.Sprintf("%d", p.Unidades), "", 0, "R", false, 0, "")
		pdf.CellFormat(cols[3], 5, p.Bruto.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(cols[4], 5, p.Costo.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(cols[5], 5, p.Comisiones.StringFixed(2), "", 1, "R", false, 0, "")
	}

	// ── Fixed expenses ────────────────────────────────────────────────────────
	if len(r.DetalleFijos) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(contentW, 6, "Gastos fijos devengados", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		for _, gf := range r.DetalleFijos {
			pdf.CellFormat(labelW, 5, tr(fmt.Sprintf("%s (x%d)", gf.Descripcion, gf.Ocurrencias)), "", 0, "L", false, 0, "")
			pdf.CellFormat(valueW, 5, "$"+gf.Total.StringFixed(2), "", 1, "R", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	return buf.Bytes(), nil
}
