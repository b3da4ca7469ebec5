// Package pdf renderiza los reportes de rentabilidad en PDF.
//
// Layout de la página A4 del reporte de margen:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + tienda      │  Período + fecha de emisión │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Ingresos | Costo | Utilidad bruta | Margen        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Categoría | Ingresos | Costo | Utilidad | Margen    │
//	│  TABLA: Top productos rentables                             │
//	│  TABLA: Productos con margen bajo                           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda de exclusión de pedidos                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	appanalytics "github.com/jhoicas/pos-analytics/internal/application/analytics"
	"github.com/jhoicas/pos-analytics/internal/application/dto"
)

var _ appanalytics.ReportPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa analytics.ReportPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	printer *message.Printer
	now     func() time.Time
}

// NewMarotoPDFGenerator construye el generador. Los montos se imprimen con
// separadores es-CO ("$1.500.000,00").
func NewMarotoPDFGenerator() *MarotoPDFGenerator {
	return &MarotoPDFGenerator{
		printer: message.NewPrinter(language.MustParse("es-CO")),
		now:     time.Now,
	}
}

// GenerateProfitMarginPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateProfitMarginPDF(
	ctx context.Context,
	tenantID string,
	report *dto.ProfitMarginDTO,
) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("pdf: reporte nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de margen de utilidad", true).
		WithAuthor(tenantID, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(tenantID, report.Period))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.summaryRow(report.Overall))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("MARGEN POR CATEGORÍA", colorPrimary))
	m.AddRows(tableHeaderRow("Categoría"))
	for _, c := range report.ByCategory {
		m.AddRows(g.marginRow(c.CategoryName, c.TotalRevenueCents, c.TotalCostCents, c.ProfitCents, c.ProfitMarginPercent))
	}

	m.AddRows(row.New(3))
	m.AddRows(sectionTitle("PRODUCTOS MÁS RENTABLES", colorPrimary))
	m.AddRows(tableHeaderRow("Producto"))
	for _, p := range report.TopProfitableProducts {
		m.AddRows(g.marginRow(productLabel(p), p.TotalRevenueCents, p.TotalCostCents, p.ProfitCents, p.ProfitMarginPercent))
	}

	m.AddRows(row.New(3))
	m.AddRows(sectionTitle(
		g.printer.Sprintf("PRODUCTOS CON MARGEN MENOR A %.0f%%", report.LowMarginThreshold), colorAlert))
	if len(report.LowMarginProducts) == 0 {
		m.AddRows(row.New(6).Add(col.New(12).Add(
			text.New("Sin productos bajo el umbral.", props.Text{Size: 8, Color: colorGray, Top: 1}),
		)))
	} else {
		m.AddRows(tableHeaderRow("Producto"))
		for _, p := range report.LowMarginProducts {
			m.AddRows(g.marginRow(productLabel(p), p.TotalRevenueCents, p.TotalCostCents, p.ProfitCents, p.ProfitMarginPercent))
		}
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New(
			"Cifras calculadas sobre pedidos no cancelados ni reembolsados. "+
				"El costo usa el costo vigente de cada producto.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título + tienda (izq) y período + fecha de emisión (der).
func (g *MarotoPDFGenerator) headerRow(tenantID string, p dto.PeriodDTO) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("MARGEN DE UTILIDAD", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Tienda: "+tenantID, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Período: "+periodLabel(p), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2,
			}),
			text.New("Emitido: "+g.now().Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

// summaryRow: totales del período en cuatro columnas.
func (g *MarotoPDFGenerator) summaryRow(o dto.OverallMarginDTO) core.Row {
	cell := func(label, value string) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Top: 1, Align: align.Center}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 11, Top: 6, Align: align.Center}),
		)
	}
	return row.New(16).Add(
		cell("Ingresos", g.formatCents(o.TotalRevenueCents)),
		cell("Costo", g.formatCents(o.TotalCostCents)),
		cell("Utilidad bruta", g.formatCents(o.GrossProfitCents)),
		cell(g.printer.Sprintf("Margen (%d pedidos)", o.OrderCount), g.formatPercent(o.ProfitMarginPercent)),
	)
}

func sectionTitle(title string, color *props.Color) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: color, Top: 2}),
	))
}

func tableHeaderRow(first string) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(6).Add(
		h(first, 4, align.Left),
		h("Ingresos", 2, align.Right),
		h("Costo", 2, align.Right),
		h("Utilidad", 2, align.Right),
		h("Margen", 2, align.Right),
	)
}

func (g *MarotoPDFGenerator) marginRow(label string, revenue, cost, profit int64, margin float64) core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	return row.New(6).Add(
		cell(label, 4, align.Left),
		cell(g.formatCents(revenue), 2, align.Right),
		cell(g.formatCents(cost), 2, align.Right),
		cell(g.formatCents(profit), 2, align.Right),
		cell(g.formatPercent(margin), 2, align.Right),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatCents imprime centavos como moneda con separador de miles.
// Ej: 150000000 → "$1.500.000,00", -2000 → "-$20,00"
func (g *MarotoPDFGenerator) formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return sign + "$" + g.printer.Sprintf("%d", cents/100) + fmt.Sprintf(",%02d", cents%100)
}

func (g *MarotoPDFGenerator) formatPercent(v float64) string {
	return g.printer.Sprintf("%.2f%%", v)
}

func productLabel(p dto.ProductMarginDTO) string {
	if p.SKU == "" {
		return p.ProductName
	}
	return p.ProductName + " (" + p.SKU + ")"
}

func periodLabel(p dto.PeriodDTO) string {
	switch {
	case p.StartDate == "" && p.EndDate == "":
		return "histórico completo"
	case p.StartDate == "":
		return "hasta " + p.EndDate
	case p.EndDate == "":
		return "desde " + p.StartDate
	}
	return p.StartDate + " a " + p.EndDate
}
