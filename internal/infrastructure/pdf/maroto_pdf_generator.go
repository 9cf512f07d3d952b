// Package pdf implementa la hoja de costos de producción como documento PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de la tarea  │  ID + Fecha de generación    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Cantidad de salida / Última actualización de costo │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Material | Lote | Origen | Cant | P.Unit | Valor     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Costo materiales / Costo total / Costos unitarios  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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

	"github.com/jhoicas/mrp-api/internal/application/costing"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ costing.CostSheetGenerator = (*MarotoCostSheetGenerator)(nil)

// MarotoCostSheetGenerator implementa costing.CostSheetGenerator usando Maroto v2.
type MarotoCostSheetGenerator struct{}

// NewMarotoCostSheetGenerator construye el generador.
func NewMarotoCostSheetGenerator() *MarotoCostSheetGenerator { return &MarotoCostSheetGenerator{} }

// GenerateCostSheet genera el PDF de la hoja de costos y devuelve sus bytes.
func (g *MarotoCostSheetGenerator) GenerateCostSheet(_ context.Context, data *costing.CostSheetData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Hoja de Costos de Producción", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(data.Lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(data))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre de la tarea (izq) e ID + fecha de generación (der).
func headerRow(data *costing.CostSheetData) core.Row {
	fecha := data.GeneratedAt.Format("02/01/2006 15:04")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(data.Task.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Tarea: "+data.Task.ID, props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("HOJA DE COSTOS DE PRODUCCIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Generada: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// summaryRow: cantidad de salida y última actualización de costos.
func summaryRow(data *costing.CostSheetData) core.Row {
	costUpdated := "sin calcular"
	if data.Task.CostUpdatedAt != nil {
		costUpdated = data.Task.CostUpdatedAt.Format("02/01/2006 15:04")
	}
	return row.New(10).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Cantidad de salida: %s   |   Costos actualizados: %s",
				data.Task.OutputQuantity.String(), costUpdated,
			), props.Text{Size: 8, Top: 2, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de lotes.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Material", 4, align.Left),
		h("Lote", 2, align.Left),
		h("Origen", 1, align.Center),
		h("Cant.", 1, align.Right),
		h("P.Unit.", 2, align.Right),
		h("Valor", 2, align.Right),
	)
}

// tableLineRows: una fila por lote reservado o consumido.
func tableLineRows(lines []costing.CostSheetLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(4).Add(text.New(
				l.ItemName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				l.LotNumber,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(
				l.Source,
				props.Text{Size: 7, Align: align.Center, Top: 1, Color: colorGray},
			)),
			col.New(1).Add(text.New(
				l.Quantity.String(),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				l.UnitPrice.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				l.Value.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de costos agregados alineado a la derecha.
func totalsRow(data *costing.CostSheetData) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(34).Add(
		col.New(3),
		col.New(4).Add(
			label("Costo de materiales:"),
			label("Costo unit. materiales:"),
			label("Costo unit. producción:"),
			grandLabel("COSTO TOTAL DE PRODUCCIÓN:"),
		),
		col.New(3).Add(
			value(data.Costs.MaterialCost.StringFixed(2)),
			value(data.Costs.MaterialUnitCost.StringFixed(2)),
			value(data.Costs.FullProductionUnitCost.StringFixed(2)),
			grandValue(data.Costs.FullProductionCost.StringFixed(2)),
		),
		col.New(2),
	)
}
