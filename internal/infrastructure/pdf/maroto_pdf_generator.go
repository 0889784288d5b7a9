// Package pdf genera los documentos de envío de un pedido con Maroto v2.
//
// Etiqueta de envío (A4, mitad superior):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  TRANSPORTADORA + SERVICIO     │  N° Pedido + Fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FROM: remitente (config)      │  TO: dirección del pedido   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CÓDIGO DE BARRAS: número de guía                            │
//	│  Peso / Dimensiones            │  QR con la guía             │
//	└─────────────────────────────────────────────────────────────┘
//
// Lista de empaque: cabecera del pedido, destinatario y tabla de líneas.
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/jhoicas/pms-api/internal/application/ports"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/order"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator genera etiquetas de envío y listas de empaque.
type MarotoPDFGenerator struct{}

var _ ports.ShippingDocuments = (*MarotoPDFGenerator)(nil)

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

func newDocument(title, author string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(author, true).
		Build()
	return maroto.New(cfg)
}

// GenerateShippingLabel genera la etiqueta de envío y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateShippingLabel(_ context.Context, label order.ShippingLabel) ([]byte, error) {
	m := newDocument("Shipping Label "+label.OrderNumber, label.ShipFrom.Name)

	m.AddRows(labelHeaderRow(label))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.8}))
	m.AddRows(addressesRow(label.ShipFrom, label.ShipTo))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(trackingRows(label)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar etiqueta: %w", err)
	}
	return doc.GetBytes(), nil
}

// GeneratePackingSlip genera la lista de empaque del pedido.
func (g *MarotoPDFGenerator) GeneratePackingSlip(_ context.Context, o *entity.Order, from order.Party) ([]byte, error) {
	m := newDocument("Packing Slip "+o.OrderNumber, from.Name)

	m.AddRows(slipHeaderRow(o, from))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(addressesRow(from, order.PartyFromAddress(o.ShippingAddress)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(itemsHeaderRow())
	for _, r := range itemRows(o.Items) {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(o))

	if o.Notes != "" {
		m.AddRows(row.New(12).Add(col.New(12).Add(
			text.New("Notes: "+o.Notes, props.Text{Size: 8, Color: colorGray, Top: 3}),
		)))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar lista de empaque: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// labelHeaderRow: transportadora y servicio (izq), pedido y fecha (der).
func labelHeaderRow(label order.ShippingLabel) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(label.Carrier, props.Text{
				Style: fontstyle.Bold, Size: 16, Color: colorPrimary, Top: 1,
			}),
			text.New("Service: "+label.ServiceType, props.Text{
				Size: 9, Top: 11, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("ORDER", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(label.OrderNumber, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 6,
			}),
			text.New(label.GeneratedAt.Format("2006-01-02 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

// addressesRow: remitente (izq) y destinatario (der).
func addressesRow(from, to order.Party) core.Row {
	block := func(title string, p order.Party, size int) core.Col {
		c := col.New(size).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(p.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
		)
		for i, l := range addressLines(p) {
			c.Add(text.New(l, props.Text{Size: 9, Top: 12 + float64(i)*5}))
		}
		return c
	}
	return row.New(34).Add(
		block("SHIP FROM", from, 5),
		block("SHIP TO", to, 7),
	)
}

// trackingRows: código de barras de la guía, datos del paquete y QR.
func trackingRows(label order.ShippingLabel) []core.Row {
	return []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("TRACKING NUMBER", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		)),
		row.New(24).Add(col.New(12).Add(
			code.NewBar(label.TrackingNumber, props.Barcode{Percent: 90, Center: true}),
		)),
		row.New(6).Add(col.New(12).Add(
			text.New(label.TrackingNumber, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Center}),
		)),
		row.New(36).Add(
			col.New(8).Add(
				text.New("Weight: "+label.Weight, props.Text{Size: 9, Top: 4}),
				text.New("Dimensions: "+label.Dimensions, props.Text{Size: 9, Top: 10}),
				text.New("Order ID: "+label.OrderID, props.Text{Size: 7, Top: 18, Color: colorGray}),
			),
			col.New(4).Add(code.NewQr(label.TrackingNumber, props.Rect{Percent: 90, Center: true})),
		),
	}
}

// slipHeaderRow: remitente (izq) y número de pedido (der).
func slipHeaderRow(o *entity.Order, from order.Party) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(from.Name, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("PACKING SLIP", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(o.OrderNumber, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1}),
			text.New("Date: "+o.CreatedAt.Format("2006-01-02"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New("Status: "+o.Status, props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

// itemsHeaderRow: cabecera de la tabla de líneas.
func itemsHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Qty", 1, align.Center),
		h("SKU", 3, align.Left),
		h("Product", 5, align.Left),
		h("Unit Price", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// itemRows: una fila por línea del pedido.
func itemRows(items []entity.OrderItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(strconv.Itoa(it.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(nonEmpty(it.SKU, "-"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(5).Add(text.New(nonEmpty(it.ProductName, it.ProductID), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New("$"+it.UnitPrice.StringFixed(2), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// totalsRow: unidades y total del pedido.
func totalsRow(o *entity.Order) core.Row {
	units := 0
	for _, it := range o.Items {
		units += it.Quantity
	}
	return row.New(12).Add(
		col.New(6).Add(text.New(fmt.Sprintf("Total units: %d", units), props.Text{
			Style: fontstyle.Bold, Size: 9, Top: 3,
		})),
		col.New(6).Add(text.New("Order total: $"+o.TotalAmount.StringFixed(2), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 3, Right: 1,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// addressLines dirección en varias líneas, omitiendo la segunda línea vacía.
func addressLines(p order.Party) []string {
	lines := []string{p.Address1}
	if p.Address2 != "" {
		lines = append(lines, p.Address2)
	}
	return append(lines, fmt.Sprintf("%s, %s %s", p.City, p.State, p.PostalCode), p.Country)
}
