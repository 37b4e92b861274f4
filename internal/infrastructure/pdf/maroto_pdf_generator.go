// Package pdf genera el comprobante de pago (PDF) de un registro de auditoría.
//
// Layout de la página A5:
//
//	┌───────────────────────────────────────────┐
//	│  HEADER: nombre de la tienda │ N° + fecha  │
//	│  ───────────────────────────────────────  │
//	│  Orden / Método / Tarjeta / Estado         │
//	│  ───────────────────────────────────────  │
//	│  TOTAL                                     │
//	│  FOOTER: resumen de la transacción         │
//	└───────────────────────────────────────────┘
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
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jhoicas/happyshop-api/internal/application/checkout"
	"github.com/jhoicas/happyshop-api/internal/domain/entity"
)

var _ checkout.ReceiptGenerator = (*MarotoReceiptGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorFailed  = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReceiptGenerator implementa checkout.ReceiptGenerator usando Maroto v2.
type MarotoReceiptGenerator struct {
	shopName string
	printer  *message.Printer
}

// NewMarotoReceiptGenerator construye el generador. Los importes se formatean en en-GB.
func NewMarotoReceiptGenerator(shopName string) *MarotoReceiptGenerator {
	return &MarotoReceiptGenerator{
		shopName: shopName,
		printer:  message.NewPrinter(language.BritishEnglish),
	}
}

// GenerateReceipt genera el PDF y devuelve sus bytes.
func (g *MarotoReceiptGenerator) GenerateReceipt(_ context.Context, rec *entity.TransactionRecord) ([]byte, error) {
	if rec == nil {
		return nil, fmt.Errorf("pdf: registro nulo")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Payment receipt", true).
		WithAuthor(g.shopName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(rec))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	for _, r := range g.detailRows(rec) {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalRow(rec))
	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(rec))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// FormatAmount importe con separador de miles y 2 decimales, p. ej. "GBP 1,234.50".
func (g *MarotoReceiptGenerator) FormatAmount(amount decimal.Decimal) string {
	return "GBP " + g.printer.Sprint(number.Decimal(amount.Round(2).InexactFloat64(), number.Scale(2)))
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoReceiptGenerator) headerRow(rec *entity.TransactionRecord) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(g.shopName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Payment receipt", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(fmt.Sprintf("No. %d", rec.ID), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1,
			}),
			text.New(rec.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func (g *MarotoReceiptGenerator) detailRows(rec *entity.TransactionRecord) []core.Row {
	card := "-"
	if rec.CardLastFour != nil {
		card = "**** **** **** " + *rec.CardLastFour
	}
	statusColor := colorPrimary
	if rec.Status != entity.PaymentStatusCompleted {
		statusColor = colorFailed
	}
	pair := func(label, value string, c *props.Color) core.Row {
		return row.New(7).Add(
			col.New(4).Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 9, Top: 1})),
			col.New(8).Add(text.New(value, props.Text{Size: 9, Top: 1, Color: c})),
		)
	}
	return []core.Row{
		pair("Order:", fmt.Sprintf("%d", rec.OrderID), nil),
		pair("Payment method:", string(rec.PaymentMethod), nil),
		pair("Card:", card, nil),
		pair("Status:", string(rec.Status), statusColor),
	}
}

func (g *MarotoReceiptGenerator) totalRow(rec *entity.TransactionRecord) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New(g.FormatAmount(rec.Amount), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2,
		})),
	)
}

func footerRow(rec *entity.TransactionRecord) core.Row {
	return row.New(8).Add(
		col.New(12).Add(text.New(fmt.Sprintf("Transaction %d, recorded %s",
			rec.ID, rec.CreatedAt.Format("2006-01-02 15:04:05")), props.Text{
			Size: 7, Align: align.Center, Color: colorGray,
		})),
	)
}
