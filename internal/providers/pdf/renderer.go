package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/taller/internal/document"
)

const dateLayout = "2006-01-02"

type Renderer struct{}

func New() Provider {
	return &Renderer{}
}

// RenderQuote lays out a quotation for printing or emailing. The
// input document is the staff projection, but only customer-safe
// fields are placed on the page: costs and margins never reach paper.
func (r *Renderer) RenderQuote(ctx context.Context, doc document.Document, shopName string) (io.Reader, error) {
	m := newDocument()

	m.AddRow(12,
		text.NewCol(8, shopName, props.Text{Size: 16, Style: fontstyle.Bold}),
		text.NewCol(4, "Quotation", props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Right}),
	)

	addHeaderMeta(m, doc)
	addLineTable(m, doc)
	addTotals(m, doc)

	if doc.Notes != "" {
		m.AddRow(20,
			text.NewCol(12, "Notes: "+doc.Notes, props.Text{Size: 8, Top: 4}),
		)
	}
	m.AddRow(8,
		text.NewCol(12,
			fmt.Sprintf("Valid until %s", doc.Identity.ExpiresAt.Format(dateLayout)),
			props.Text{Size: 8, Align: align.Left},
		),
	)

	return generate(m)
}

// RenderServiceTicket lays out the intake ticket with a tracking QR
// code the customer can scan to follow the repair.
func (r *Renderer) RenderServiceTicket(ctx context.Context, doc document.Document, shopName, trackingURL string) (io.Reader, error) {
	m := newDocument()

	m.AddRow(12,
		text.NewCol(8, shopName, props.Text{Size: 16, Style: fontstyle.Bold}),
		text.NewCol(4, "Service Ticket", props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Right}),
	)

	addHeaderMeta(m, doc)

	m.AddRow(16,
		col.New(8).Add(
			text.New("Equipment", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.New(doc.Reference, props.Text{Size: 9, Top: 4}),
			text.New("Status: "+doc.StatusLabel, props.Text{Size: 9, Top: 8}),
		),
		code.NewQrCol(4, trackingURL, props.Rect{Center: true, Percent: 90}),
	)
	m.AddRow(6,
		text.NewCol(12, "Track your repair: "+trackingURL, props.Text{Size: 7}),
	)

	addLineTable(m, doc)
	addTotals(m, doc)

	m.AddRow(10,
		col.New(6),
		text.NewCol(3, "Advance paid", props.Text{Size: 9}),
		text.NewCol(3, formatAmount(doc.AdvancePaid, doc.Currency), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(10,
		col.New(6),
		text.NewCol(3, "Balance due", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, formatAmount(doc.BalanceDue, doc.Currency), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	return generate(m)
}

func newDocument() core.Maroto {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()
	return maroto.New(cfg)
}

func addHeaderMeta(m core.Maroto, doc document.Document) {
	m.AddRow(20,
		col.New(6).Add(
			text.New("Folio: "+doc.Identity.Folio, props.Text{Top: 0, Size: 9}),
			text.New("Date: "+doc.Identity.IssuedAt.Format(dateLayout), props.Text{Top: 4, Size: 9}),
			text.New("Customer: "+doc.CustomerName, props.Text{Top: 8, Size: 9}),
		),
		col.New(6),
	)
}

func addLineTable(m core.Maroto, doc document.Document) {
	m.AddRow(8,
		text.NewCol(6, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Unit price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, line := range doc.Lines {
		m.AddRow(8,
			text.NewCol(6, line.Description, props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("%d", line.Quantity), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, formatAmount(line.UnitPrice, doc.Currency), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, formatAmount(line.LineTotal, doc.Currency), props.Text{Size: 9, Align: align.Right}),
		)
	}
}

func addTotals(m core.Maroto, doc document.Document) {
	m.AddRow(8,
		col.New(6),
		text.NewCol(3, "Subtotal", props.Text{Size: 9}),
		text.NewCol(3, formatAmount(doc.Totals.Subtotal, doc.Currency), props.Text{Size: 9, Align: align.Right}),
	)
	if doc.Totals.TotalTax.IsPositive() {
		m.AddRow(8,
			col.New(6),
			text.NewCol(3, "Tax", props.Text{Size: 9}),
			text.NewCol(3, formatAmount(doc.Totals.TotalTax, doc.Currency), props.Text{Size: 9, Align: align.Right}),
		)
	}
	m.AddRow(8,
		col.New(6),
		text.NewCol(3, "Total", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, formatAmount(doc.Totals.GrandTotal, doc.Currency), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
}

func generate(m core.Maroto) (io.Reader, error) {
	out, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(out.GetBytes()), nil
}

func formatAmount(amount decimal.Decimal, currency string) string {
	return fmt.Sprintf("%s %s", amount.StringFixed(2), currency)
}
