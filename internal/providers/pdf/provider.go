// Package pdf renders printable documents with maroto.
package pdf

import (
	"context"
	"io"

	"github.com/smallbiznis/taller/internal/document"
)

// Provider renders the printable artifacts of the back office: the
// customer-facing quotation and the service ticket handed over at
// intake.
type Provider interface {
	RenderQuote(ctx context.Context, doc document.Document, shopName string) (io.Reader, error)

	// RenderServiceTicket includes a QR code pointing at the public
	// tracking URL so the customer can follow the repair.
	RenderServiceTicket(ctx context.Context, doc document.Document, shopName, trackingURL string) (io.Reader, error)
}
