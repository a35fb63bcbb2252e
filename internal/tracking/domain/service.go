// Package domain defines the anonymous tracking surface: resolving a
// share token into a customer-safe view of a service order.
package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/taller/internal/document"
)

// View is what an anonymous visitor sees for a tracked repair. The
// embedded projection is the public document variant, which has no
// cost, profit, or margin fields.
type View struct {
	document.PublicDocument
	DeviceLabel string `json:"device_label"`
}

// ShareResult is returned to staff when they share an order: the
// stable token, the full tracking URL, and a QR code for the printed
// service ticket.
type ShareResult struct {
	Token    string `json:"token"`
	URL      string `json:"url"`
	QRBase64 string `json:"qr_png_base64"`
}

// Service resolves tracking tokens and mints share links.
type Service interface {
	// Track returns the public view for a token. Every failure is
	// ErrNotFound; the surface must not distinguish bad tokens from
	// missing orders.
	Track(ctx context.Context, token string) (*View, error)

	// Share issues (or reuses) the order's token and returns the
	// ready-to-print link and QR code.
	Share(ctx context.Context, orderID string) (*ShareResult, error)
}

// ErrNotFound is the single error the anonymous surface exposes.
var ErrNotFound = errors.New("record_not_found")
