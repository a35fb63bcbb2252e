package domain

import "github.com/smallbiznis/taller/internal/document"

// CalcItems converts the stored rows into calculator line items.
func (q *Quote) CalcItems() []document.LineItem {
	items := make([]document.LineItem, 0, len(q.Items))
	for _, item := range q.Items {
		items = append(items, document.LineItem{
			Description:     item.Description,
			Quantity:        float64(item.Quantity),
			UnitPrice:       item.UnitPrice,
			UnitCost:        item.UnitCost,
			DiscountPercent: item.DiscountPercent,
		})
	}
	return items
}

// CalcFlags returns the document-level tax policy. Quotations never
// carry per-item tax rates.
func (q *Quote) CalcFlags() document.CalcFlags {
	return document.CalcFlags{
		DocumentTax:        q.TaxEnabled,
		DocumentTaxPercent: q.TaxPercent,
	}
}

// ProjectionInput assembles the producer input for both document
// variants of this quote.
func (q *Quote) ProjectionInput() (document.BuildInput, error) {
	items := q.CalcItems()
	totals, err := document.ComputeTotals(items, q.CalcFlags())
	if err != nil {
		return document.BuildInput{}, err
	}

	return document.BuildInput{
		Identity: document.Identity{
			Folio:     q.Folio,
			Kind:      document.KindQuote,
			IssuedAt:  q.IssuedAt,
			ExpiresAt: q.ExpiresAt,
		},
		Status:       string(q.Status),
		StatusLabel:  q.Status.Label(),
		CustomerName: q.CustomerName,
		Reference:    q.Reference,
		Currency:     q.Currency,
		Items:        items,
		Totals:       totals,
		Notes:        q.Notes,
	}, nil
}

var allowedTransitions = map[QuoteStatus][]QuoteStatus{
	QuoteStatusDraft: {QuoteStatusSent, QuoteStatusExpired},
	QuoteStatusSent:  {QuoteStatusAccepted, QuoteStatusRejected, QuoteStatusExpired},
}

// CanTransition reports whether the quote may move to the target
// status. Accepted, rejected, and expired are terminal.
func (q *Quote) CanTransition(target QuoteStatus) bool {
	for _, allowed := range allowedTransitions[q.Status] {
		if allowed == target {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s names a known lifecycle state.
func ValidStatus(s QuoteStatus) bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusAccepted,
		QuoteStatusRejected, QuoteStatusExpired:
		return true
	}
	return false
}
