package domain

import (
	"fmt"
	"strings"

	"github.com/smallbiznis/taller/internal/document"
)

// CalcItems converts the order's labor and parts into calculator line
// items. Labor is modeled as a single zero-cost line so the same
// totals pipeline serves both quotations and repair orders.
func (o *ServiceOrder) CalcItems() []document.LineItem {
	items := make([]document.LineItem, 0, len(o.Parts)+1)
	if o.LaborAmount.IsPositive() {
		items = append(items, document.LineItem{
			Description: "Labor",
			Quantity:    1,
			UnitPrice:   o.LaborAmount,
		})
	}
	for _, part := range o.Parts {
		items = append(items, document.LineItem{
			Description: part.Description,
			Quantity:    float64(part.Quantity),
			UnitPrice:   part.UnitPrice,
			UnitCost:    part.UnitCost,
			TaxPercent:  part.TaxPercent,
		})
	}
	return items
}

// CalcFlags returns the tax policy for the order: a single
// document-level rate when the flag is on, per-part rates otherwise.
func (o *ServiceOrder) CalcFlags() document.CalcFlags {
	return document.CalcFlags{
		DocumentTax:        o.TaxEnabled,
		DocumentTaxPercent: o.TaxPercent,
	}
}

// Reference describes the serviced device for document headers, e.g.
// "pc Dell Latitude 5420 (SN ABC123)".
func (o *ServiceOrder) Reference() string {
	parts := make([]string, 0, 3)
	if o.DeviceType != "" {
		parts = append(parts, string(o.DeviceType))
	}
	if o.DeviceBrand != "" {
		parts = append(parts, o.DeviceBrand)
	}
	if o.DeviceModel != "" {
		parts = append(parts, o.DeviceModel)
	}
	ref := strings.Join(parts, " ")
	if o.DeviceSerial != "" {
		ref = fmt.Sprintf("%s (SN %s)", ref, o.DeviceSerial)
	}
	return strings.TrimSpace(ref)
}

// ProjectionInput assembles the single producer input both document
// variants are built from. Staff rendering and public tracking must
// go through this one function so they can never drift apart.
func (o *ServiceOrder) ProjectionInput() (document.BuildInput, error) {
	items := o.CalcItems()
	totals, err := document.ComputeTotals(items, o.CalcFlags())
	if err != nil {
		return document.BuildInput{}, err
	}

	return document.BuildInput{
		Identity: document.Identity{
			Folio:     o.Folio,
			Kind:      document.KindServiceOrder,
			IssuedAt:  o.ReceivedAt,
			ExpiresAt: o.ReceivedAt,
		},
		Status:       string(o.Status),
		StatusLabel:  o.Status.Label(),
		CustomerName: o.CustomerName,
		Reference:    o.Reference(),
		Currency:     o.Currency,
		Items:        items,
		Totals:       totals,
		AdvancePaid:  o.AdvancePaid,
		Notes:        o.Diagnosis,
	}, nil
}

// allowedTransitions maps each status to the set it may move to.
// Cancelled and delivered are terminal.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusReceived:  {OrderStatusDiagnosed, OrderStatusInRepair, OrderStatusCancelled},
	OrderStatusDiagnosed: {OrderStatusInRepair, OrderStatusReady, OrderStatusCancelled},
	OrderStatusInRepair:  {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:     {OrderStatusDelivered, OrderStatusInRepair, OrderStatusCancelled},
}

// CanTransition reports whether the order may move to the target
// status.
func (o *ServiceOrder) CanTransition(target OrderStatus) bool {
	for _, allowed := range allowedTransitions[o.Status] {
		if allowed == target {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s names a known lifecycle state.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusReceived, OrderStatusDiagnosed, OrderStatusInRepair,
		OrderStatusReady, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}
