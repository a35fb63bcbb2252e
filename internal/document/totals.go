package document

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/taller/internal/money"
)

// Validate checks the line item invariants the calculator assumes.
func (li LineItem) Validate() error {
	if li.Quantity < 0 {
		return fmt.Errorf("%w: negative quantity", ErrInvalidLineItem)
	}
	if money.IsNegative(li.UnitPrice) {
		return fmt.Errorf("%w: negative unit price", ErrInvalidLineItem)
	}
	if money.IsNegative(li.UnitCost) {
		return fmt.Errorf("%w: negative unit cost", ErrInvalidLineItem)
	}
	if !percentInRange(li.DiscountPercent) {
		return fmt.Errorf("%w: discount percent out of range", ErrInvalidLineItem)
	}
	if !percentInRange(li.TaxPercent) {
		return fmt.Errorf("%w: tax percent out of range", ErrInvalidLineItem)
	}
	return nil
}

// WholeQuantity truncates non-integer quantity input.
func (li LineItem) WholeQuantity() decimal.Decimal {
	return decimal.NewFromInt(int64(math.Trunc(li.Quantity)))
}

// LineTotal is quantity * unitPrice * (1 - discount/100) at full
// precision. Rounding happens only in ComputeTotals' final output.
func (li LineItem) LineTotal() decimal.Decimal {
	gross := li.WholeQuantity().Mul(li.UnitPrice)
	return gross.Sub(money.Percent(gross, li.DiscountPercent))
}

// ComputeTotals derives document totals from line items and flags.
//
// Intermediate sums keep full precision; only the returned totals are
// rounded (2 decimals, half away from zero), so rounding error does
// not compound across many items. An empty item list yields all-zero
// totals, and marginPercent is 0 (never NaN) when the subtotal is 0.
func ComputeTotals(items []LineItem, flags CalcFlags) (DocumentTotals, error) {
	subtotal := money.Zero
	totalDiscount := money.Zero
	itemTax := money.Zero
	totalCost := money.Zero

	for i, item := range items {
		if err := item.Validate(); err != nil {
			return DocumentTotals{}, fmt.Errorf("item %d: %w", i, err)
		}

		qty := item.WholeQuantity()
		gross := qty.Mul(item.UnitPrice)
		discount := money.Percent(gross, item.DiscountPercent)
		line := gross.Sub(discount)

		subtotal = subtotal.Add(line)
		totalDiscount = totalDiscount.Add(discount)
		totalCost = totalCost.Add(qty.Mul(item.UnitCost))

		if !flags.DocumentTax && item.TaxPercent.IsPositive() {
			itemTax = itemTax.Add(money.Percent(line, item.TaxPercent))
		}
	}

	totalTax := itemTax
	if flags.DocumentTax {
		rate := flags.DocumentTaxPercent
		if !rate.IsPositive() {
			rate = DefaultTaxPercent
		}
		totalTax = money.Percent(subtotal, rate)
	}

	grandTotal := subtotal.Add(totalTax)
	profit := subtotal.Sub(totalCost)

	marginPercent := money.Zero
	if subtotal.IsPositive() {
		marginPercent = profit.Div(subtotal).Mul(money.Hundred)
	}

	return DocumentTotals{
		Subtotal:      money.Round2(subtotal),
		TotalDiscount: money.Round2(totalDiscount),
		TotalTax:      money.Round2(totalTax),
		GrandTotal:    money.Round2(grandTotal),
		Profit:        money.Round2(profit),
		MarginPercent: money.Round2(marginPercent),
	}, nil
}

func percentInRange(pct decimal.Decimal) bool {
	return pct.Sign() >= 0 && pct.Cmp(money.Hundred) <= 0
}
