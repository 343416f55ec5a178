// Package pricing derives totals from cart lines. All functions are pure:
// controllers recompute them after every mutation instead of caching.
package pricing

import (
	"sort"

	"github.com/ansh-devx/tim-hortons/cart"
	"github.com/shopspring/decimal"
)

var (
	// FlatShippingRate is charged once per order whenever it contains
	// individually billed items. Kit-only orders ship free.
	FlatShippingRate = decimal.RequireFromString("9.99")

	// TaxRate applies to the individually billed portion plus its shipping,
	// never to the head-office-billed kit portion.
	TaxRate = decimal.RequireFromString("0.13")
)

type Totals struct {
	KitSubtotal        decimal.Decimal `json:"kit_subtotal"`
	IndividualSubtotal decimal.Decimal `json:"individual_subtotal"`
	ShippingAmount     decimal.Decimal `json:"shipping_amount"`
	TaxAmount          decimal.Decimal `json:"tax_amount"`
	ChargeTotal        decimal.Decimal `json:"charge_total"` // billed to the store's credit card
}

// FormattedTotals renders every amount with exactly two fraction digits.
type FormattedTotals struct {
	KitSubtotal        string `json:"kit_subtotal"`
	IndividualSubtotal string `json:"individual_subtotal"`
	ShippingAmount     string `json:"shipping_amount"`
	TaxAmount          string `json:"tax_amount"`
	ChargeTotal        string `json:"charge_total"`
}

func (t Totals) Format() FormattedTotals {
	return FormattedTotals{
		KitSubtotal:        t.KitSubtotal.StringFixed(2),
		IndividualSubtotal: t.IndividualSubtotal.StringFixed(2),
		ShippingAmount:     t.ShippingAmount.StringFixed(2),
		TaxAmount:          t.TaxAmount.StringFixed(2),
		ChargeTotal:        t.ChargeTotal.StringFixed(2),
	}
}

// Compute derives the totals for a set of lines. The kit subtotal is summed
// generically even though kits are priced at zero today, so the audit columns
// stay correct if that ever changes.
func Compute(lines []cart.Line) Totals {
	kit := decimal.Zero
	individual := decimal.Zero
	for _, l := range lines {
		if l.IsKit {
			kit = kit.Add(l.ExtendedPrice())
		} else {
			individual = individual.Add(l.ExtendedPrice())
		}
	}

	shipping := decimal.Zero
	if individual.IsPositive() {
		shipping = FlatShippingRate
	}
	tax := individual.Add(shipping).Mul(TaxRate).Round(2)

	return Totals{
		KitSubtotal:        kit,
		IndividualSubtotal: individual,
		ShippingAmount:     shipping,
		TaxAmount:          tax,
		ChargeTotal:        individual.Add(shipping).Add(tax),
	}
}

// GroupByStore partitions lines by destination store. Lines without a store
// land in the cart.NoStore bucket. Line order within a bucket follows the
// input order.
func GroupByStore(lines []cart.Line) map[string][]cart.Line {
	groups := make(map[string][]cart.Line)
	for _, l := range lines {
		key := l.StoreID
		if key == "" {
			key = cart.NoStore
		}
		groups[key] = append(groups[key], l)
	}
	return groups
}

// StoreIDs returns the bucket keys of a grouping in a stable order.
func StoreIDs(groups map[string][]cart.Line) []string {
	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// StoreSubtotal sums the extended prices of a bucket's individually billed
// lines. The figure is for per-store display; billing stays per order.
func StoreSubtotal(lines []cart.Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		if !l.IsKit {
			sum = sum.Add(l.ExtendedPrice())
		}
	}
	return sum
}
