// Package services provides the pricing, extraction, formatting and
// document-generation logic shared by all handlers.
package services

import (
	"errors"
	"math"
	"strings"
)

// DefaultProfitRate is the document-level margin percent applied to a line
// when neither the line nor the caller specifies one.
const DefaultProfitRate = 15.0

// DefaultUnit is the counting unit used when a line item has no unit.
const DefaultUnit = "式"

// TaxRate is the consumption tax rate applied by document templates that
// carry a tax line (estimates do, invoices do not).
const TaxRate = 0.10

// ErrNoLineItems is returned when a document would be composed with zero
// non-blank-name line items.
var ErrNoLineItems = errors.New("at least one line item required")

// CostLine is a cost-priced line item entering the pricing engine.
// MarginRate is nil when the line should use the document default rate.
type CostLine struct {
	Name        string
	Qty         float64
	Unit        string
	CostPrice   int64
	MarginRate  *float64
	ApplyMargin bool
}

// PricedLine is a cost line annotated with its client-facing sell price.
type PricedLine struct {
	Name          string
	Qty           float64
	Unit          string
	CostPrice     int64
	MarginRate    *float64
	ApplyMargin   bool
	EffectiveRate float64
	SellUnitPrice int64
	LineTotal     int64
}

// PricedDocument is the output of one pricing pass.
type PricedDocument struct {
	Lines    []PricedLine
	Subtotal int64
}

// EffectiveRate resolves the margin rate for a line: the line's own rate
// when present, else the document default.
func EffectiveRate(marginRate *float64, defaultRate float64) float64 {
	if marginRate != nil {
		return *marginRate
	}
	return defaultRate
}

// SellUnitPrice computes the client-facing unit price for one line.
// The margin multiplication is floored, never rounded half-up.
func SellUnitPrice(costPrice int64, rate float64, applyMargin bool) int64 {
	if !applyMargin {
		return costPrice
	}
	return int64(math.Floor(float64(costPrice) * (1 + rate/100)))
}

// PriceLines transforms cost lines into sell-priced lines plus a subtotal.
// Lines with a blank name are dropped before pricing; if nothing survives,
// ErrNoLineItems is returned and no document is produced. A defaultRate of
// zero means "unspecified" and falls back to DefaultProfitRate.
func PriceLines(lines []CostLine, defaultRate float64) (PricedDocument, error) {
	if defaultRate == 0 {
		defaultRate = DefaultProfitRate
	}

	var priced []PricedLine
	var subtotal int64

	for _, line := range lines {
		name := strings.TrimSpace(line.Name)
		if name == "" {
			continue
		}

		unit := line.Unit
		if unit == "" {
			unit = DefaultUnit
		}

		rate := EffectiveRate(line.MarginRate, defaultRate)
		sellPrice := SellUnitPrice(line.CostPrice, rate, line.ApplyMargin)
		lineTotal := int64(math.Floor(float64(sellPrice) * line.Qty))

		priced = append(priced, PricedLine{
			Name:          name,
			Qty:           line.Qty,
			Unit:          unit,
			CostPrice:     line.CostPrice,
			MarginRate:    line.MarginRate,
			ApplyMargin:   line.ApplyMargin,
			EffectiveRate: rate,
			SellUnitPrice: sellPrice,
			LineTotal:     lineTotal,
		})
		subtotal += lineTotal
	}

	if len(priced) == 0 {
		return PricedDocument{}, ErrNoLineItems
	}

	return PricedDocument{Lines: priced, Subtotal: subtotal}, nil
}

// WithTax derives the consumption tax and grand total from a subtotal.
// Only document templates that carry a tax line (estimates) call this;
// invoices treat their line amounts as final.
func WithTax(subtotal int64) (tax, grandTotal int64) {
	tax = int64(math.Floor(float64(subtotal) * TaxRate))
	return tax, subtotal + tax
}
