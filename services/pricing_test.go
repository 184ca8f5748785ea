package services

import (
	"errors"
	"testing"
)

func ratePtr(v float64) *float64 { return &v }

func TestSellUnitPrice(t *testing.T) {
	tests := []struct {
		name        string
		costPrice   int64
		rate        float64
		applyMargin bool
		expect      int64
	}{
		{"15 percent floor", 1000, 15, true, 1150},
		{"floor truncates", 999, 15, true, 1148}, // 999 * 1.15 = 1148.85
		{"zero rate", 1000, 0, true, 1000},
		{"margin not applied", 1000, 15, false, 1000},
		{"zero cost", 0, 15, true, 0},
		{"fractional rate", 100, 7.5, true, 107},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SellUnitPrice(tt.costPrice, tt.rate, tt.applyMargin)
			if got != tt.expect {
				t.Errorf("SellUnitPrice(%v, %v, %v) = %v, want %v",
					tt.costPrice, tt.rate, tt.applyMargin, got, tt.expect)
			}
		})
	}
}

func TestEffectiveRate(t *testing.T) {
	tests := []struct {
		name        string
		marginRate  *float64
		defaultRate float64
		expect      float64
	}{
		{"line rate wins", ratePtr(20), 15, 20},
		{"nil falls back to default", nil, 15, 15},
		{"explicit zero rate wins", ratePtr(0), 15, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffectiveRate(tt.marginRate, tt.defaultRate)
			if got != tt.expect {
				t.Errorf("EffectiveRate(%v, %v) = %v, want %v",
					tt.marginRate, tt.defaultRate, got, tt.expect)
			}
		})
	}
}

func TestPriceLines_Basic(t *testing.T) {
	lines := []CostLine{
		{Name: "資材A", Qty: 2, Unit: "式", CostPrice: 1500, ApplyMargin: true},
		{Name: "運搬費", Qty: 1, CostPrice: 10000, MarginRate: ratePtr(10), ApplyMargin: true},
		{Name: "諸経費", Qty: 1, CostPrice: 5000, ApplyMargin: false},
	}

	doc, err := PriceLines(lines, 15)
	if err != nil {
		t.Fatalf("PriceLines() error = %v", err)
	}
	if len(doc.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(doc.Lines))
	}

	// Line 0: document default rate, 1500 * 1.15 = 1725, total 3450
	if doc.Lines[0].SellUnitPrice != 1725 {
		t.Errorf("line 0 sell price = %d, want 1725", doc.Lines[0].SellUnitPrice)
	}
	if doc.Lines[0].LineTotal != 3450 {
		t.Errorf("line 0 total = %d, want 3450", doc.Lines[0].LineTotal)
	}

	// Line 1: own rate, 10000 * 1.10 = 11000
	if doc.Lines[1].SellUnitPrice != 11000 {
		t.Errorf("line 1 sell price = %d, want 11000", doc.Lines[1].SellUnitPrice)
	}

	// Line 2: pass-through, sell price equals cost
	if doc.Lines[2].SellUnitPrice != 5000 {
		t.Errorf("line 2 sell price = %d, want 5000", doc.Lines[2].SellUnitPrice)
	}

	// Blank unit defaulted
	if doc.Lines[1].Unit != DefaultUnit {
		t.Errorf("line 1 unit = %q, want %q", doc.Lines[1].Unit, DefaultUnit)
	}

	// Subtotal is the exact sum of line totals
	var sum int64
	for _, l := range doc.Lines {
		sum += l.LineTotal
	}
	if doc.Subtotal != sum {
		t.Errorf("subtotal = %d, want %d", doc.Subtotal, sum)
	}
}

func TestPriceLines_BlankNamesDropped(t *testing.T) {
	lines := []CostLine{
		{Name: "  ", Qty: 1, CostPrice: 1000, ApplyMargin: true},
		{Name: "足場工事", Qty: 1, CostPrice: 1000, ApplyMargin: true},
		{Name: "", Qty: 1, CostPrice: 2000, ApplyMargin: true},
	}

	doc, err := PriceLines(lines, 15)
	if err != nil {
		t.Fatalf("PriceLines() error = %v", err)
	}
	if len(doc.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(doc.Lines))
	}
	if doc.Lines[0].Name != "足場工事" {
		t.Errorf("kept line = %q", doc.Lines[0].Name)
	}
}

func TestPriceLines_EmptyFailsValidation(t *testing.T) {
	tests := []struct {
		name  string
		lines []CostLine
	}{
		{"no lines", nil},
		{"all blank names", []CostLine{{Name: ""}, {Name: "   "}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PriceLines(tt.lines, 15)
			if !errors.Is(err, ErrNoLineItems) {
				t.Errorf("expected ErrNoLineItems, got %v", err)
			}
		})
	}
}

func TestPriceLines_ZeroDefaultRateFallsBack(t *testing.T) {
	doc, err := PriceLines([]CostLine{
		{Name: "塗装工事", Qty: 1, CostPrice: 1000, ApplyMargin: true},
	}, 0)
	if err != nil {
		t.Fatalf("PriceLines() error = %v", err)
	}
	if doc.Lines[0].SellUnitPrice != 1150 {
		t.Errorf("sell price = %d, want 1150 (default %v%%)", doc.Lines[0].SellUnitPrice, DefaultProfitRate)
	}
}

func TestPriceLines_FractionalQtyFloorsLineTotal(t *testing.T) {
	doc, err := PriceLines([]CostLine{
		{Name: "電気配線", Qty: 2.5, CostPrice: 100, MarginRate: ratePtr(0), ApplyMargin: true},
	}, 15)
	if err != nil {
		t.Fatalf("PriceLines() error = %v", err)
	}
	// 100 * 2.5 = 250, stays whole yen
	if doc.Lines[0].LineTotal != 250 {
		t.Errorf("line total = %d, want 250", doc.Lines[0].LineTotal)
	}
}

func TestPriceLines_RoundTripPassThrough(t *testing.T) {
	original := []CostLine{
		{Name: "資材A", Qty: 2, CostPrice: 1500, ApplyMargin: true},
		{Name: "資材B", Qty: 3, CostPrice: 800, MarginRate: ratePtr(25), ApplyMargin: true},
	}

	first, err := PriceLines(original, 15)
	if err != nil {
		t.Fatalf("first pass error = %v", err)
	}

	// Feed the priced output back through with margins off: sell price must
	// collapse back to cost price.
	var again []CostLine
	for _, l := range first.Lines {
		again = append(again, CostLine{
			Name:      l.Name,
			Qty:       l.Qty,
			Unit:      l.Unit,
			CostPrice: l.CostPrice,
		})
	}

	second, err := PriceLines(again, 15)
	if err != nil {
		t.Fatalf("second pass error = %v", err)
	}

	var expectSubtotal int64
	for i, l := range second.Lines {
		if l.SellUnitPrice != original[i].CostPrice {
			t.Errorf("line %d sell price = %d, want cost %d", i, l.SellUnitPrice, original[i].CostPrice)
		}
		expectSubtotal += int64(float64(original[i].CostPrice) * original[i].Qty)
	}
	if second.Subtotal != expectSubtotal {
		t.Errorf("subtotal = %d, want %d", second.Subtotal, expectSubtotal)
	}
}

func TestWithTax(t *testing.T) {
	tests := []struct {
		name        string
		subtotal    int64
		expectTax   int64
		expectTotal int64
	}{
		{"even", 10000, 1000, 11000},
		{"floor", 10005, 1000, 11005}, // 1000.5 floors to 1000
		{"zero", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax, total := WithTax(tt.subtotal)
			if tax != tt.expectTax || total != tt.expectTotal {
				t.Errorf("WithTax(%d) = (%d, %d), want (%d, %d)",
					tt.subtotal, tax, total, tt.expectTax, tt.expectTotal)
			}
		})
	}
}
