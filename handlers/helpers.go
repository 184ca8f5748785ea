// Package handlers wires the JSON API routes to the services layer.
package handlers

import (
	"github.com/pocketbase/pocketbase"

	"backoffice/services"
)

// LineItemInput is the wire shape for an estimate line coming from the
// browser. costPrice wins over price when both are present (price is what
// the importer emits, costPrice what the editor sends back).
type LineItemInput struct {
	Name        string   `json:"name"`
	Qty         float64  `json:"qty"`
	Unit        string   `json:"unit"`
	CostPrice   *float64 `json:"costPrice"`
	Price       float64  `json:"price"`
	ProfitRate  *float64 `json:"profitRate"`
	ApplyMargin *bool    `json:"applyMargin"`
}

// toCostLine converts a wire line into a pricing engine input, applying the
// lenient numeric defaults: missing cost 0, missing qty 1, margin applied
// unless explicitly disabled.
func toCostLine(in LineItemInput) services.CostLine {
	cost := in.Price
	if in.CostPrice != nil {
		cost = *in.CostPrice
	}
	if cost < 0 {
		cost = 0
	}

	qty := in.Qty
	if qty == 0 {
		qty = 1
	}

	applyMargin := in.ApplyMargin == nil || *in.ApplyMargin

	return services.CostLine{
		Name:        in.Name,
		Qty:         qty,
		Unit:        in.Unit,
		CostPrice:   int64(cost),
		MarginRate:  in.ProfitRate,
		ApplyMargin: applyMargin,
	}
}

// loadSettings reads the settings collection into a key/value map. Missing
// collection or rows yield an empty map, never an error: documents fall
// back to placeholder values.
func loadSettings(app *pocketbase.PocketBase) map[string]string {
	out := make(map[string]string)

	records, err := app.FindAllRecords("settings")
	if err != nil {
		return out
	}
	for _, r := range records {
		key := r.GetString("key")
		if key != "" {
			out[key] = r.GetString("value")
		}
	}
	return out
}

// companyNameFrom returns the configured company name or a placeholder.
func companyNameFrom(settings map[string]string) string {
	if name := settings["companyName"]; name != "" {
		return name
	}
	return "（会社名）"
}
