package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"backoffice/services"
)

// EstimateItemView is one priced line in estimate API responses.
// ProfitRate is null when the line follows the document default.
type EstimateItemView struct {
	LineNo      int      `json:"lineNo"`
	Name        string   `json:"name"`
	Qty         float64  `json:"qty"`
	Unit        string   `json:"unit"`
	CostPrice   int64    `json:"costPrice"`
	ProfitRate  *float64 `json:"profitRate"`
	ApplyMargin bool     `json:"applyMargin"`
	SellPrice   int64    `json:"sellPrice"`
	Amount      int64    `json:"amount"`
}

// HandleEstimateView returns a handler that fetches one estimate with its
// priced lines and document totals (subtotal, 10% tax, grand total).
// Route: GET /api/estimates/{id}
func HandleEstimateView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimateID := e.Request.PathValue("id")
		if estimateID == "" {
			return e.JSON(http.StatusBadRequest, map[string]any{
				"success": false, "error": "無効な見積ID",
			})
		}

		header, err := app.FindRecordById("client_estimates", estimateID)
		if err != nil {
			return e.JSON(http.StatusNotFound, map[string]any{
				"success": false, "error": "見積が見つかりません",
			})
		}

		itemRecords, err := app.FindRecordsByFilter("client_estimate_items",
			"estimate = {:estimateId}", "line_no", 0, 0,
			map[string]any{"estimateId": estimateID})
		if err != nil {
			log.Printf("estimate_view: could not query items for %s: %v", estimateID, err)
			return e.JSON(http.StatusInternalServerError, map[string]any{
				"success": false, "error": "内部エラー",
			})
		}

		items := make([]EstimateItemView, 0, len(itemRecords))
		var subtotal int64
		for _, r := range itemRecords {
			item := EstimateItemView{
				LineNo:      int(r.GetFloat("line_no")),
				Name:        r.GetString("name"),
				Qty:         r.GetFloat("qty"),
				Unit:        r.GetString("unit"),
				CostPrice:   int64(r.GetFloat("cost_price")),
				ApplyMargin: r.GetBool("apply_margin"),
				SellPrice:   int64(r.GetFloat("sell_price")),
				Amount:      int64(r.GetFloat("amount")),
			}
			if r.GetBool("has_own_rate") {
				rate := r.GetFloat("profit_rate")
				item.ProfitRate = &rate
			}
			items = append(items, item)
			subtotal += item.Amount
		}

		tax, grandTotal := services.WithTax(subtotal)

		defaultRate := header.GetFloat("default_profit_rate")
		if defaultRate == 0 {
			defaultRate = services.DefaultProfitRate
		}

		return e.JSON(http.StatusOK, map[string]any{
			"success":           true,
			"estimateId":        header.Id,
			"projectName":       header.GetString("project_name"),
			"clientName":        header.GetString("client_name"),
			"createDate":        header.GetDateTime("create_date").String(),
			"expiryDate":        header.GetString("expiry_date"),
			"defaultProfitRate": defaultRate,
			"status":            header.GetString("status"),
			"hasPdf":            header.GetString("pdf") != "",
			"note":              header.GetString("note"),
			"items":             items,
			"subtotal":          subtotal,
			"tax":               tax,
			"grandTotal":        grandTotal,
		})
	}
}
