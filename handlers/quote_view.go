package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// QuoteItemView is one contractor quote line in API responses.
type QuoteItemView struct {
	Name      string  `json:"name"`
	Qty       float64 `json:"qty"`
	Unit      string  `json:"unit"`
	CostPrice float64 `json:"costPrice"`
	Amount    float64 `json:"amount"`
}

// HandleQuoteView returns a handler that fetches one quote's header and
// items. A missing header degrades to an empty header rather than a 404 so
// the item list survives a header row lost to manual cleanup.
// Route: GET /api/contractor-quotes/{id}
func HandleQuoteView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		if quoteID == "" {
			return e.JSON(http.StatusBadRequest, map[string]any{
				"success": false, "error": "無効な見積ID",
			})
		}

		header := QuoteListItem{QuoteID: quoteID}

		headerRecords, err := app.FindRecordsByFilter("contractor_quotes",
			"quote_id = {:quoteId}", "", 1, 0, map[string]any{"quoteId": quoteID})
		if err != nil {
			log.Printf("quote_view: could not query quote %s: %v", quoteID, err)
		}

		var headerRecordID string
		if len(headerRecords) > 0 {
			r := headerRecords[0]
			headerRecordID = r.Id
			header = QuoteListItem{
				QuoteID:        r.GetString("quote_id"),
				ImportedAt:     r.GetDateTime("imported_at").String(),
				FileName:       r.GetString("file_name"),
				Subject:        r.GetString("subject"),
				ContractorName: r.GetString("contractor_name"),
				TotalCost:      r.GetFloat("total_cost"),
			}
		}

		items := []QuoteItemView{}
		if headerRecordID != "" {
			itemRecords, err := app.FindRecordsByFilter("contractor_quote_items",
				"quote = {:quoteId}", "line_no", 0, 0, map[string]any{"quoteId": headerRecordID})
			if err != nil {
				log.Printf("quote_view: could not query items for %s: %v", quoteID, err)
			}
			for _, r := range itemRecords {
				items = append(items, QuoteItemView{
					Name:      r.GetString("name"),
					Qty:       r.GetFloat("qty"),
					Unit:      r.GetString("unit"),
					CostPrice: r.GetFloat("cost_price"),
					Amount:    r.GetFloat("amount"),
				})
			}
		}

		return e.JSON(http.StatusOK, map[string]any{
			"success": true,
			"quoteId": quoteID,
			"header":  header,
			"items":   items,
		})
	}
}
