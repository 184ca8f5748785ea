package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// QuoteListItem is one row of the imported-quote list.
type QuoteListItem struct {
	QuoteID        string  `json:"quoteId"`
	ImportedAt     string  `json:"importedAt"`
	FileName       string  `json:"fileName"`
	Subject        string  `json:"subject"`
	ContractorName string  `json:"contractorName"`
	TotalCost      float64 `json:"totalCost"`
}

// HandleQuoteList returns a handler that lists imported contractor quotes,
// newest first.
// Route: GET /api/contractor-quotes
func HandleQuoteList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quotesCol, err := app.FindCollectionByNameOrId("contractor_quotes")
		if err != nil {
			log.Printf("quote_list: could not find contractor_quotes collection: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]any{
				"list": []QuoteListItem{}, "error": "内部エラー",
			})
		}

		records, err := app.FindRecordsByFilter(quotesCol, "id != ''", "-imported_at", 0, 0)
		if err != nil {
			log.Printf("quote_list: could not query quotes: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]any{
				"list": []QuoteListItem{}, "error": "取得に失敗しました",
			})
		}

		list := make([]QuoteListItem, 0, len(records))
		for _, r := range records {
			list = append(list, QuoteListItem{
				QuoteID:        r.GetString("quote_id"),
				ImportedAt:     r.GetDateTime("imported_at").String(),
				FileName:       r.GetString("file_name"),
				Subject:        r.GetString("subject"),
				ContractorName: r.GetString("contractor_name"),
				TotalCost:      r.GetFloat("total_cost"),
			})
		}

		return e.JSON(http.StatusOK, map[string]any{"list": list, "error": nil})
	}
}
