package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleQuoteDelete returns a handler that deletes one imported quote.
// Line items are removed by the relation's cascade delete.
// Route: DELETE /api/contractor-quotes/{id}
func HandleQuoteDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		if quoteID == "" {
			return e.JSON(http.StatusBadRequest, map[string]any{
				"success": false, "error": "無効な見積ID",
			})
		}

		records, err := app.FindRecordsByFilter("contractor_quotes",
			"quote_id = {:quoteId}", "", 1, 0, map[string]any{"quoteId": quoteID})
		if err != nil || len(records) == 0 {
			return e.JSON(http.StatusNotFound, map[string]any{
				"success": false, "error": "見積が見つかりません",
			})
		}

		if err := app.Delete(records[0]); err != nil {
			log.Printf("quote_delete: could not delete quote %s: %v", quoteID, err)
			return e.JSON(http.StatusInternalServerError, map[string]any{
				"success": false, "error": "削除に失敗しました",
			})
		}

		return e.JSON(http.StatusOK, map[string]any{"success": true})
	}
}
