package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"backoffice/collections"
)

// HandleEstimateDelete returns a handler that deletes a draft estimate.
// Issued estimates are immutable records of what was sent to the client
// and cannot be deleted through the API.
// Route: DELETE /api/estimates/{id}
func HandleEstimateDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimateID := e.Request.PathValue("id")
		if estimateID == "" {
			return e.JSON(http.StatusBadRequest, map[string]any{
				"success": false, "error": "無効な見積ID",
			})
		}

		record, err := app.FindRecordById("client_estimates", estimateID)
		if err != nil {
			return e.JSON(http.StatusNotFound, map[string]any{
				"success": false, "error": "見積が見つかりません",
			})
		}

		if record.GetString("status") != collections.EstimateStatusDraft {
			return e.JSON(http.StatusBadRequest, map[string]any{
				"success": false, "error": "下書きのみ削除できます",
			})
		}

		if err := app.Delete(record); err != nil {
			log.Printf("estimate_delete: could not delete estimate %s: %v", estimateID, err)
			return e.JSON(http.StatusInternalServerError, map[string]any{
				"success": false, "error": "削除に失敗しました",
			})
		}

		return e.JSON(http.StatusOK, map[string]any{"success": true})
	}
}
