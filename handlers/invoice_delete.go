package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleInvoiceDelete returns a handler that deletes an unissued invoice
// and its lines. Issued invoices are immutable.
// Route: DELETE /api/invoices/{id}
func HandleInvoiceDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		invoiceID := e.Request.PathValue("id")
		if invoiceID == "" {
			return e.JSON(http.StatusBadRequest, map[string]any{
				"success": false, "error": "無効な請求書ID",
			})
		}

		header, err := app.FindRecordById("invoices", invoiceID)
		if err != nil {
			return e.JSON(http.StatusNotFound, map[string]any{
				"success": false, "error": "請求書が見つかりません",
			})
		}

		if header.GetBool("is_issued") {
			return e.JSON(http.StatusBadRequest, map[string]any{
				"success": false, "error": "発行済の請求書は削除できません",
			})
		}

		// Lines cascade with the header relation.
		if err := app.Delete(header); err != nil {
			log.Printf("invoice_delete: could not delete %s: %v", invoiceID, err)
			return e.JSON(http.StatusInternalServerError, map[string]any{
				"success": false, "error": "請求書の削除に失敗しました",
			})
		}

		return e.JSON(http.StatusOK, map[string]any{"success": true})
	}
}
