package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// InvoiceItemView is one billed line in the invoice detail response.
type InvoiceItemView struct {
	LineNo      int    `json:"lineNo"`
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
}

// HandleInvoiceView returns a handler for the invoice detail view.
// Route: GET /api/invoices/{id}
func HandleInvoiceView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
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

		itemRecords, err := app.FindRecordsByFilter("invoice_items",
			"invoice = {:invoiceId}", "line_no", 0, 0,
			map[string]any{"invoiceId": header.Id})
		if err != nil {
			log.Printf("invoice_view: failed to query items for %s: %v", invoiceID, err)
			return e.JSON(http.StatusInternalServerError, map[string]any{
				"success": false, "error": "請求明細の取得に失敗しました",
			})
		}

		items := make([]InvoiceItemView, 0, len(itemRecords))
		for _, r := range itemRecords {
			items = append(items, InvoiceItemView{
				LineNo:      int(r.GetFloat("line_no")),
				Description: r.GetString("description"),
				Amount:      int64(r.GetFloat("amount")),
			})
		}

		return e.JSON(http.StatusOK, map[string]any{
			"success":    true,
			"id":         header.Id,
			"invoiceId":  header.GetString("invoice_id"),
			"clientName": header.GetString("client_name"),
			"amount":     int64(header.GetFloat("amount")),
			"issueDate":  header.GetString("issue_date"),
			"isIssued":   header.GetBool("is_issued"),
			"emailTo":    header.GetString("email_to"),
			"note":       header.GetString("note"),
			"items":      items,
		})
	}
}
