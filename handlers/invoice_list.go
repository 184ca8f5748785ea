package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// InvoiceListItem is one row of the invoice list response.
type InvoiceListItem struct {
	ID         string `json:"id"`
	InvoiceID  string `json:"invoiceId"`
	ClientName string `json:"clientName"`
	Amount     int64  `json:"amount"`
	IssueDate  string `json:"issueDate"`
	IsIssued   bool   `json:"isIssued"`
	HasPDF     bool   `json:"hasPdf"`
	Created    string `json:"created"`
}

// HandleInvoiceList returns a handler that lists invoices, newest first.
// Route: GET /api/invoices
func HandleInvoiceList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := app.FindRecordsByFilter("invoices", "id != ''", "-created", 0, 0)
		if err != nil {
			log.Printf("invoice_list: failed to query invoices: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]any{
				"list": nil, "error": "請求書一覧の取得に失敗しました",
			})
		}

		list := make([]InvoiceListItem, 0, len(records))
		for _, r := range records {
			list = append(list, InvoiceListItem{
				ID:         r.Id,
				InvoiceID:  r.GetString("invoice_id"),
				ClientName: r.GetString("client_name"),
				Amount:     int64(r.GetFloat("amount")),
				IssueDate:  r.GetString("issue_date"),
				IsIssued:   r.GetBool("is_issued"),
				HasPDF:     r.GetString("pdf") != "",
				Created:    r.GetDateTime("created").Time().Format("2006-01-02"),
			})
		}

		return e.JSON(http.StatusOK, map[string]any{"list": list, "error": nil})
	}
}
