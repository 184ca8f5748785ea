package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"backoffice/services"
)

// InvoiceLineInput is one billed line in an invoice create request.
type InvoiceLineInput struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// InvoiceCreateRequest is the body of POST /api/invoices.
type InvoiceCreateRequest struct {
	ClientName string             `json:"clientName"`
	Amount     *float64           `json:"amount"`
	IssueDate  string             `json:"issueDate"`
	EmailTo    string             `json:"emailTo"`
	Note       string             `json:"note"`
	Items      []InvoiceLineInput `json:"items"`
}

func (r InvoiceCreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ClientName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Items, validation.Required),
	)
}

// HandleInvoiceCreate returns a handler that records a new invoice with
// its billed lines. When no total is given it is derived from the lines.
// Route: POST /api/invoices
func HandleInvoiceCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req InvoiceCreateRequest
		if err := e.BindBody(&req); err != nil {
			return e.JSON(http.StatusBadRequest, map[string]any{
				"success": false, "error": "リクエストの形式が不正です",
			})
		}
		if err := req.Validate(); err != nil {
			return e.JSON(http.StatusBadRequest, map[string]any{
				"success": false, "error": err.Error(),
			})
		}

		lines := make([]services.InvoiceLine, 0, len(req.Items))
		var lineSum int64
		for _, item := range req.Items {
			desc := strings.TrimSpace(item.Description)
			if desc == "" {
				continue
			}
			amount := int64(item.Amount)
			lines = append(lines, services.InvoiceLine{Description: desc, Amount: amount})
			lineSum += amount
		}
		if len(lines) == 0 {
			return e.JSON(http.StatusBadRequest, map[string]any{
				"success": false, "error": "明細が1件も入力されていません",
			})
		}

		total := lineSum
		if req.Amount != nil {
			total = int64(*req.Amount)
		}

		issueDate := req.IssueDate
		if issueDate == "" {
			issueDate = time.Now().Format("2006-01-02")
		}

		invoicesCol, err := app.FindCollectionByNameOrId("invoices")
		if err != nil {
			log.Printf("invoice_create: invoices collection missing: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]any{
				"success": false, "error": "請求書の保存に失敗しました",
			})
		}
		itemsCol, err := app.FindCollectionByNameOrId("invoice_items")
		if err != nil {
			log.Printf("invoice_create: invoice_items collection missing: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]any{
				"success": false, "error": "請求書の保存に失敗しました",
			})
		}

		invoiceID := services.NewInvoiceID(time.Now())

		header := core.NewRecord(invoicesCol)
		header.Set("invoice_id", invoiceID)
		header.Set("client_name", req.ClientName)
		header.Set("amount", total)
		header.Set("issue_date", issueDate)
		header.Set("is_issued", false)
		header.Set("email_to", req.EmailTo)
		header.Set("note", req.Note)

		err = app.RunInTransaction(func(txApp core.App) error {
			if err := txApp.Save(header); err != nil {
				return err
			}
			for i, line := range lines {
				rec := core.NewRecord(itemsCol)
				rec.Set("invoice", header.Id)
				rec.Set("line_no", i+1)
				rec.Set("description", line.Description)
				rec.Set("amount", line.Amount)
				if err := txApp.Save(rec); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			log.Printf("invoice_create: could not save invoice: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]any{
				"success": false, "error": "請求書の保存に失敗しました",
			})
		}

		return e.JSON(http.StatusOK, map[string]any{
			"success":   true,
			"invoiceId": invoiceID,
			"amount":    total,
			"itemCount": len(lines),
		})
	}
}
