package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/filesystem"

	"backoffice/services"
)

// HandleInvoicePDF returns a handler that renders the invoice PDF,
// attaches it to the record, marks the invoice issued and serves the
// bytes as a download.
// Route: GET /api/invoices/{id}/pdf
func HandleInvoicePDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
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
			log.Printf("invoice_pdf: failed to query items for %s: %v", invoiceID, err)
			return e.JSON(http.StatusInternalServerError, map[string]any{
				"success": false, "error": "請求明細の取得に失敗しました",
			})
		}

		lines := make([]services.InvoiceLine, 0, len(itemRecords))
		for _, r := range itemRecords {
			lines = append(lines, services.InvoiceLine{
				Description: r.GetString("description"),
				Amount:      int64(r.GetFloat("amount")),
			})
		}

		issueDate := header.GetString("issue_date")
		if issueDate == "" {
			issueDate = time.Now().Format("2006-01-02")
		}

		settings := loadSettings(app)
		data := services.InvoiceDocData{
			InvoiceID:   header.GetString("invoice_id"),
			CompanyName: companyNameFrom(settings),
			ClientName:  header.GetString("client_name"),
			IssueDate:   issueDate,
			Lines:       lines,
			Total:       int64(header.GetFloat("amount")),
		}

		pdfBytes, err := services.GenerateInvoicePDF(data)
		if err != nil {
			log.Printf("invoice_pdf: failed to generate: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]any{
				"success": false, "error": "PDFの生成に失敗しました",
			})
		}

		subject := data.ClientName
		if subject == "" {
			subject = data.InvoiceID
		}
		fileName := services.DocumentFileName("請求書", subject, time.Now())

		if file, ferr := filesystem.NewFileFromBytes(pdfBytes, fileName); ferr == nil {
			header.Set("pdf", file)
			header.Set("is_issued", true)
			if header.GetString("issue_date") == "" {
				header.Set("issue_date", issueDate)
			}
			if err := app.Save(header); err != nil {
				log.Printf("invoice_pdf: could not store pdf for %s: %v", invoiceID, err)
			}
		} else {
			log.Printf("invoice_pdf: could not wrap pdf file: %v", ferr)
		}

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="invoice_%s.pdf"`, invoiceID))
		e.Response.Write(pdfBytes)
		return nil
	}
}
