package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/filesystem"

	"backoffice/collections"
	"backoffice/services"
)

// buildEstimateDoc fetches an estimate and its lines and assembles the
// document data used by the PDF and Excel renderers.
func buildEstimateDoc(app *pocketbase.PocketBase, estimateID string) (services.EstimateDocData, *core.Record, error) {
	header, err := app.FindRecordById("client_estimates", estimateID)
	if err != nil {
		return services.EstimateDocData{}, nil, fmt.Errorf("estimate not found: %w", err)
	}

	itemRecords, err := app.FindRecordsByFilter("client_estimate_items",
		"estimate = {:estimateId}", "line_no", 0, 0,
		map[string]any{"estimateId": estimateID})
	if err != nil {
		return services.EstimateDocData{}, nil, fmt.Errorf("could not query items: %w", err)
	}

	lines := make([]services.PricedLine, 0, len(itemRecords))
	var subtotal int64
	for _, r := range itemRecords {
		line := services.PricedLine{
			Name:          r.GetString("name"),
			Qty:           r.GetFloat("qty"),
			Unit:          r.GetString("unit"),
			CostPrice:     int64(r.GetFloat("cost_price")),
			ApplyMargin:   r.GetBool("apply_margin"),
			SellUnitPrice: int64(r.GetFloat("sell_price")),
			LineTotal:     int64(r.GetFloat("amount")),
		}
		lines = append(lines, line)
		subtotal += line.LineTotal
	}

	tax, grandTotal := services.WithTax(subtotal)
	settings := loadSettings(app)

	data := services.EstimateDocData{
		ProjectName: header.GetString("project_name"),
		ClientName:  header.GetString("client_name"),
		CompanyName: companyNameFrom(settings),
		CreateDate:  header.GetDateTime("create_date").Time().Format("2006-01-02"),
		ExpiryDate:  header.GetString("expiry_date"),
		DefaultRate: header.GetFloat("default_profit_rate"),
		Lines:       lines,
		Subtotal:    subtotal,
		Tax:         tax,
		GrandTotal:  grandTotal,
	}
	return data, header, nil
}

// HandleEstimatePDF returns a handler that renders the estimate PDF,
// attaches it to the record, marks the estimate issued and serves the
// bytes as a download.
// Route: GET /api/estimates/{id}/pdf
func HandleEstimatePDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimateID := e.Request.PathValue("id")
		if estimateID == "" {
			return e.JSON(http.StatusBadRequest, map[string]any{
				"success": false, "error": "無効な見積ID",
			})
		}

		data, header, err := buildEstimateDoc(app, estimateID)
		if err != nil {
			log.Printf("estimate_pdf: %v", err)
			return e.JSON(http.StatusNotFound, map[string]any{
				"success": false, "error": "見積が見つかりません",
			})
		}

		pdfBytes, err := services.GenerateEstimatePDF(data)
		if err != nil {
			log.Printf("estimate_pdf: failed to generate: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]any{
				"success": false, "error": "PDFの生成に失敗しました",
			})
		}

		subject := data.ProjectName
		if subject == "" {
			subject = data.ClientName
		}
		if subject == "" {
			subject = "見積"
		}
		fileName := services.DocumentFileName("見積書", subject, time.Now())

		// Attach the rendered document and mark the estimate issued. A
		// storage failure still serves the bytes; issuing is retried on the
		// next download.
		if file, ferr := filesystem.NewFileFromBytes(pdfBytes, fileName); ferr == nil {
			header.Set("pdf", file)
			header.Set("status", collections.EstimateStatusIssued)
			if err := app.Save(header); err != nil {
				log.Printf("estimate_pdf: could not store pdf for %s: %v", estimateID, err)
			}
		} else {
			log.Printf("estimate_pdf: could not wrap pdf file: %v", ferr)
		}

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="estimate_%s.pdf"`, estimateID))
		e.Response.Write(pdfBytes)
		return nil
	}
}

// HandleEstimateExcel returns a handler that serves the estimate as an
// xlsx download.
// Route: GET /api/estimates/{id}/excel
func HandleEstimateExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimateID := e.Request.PathValue("id")
		if estimateID == "" {
			return e.JSON(http.StatusBadRequest, map[string]any{
				"success": false, "error": "無効な見積ID",
			})
		}

		data, _, err := buildEstimateDoc(app, estimateID)
		if err != nil {
			log.Printf("estimate_excel: %v", err)
			return e.JSON(http.StatusNotFound, map[string]any{
				"success": false, "error": "見積が見つかりません",
			})
		}

		xlsxBytes, err := services.GenerateEstimateExcel(data)
		if err != nil {
			log.Printf("estimate_excel: failed to generate: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]any{
				"success": false, "error": "Excelの生成に失敗しました",
			})
		}

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="estimate_%s.xlsx"`, estimateID))
		e.Response.Write(xlsxBytes)
		return nil
	}
}
