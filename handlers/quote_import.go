package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"backoffice/services"
)

// HandleQuoteImport returns a handler that accepts an uploaded contractor
// quote spreadsheet, extracts its line items and persists the quote.
// Route: POST /api/contractor-quotes/import
func HandleQuoteImport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		// Parse multipart form (max 10MB)
		if err := e.Request.ParseMultipartForm(10 << 20); err != nil {
			return e.JSON(http.StatusBadRequest, map[string]any{
				"success": false, "error": "ファイルが大きすぎるか、フォームが不正です",
			})
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return e.JSON(http.StatusBadRequest, map[string]any{
				"success": false, "error": "ファイルが指定されていません",
			})
		}
		defer file.Close()

		items, err := services.ExtractLineItems(file, header.Filename)
		if err != nil {
			log.Printf("quote_import: extract %q: %v", header.Filename, err)
			return e.JSON(http.StatusBadRequest, map[string]any{
				"success": false, "error": "Excelファイル（.xlsx / .xls / .csv）のみ対応しています",
			})
		}

		subject := strings.TrimSuffix(header.Filename, ".xlsx")
		subject = strings.TrimSuffix(subject, ".xls")
		subject = strings.TrimSuffix(subject, ".csv")

		var totalCost float64
		for _, item := range items {
			amount := item.Amount
			if amount == 0 {
				qty := item.Qty
				if qty == 0 {
					qty = 1
				}
				amount = item.Price * qty
			}
			totalCost += amount
		}

		quoteID := services.NewQuoteID(time.Now())

		quotesCol, err := app.FindCollectionByNameOrId("contractor_quotes")
		if err != nil {
			log.Printf("quote_import: could not find contractor_quotes collection: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]any{
				"success": false, "error": "内部エラー",
			})
		}

		itemsCol, err := app.FindCollectionByNameOrId("contractor_quote_items")
		if err != nil {
			log.Printf("quote_import: could not find contractor_quote_items collection: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]any{
				"success": false, "error": "内部エラー",
			})
		}

		quoteRecord := core.NewRecord(quotesCol)
		quoteRecord.Set("quote_id", quoteID)
		quoteRecord.Set("file_name", header.Filename)
		quoteRecord.Set("subject", subject)
		quoteRecord.Set("contractor_name", "")
		quoteRecord.Set("total_cost", totalCost)

		// Header and items land together so total_cost always matches the
		// persisted lines.
		err = app.RunInTransaction(func(txApp core.App) error {
			if err := txApp.Save(quoteRecord); err != nil {
				return err
			}
			for idx, item := range items {
				itemRecord := core.NewRecord(itemsCol)
				itemRecord.Set("quote", quoteRecord.Id)
				itemRecord.Set("line_no", idx+1)
				itemRecord.Set("name", item.Name)
				itemRecord.Set("qty", item.Qty)
				itemRecord.Set("unit", item.Unit)
				itemRecord.Set("cost_price", item.Price)
				itemRecord.Set("amount", item.Amount)
				if err := txApp.Save(itemRecord); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			log.Printf("quote_import: could not save quote: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]any{
				"success": false, "error": "見積の保存に失敗しました",
			})
		}

		return e.JSON(http.StatusOK, map[string]any{
			"success":   true,
			"quoteId":   quoteID,
			"subject":   subject,
			"itemCount": len(items),
			"totalCost": totalCost,
			"items":     items,
		})
	}
}
