package handlers

import (
	"errors"
	"log"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"backoffice/services"
)

// EstimateSaveRequest replaces an estimate's lines wholesale.
type EstimateSaveRequest struct {
	Items             []LineItemInput `json:"items"`
	DefaultProfitRate float64         `json:"defaultProfitRate"`
}

// Validate checks the request bounds.
func (r EstimateSaveRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DefaultProfitRate, validation.Min(0.0), validation.Max(1000.0)),
	)
}

// HandleEstimateSave returns a handler that re-prices and replaces all
// lines of an estimate. Saving with zero qualifying lines is a validation
// error: the previous lines are kept and nothing is persisted.
// Route: POST /api/estimates/{id}/save
func HandleEstimateSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimateID := e.Request.PathValue("id")
		if estimateID == "" {
			return e.JSON(http.StatusBadRequest, map[string]any{
				"success": false, "error": "無効な見積ID",
			})
		}

		estimateRecord, err := app.FindRecordById("client_estimates", estimateID)
		if err != nil {
			return e.JSON(http.StatusNotFound, map[string]any{
				"success": false, "error": "見積が見つかりません",
			})
		}

		var req EstimateSaveRequest
		if err := e.BindBody(&req); err != nil {
			return e.JSON(http.StatusBadRequest, map[string]any{
				"success": false, "error": "リクエストが不正です",
			})
		}
		if err := req.Validate(); err != nil {
			return e.JSON(http.StatusBadRequest, map[string]any{
				"success": false, "error": err.Error(),
			})
		}

		rate := req.DefaultProfitRate
		if rate == 0 {
			rate = services.DefaultProfitRate
		}

		costLines := make([]services.CostLine, 0, len(req.Items))
		for _, item := range req.Items {
			costLines = append(costLines, toCostLine(item))
		}

		doc, err := services.PriceLines(costLines, rate)
		if err != nil {
			if errors.Is(err, services.ErrNoLineItems) {
				return e.JSON(http.StatusBadRequest, map[string]any{
					"success": false, "error": "明細が1件も入力されていません",
				})
			}
			log.Printf("estimate_save: pricing failed: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]any{
				"success": false, "error": "内部エラー",
			})
		}

		existing, err := app.FindRecordsByFilter("client_estimate_items",
			"estimate = {:estimateId}", "", 0, 0,
			map[string]any{"estimateId": estimateID})
		if err != nil {
			log.Printf("estimate_save: could not query items for %s: %v", estimateID, err)
			return e.JSON(http.StatusInternalServerError, map[string]any{
				"success": false, "error": "内部エラー",
			})
		}

		// Delete and re-insert in one transaction: a failure anywhere
		// leaves the previously saved lines in place.
		err = app.RunInTransaction(func(txApp core.App) error {
			for _, r := range existing {
				if err := txApp.Delete(r); err != nil {
					return err
				}
			}
			if err := persistEstimateLines(txApp, estimateID, doc); err != nil {
				return err
			}
			estimateRecord.Set("default_profit_rate", rate)
			return txApp.Save(estimateRecord)
		})
		if err != nil {
			log.Printf("estimate_save: could not replace items for %s: %v", estimateID, err)
			return e.JSON(http.StatusInternalServerError, map[string]any{
				"success": false, "error": "明細の更新に失敗しました",
			})
		}

		return e.JSON(http.StatusOK, map[string]any{
			"success":  true,
			"subtotal": doc.Subtotal,
		})
	}
}
