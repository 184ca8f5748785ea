package handlers

import (
	"errors"
	"log"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"backoffice/collections"
	"backoffice/services"
)

// EstimateCreateRequest is the payload for composing a new estimate from
// imported (or hand-entered) cost lines.
type EstimateCreateRequest struct {
	ProjectName string          `json:"projectName"`
	ClientName  string          `json:"clientName"`
	BaseItems   []LineItemInput `json:"baseItems"`
	DefaultRate float64         `json:"defaultRate"`
	ForceNew    *bool           `json:"forceNew"`
}

// Validate checks the request bounds. Line-item presence is enforced by the
// pricing engine, not here, so hand-entered drafts keep the same error path
// as imports.
func (r EstimateCreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProjectName, validation.Length(0, 200)),
		validation.Field(&r.ClientName, validation.Length(0, 200)),
		validation.Field(&r.DefaultRate, validation.Min(0.0), validation.Max(1000.0)),
	)
}

// HandleEstimateCreate returns a handler that prices the submitted cost
// lines and creates a draft estimate. With forceNew=false an existing draft
// for the same project and client is reused instead.
// Route: POST /api/estimates
func HandleEstimateCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req EstimateCreateRequest
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

		rate := req.DefaultRate
		if rate == 0 {
			rate = services.DefaultProfitRate
		}

		if req.ForceNew != nil && !*req.ForceNew {
			existing, _ := app.FindRecordsByFilter("client_estimates",
				"project_name = {:project} && client_name = {:client} && status = {:status}",
				"", 1, 0, map[string]any{
					"project": req.ProjectName,
					"client":  req.ClientName,
					"status":  collections.EstimateStatusDraft,
				})
			if len(existing) > 0 {
				return e.JSON(http.StatusOK, map[string]any{
					"estimateId": existing[0].Id,
					"isNew":      false,
				})
			}
		}

		costLines := make([]services.CostLine, 0, len(req.BaseItems))
		for _, item := range req.BaseItems {
			costLines = append(costLines, toCostLine(item))
		}

		doc, err := services.PriceLines(costLines, rate)
		if err != nil {
			if errors.Is(err, services.ErrNoLineItems) {
				return e.JSON(http.StatusBadRequest, map[string]any{
					"success": false, "error": "明細が1件も入力されていません",
				})
			}
			log.Printf("estimate_create: pricing failed: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]any{
				"success": false, "error": "内部エラー",
			})
		}

		estimatesCol, err := app.FindCollectionByNameOrId("client_estimates")
		if err != nil {
			log.Printf("estimate_create: could not find client_estimates collection: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]any{
				"success": false, "error": "内部エラー",
			})
		}

		estimateRecord := core.NewRecord(estimatesCol)
		estimateRecord.Set("project_name", req.ProjectName)
		estimateRecord.Set("client_name", req.ClientName)
		estimateRecord.Set("default_profit_rate", rate)
		estimateRecord.Set("status", collections.EstimateStatusDraft)

		// Header and lines persist together or not at all.
		err = app.RunInTransaction(func(txApp core.App) error {
			if err := txApp.Save(estimateRecord); err != nil {
				return err
			}
			return persistEstimateLines(txApp, estimateRecord.Id, doc)
		})
		if err != nil {
			log.Printf("estimate_create: could not save estimate: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]any{
				"success": false, "error": "見積の保存に失敗しました",
			})
		}

		return e.JSON(http.StatusOK, map[string]any{
			"estimateId": estimateRecord.Id,
			"isNew":      true,
		})
	}
}

// persistEstimateLines writes one client_estimate_items record per priced
// line, numbered from 1 in document order. Callers pass the transaction
// app so a partial write never survives.
func persistEstimateLines(app core.App, estimateID string, doc services.PricedDocument) error {
	itemsCol, err := app.FindCollectionByNameOrId("client_estimate_items")
	if err != nil {
		return err
	}

	for idx, line := range doc.Lines {
		record := core.NewRecord(itemsCol)
		record.Set("estimate", estimateID)
		record.Set("line_no", idx+1)
		record.Set("name", line.Name)
		record.Set("qty", line.Qty)
		record.Set("unit", line.Unit)
		record.Set("cost_price", line.CostPrice)
		record.Set("apply_margin", line.ApplyMargin)
		record.Set("has_own_rate", line.MarginRate != nil)
		if line.MarginRate != nil {
			record.Set("profit_rate", *line.MarginRate)
		}
		record.Set("sell_price", line.SellUnitPrice)
		record.Set("amount", line.LineTotal)

		if err := app.Save(record); err != nil {
			return err
		}
	}
	return nil
}
