package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// EstimateListItem is one row of the estimate list ("続きから" view).
type EstimateListItem struct {
	EstimateID  string `json:"estimateId"`
	ProjectName string `json:"projectName"`
	ClientName  string `json:"clientName"`
	CreateDate  string `json:"createDate"`
	Status      string `json:"status"`
	HasPDF      bool   `json:"hasPdf"`
}

// estimateListLimit caps the list to the most recent documents.
const estimateListLimit = 20

// HandleEstimateList returns a handler that lists the latest estimates.
// Route: GET /api/estimates
func HandleEstimateList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := app.FindRecordsByFilter("client_estimates",
			"id != ''", "-create_date", estimateListLimit, 0)
		if err != nil {
			log.Printf("estimate_list: could not query estimates: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]any{
				"error": "取得に失敗しました",
			})
		}

		list := make([]EstimateListItem, 0, len(records))
		for _, r := range records {
			list = append(list, EstimateListItem{
				EstimateID:  r.Id,
				ProjectName: r.GetString("project_name"),
				ClientName:  r.GetString("client_name"),
				CreateDate:  r.GetDateTime("create_date").String(),
				Status:      r.GetString("status"),
				HasPDF:      r.GetString("pdf") != "",
			})
		}

		return e.JSON(http.StatusOK, list)
	}
}
