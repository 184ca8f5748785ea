package handlers

import (
	"log"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// SettingsSaveRequest is the body of POST /api/settings. Every key/value
// pair in Values is upserted.
type SettingsSaveRequest struct {
	Values map[string]string `json:"values"`
}

func (r SettingsSaveRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Values, validation.Required),
	)
}

// HandleSettingsGet returns a handler that serves the settings map.
// Route: GET /api/settings
func HandleSettingsGet(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return e.JSON(http.StatusOK, map[string]any{
			"success":  true,
			"settings": loadSettings(app),
		})
	}
}

// HandleSettingsSave returns a handler that upserts setting rows by key.
// Route: POST /api/settings
func HandleSettingsSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req SettingsSaveRequest
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

		col, err := app.FindCollectionByNameOrId("settings")
		if err != nil {
			log.Printf("settings: settings collection missing: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]any{
				"success": false, "error": "設定の保存に失敗しました",
			})
		}

		for key, value := range req.Values {
			if key == "" {
				continue
			}

			rec, err := app.FindFirstRecordByFilter("settings",
				"key = {:key}", map[string]any{"key": key})
			if err != nil {
				rec = core.NewRecord(col)
				rec.Set("key", key)
			}
			rec.Set("value", value)
			if err := app.Save(rec); err != nil {
				log.Printf("settings: could not save %q: %v", key, err)
				return e.JSON(http.StatusInternalServerError, map[string]any{
					"success": false, "error": "設定の保存に失敗しました",
				})
			}
		}

		return e.JSON(http.StatusOK, map[string]any{
			"success":  true,
			"settings": loadSettings(app),
		})
	}
}
