package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// defaultSettings are the key/value pairs every fresh installation starts
// with. companyName and companyAddress appear on generated documents;
// defaultProfitRate backs the estimate composition default.
var defaultSettings = map[string]string{
	"companyName":       "（会社名未設定）",
	"companyAddress":    "",
	"companyTel":        "",
	"defaultProfitRate": "15",
}

// Seed inserts the default settings rows. It is safe to call on every
// startup: keys that already exist are left untouched.
func Seed(app *pocketbase.PocketBase) error {
	settingsCol, err := app.FindCollectionByNameOrId("settings")
	if err != nil {
		return fmt.Errorf("seed: could not find settings collection: %w", err)
	}

	existing, err := app.FindAllRecords(settingsCol)
	if err != nil {
		return fmt.Errorf("seed: could not query settings: %w", err)
	}

	seen := make(map[string]bool, len(existing))
	for _, r := range existing {
		seen[r.GetString("key")] = true
	}

	inserted := 0
	for key, value := range defaultSettings {
		if seen[key] {
			continue
		}
		record := core.NewRecord(settingsCol)
		record.Set("key", key)
		record.Set("value", value)
		if err := app.Save(record); err != nil {
			return fmt.Errorf("seed: could not save setting %q: %w", key, err)
		}
		inserted++
	}

	if inserted > 0 {
		log.Printf("seed: inserted %d default settings", inserted)
	}
	return nil
}
