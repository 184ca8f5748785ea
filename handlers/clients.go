package handlers

import (
	"net/http"
	"sort"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleClientList returns a handler that serves the distinct client
// names known to the app: registered clients plus every name that has
// appeared on an estimate or invoice.
// Route: GET /api/clients
func HandleClientList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		seen := make(map[string]bool)

		collect := func(collection, field string) {
			records, err := app.FindAllRecords(collection)
			if err != nil {
				return
			}
			for _, r := range records {
				if name := r.GetString(field); name != "" {
					seen[name] = true
				}
			}
		}

		collect("clients", "name")
		collect("client_estimates", "client_name")
		collect("invoices", "client_name")

		names := make([]string, 0, len(seen))
		for name := range seen {
			names = append(names, name)
		}
		sort.Strings(names)

		return e.JSON(http.StatusOK, map[string]any{
			"success": true,
			"clients": names,
		})
	}
}
