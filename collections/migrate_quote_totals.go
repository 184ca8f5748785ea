package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
)

// MigrateQuoteTotals backfills contractor_quotes.total_cost for quotes
// imported before the header total was stored. A quote with a zero total
// but existing items gets the sum of its item amounts.
func MigrateQuoteTotals(app *pocketbase.PocketBase) error {
	quotesCol, err := app.FindCollectionByNameOrId("contractor_quotes")
	if err != nil {
		return fmt.Errorf("migrate: could not find contractor_quotes collection: %w", err)
	}

	quotes, err := app.FindAllRecords(quotesCol)
	if err != nil {
		return fmt.Errorf("migrate: could not query contractor_quotes: %w", err)
	}

	migrated := 0
	for _, quote := range quotes {
		if quote.GetFloat("total_cost") != 0 {
			continue
		}

		items, err := app.FindRecordsByFilter("contractor_quote_items",
			"quote = {:quoteId}", "line_no", 0, 0,
			map[string]any{"quoteId": quote.Id},
		)
		if err != nil || len(items) == 0 {
			continue
		}

		var total float64
		for _, item := range items {
			amount := item.GetFloat("amount")
			if amount == 0 {
				qty := item.GetFloat("qty")
				if qty == 0 {
					qty = 1
				}
				amount = item.GetFloat("cost_price") * qty
			}
			total += amount
		}

		quote.Set("total_cost", total)
		if err := app.Save(quote); err != nil {
			log.Printf("migrate: could not update quote %s total: %v", quote.Id, err)
			continue
		}
		migrated++
	}

	if migrated > 0 {
		log.Printf("migrate: backfilled total_cost on %d quotes", migrated)
	}
	return nil
}
