// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"backoffice/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestQuote creates a contractor quote header record and returns it.
func CreateTestQuote(t *testing.T, app *pocketbase.PocketBase, quoteID, subject string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("contractor_quotes")
	if err != nil {
		t.Fatalf("failed to find contractor_quotes collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("quote_id", quoteID)
	record.Set("file_name", subject+".xlsx")
	record.Set("subject", subject)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test quote: %v", err)
	}

	return record
}

// CreateTestQuoteItem creates one contractor quote line item and returns it.
func CreateTestQuoteItem(t *testing.T, app *pocketbase.PocketBase, quoteRecordID string, lineNo int, name string, qty, costPrice, amount float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("contractor_quote_items")
	if err != nil {
		t.Fatalf("failed to find contractor_quote_items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("quote", quoteRecordID)
	record.Set("line_no", lineNo)
	record.Set("name", name)
	record.Set("qty", qty)
	record.Set("unit", "式")
	record.Set("cost_price", costPrice)
	record.Set("amount", amount)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test quote item: %v", err)
	}

	return record
}

// CreateTestEstimate creates an estimate header record and returns it.
func CreateTestEstimate(t *testing.T, app *pocketbase.PocketBase, projectName, clientName, status string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("client_estimates")
	if err != nil {
		t.Fatalf("failed to find client_estimates collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("project_name", projectName)
	record.Set("client_name", clientName)
	record.Set("default_profit_rate", 15)
	record.Set("status", status)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test estimate: %v", err)
	}

	return record
}

// CreateTestEstimateItem creates one priced estimate line and returns it.
func CreateTestEstimateItem(t *testing.T, app *pocketbase.PocketBase, estimateID string, lineNo int, name string, qty float64, costPrice, sellPrice, amount int64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("client_estimate_items")
	if err != nil {
		t.Fatalf("failed to find client_estimate_items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("estimate", estimateID)
	record.Set("line_no", lineNo)
	record.Set("name", name)
	record.Set("qty", qty)
	record.Set("unit", "式")
	record.Set("cost_price", costPrice)
	record.Set("apply_margin", true)
	record.Set("sell_price", sellPrice)
	record.Set("amount", amount)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test estimate item: %v", err)
	}

	return record
}

// CreateTestInvoice creates an invoice header record and returns it.
func CreateTestInvoice(t *testing.T, app *pocketbase.PocketBase, invoiceID, clientName string, amount int64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("invoices")
	if err != nil {
		t.Fatalf("failed to find invoices collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("invoice_id", invoiceID)
	record.Set("client_name", clientName)
	record.Set("amount", amount)
	record.Set("is_issued", false)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test invoice: %v", err)
	}

	return record
}

// CreateTestInvoiceItem creates one invoice line and returns it.
func CreateTestInvoiceItem(t *testing.T, app *pocketbase.PocketBase, invoiceRecordID string, lineNo int, description string, amount int64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("invoice_items")
	if err != nil {
		t.Fatalf("failed to find invoice_items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("invoice", invoiceRecordID)
	record.Set("line_no", lineNo)
	record.Set("description", description)
	record.Set("amount", amount)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test invoice item: %v", err)
	}

	return record
}

// SetTestSetting upserts one settings key/value pair.
func SetTestSetting(t *testing.T, app *pocketbase.PocketBase, key, value string) {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("settings")
	if err != nil {
		t.Fatalf("failed to find settings collection: %v", err)
	}

	existing, _ := app.FindRecordsByFilter(col, "key = {:key}", "", 1, 0, map[string]any{"key": key})
	if len(existing) > 0 {
		existing[0].Set("value", value)
		if err := app.Save(existing[0]); err != nil {
			t.Fatalf("failed to update test setting: %v", err)
		}
		return
	}

	record := core.NewRecord(col)
	record.Set("key", key)
	record.Set("value", value)
	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test setting: %v", err)
	}
}

// AssertBodyContains checks that body contains all specified fragments.
func AssertBodyContains(t *testing.T, body string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(body, fragment) {
			t.Errorf("response body does not contain %q", fragment)
		}
	}
}
