// Package collections creates and seeds the application's PocketBase
// collections.
package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Estimate status values. Drafts can still be edited and deleted; issued
// estimates have a generated PDF attached.
const (
	EstimateStatusDraft  = "下書き"
	EstimateStatusIssued = "発行済"
)

// Setup programmatically creates/ensures the contractor_quotes,
// client_estimates, invoices, clients and settings collections (plus their
// item collections) exist.
func Setup(app *pocketbase.PocketBase) {
	quotes := ensureCollection(app, "contractor_quotes", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "quote_id", Required: true})
		c.Fields.Add(&core.TextField{Name: "file_name", Required: false})
		c.Fields.Add(&core.TextField{Name: "subject", Required: false})
		c.Fields.Add(&core.TextField{Name: "contractor_name", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_cost", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "imported_at", OnCreate: true})
	})

	ensureCollection(app, "contractor_quote_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "quote",
			Required:      true,
			CollectionId:  quotes.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "line_no", Required: true})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.NumberField{Name: "qty", Required: false})
		c.Fields.Add(&core.TextField{Name: "unit", Required: false})
		c.Fields.Add(&core.NumberField{Name: "cost_price", Required: false})
		c.Fields.Add(&core.NumberField{Name: "amount", Required: false})
	})

	estimates := ensureCollection(app, "client_estimates", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "project_name", Required: false})
		c.Fields.Add(&core.TextField{Name: "client_name", Required: false})
		c.Fields.Add(&core.NumberField{Name: "default_profit_rate", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    []string{EstimateStatusDraft, EstimateStatusIssued},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "expiry_date", Required: false})
		c.Fields.Add(&core.TextField{Name: "note", Required: false})
		c.Fields.Add(&core.FileField{Name: "pdf", Required: false, MaxSelect: 1, MaxSize: 10 << 20})
		c.Fields.Add(&core.AutodateField{Name: "create_date", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "client_estimate_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "estimate",
			Required:      true,
			CollectionId:  estimates.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "line_no", Required: true})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.NumberField{Name: "qty", Required: false})
		c.Fields.Add(&core.TextField{Name: "unit", Required: false})
		c.Fields.Add(&core.NumberField{Name: "cost_price", Required: false})
		c.Fields.Add(&core.NumberField{Name: "profit_rate", Required: false})
		c.Fields.Add(&core.BoolField{Name: "apply_margin", Required: false})
		c.Fields.Add(&core.BoolField{Name: "has_own_rate", Required: false})
		c.Fields.Add(&core.NumberField{Name: "sell_price", Required: false})
		c.Fields.Add(&core.NumberField{Name: "amount", Required: false})
	})

	invoices := ensureCollection(app, "invoices", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "invoice_id", Required: true})
		c.Fields.Add(&core.TextField{Name: "client_name", Required: false})
		c.Fields.Add(&core.NumberField{Name: "amount", Required: false})
		c.Fields.Add(&core.TextField{Name: "issue_date", Required: false})
		c.Fields.Add(&core.BoolField{Name: "is_issued", Required: false})
		c.Fields.Add(&core.TextField{Name: "email_to", Required: false})
		c.Fields.Add(&core.TextField{Name: "note", Required: false})
		c.Fields.Add(&core.FileField{Name: "pdf", Required: false, MaxSelect: 1, MaxSize: 10 << 20})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	})

	ensureCollection(app, "invoice_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "invoice",
			Required:      true,
			CollectionId:  invoices.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "line_no", Required: true})
		c.Fields.Add(&core.TextField{Name: "description", Required: false})
		c.Fields.Add(&core.NumberField{Name: "amount", Required: false})
	})

	ensureCollection(app, "clients", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "email", Required: false})
		c.Fields.Add(&core.TextField{Name: "address", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	})

	ensureCollection(app, "settings", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "key", Required: true})
		c.Fields.Add(&core.TextField{Name: "value", Required: false})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
