package main

import (
	"log"
	"net/http"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"backoffice/collections"
	"backoffice/handlers"
)

func main() {
	app := pocketbase.New()

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		if err := collections.MigrateQuoteTotals(app); err != nil {
			log.Printf("Warning: quote total migration failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// Serve the browser app from ./static
		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		// ── Contractor quotes ────────────────────────────────────
		se.Router.POST("/api/contractor-quotes/import", handlers.HandleQuoteImport(app))
		se.Router.GET("/api/contractor-quotes", handlers.HandleQuoteList(app))
		se.Router.GET("/api/contractor-quotes/{id}", handlers.HandleQuoteView(app))
		se.Router.DELETE("/api/contractor-quotes/{id}", handlers.HandleQuoteDelete(app))

		// ── Client estimates ─────────────────────────────────────
		se.Router.POST("/api/estimates", handlers.HandleEstimateCreate(app))
		se.Router.GET("/api/estimates", handlers.HandleEstimateList(app))
		se.Router.GET("/api/estimates/{id}/pdf", handlers.HandleEstimatePDF(app))
		se.Router.GET("/api/estimates/{id}/excel", handlers.HandleEstimateExcel(app))
		se.Router.GET("/api/estimates/{id}", handlers.HandleEstimateView(app))
		se.Router.POST("/api/estimates/{id}/save", handlers.HandleEstimateSave(app))
		se.Router.DELETE("/api/estimates/{id}", handlers.HandleEstimateDelete(app))

		// ── Invoices ─────────────────────────────────────────────
		se.Router.POST("/api/invoices", handlers.HandleInvoiceCreate(app))
		se.Router.GET("/api/invoices", handlers.HandleInvoiceList(app))
		se.Router.GET("/api/invoices/{id}/pdf", handlers.HandleInvoicePDF(app))
		se.Router.GET("/api/invoices/{id}", handlers.HandleInvoiceView(app))
		se.Router.DELETE("/api/invoices/{id}", handlers.HandleInvoiceDelete(app))

		// ── Settings and clients ─────────────────────────────────
		se.Router.GET("/api/settings", handlers.HandleSettingsGet(app))
		se.Router.POST("/api/settings", handlers.HandleSettingsSave(app))
		se.Router.GET("/api/clients", handlers.HandleClientList(app))

		// Redirect home to the static app
		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, "/static/index.html")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
