package main

import (
	"log"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/collections"
	"quotebuilder/config"
	"quotebuilder/handlers"
	"quotebuilder/logging"
	"quotebuilder/planclient"
	"quotebuilder/session"
	"quotebuilder/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	logger := logging.New(level, cfg.LogColor, os.Stderr)

	app := pocketbase.New()
	app.RootCmd.AddCommand(newExportCmd())

	quotes := store.NewQuoteStore(app, logger)
	plans := store.NewPlanStorage(app, cfg.PublicBaseURL, logger)
	analyzer := planclient.New(cfg.PlanAnalysisURL, planclient.Options{
		Timeout: cfg.PlanAnalysisTimeout,
		Retries: cfg.PlanAnalysisRetries,
	}, logger)
	sessions := session.NewManager(app, cfg.SessionTTL, logger)

	// Create collections, fix stale totals and seed on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.MigrateQuoteTotals(app); err != nil {
			log.Printf("Warning: quote total migration failed: %v", err)
		}
		if cfg.SeedDemo {
			if err := collections.Seed(app); err != nil {
				log.Printf("Warning: seed data failed: %v", err)
			}
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// ── Quotes ───────────────────────────────────────────────
		q := se.Router.Group("/api/quotes")
		q.Bind(apis.RequireAuth())
		q.BindFunc(handlers.SessionMiddleware(sessions, logger))
		q.GET("", handlers.HandleQuoteList(quotes, logger))
		q.POST("", handlers.HandleQuoteCreate(quotes, logger))
		q.GET("/{id}/boq", handlers.HandleQuoteBOQ(quotes, logger))
		q.GET("/{id}/export/excel", handlers.HandleQuoteExportExcel(quotes, logger))
		q.GET("/{id}/export/pdf", handlers.HandleQuoteExportPDF(quotes, logger))
		q.PATCH("/{id}", handlers.HandleQuoteUpdate(quotes, logger))
		q.DELETE("/{id}", handlers.HandleQuoteDelete(quotes, logger))

		// ── Plans ────────────────────────────────────────────────
		p := se.Router.Group("/api/plans")
		p.Bind(apis.RequireAuth())
		p.POST("", handlers.HandlePlanUpload(plans, analyzer, cfg.PlanDefaultHeight, logger))
		p.DELETE("", handlers.HandlePlanDelete(plans, logger))

		// The analysis service fetches uploads by URL, so stored plans are public.
		se.Router.GET("/plans/{name}", handlers.HandlePlanServe(plans, logger))

		// ── Room schedules ───────────────────────────────────────
		r := se.Router.Group("/api/rooms")
		r.Bind(apis.RequireAuth())
		r.GET("/template", handlers.HandleRoomTemplate(logger))
		r.POST("/import", handlers.HandleRoomImport(logger))
		r.POST("/import/errors", handlers.HandleRoomErrorReport(logger))

		return se.Next()
	})

	app.OnTerminate().BindFunc(func(e *core.TerminateEvent) error {
		sessions.Close()
		return e.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
