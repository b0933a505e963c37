package main

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brushworks/paintquote/internal/config"
	"github.com/brushworks/paintquote/internal/db"
	"github.com/brushworks/paintquote/internal/migrations"
	"github.com/brushworks/paintquote/internal/seed"
)

type server struct {
	auth *authService
	db   *sql.DB
}

func main() {
	cfg := config.Load()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(database, "migrations"); err != nil {
			log.Fatalf("failed to run database migrations: %v", err)
		}
	}

	stats, err := seed.Run(database, seed.Config{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
	})
	if err != nil {
		log.Fatalf("failed to run startup seed: %v", err)
	}
	if stats.Inserts > 0 {
		log.Printf("seed inserted %d rows", stats.Inserts)
	}

	srv := &server{
		auth: newAuthService(database, cfg.SessionSecret),
		db:   database,
	}

	r := chi.NewRouter()
	r.Post("/login", srv.handleLogin)
	r.Post("/logout", srv.handleLogout)
	r.Route("/api", func(api chi.Router) {
		api.Use(srv.requireSession)

		api.Get("/projects", srv.handleProjectList)
		api.Post("/projects", srv.handleProjectCreate)
		api.Get("/projects/{id}", srv.handleProjectDetail)
		api.Delete("/projects/{id}", srv.handleProjectDelete)
		api.Get("/projects/{id}/manual-measurements", srv.handleMeasurementsGet)
		api.Put("/projects/{id}/manual-measurements", srv.handleMeasurementsPut)
		api.Post("/projects/{id}/quotes", srv.handleQuoteCreate)

		api.Get("/quotes", srv.handleQuotesList)
		api.Get("/quotes/{id}", srv.handleQuoteDetail)
		api.Get("/quotes/{id}/pdf", srv.handleQuotePDF)
		api.Get("/quotes/{id}/xlsx", srv.handleQuoteExcel)

		api.Get("/pricing", srv.handlePricingGet)
		api.Put("/pricing", srv.handlePricingUpdate)
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
