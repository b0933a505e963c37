package main

import (
	"context"
	"database/sql"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/brushworks/paintquote/internal/db"
	"github.com/brushworks/paintquote/internal/migrations"
)

func newTestServer(t *testing.T) *server {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := migrations.Up(database, "../../migrations"); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return &server{
		db:   database,
		auth: newAuthService(database, "test-secret"),
	}
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func seedProject(t *testing.T, database *sql.DB, id, name, measurements string) {
	t.Helper()

	var manual any
	if measurements != "" {
		manual = measurements
	}
	_, err := database.Exec(`
		INSERT INTO projects (id, name, client_name, address, manual_measurements, created_at, updated_at)
		VALUES (?, ?, '', '', ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`, id, name, manual)
	if err != nil {
		t.Fatalf("failed to seed project: %v", err)
	}
}
