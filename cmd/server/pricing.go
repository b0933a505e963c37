package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/brushworks/paintquote/internal/pricing"
)

// getPricingTable loads the single price book row. A missing row falls
// back to the built-in defaults so a fresh database still prices work.
func (s *server) getPricingTable() (pricing.Table, error) {
	var raw string
	err := s.db.QueryRow(`SELECT table_json FROM price_books WHERE id = 1`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return pricing.DefaultTable(), nil
	}
	if err != nil {
		return pricing.Table{}, err
	}

	var table pricing.Table
	if err := json.Unmarshal([]byte(raw), &table); err != nil {
		return pricing.Table{}, err
	}
	return table, nil
}

func (s *server) resolver() (*pricing.Resolver, error) {
	table, err := s.getPricingTable()
	if err != nil {
		return nil, err
	}
	return pricing.NewResolver(table), nil
}

func (s *server) handlePricingGet(w http.ResponseWriter, r *http.Request) {
	table, err := s.getPricingTable()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load price book")
		return
	}
	writeJSON(w, http.StatusOK, table)
}

func (s *server) handlePricingUpdate(w http.ResponseWriter, r *http.Request) {
	var table pricing.Table
	if err := decodeJSON(r, &table); err != nil {
		writeError(w, http.StatusBadRequest, "invalid price book")
		return
	}
	if table.Additional.CleanupFee < 0 {
		writeError(w, http.StatusBadRequest, "cleanup fee must not be negative")
		return
	}

	raw, err := json.Marshal(table)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode price book")
		return
	}

	_, err = s.db.Exec(`
		INSERT INTO price_books (id, table_json, updated_at)
		VALUES (1, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE SET
			table_json = excluded.table_json,
			updated_at = CURRENT_TIMESTAMP
	`, string(raw))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save price book")
		return
	}

	writeJSON(w, http.StatusOK, table)
}
