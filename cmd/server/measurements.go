package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brushworks/paintquote/internal/pricing"
)

// measurementsResponse is the payload for every measurement endpoint:
// the (normalized) document plus the totals recomputed from it, so a
// client always receives fresh numbers with the data that produced them.
type measurementsResponse struct {
	Measurements pricing.Measurements `json:"measurements"`
	Total        float64              `json:"total"`
	Breakdown    pricing.Breakdown    `json:"breakdown"`
}

func (s *server) handleMeasurementsGet(w http.ResponseWriter, r *http.Request) {
	m, err := s.loadMeasurements(chi.URLParam(r, "id"))
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load measurements")
		return
	}

	resolver, err := s.resolver()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load price book")
		return
	}

	result := resolver.Normalize(&m)
	writeJSON(w, http.StatusOK, measurementsResponse{
		Measurements: m,
		Total:        result.Total,
		Breakdown:    result.Breakdown,
	})
}

func (s *server) handleMeasurementsPut(w http.ResponseWriter, r *http.Request) {
	var m pricing.Measurements
	if err := decodeJSON(r, &m); err != nil {
		writeError(w, http.StatusBadRequest, "invalid measurements document")
		return
	}

	resolver, err := s.resolver()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load price book")
		return
	}

	// Normalizing before the write keeps the stored document's derived
	// fields (areas, item costs, total) consistent with its inputs.
	result := resolver.Normalize(&m)

	doc, err := json.Marshal(m)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode measurements")
		return
	}

	res, err := s.db.Exec(`
		UPDATE projects
		SET manual_measurements = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, string(doc), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save measurements")
		return
	}

	affected, err := res.RowsAffected()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save measurements")
		return
	}
	if affected == 0 {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}

	writeJSON(w, http.StatusOK, measurementsResponse{
		Measurements: m,
		Total:        result.Total,
		Breakdown:    result.Breakdown,
	})
}

// loadMeasurements returns the project's measurement document. Manual
// measurements win; absent those, the document is seeded from the
// floor-plan analysis produced by the external AI service; failing
// both, an empty document is returned.
func (s *server) loadMeasurements(projectID string) (pricing.Measurements, error) {
	var manual, analysis sql.NullString
	err := s.db.QueryRow(`
		SELECT manual_measurements, floor_plan_analysis
		FROM projects
		WHERE id = ?
	`, projectID).Scan(&manual, &analysis)
	if err != nil {
		return pricing.Measurements{}, err
	}

	if manual.Valid && manual.String != "" {
		var m pricing.Measurements
		if err := json.Unmarshal([]byte(manual.String), &m); err != nil {
			return pricing.Measurements{}, fmt.Errorf("decode manual measurements: %w", err)
		}
		return m, nil
	}

	if analysis.Valid && analysis.String != "" {
		var fp struct {
			StructuredMeasurements pricing.Measurements `json:"structured_measurements"`
		}
		if err := json.Unmarshal([]byte(analysis.String), &fp); err != nil {
			return pricing.Measurements{}, fmt.Errorf("decode floor plan analysis: %w", err)
		}
		return fp.StructuredMeasurements, nil
	}

	return pricing.Measurements{}, nil
}
