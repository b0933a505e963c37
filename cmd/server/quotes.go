package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/brushworks/paintquote/internal/export"
	"github.com/brushworks/paintquote/internal/pricing"
)

type quoteSummary struct {
	ID          string  `json:"id"`
	ProjectID   string  `json:"project_id"`
	QuoteNumber string  `json:"quote_number"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Total       float64 `json:"total"`
	ValidDays   int     `json:"valid_days"`
	CreatedAt   string  `json:"created_at"`
}

type quoteDetail struct {
	quoteSummary
	LineItems []pricing.LineItem `json:"line_items"`
	Totals    pricing.Result     `json:"totals"`
}

type quoteCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ValidDays   int    `json:"valid_days"`
}

func (s *server) handleQuoteCreate(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")

	var req quoteCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ValidDays <= 0 {
		req.ValidDays = 30
	}
	if strings.TrimSpace(req.Title) == "" {
		req.Title = "Painting and Plastering Quote"
	}

	m, err := s.loadMeasurements(projectID)
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

	lineItems, err := resolver.GenerateLineItems(m)
	if errors.Is(err, pricing.ErrNoMeasurements) {
		writeError(w, http.StatusBadRequest, "Please add some measurements before generating a quote")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate quote")
		return
	}
	totals := resolver.ComputeTotal(m)

	lineItemsJSON, err := json.Marshal(lineItems)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode quote")
		return
	}
	totalsJSON, err := json.Marshal(totals)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode quote")
		return
	}

	id := uuid.NewString()
	quoteNumber := newQuoteNumber()
	_, err = s.db.Exec(`
		INSERT INTO quotes (id, project_id, quote_number, title, description, line_items_json, totals_json, valid_days, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, id, projectID, quoteNumber, req.Title, req.Description, string(lineItemsJSON), string(totalsJSON), req.ValidDays)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save quote")
		return
	}

	q, err := s.getQuote(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load quote")
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

func (s *server) handleQuotesList(w http.ResponseWriter, r *http.Request) {
	search := strings.TrimSpace(r.URL.Query().Get("q"))

	query := `
		SELECT id, project_id, quote_number, COALESCE(title, ''), COALESCE(description, ''),
		       COALESCE(totals_json, ''), valid_days, created_at
		FROM quotes`
	args := []any{}
	if search != "" {
		query += ` WHERE title LIKE ? OR description LIKE ? OR quote_number LIKE ?`
		like := "%" + search + "%"
		args = append(args, like, like, like)
	}
	query += ` ORDER BY datetime(created_at) DESC, id DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list quotes")
		return
	}
	defer rows.Close()

	quotes := []quoteSummary{}
	for rows.Next() {
		var q quoteSummary
		var totalsJSON string
		if err := rows.Scan(&q.ID, &q.ProjectID, &q.QuoteNumber, &q.Title, &q.Description, &totalsJSON, &q.ValidDays, &q.CreatedAt); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list quotes")
			return
		}
		q.Total = extractTotal(totalsJSON)
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list quotes")
		return
	}

	writeJSON(w, http.StatusOK, quotes)
}

func (s *server) handleQuoteDetail(w http.ResponseWriter, r *http.Request) {
	q, err := s.getQuote(chi.URLParam(r, "id"))
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "quote not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load quote")
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *server) handleQuotePDF(w http.ResponseWriter, r *http.Request) {
	doc, err := s.loadQuoteDocument(chi.URLParam(r, "id"))
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "quote not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load quote")
		return
	}

	data, err := export.PDF(doc)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to render PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.QuoteNumber+".pdf"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *server) handleQuoteExcel(w http.ResponseWriter, r *http.Request) {
	doc, err := s.loadQuoteDocument(chi.URLParam(r, "id"))
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "quote not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load quote")
		return
	}

	data, err := export.Excel(doc)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to render spreadsheet")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.QuoteNumber+".xlsx"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *server) getQuote(id string) (quoteDetail, error) {
	var q quoteDetail
	var lineItemsJSON, totalsJSON string
	err := s.db.QueryRow(`
		SELECT id, project_id, quote_number, COALESCE(title, ''), COALESCE(description, ''),
		       COALESCE(line_items_json, '[]'), COALESCE(totals_json, '{}'), valid_days, created_at
		FROM quotes
		WHERE id = ?
	`, id).Scan(&q.ID, &q.ProjectID, &q.QuoteNumber, &q.Title, &q.Description, &lineItemsJSON, &totalsJSON, &q.ValidDays, &q.CreatedAt)
	if err != nil {
		return quoteDetail{}, err
	}

	if err := json.Unmarshal([]byte(lineItemsJSON), &q.LineItems); err != nil {
		return quoteDetail{}, fmt.Errorf("decode line items: %w", err)
	}
	if err := json.Unmarshal([]byte(totalsJSON), &q.Totals); err != nil {
		return quoteDetail{}, fmt.Errorf("decode totals: %w", err)
	}
	q.Total = q.Totals.Total
	return q, nil
}

func (s *server) loadQuoteDocument(id string) (export.QuoteDocument, error) {
	q, err := s.getQuote(id)
	if err != nil {
		return export.QuoteDocument{}, err
	}
	return export.QuoteDocument{
		QuoteNumber: q.QuoteNumber,
		Title:       q.Title,
		Description: q.Description,
		CreatedAt:   parseQuoteTime(q.CreatedAt),
		ValidDays:   q.ValidDays,
		LineItems:   q.LineItems,
		Totals:      q.Totals,
	}, nil
}

// newQuoteNumber builds a human-friendly reference like Q-3F7A21B9.
// The column's unique constraint guards against the unlikely clash.
func newQuoteNumber() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "Q-" + strings.ToUpper(raw[:8])
}

// parseQuoteTime handles both sqlite's default timestamp format and
// RFC 3339 values written by other tools.
func parseQuoteTime(s string) time.Time {
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Now()
}

// extractTotal pulls the grand total out of a stored totals document
// without failing the whole listing on a malformed row.
func extractTotal(totalsJSON string) float64 {
	if totalsJSON == "" {
		return 0
	}
	var t struct {
		Total float64 `json:"total"`
	}
	if err := json.Unmarshal([]byte(totalsJSON), &t); err != nil {
		return 0
	}
	return t.Total
}
