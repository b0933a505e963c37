package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const testMeasurements = `{
	"rooms": [
		{
			"id": "room-1",
			"name": "Living Room",
			"walls": [
				{"id": "wall-1", "name": "North Wall", "length": 4, "height": 2.4, "sanding_level": "light"}
			]
		}
	]
}`

func TestHandleQuoteCreatePricesMeasurements(t *testing.T) {
	srv := newTestServer(t)
	seedProject(t, srv.db, "proj-1", "Maple Street", testMeasurements)

	body := strings.NewReader(`{"title": "Living room refresh", "valid_days": 14}`)
	req := httptest.NewRequest(http.MethodPost, "/api/projects/proj-1/quotes", body)
	req = withURLParam(req, "id", "proj-1")

	rr := httptest.NewRecorder()
	srv.handleQuoteCreate(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var q quoteDetail
	if err := json.Unmarshal(rr.Body.Bytes(), &q); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !strings.HasPrefix(q.QuoteNumber, "Q-") || len(q.QuoteNumber) != 10 {
		t.Fatalf("unexpected quote number %q", q.QuoteNumber)
	}
	if q.Title != "Living room refresh" || q.ValidDays != 14 {
		t.Fatalf("unexpected quote fields: %+v", q.quoteSummary)
	}

	// 9.6 m2 of light sanding at 5.00 plus the cleanup fee.
	if q.Totals.Total != 198.00 {
		t.Fatalf("expected total 198.00, got %.2f", q.Totals.Total)
	}
	if len(q.LineItems) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(q.LineItems))
	}
	if q.LineItems[0].Description != "Living Room - North Wall - Sanding (light)" {
		t.Fatalf("unexpected first line item: %+v", q.LineItems[0])
	}
	if q.LineItems[1].Description != "Cleanup and Site Preparation" {
		t.Fatalf("expected cleanup as last line item, got %+v", q.LineItems[1])
	}
}

func TestHandleQuoteCreateRejectsEmptyMeasurements(t *testing.T) {
	srv := newTestServer(t)
	seedProject(t, srv.db, "proj-1", "Maple Street", "")

	req := httptest.NewRequest(http.MethodPost, "/api/projects/proj-1/quotes", strings.NewReader(`{}`))
	req = withURLParam(req, "id", "proj-1")

	rr := httptest.NewRecorder()
	srv.handleQuoteCreate(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Please add some measurements before generating a quote") {
		t.Fatalf("unexpected error body: %s", rr.Body.String())
	}
}

func TestHandleQuoteCreateUnknownProject(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/projects/missing/quotes", strings.NewReader(`{}`))
	req = withURLParam(req, "id", "missing")

	rr := httptest.NewRecorder()
	srv.handleQuoteCreate(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
}

func TestHandleQuotesListOrderingAndSearch(t *testing.T) {
	srv := newTestServer(t)
	seedProject(t, srv.db, "proj-1", "Maple Street", "")

	insert := func(id, number, title, createdAt string, total float64) {
		t.Helper()
		_, err := srv.db.Exec(`
			INSERT INTO quotes (id, project_id, quote_number, title, description, line_items_json, totals_json, valid_days, created_at)
			VALUES (?, 'proj-1', ?, ?, '', '[]', ?, 30, ?)
		`, id, number, title, `{"total": `+jsonFloat(total)+`}`, createdAt)
		if err != nil {
			t.Fatalf("failed to seed quote: %v", err)
		}
	}
	insert("q-old", "Q-AAAA1111", "Hallway repaint", "2026-01-02 09:00:00", 120.50)
	insert("q-new", "Q-BBBB2222", "Facade renovation", "2026-03-15 09:00:00", 950.00)

	req := httptest.NewRequest(http.MethodGet, "/api/quotes", nil)
	rr := httptest.NewRecorder()
	srv.handleQuotesList(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var quotes []quoteSummary
	if err := json.Unmarshal(rr.Body.Bytes(), &quotes); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(quotes) != 2 {
		t.Fatalf("expected 2 quotes, got %d", len(quotes))
	}
	if quotes[0].ID != "q-new" || quotes[1].ID != "q-old" {
		t.Fatalf("expected newest first, got %s then %s", quotes[0].ID, quotes[1].ID)
	}
	if quotes[0].Total != 950.00 {
		t.Fatalf("expected total 950.00, got %.2f", quotes[0].Total)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/quotes?q=hallway", nil)
	rr = httptest.NewRecorder()
	srv.handleQuotesList(rr, req)

	quotes = nil
	if err := json.Unmarshal(rr.Body.Bytes(), &quotes); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(quotes) != 1 || quotes[0].ID != "q-old" {
		t.Fatalf("expected only the hallway quote, got %+v", quotes)
	}
}

func TestHandleQuoteDetailNotFound(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/quotes/missing", nil)
	req = withURLParam(req, "id", "missing")

	rr := httptest.NewRecorder()
	srv.handleQuoteDetail(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
}

func TestHandleQuotePDFStreamsAttachment(t *testing.T) {
	srv := newTestServer(t)
	seedProject(t, srv.db, "proj-1", "Maple Street", testMeasurements)

	createReq := httptest.NewRequest(http.MethodPost, "/api/projects/proj-1/quotes", strings.NewReader(`{}`))
	createReq = withURLParam(createReq, "id", "proj-1")
	createRR := httptest.NewRecorder()
	srv.handleQuoteCreate(createRR, createReq)
	if createRR.Code != http.StatusCreated {
		t.Fatalf("failed to create quote: %s", createRR.Body.String())
	}

	var q quoteDetail
	if err := json.Unmarshal(createRR.Body.Bytes(), &q); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/quotes/"+q.ID+"/pdf", nil)
	req = withURLParam(req, "id", q.ID)

	rr := httptest.NewRecorder()
	srv.handleQuotePDF(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("expected application/pdf, got %q", ct)
	}
	if !strings.HasPrefix(rr.Body.String(), "%PDF") {
		t.Fatalf("expected a PDF document, got %q", rr.Body.String()[:16])
	}
}

func jsonFloat(v float64) string {
	raw, _ := json.Marshal(v)
	return string(raw)
}
