package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestProjectLifecycle(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/projects", strings.NewReader(`{"name": "Maple Street", "client_name": "J. Fletcher", "address": "12 Maple Street"}`))
	rr := httptest.NewRecorder()
	srv.handleProjectCreate(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var created project
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.ID == "" || created.Name != "Maple Street" || created.ClientName != "J. Fletcher" {
		t.Fatalf("unexpected project: %+v", created)
	}
	if created.HasMeasurements {
		t.Fatalf("expected a fresh project without measurements")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	rr = httptest.NewRecorder()
	srv.handleProjectList(rr, req)

	var list []project
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("expected the created project in the listing, got %+v", list)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/projects/"+created.ID, nil)
	req = withURLParam(req, "id", created.ID)
	rr = httptest.NewRecorder()
	srv.handleProjectDetail(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200 for detail, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/projects/"+created.ID, nil)
	req = withURLParam(req, "id", created.ID)
	rr = httptest.NewRecorder()
	srv.handleProjectDelete(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200 for delete, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/projects/"+created.ID, nil)
	req = withURLParam(req, "id", created.ID)
	rr = httptest.NewRecorder()
	srv.handleProjectDetail(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 after delete, got %d", rr.Code)
	}
}

func TestHandleProjectCreateRequiresName(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/projects", strings.NewReader(`{"name": "   "}`))
	rr := httptest.NewRecorder()
	srv.handleProjectCreate(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleProjectListSearch(t *testing.T) {
	srv := newTestServer(t)
	seedProject(t, srv.db, "proj-1", "Maple Street", "")
	seedProject(t, srv.db, "proj-2", "Harbour View", "")

	req := httptest.NewRequest(http.MethodGet, "/api/projects?q=harbour", nil)
	rr := httptest.NewRecorder()
	srv.handleProjectList(rr, req)

	var list []project
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(list) != 1 || list[0].ID != "proj-2" {
		t.Fatalf("expected only the harbour project, got %+v", list)
	}
}

func TestHandleProjectDeleteUnknown(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/projects/missing", nil)
	req = withURLParam(req, "id", "missing")
	rr := httptest.NewRecorder()
	srv.handleProjectDelete(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
}
