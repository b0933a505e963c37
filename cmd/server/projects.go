package main

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type project struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	ClientName      string `json:"client_name"`
	Address         string `json:"address"`
	HasMeasurements bool   `json:"has_measurements"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

func (s *server) handleProjectCreate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name       string `json:"name"`
		ClientName string `json:"client_name"`
		Address    string `json:"address"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	id := uuid.NewString()
	_, err := s.db.Exec(`
		INSERT INTO projects (id, name, client_name, address)
		VALUES (?, ?, ?, ?)
	`, id, body.Name, strings.TrimSpace(body.ClientName), strings.TrimSpace(body.Address))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create project")
		return
	}

	created, err := s.getProject(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load created project")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (s *server) handleProjectList(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	projects, err := s.listProjects(query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load projects")
		return
	}

	writeJSON(w, http.StatusOK, projects)
}

func (s *server) handleProjectDetail(w http.ResponseWriter, r *http.Request) {
	p, err := s.getProject(chi.URLParam(r, "id"))
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load project")
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (s *server) handleProjectDelete(w http.ResponseWriter, r *http.Request) {
	result, err := s.db.Exec(`DELETE FROM projects WHERE id = ?`, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete project")
		return
	}

	affected, err := result.RowsAffected()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete project")
		return
	}
	if affected == 0 {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *server) getProject(id string) (project, error) {
	var p project
	err := s.db.QueryRow(`
		SELECT
			id,
			name,
			COALESCE(client_name, ''),
			COALESCE(address, ''),
			manual_measurements IS NOT NULL,
			created_at,
			updated_at
		FROM projects
		WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.ClientName, &p.Address, &p.HasMeasurements, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return project{}, err
	}
	return p, nil
}

func (s *server) listProjects(query string) ([]project, error) {
	search := "%" + query + "%"
	rows, err := s.db.Query(`
		SELECT
			id,
			name,
			COALESCE(client_name, ''),
			COALESCE(address, ''),
			manual_measurements IS NOT NULL,
			created_at,
			updated_at
		FROM projects
		WHERE (? = '' OR name LIKE ? OR COALESCE(client_name, '') LIKE ?)
		ORDER BY datetime(created_at) DESC, id DESC
	`, query, search, search)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	projects := make([]project, 0)
	for rows.Next() {
		var p project
		if err := rows.Scan(&p.ID, &p.Name, &p.ClientName, &p.Address, &p.HasMeasurements, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}

	return projects, nil
}
