package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"homehub-core/internal/automation"
)

// handleListAutomations returns all automations.
func (s *Server) handleListAutomations(w http.ResponseWriter, _ *http.Request) {
	automations := s.automations.List()
	writeJSON(w, http.StatusOK, map[string]any{"automations": automations, "count": len(automations)})
}

// createAutomationRequest is the create payload. Enabled is a pointer
// so an omitted field defaults to true rather than false.
type createAutomationRequest struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	Enabled    *bool                  `json:"enabled"`
	Trigger    automation.Trigger     `json:"trigger"`
	Conditions []automation.Condition `json:"conditions"`
	Actions    []automation.Action    `json:"actions"`
}

// handleCreateAutomation creates a new automation.
func (s *Server) handleCreateAutomation(w http.ResponseWriter, r *http.Request) {
	var req createAutomationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	a := automation.Automation{
		ID:         req.ID,
		Name:       req.Name,
		Enabled:    true,
		Trigger:    req.Trigger,
		Conditions: req.Conditions,
		Actions:    req.Actions,
	}
	if req.Enabled != nil {
		a.Enabled = *req.Enabled
	}

	created, err := s.automations.Create(&a)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// handleGetAutomation returns a single automation by ID.
func (s *Server) handleGetAutomation(w http.ResponseWriter, r *http.Request) {
	a, err := s.automations.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// handleUpdateAutomation replaces an existing automation. The ID in the
// URL wins over any ID in the body.
func (s *Server) handleUpdateAutomation(w http.ResponseWriter, r *http.Request) {
	var a automation.Automation
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	a.ID = chi.URLParam(r, "id")

	updated, err := s.automations.Update(&a)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// handleDeleteAutomation removes an automation by ID.
func (s *Server) handleDeleteAutomation(w http.ResponseWriter, r *http.Request) {
	if err := s.automations.Delete(chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleEnableAutomation marks an automation as enabled.
func (s *Server) handleEnableAutomation(w http.ResponseWriter, r *http.Request) {
	s.setAutomationEnabled(w, r, true)
}

// handleDisableAutomation marks an automation as disabled.
func (s *Server) handleDisableAutomation(w http.ResponseWriter, r *http.Request) {
	s.setAutomationEnabled(w, r, false)
}

func (s *Server) setAutomationEnabled(w http.ResponseWriter, r *http.Request, enabled bool) {
	a, err := s.automations.SetEnabled(chi.URLParam(r, "id"), enabled)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}
