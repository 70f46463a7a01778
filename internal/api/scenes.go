package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"homehub-core/internal/scene"
)

// handleListScenes returns all scenes.
func (s *Server) handleListScenes(w http.ResponseWriter, _ *http.Request) {
	scenes := s.sceneRegistry.List()
	writeJSON(w, http.StatusOK, map[string]any{"scenes": scenes, "count": len(scenes)})
}

// handleCreateScene creates a new scene.
func (s *Server) handleCreateScene(w http.ResponseWriter, r *http.Request) {
	var sc scene.Scene
	if err := json.NewDecoder(r.Body).Decode(&sc); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	created, err := s.sceneRegistry.Create(&sc)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// handleGetScene returns a single scene by ID.
func (s *Server) handleGetScene(w http.ResponseWriter, r *http.Request) {
	sc, err := s.sceneRegistry.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

// handleUpdateScene replaces an existing scene. The ID in the URL wins
// over any ID in the body.
func (s *Server) handleUpdateScene(w http.ResponseWriter, r *http.Request) {
	var sc scene.Scene
	if err := json.NewDecoder(r.Body).Decode(&sc); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	sc.ID = chi.URLParam(r, "id")

	updated, err := s.sceneRegistry.Update(&sc)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// handleDeleteScene removes a scene by ID.
func (s *Server) handleDeleteScene(w http.ResponseWriter, r *http.Request) {
	if err := s.sceneRegistry.Delete(chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleActivateScene applies a scene to the device store and returns
// the activation summary.
func (s *Server) handleActivateScene(w http.ResponseWriter, r *http.Request) {
	act, err := s.sceneEngine.Activate(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, act)
}
