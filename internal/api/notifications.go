package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleListNotifications returns the notification feed, newest first.
func (s *Server) handleListNotifications(w http.ResponseWriter, _ *http.Request) {
	notifications := s.notifications.List()
	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": notifications,
		"count":         len(notifications),
		"unread":        s.notifications.UnreadCount(),
	})
}

// handleMarkNotificationRead marks a single notification as read.
func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	n, err := s.notifications.MarkRead(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// handleMarkAllNotificationsRead marks every notification as read.
func (s *Server) handleMarkAllNotificationsRead(w http.ResponseWriter, _ *http.Request) {
	changed := s.notifications.MarkAllRead()
	writeJSON(w, http.StatusOK, map[string]any{"marked": changed})
}

// handleClearNotifications removes every notification.
func (s *Server) handleClearNotifications(w http.ResponseWriter, _ *http.Request) {
	s.notifications.ClearAll()
	w.WriteHeader(http.StatusNoContent)
}
