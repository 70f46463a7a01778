package api

import (
	"net/http"
	"testing"

	"homehub-core/internal/notify"
)

func TestNotificationLifecycle(t *testing.T) {
	srv, router := newTestServer(t)

	srv.notifications.Push(notify.KindAlert, "Temperature is high")
	srv.notifications.Push(notify.KindInfo, "Scene activated")

	var body struct {
		Notifications []notify.Notification `json:"notifications"`
		Count         int                   `json:"count"`
		Unread        int                   `json:"unread"`
	}
	rec := doRequest(t, router, http.MethodGet, "/api/v1/notifications/", "", &body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body.Count != 2 || body.Unread != 2 {
		t.Fatalf("count = %d unread = %d, want 2/2", body.Count, body.Unread)
	}
	// Newest first.
	if body.Notifications[0].Message != "Scene activated" {
		t.Errorf("first notification = %q", body.Notifications[0].Message)
	}

	var marked notify.Notification
	rec = doRequest(t, router, http.MethodPost, "/api/v1/notifications/"+body.Notifications[0].ID+"/read", "", &marked)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !marked.Read {
		t.Error("notification not marked read")
	}

	doRequest(t, router, http.MethodGet, "/api/v1/notifications/", "", &body)
	if body.Unread != 1 {
		t.Errorf("unread = %d after marking one, want 1", body.Unread)
	}

	rec = doRequest(t, router, http.MethodPost, "/api/v1/notifications/read-all", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	rec = doRequest(t, router, http.MethodDelete, "/api/v1/notifications/", "", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}

	doRequest(t, router, http.MethodGet, "/api/v1/notifications/", "", &body)
	if body.Count != 0 {
		t.Errorf("count = %d after clear, want 0", body.Count)
	}
}

func TestMarkNotificationRead_NotFound(t *testing.T) {
	_, router := newTestServer(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/notifications/ghost/read", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
