// Package notify provides the dashboard's notification feed.
//
// The Center is a bounded in-memory list, newest first. Entries come
// from automation actions and device events; each push is broadcast to
// WebSocket clients as notification.created. Nothing is persisted.
package notify
