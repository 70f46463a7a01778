package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"homehub-core/internal/automation"
	"homehub-core/internal/device"
	"homehub-core/internal/notify"
	"homehub-core/internal/scene"
)

// Error represents a structured error response.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Common error codes.
const (
	ErrCodeBadRequest = "bad_request"
	ErrCodeNotFound   = "not_found"
	ErrCodeConflict   = "conflict"
	ErrCodeInternal   = "internal_error"
	ErrCodeValidation = "validation_error"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

// writeBadRequest writes a 400 error response.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// writeNotFound writes a 404 error response.
func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// notFoundErrors are domain sentinels that map to HTTP 404.
var notFoundErrors = []error{
	device.ErrDeviceNotFound,
	scene.ErrSceneNotFound,
	automation.ErrAutomationNotFound,
	notify.ErrNotificationNotFound,
}

// conflictErrors are domain sentinels that map to HTTP 409.
var conflictErrors = []error{
	device.ErrDeviceExists,
	scene.ErrSceneExists,
	automation.ErrAutomationExists,
}

// validationErrors are domain sentinels that map to HTTP 400.
var validationErrors = []error{
	device.ErrInvalidDevice,
	device.ErrInvalidDeviceType,
	device.ErrInvalidMode,
	device.ErrInvalidName,
	device.ErrInvalidSettings,
	device.ErrTypeMismatch,
	scene.ErrInvalidScene,
	scene.ErrInvalidName,
	scene.ErrNoTargets,
	automation.ErrInvalidAutomation,
	automation.ErrInvalidName,
	automation.ErrInvalidTrigger,
	automation.ErrInvalidCondition,
	automation.ErrInvalidOperator,
	automation.ErrInvalidAction,
	automation.ErrInvalidSchedule,
}

// writeDomainError maps a domain error to the appropriate HTTP response.
// Unrecognised errors become a 500 with a generic message so internal
// detail never leaks to clients.
func writeDomainError(w http.ResponseWriter, err error) {
	for _, sentinel := range notFoundErrors {
		if errors.Is(err, sentinel) {
			writeError(w, http.StatusNotFound, ErrCodeNotFound, err.Error())
			return
		}
	}
	for _, sentinel := range conflictErrors {
		if errors.Is(err, sentinel) {
			writeError(w, http.StatusConflict, ErrCodeConflict, err.Error())
			return
		}
	}
	for _, sentinel := range validationErrors {
		if errors.Is(err, sentinel) {
			writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
			return
		}
	}
	writeInternalError(w, "internal server error")
}
