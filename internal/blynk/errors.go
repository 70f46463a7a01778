package blynk

import "errors"

// Domain errors for the blynk package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, blynk.ErrFetchFailed) {
//	    // keep last-known-good state, mark sync degraded
//	}
var (
	// ErrFetchFailed indicates a device list fetch did not complete.
	ErrFetchFailed = errors.New("blynk: fetch failed")

	// ErrPushFailed indicates a settings push was rejected or did not complete.
	ErrPushFailed = errors.New("blynk: push failed")

	// ErrNoToken indicates the client has no API token configured.
	ErrNoToken = errors.New("blynk: no token configured")
)
