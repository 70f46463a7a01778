package blynk

import (
	"context"
	"sync"
	"time"

	"homehub-core/internal/device"
)

// SyncStatus describes the health of cloud synchronisation, surfaced
// by the API's health endpoint.
type SyncStatus struct {
	// LastSync is the start time of the last successful fetch.
	LastSync time.Time `json:"last_sync,omitzero"`

	// Degraded is set after a failed fetch and cleared by the next
	// successful one. While degraded the store keeps serving its
	// last-known-good snapshot.
	Degraded bool `json:"degraded"`

	// LastError is the message of the most recent fetch failure.
	LastError string `json:"last_error,omitempty"`
}

// Poller keeps the device store aligned with the cloud by fetching the
// device list at a fixed interval.
//
// Each cycle records its own start time and hands it to Store.Refresh,
// so local edits made while a fetch was in flight survive the merge.
// Failures never clear the store; they flip the sync status to
// degraded until a fetch succeeds again.
type Poller struct {
	client   *Client
	store    *device.Store
	interval time.Duration
	logger   Logger

	mu     sync.RWMutex
	status SyncStatus
}

// NewPoller creates a poller.
func NewPoller(client *Client, store *device.Store, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Poller{
		client:   client,
		store:    store,
		interval: interval,
		logger:   noopLogger{},
	}
}

// SetLogger sets the logger for the poller.
func (p *Poller) SetLogger(logger Logger) {
	p.logger = logger
}

// Status returns the current sync status.
func (p *Poller) Status() SyncStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

// Run syncs immediately, then at the configured interval until the
// context is cancelled. Always returns ctx.Err().
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("cloud poller started", "interval", p.interval)

	if err := p.Sync(ctx); err != nil {
		p.logger.Warn("initial sync failed", "error", err)
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("cloud poller stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := p.Sync(ctx); err != nil {
				p.logger.Warn("sync failed", "error", err)
			}
		}
	}
}

// Sync performs one fetch-map-refresh cycle.
func (p *Poller) Sync(ctx context.Context) error {
	fetchedAt := time.Now().UTC()

	raw, err := p.client.FetchDevices(ctx)
	if err != nil {
		p.mu.Lock()
		p.status.Degraded = true
		p.status.LastError = err.Error()
		p.mu.Unlock()
		return err
	}

	devices, mapErrs := MapDevices(raw)
	for _, mapErr := range mapErrs {
		p.logger.Warn("skipping unmappable device", "error", mapErr)
	}

	p.store.Refresh(devices, fetchedAt)

	p.mu.Lock()
	p.status.LastSync = fetchedAt
	p.status.Degraded = false
	p.status.LastError = ""
	p.mu.Unlock()

	p.logger.Debug("sync complete", "devices", len(devices), "skipped", len(mapErrs))
	return nil
}
