package blynk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Logger defines the logging interface used by this package.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// maxResponseBytes caps cloud response bodies. The device list for a
// home dashboard is a few KB; anything near this limit is wrong.
const maxResponseBytes = 4 << 20

// RawDevice is a device record as the cloud API returns it, camelCase
// and stringly typed. The mapper converts it to the internal model.
type RawDevice struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Type         string         `json:"type"`
	Status       bool           `json:"status"`
	Value        float64        `json:"value"`
	Location     string         `json:"location"`
	Pin          int            `json:"pin"`
	Online       bool           `json:"online"`
	LastActivity int64          `json:"lastActivity"` // Unix milliseconds
	Settings     map[string]any `json:"settings,omitempty"`
}

// Client talks to the Blynk cloud HTTP API.
//
// It does exactly two things: fetch the device list and push settings
// for one device. No retries here; the poller owns the cadence and
// the degraded-state bookkeeping.
type Client struct {
	serverURL  string
	token      string
	httpClient *http.Client
	logger     Logger
}

// NewClient creates a cloud API client.
// The timeout bounds each request including body read.
func NewClient(serverURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		serverURL:  serverURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     noopLogger{},
	}
}

// SetLogger sets the logger for the client.
func (c *Client) SetLogger(logger Logger) {
	c.logger = logger
}

// FetchDevices retrieves the full device list from the cloud.
func (c *Client) FetchDevices(ctx context.Context) ([]RawDevice, error) {
	if c.token == "" {
		return nil, ErrNoToken
	}

	endpoint := fmt.Sprintf("%s/external/api/devices?token=%s",
		c.serverURL, url.QueryEscape(c.token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrFetchFailed, resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, maxResponseBytes)
	var devices []RawDevice
	if err := json.NewDecoder(body).Decode(&devices); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %w", ErrFetchFailed, err)
	}

	c.logger.Debug("fetched devices", "count", len(devices))
	return devices, nil
}

// PushSettings sends a settings update for one device to the cloud.
// The payload is the cloud's camelCase settings shape.
func (c *Client) PushSettings(ctx context.Context, deviceID string, settings map[string]any) error {
	if c.token == "" {
		return ErrNoToken
	}

	endpoint := fmt.Sprintf("%s/external/api/devices/%s/settings?token=%s",
		c.serverURL, url.PathEscape(deviceID), url.QueryEscape(c.token))

	payload, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("%w: encoding payload: %w", ErrPushFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPushFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPushFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("%w: unexpected status %d", ErrPushFailed, resp.StatusCode)
	}

	c.logger.Debug("pushed settings", "device_id", deviceID)
	return nil
}
