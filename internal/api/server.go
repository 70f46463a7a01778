// Package api provides the HTTP REST API and WebSocket server for HomeHub Core.
//
// It exposes device, scene, automation and notification operations plus
// real-time state updates to the browser dashboard.
//
// The server follows the same lifecycle pattern as other infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"homehub-core/internal/automation"
	"homehub-core/internal/blynk"
	"homehub-core/internal/device"
	"homehub-core/internal/infrastructure/config"
	"homehub-core/internal/infrastructure/logging"
	"homehub-core/internal/notify"
	"homehub-core/internal/scene"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config        config.APIConfig
	WS            config.WebSocketConfig
	Logger        *logging.Logger
	Store         *device.Store
	History       *device.History
	SceneRegistry *scene.Registry
	SceneEngine   *scene.Engine
	Automations   *automation.Registry
	Notifications *notify.Center
	Poller        *blynk.Poller // optional: nil when no cloud token is configured
	Cloud         *blynk.Client // optional: settings write-through to the cloud
	ExternalHub   *Hub          // If set, the server uses this hub instead of creating its own
	Version       string
}

// Server is the HTTP API server for HomeHub Core.
//
// It manages the HTTP listener, routes, middleware, and WebSocket hub.
// The server is created with New() and started with Start().
type Server struct {
	cfg           config.APIConfig
	wsCfg         config.WebSocketConfig
	logger        *logging.Logger
	store         *device.Store
	history       *device.History
	sceneRegistry *scene.Registry
	sceneEngine   *scene.Engine
	automations   *automation.Registry
	notifications *notify.Center
	poller        *blynk.Poller
	cloud         *blynk.Client
	version       string
	server        *http.Server
	hub           *Hub
	externalHub   bool               // true if hub was injected externally
	cancel        context.CancelFunc // cancels background goroutines on Close()
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called. The poller and
// cloud client are optional; without them the server runs purely
// against the in-memory store.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("device store is required")
	}

	s := &Server{
		cfg:           deps.Config,
		wsCfg:         deps.WS,
		logger:        deps.Logger,
		store:         deps.Store,
		history:       deps.History,
		sceneRegistry: deps.SceneRegistry,
		sceneEngine:   deps.SceneEngine,
		automations:   deps.Automations,
		notifications: deps.Notifications,
		poller:        deps.Poller,
		cloud:         deps.Cloud,
		version:       deps.Version,
	}

	// Use externally-provided hub if available (needed when other
	// components also broadcast through it).
	if deps.ExternalHub != nil {
		s.hub = deps.ExternalHub
		s.externalHub = true
	}

	return s, nil
}

// Hub returns the server's WebSocket hub, creating it on first use.
// Callers that need the hub before Start() (scene engine, notification
// centre) obtain it here and pass it back in via Deps.ExternalHub.
func (s *Server) Hub() *Hub {
	if s.hub == nil {
		s.hub = NewHub(s.wsCfg, s.logger)
	}
	return s.hub
}

// Start begins listening for HTTP connections.
//
// It sets up the router, starts the WebSocket hub, subscribes to device
// store events for real-time broadcast, and launches the HTTP listener
// in a background goroutine. The server can be stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	// Create internal context so Close() can stop background goroutines
	// independently of the parent context.
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	if s.hub == nil {
		s.hub = NewHub(s.wsCfg, s.logger)
	}
	if !s.externalHub {
		go s.hub.Run(srvCtx)
	}

	s.subscribeStateUpdates()

	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		err := s.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// subscribeStateUpdates relays device store events to WebSocket clients
// subscribed to "device.state_changed". Refresh merges can publish many
// events in a burst; each arrives as its own message so the dashboard
// can animate individual tiles.
func (s *Server) subscribeStateUpdates() {
	s.store.Subscribe(func(ev device.Event) {
		if s.hub == nil {
			return
		}
		s.hub.Broadcast("device.state_changed", map[string]any{
			"device_id":  ev.DeviceID,
			"old_status": ev.OldStatus,
			"new_status": ev.NewStatus,
			"old_value":  ev.OldValue,
			"new_value":  ev.NewValue,
			"source":     ev.Source,
			"device":     ev.Device,
		})
	})
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	// Cancel background goroutines (hub)
	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and responsive.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
