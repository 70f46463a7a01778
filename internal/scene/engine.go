package scene

import (
	"errors"
	"time"

	"homehub-core/internal/device"
)

// Logger defines the logging interface used by the Engine.
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

// Broadcaster pushes events to dashboard clients.
// Satisfied by the WebSocket hub.
type Broadcaster interface {
	Broadcast(event string, payload any)
}

// Activation summarises a scene activation.
type Activation struct {
	SceneID     string    `json:"scene_id"`
	SceneName   string    `json:"scene_name"`
	ActivatedAt time.Time `json:"activated_at"`
	Applied     int       `json:"applied"`
	Missing     int       `json:"missing"`
}

// Engine activates scenes against the device store.
type Engine struct {
	registry    *Registry
	store       *device.Store
	broadcaster Broadcaster
	logger      Logger
}

// NewEngine creates a scene engine.
// broadcaster may be nil when no dashboard push is wired.
func NewEngine(registry *Registry, store *device.Store, broadcaster Broadcaster) *Engine {
	return &Engine{
		registry:    registry,
		store:       store,
		broadcaster: broadcaster,
		logger:      noopLogger{},
	}
}

// SetLogger sets the logger for the engine.
func (e *Engine) SetLogger(logger Logger) {
	e.logger = logger
}

// Activate applies a scene on behalf of the dashboard.
// See ActivateWithSource.
func (e *Engine) Activate(id string) (*Activation, error) {
	return e.ActivateWithSource(id, "scene")
}

// ActivateWithSource applies a scene's targets to the store in order
// and broadcasts scene.activated. The change events carry the given
// source: "scene" for dashboard activations, "automation" when the
// automation engine activates, so its own events cannot re-trigger it.
//
// Returns ErrSceneNotFound when the scene does not exist. Targets
// naming unknown devices are skipped and counted, not errors: scenes
// may reference devices the cloud has since dropped.
func (e *Engine) ActivateWithSource(id, source string) (*Activation, error) {
	s, err := e.registry.Get(id)
	if err != nil {
		return nil, err
	}

	act := &Activation{
		SceneID:     s.ID,
		SceneName:   s.Name,
		ActivatedAt: time.Now().UTC(),
	}

	// Compute the post-activation collection as a pure transform, then
	// commit the targeted devices through the store.
	applied := Apply(e.store.List(device.Filter{}), s, act.ActivatedAt)
	byID := make(map[string]*device.Device, len(applied))
	for i := range applied {
		byID[applied[i].ID] = &applied[i]
	}

	for _, tgt := range s.Targets {
		next, ok := byID[tgt.DeviceID]
		if !ok {
			e.logger.Warn("scene target missing",
				"scene_id", s.ID, "device_id", tgt.DeviceID)
			act.Missing++
			continue
		}

		_, err := e.store.SetState(next.ID, next.Status, &next.Value, source)
		if err != nil {
			if errors.Is(err, device.ErrDeviceNotFound) {
				// Dropped between snapshot and commit.
				e.logger.Warn("scene target missing",
					"scene_id", s.ID, "device_id", tgt.DeviceID)
				act.Missing++
				continue
			}
			return nil, err
		}
		act.Applied++
	}

	e.logger.Info("scene activated",
		"scene_id", s.ID, "name", s.Name,
		"applied", act.Applied, "missing", act.Missing)

	if e.broadcaster != nil {
		e.broadcaster.Broadcast("scene.activated", act)
	}

	return act, nil
}
