package scene

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const maxNameLength = 100

// Registry provides thread-safe in-memory scene management.
// Scenes are seeded at startup and created through the API; there is
// no persistence beyond the process lifetime.
type Registry struct {
	mu     sync.RWMutex
	scenes map[string]*Scene
}

// NewRegistry creates an empty scene registry.
func NewRegistry() *Registry {
	return &Registry{
		scenes: make(map[string]*Scene),
	}
}

// Validate checks a scene for structural errors.
func Validate(s *Scene) error {
	if s == nil {
		return ErrInvalidScene
	}

	name := strings.TrimSpace(s.Name)
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, maxNameLength)
	}

	if len(s.Targets) == 0 {
		return fmt.Errorf("%w: %s", ErrNoTargets, s.Name)
	}
	for i, tgt := range s.Targets {
		if tgt.DeviceID == "" {
			return fmt.Errorf("%w: target %d has no device_id", ErrInvalidScene, i)
		}
	}

	return nil
}

// Create adds a new scene. A missing ID is generated; timestamps are
// stamped. Returns ErrSceneExists when the ID is already present.
func (r *Registry) Create(s *Scene) (*Scene, error) {
	if err := Validate(s); err != nil {
		return nil, err
	}

	cpy := s.DeepCopy()
	if cpy.ID == "" {
		cpy.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	if cpy.CreatedAt.IsZero() {
		cpy.CreatedAt = now
	}
	cpy.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.scenes[cpy.ID]; ok {
		return nil, fmt.Errorf("%w: %s", ErrSceneExists, cpy.ID)
	}
	r.scenes[cpy.ID] = cpy

	return cpy.DeepCopy(), nil
}

// Get retrieves a scene by ID.
// Returns ErrSceneNotFound if the scene does not exist.
// The returned scene is a deep copy; callers can safely modify it.
func (r *Registry) Get(id string) (*Scene, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.scenes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSceneNotFound, id)
	}
	return s.DeepCopy(), nil
}

// List retrieves all scenes sorted by name then ID.
// The returned scenes are deep copies.
func (r *Registry) List() []Scene {
	r.mu.RLock()
	defer r.mu.RUnlock()

	scenes := make([]Scene, 0, len(r.scenes))
	for _, s := range r.scenes {
		scenes = append(scenes, *s.DeepCopy())
	}

	sort.Slice(scenes, func(i, j int) bool {
		if scenes[i].Name != scenes[j].Name {
			return scenes[i].Name < scenes[j].Name
		}
		return scenes[i].ID < scenes[j].ID
	})

	return scenes
}

// Update replaces an existing scene.
// Returns ErrSceneNotFound if the scene does not exist.
func (r *Registry) Update(s *Scene) (*Scene, error) {
	if err := Validate(s); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.scenes[s.ID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSceneNotFound, s.ID)
	}

	cpy := s.DeepCopy()
	cpy.CreatedAt = existing.CreatedAt
	cpy.UpdatedAt = time.Now().UTC()
	r.scenes[s.ID] = cpy

	return cpy.DeepCopy(), nil
}

// Delete removes a scene by ID.
// Returns ErrSceneNotFound if the scene does not exist.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.scenes[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSceneNotFound, id)
	}
	delete(r.scenes, id)
	return nil
}

// Count returns the number of scenes in the registry.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.scenes)
}
