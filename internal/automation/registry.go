package automation

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry provides thread-safe in-memory automation management.
// Automations come from the seed file and the API; there is no
// persistence beyond the process lifetime.
type Registry struct {
	mu          sync.RWMutex
	automations map[string]*Automation
}

// NewRegistry creates an empty automation registry.
func NewRegistry() *Registry {
	return &Registry{
		automations: make(map[string]*Automation),
	}
}

// Create adds a new automation. A missing ID is generated; timestamps
// are stamped. Returns ErrAutomationExists when the ID is already present.
func (r *Registry) Create(a *Automation) (*Automation, error) {
	if err := Validate(a); err != nil {
		return nil, err
	}

	cpy := a.DeepCopy()
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

	if _, ok := r.automations[cpy.ID]; ok {
		return nil, fmt.Errorf("%w: %s", ErrAutomationExists, cpy.ID)
	}
	r.automations[cpy.ID] = cpy

	return cpy.DeepCopy(), nil
}

// Get retrieves an automation by ID.
// Returns ErrAutomationNotFound if the automation does not exist.
// The returned automation is a deep copy; callers can safely modify it.
func (r *Registry) Get(id string) (*Automation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.automations[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAutomationNotFound, id)
	}
	return a.DeepCopy(), nil
}

// List retrieves all automations sorted by name then ID.
// The returned automations are deep copies.
func (r *Registry) List() []Automation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	automations := make([]Automation, 0, len(r.automations))
	for _, a := range r.automations {
		automations = append(automations, *a.DeepCopy())
	}

	sort.Slice(automations, func(i, j int) bool {
		if automations[i].Name != automations[j].Name {
			return automations[i].Name < automations[j].Name
		}
		return automations[i].ID < automations[j].ID
	})

	return automations
}

// Update replaces an existing automation.
// Returns ErrAutomationNotFound if the automation does not exist.
func (r *Registry) Update(a *Automation) (*Automation, error) {
	if err := Validate(a); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.automations[a.ID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAutomationNotFound, a.ID)
	}

	cpy := a.DeepCopy()
	cpy.CreatedAt = existing.CreatedAt
	cpy.UpdatedAt = time.Now().UTC()
	r.automations[a.ID] = cpy

	return cpy.DeepCopy(), nil
}

// SetEnabled flips an automation's enabled flag.
// Returns ErrAutomationNotFound if the automation does not exist.
func (r *Registry) SetEnabled(id string, enabled bool) (*Automation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.automations[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAutomationNotFound, id)
	}

	a.Enabled = enabled
	a.UpdatedAt = time.Now().UTC()

	return a.DeepCopy(), nil
}

// Delete removes an automation by ID.
// Returns ErrAutomationNotFound if the automation does not exist.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.automations[id]; !ok {
		return fmt.Errorf("%w: %s", ErrAutomationNotFound, id)
	}
	delete(r.automations, id)
	return nil
}

// Count returns the number of automations in the registry.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.automations)
}
