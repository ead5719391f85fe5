package cache

import (
	"sync"
	"time"

	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/entities"
)

// StateCache is the in-memory materialized view of hospital operational
// state. The stream synchronizer is its only writer; readers get deep copies
// so a snapshot never mutates under them. Simulation overrides are layered on
// top at read time and never touch the underlying entries.
type StateCache struct {
	mu        sync.RWMutex
	states    map[string]*entities.HospitalState
	overrides map[string]entities.StateOverride
}

// NewStateCache creates an empty state cache
func NewStateCache() *StateCache {
	return &StateCache{
		states:    make(map[string]*entities.HospitalState),
		overrides: make(map[string]entities.StateOverride),
	}
}

// Seed initializes the view from hospital records with optimistic defaults:
// every bed available, no load, status NORMAL. The stream corrects these as
// heartbeats arrive.
func (c *StateCache) Seed(hospitals []*entities.Hospital, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, h := range hospitals {
		c.states[h.ID] = &entities.HospitalState{
			HospitalID:       h.ID,
			Name:             h.Name,
			Type:             h.Type,
			Specialties:      append([]string(nil), h.Specialties...),
			Latitude:         h.Location.Latitude,
			Longitude:        h.Location.Longitude,
			AvailableBeds:    h.TotalBeds,
			AvailableICUBeds: h.ICUBeds,
			CurrentLoadScore: 0,
			Status:           entities.OperationalStatusNormal,
			LastUpdatedAt:    now,
		}
	}
}

// Apply merges a partial update into the entry keyed by hospital id, creating
// the entry if the hospital was not seeded.
func (c *StateCache) Apply(update *entities.StateUpdate, receivedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, ok := c.states[update.HospitalID]
	if !ok {
		state = &entities.HospitalState{
			HospitalID: update.HospitalID,
			Status:     entities.OperationalStatusNormal,
		}
		c.states[update.HospitalID] = state
	}

	state.Apply(update, receivedAt)
}

// LiveView returns a copy of the cache merged with active simulation
// overrides; override fields win per hospital and mark the entry simulated.
func (c *StateCache) LiveView() map[string]*entities.HospitalState {
	c.mu.RLock()
	defer c.mu.RUnlock()

	view := make(map[string]*entities.HospitalState, len(c.states))
	for id, state := range c.states {
		entry := state.Clone()
		if override, ok := c.overrides[id]; ok {
			override.ApplyTo(entry)
		}
		view[id] = entry
	}

	return view
}

// SetOverride installs a transient what-if overlay for a hospital
func (c *StateCache) SetOverride(hospitalID string, override entities.StateOverride) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.overrides[hospitalID] = override
}

// ClearOverrides removes every overlay, returning to live state
func (c *StateCache) ClearOverrides() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.overrides = make(map[string]entities.StateOverride)
}

// Overrides returns the current overlay set
func (c *StateCache) Overrides() map[string]entities.StateOverride {
	c.mu.RLock()
	defer c.mu.RUnlock()

	overrides := make(map[string]entities.StateOverride, len(c.overrides))
	for id, override := range c.overrides {
		overrides[id] = override
	}

	return overrides
}
