package providers

import (
	"context"

	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/entities"
)

// StateView exposes the materialized hospital state to readers. The view is
// advisory ranking input only, never the allocation source of truth.
type StateView interface {
	// LiveView returns a copy of the cache merged with active simulation
	// overrides; override fields win per hospital
	LiveView() map[string]*entities.HospitalState

	// SetOverride installs a transient what-if overlay for a hospital
	SetOverride(hospitalID string, override entities.StateOverride)

	// ClearOverrides removes every overlay, returning to live state
	ClearOverrides()

	// Overrides returns the current overlay set
	Overrides() map[string]entities.StateOverride
}

// StatePublisher pushes hospital state changes onto the stream
type StatePublisher interface {
	Publish(ctx context.Context, update *entities.StateUpdate) error
}
