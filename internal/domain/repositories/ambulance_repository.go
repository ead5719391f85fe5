package repositories

import (
	"context"
	"database/sql"

	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/entities"
)

// AmbulanceRepository defines the interface for ambulance data operations.
// Reads of an ambulance whose breakdown window has elapsed lazily reset it to
// IDLE before returning; there is no background sweeper.
type AmbulanceRepository interface {
	// Create registers a new ambulance with its login credential
	Create(ctx context.Context, ambulance *entities.Ambulance, password string) error

	// GetByID retrieves an ambulance by ID
	GetByID(ctx context.Context, id string) (*entities.Ambulance, error)

	// GetByCredentials retrieves an ambulance by username/password
	GetByCredentials(ctx context.Context, username, password string) (*entities.Ambulance, error)

	// GetForUpdate retrieves an ambulance inside tx under a row lock
	GetForUpdate(ctx context.Context, tx *sql.Tx, id string) (*entities.Ambulance, error)

	// ExistsTx reports whether an ambulance row exists, inside tx
	ExistsTx(ctx context.Context, tx *sql.Tx, id string) (bool, error)

	// SaveStateTx writes status, links, breakdown window and location, inside
	// tx. Callers hold the row lock from GetForUpdate.
	SaveStateTx(ctx context.Context, tx *sql.Tx, ambulance *entities.Ambulance) error

	// UpdateLocation is the unlocked fast path for frequent position pings
	UpdateLocation(ctx context.Context, id string, location entities.Location) error
}
