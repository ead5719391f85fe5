package repositories

import (
	"context"
	"database/sql"

	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/entities"
)

// HospitalRepository defines the interface for hospital data operations
type HospitalRepository interface {
	// Create registers a new hospital
	Create(ctx context.Context, hospital *entities.Hospital) error

	// GetByID retrieves a hospital by ID
	GetByID(ctx context.Context, id string) (*entities.Hospital, error)

	// GetByName retrieves a hospital by exact name
	GetByName(ctx context.Context, name string) (*entities.Hospital, error)

	// List retrieves every hospital record; used to seed the state view
	List(ctx context.Context) ([]*entities.Hospital, error)

	// Exists reports whether a hospital row exists
	Exists(ctx context.Context, id string) (bool, error)

	// ExistsTx reports whether a hospital row exists, inside tx
	ExistsTx(ctx context.Context, tx *sql.Tx, id string) (bool, error)
}
