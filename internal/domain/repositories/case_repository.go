package repositories

import (
	"context"
	"database/sql"

	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/entities"
)

// CaseRepository defines the interface for emergency case data operations
type CaseRepository interface {
	// Create stores a new emergency case
	Create(ctx context.Context, emergencyCase *entities.EmergencyCase) error

	// GetByID retrieves a case by ID
	GetByID(ctx context.Context, id string) (*entities.EmergencyCase, error)

	// GetByIDTx retrieves a case by ID inside tx
	GetByIDTx(ctx context.Context, tx *sql.Tx, id string) (*entities.EmergencyCase, error)
}
