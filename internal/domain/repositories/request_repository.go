package repositories

import (
	"context"
	"database/sql"

	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/entities"
)

// RequestRepository defines the interface for SOS request data operations
type RequestRepository interface {
	// Create stores a new emergency request
	Create(ctx context.Context, request *entities.EmergencyRequest) error

	// GetByID retrieves a request by ID
	GetByID(ctx context.Context, id string) (*entities.EmergencyRequest, error)

	// GetDetail retrieves a request joined with its assigned ambulance's
	// position, for caller polling
	GetDetail(ctx context.Context, id string) (*entities.RequestDetail, error)

	// ListOpen retrieves every OPEN request
	ListOpen(ctx context.Context) ([]*entities.EmergencyRequest, error)

	// GetForUpdate retrieves a request inside tx under a row lock
	GetForUpdate(ctx context.Context, tx *sql.Tx, id string) (*entities.EmergencyRequest, error)

	// SaveStateTx writes status, assignment and location inside tx. Callers
	// hold the row lock from GetForUpdate.
	SaveStateTx(ctx context.Context, tx *sql.Tx, request *entities.EmergencyRequest) error
}
