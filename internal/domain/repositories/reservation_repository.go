package repositories

import (
	"context"
	"database/sql"

	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/entities"
)

// ReservationRepository defines the interface for bed reservation data
// operations. Status advancement happens only through lifecycle transitions.
type ReservationRepository interface {
	// CreateTx inserts a new reservation inside tx
	CreateTx(ctx context.Context, tx *sql.Tx, reservation *entities.Reservation) error

	// AdvanceForAmbulanceTx moves the ambulance's reservation from any of the
	// given statuses to the target status, inside tx. Returns the number of
	// rows changed; zero is not an error (the ambulance may hold no active
	// reservation).
	AdvanceForAmbulanceTx(ctx context.Context, tx *sql.Tx, ambulanceID string, from []entities.ReservationStatus, to entities.ReservationStatus) (int64, error)

	// ActiveByAmbulance retrieves the ambulance's most recent RESERVED
	// reservation
	ActiveByAmbulance(ctx context.Context, ambulanceID string) (*entities.Reservation, error)

	// EffectiveCapacities aggregates active reservations per hospital and bed
	// type and subtracts them from totals, floored at zero
	EffectiveCapacities(ctx context.Context) (map[string]*entities.EffectiveCapacity, error)
}
