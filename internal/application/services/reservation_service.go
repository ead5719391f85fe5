package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/entities"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/Emergencydispatchdesign/backend/pkg/errors"
)

// ReservationService allocates hospital beds. Creation always runs inside a
// transaction; lifecycle transitions advance reservation status through the
// same transaction that moves the ambulance.
type ReservationService struct {
	client       TxRunner
	hospitals    repositories.HospitalRepository
	ambulances   repositories.AmbulanceRepository
	reservations repositories.ReservationRepository
	ttl          time.Duration
	now          func() time.Time
}

// NewReservationService creates a new reservation service
func NewReservationService(
	client TxRunner,
	hospitals repositories.HospitalRepository,
	ambulances repositories.AmbulanceRepository,
	reservations repositories.ReservationRepository,
	ttl time.Duration,
) *ReservationService {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &ReservationService{
		client:       client,
		hospitals:    hospitals,
		ambulances:   ambulances,
		reservations: reservations,
		ttl:          ttl,
		now:          time.Now,
	}
}

// CreateReservation holds a bed in its own transaction; the direct
// reservation endpoint uses this path
func (s *ReservationService) CreateReservation(ctx context.Context, hospitalID, ambulanceID string, requiresICU bool, caseID *string) (*entities.Reservation, error) {
	var reservation *entities.Reservation

	err := s.client.WithTx(ctx, func(tx *sql.Tx) error {
		var txErr error
		reservation, txErr = s.CreateReservationTx(ctx, tx, hospitalID, ambulanceID, requiresICU, caseID)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	return reservation, nil
}

// CreateReservationTx holds a bed inside the caller's transaction. The bed
// type is fixed from the ICU flag at creation and never changes.
func (s *ReservationService) CreateReservationTx(ctx context.Context, tx *sql.Tx, hospitalID, ambulanceID string, requiresICU bool, caseID *string) (*entities.Reservation, error) {
	if hospitalID == "" || ambulanceID == "" {
		return nil, apperrors.NewValidationError("hospital_id and ambulance_id are required")
	}

	exists, err := s.hospitals.ExistsTx(ctx, tx, hospitalID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NewNotFoundError("hospital not found")
	}

	exists, err = s.ambulances.ExistsTx(ctx, tx, ambulanceID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NewNotFoundError("ambulance not found")
	}

	bedType := entities.BedTypeNormal
	if requiresICU {
		bedType = entities.BedTypeICU
	}

	now := s.now()
	reservation := &entities.Reservation{
		ID:          uuid.New().String(),
		HospitalID:  hospitalID,
		AmbulanceID: ambulanceID,
		CaseID:      caseID,
		BedType:     bedType,
		Status:      entities.ReservationStatusReserved,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.ttl),
	}

	if err := s.reservations.CreateTx(ctx, tx, reservation); err != nil {
		return nil, err
	}

	return reservation, nil
}

// ActiveReservation returns the ambulance's latest RESERVED reservation
func (s *ReservationService) ActiveReservation(ctx context.Context, ambulanceID string) (*entities.Reservation, error) {
	if ambulanceID == "" {
		return nil, apperrors.NewValidationError("ambulance_id is required")
	}
	return s.reservations.ActiveByAmbulance(ctx, ambulanceID)
}

// EffectiveCapacities returns per-hospital bed availability after active
// reservations, floored at zero
func (s *ReservationService) EffectiveCapacities(ctx context.Context) (map[string]*entities.EffectiveCapacity, error) {
	return s.reservations.EffectiveCapacities(ctx)
}
