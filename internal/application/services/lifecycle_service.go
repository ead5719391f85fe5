package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/entities"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/repositories"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/Emergencydispatchdesign/backend/pkg/errors"
)

// StatusChange is the outcome of a lifecycle transition
type StatusChange struct {
	Status         entities.AmbulanceStatus `json:"status"`
	PreviousStatus entities.AmbulanceStatus `json:"previous_status"`
}

// BreakdownResult reports the breakdown window and the position the ambulance
// broke down at
type BreakdownResult struct {
	BreakdownUntil  time.Time         `json:"breakdown_until"`
	UpdatedLocation entities.Location `json:"updated_location"`
}

// LifecycleService drives the ambulance state machine. Every transition and
// its side effects (reservation advancement, request reopening, link
// clearing) commit atomically in one transaction under a row lock.
type LifecycleService struct {
	client       TxRunner
	ambulances   repositories.AmbulanceRepository
	cases        repositories.CaseRepository
	requests     repositories.RequestRepository
	reservations repositories.ReservationRepository
	allocator    *ReservationService
	breakdownFor time.Duration
	metrics      *observability.Metrics
	logger       zerolog.Logger
	now          func() time.Time
}

// NewLifecycleService creates a new lifecycle service
func NewLifecycleService(
	client TxRunner,
	ambulances repositories.AmbulanceRepository,
	cases repositories.CaseRepository,
	requests repositories.RequestRepository,
	reservations repositories.ReservationRepository,
	allocator *ReservationService,
	breakdownFor time.Duration,
	metrics *observability.Metrics,
) *LifecycleService {
	if breakdownFor <= 0 {
		breakdownFor = 30 * time.Second
	}
	return &LifecycleService{
		client:       client,
		ambulances:   ambulances,
		cases:        cases,
		requests:     requests,
		reservations: reservations,
		allocator:    allocator,
		breakdownFor: breakdownFor,
		metrics:      metrics,
		logger:       observability.GetLogger().With().Str("component", "lifecycle_service").Logger(),
		now:          time.Now,
	}
}

// Register creates a new ambulance in IDLE
func (s *LifecycleService) Register(ctx context.Context, registrationNumber, organization, username, password string, location entities.Location) (*entities.Ambulance, error) {
	if registrationNumber == "" {
		return nil, apperrors.NewValidationError("registration_number is required")
	}

	now := s.now()
	ambulance := &entities.Ambulance{
		ID:                 uuid.New().String(),
		RegistrationNumber: registrationNumber,
		Organization:       organization,
		Username:           username,
		Status:             entities.AmbulanceStatusIdle,
		Location:           location,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.ambulances.Create(ctx, ambulance, password); err != nil {
		return nil, err
	}

	return ambulance, nil
}

// Login authenticates an ambulance crew by username/password
func (s *LifecycleService) Login(ctx context.Context, username, password string) (*entities.Ambulance, error) {
	if username == "" || password == "" {
		return nil, apperrors.NewValidationError("username and password are required")
	}
	return s.ambulances.GetByCredentials(ctx, username, password)
}

// Get retrieves an ambulance; an elapsed breakdown window is repaired to IDLE
// on the way out
func (s *LifecycleService) Get(ctx context.Context, id string) (*entities.Ambulance, error) {
	return s.ambulances.GetByID(ctx, id)
}

// UpdateLocation is the unlocked fast path for position pings
func (s *LifecycleService) UpdateLocation(ctx context.Context, id string, location entities.Location) error {
	if location.Latitude == 0 && location.Longitude == 0 {
		return apperrors.NewValidationError("latitude and longitude are required")
	}
	return s.ambulances.UpdateLocation(ctx, id, location)
}

// SetStatus validates and applies one lifecycle transition with its side
// effects. Optional hospital/case links are attached before side effects run
// so HOSPITAL_SELECTED sees them.
func (s *LifecycleService) SetStatus(ctx context.Context, id string, target entities.AmbulanceStatus, assignedHospitalID, activeCaseID *string) (*StatusChange, error) {
	targetStatus, recognized := target.Normalize()
	if !recognized {
		return nil, apperrors.NewValidationError("unknown target status: " + string(target))
	}

	var change *StatusChange
	err := s.client.WithTx(ctx, func(tx *sql.Tx) error {
		ambulance, err := s.ambulances.GetForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		current := s.normalizeCurrent(ctx, ambulance)
		if !current.CanTransition(targetStatus) {
			return apperrors.NewInvalidTransitionError(
				"cannot transition from " + string(current) + " to " + string(targetStatus))
		}

		if assignedHospitalID != nil {
			ambulance.AssignedHospitalID = assignedHospitalID
		}
		if activeCaseID != nil {
			ambulance.ActiveCaseID = activeCaseID
		}

		if err := s.applySideEffects(ctx, tx, ambulance, targetStatus); err != nil {
			return err
		}

		ambulance.Status = targetStatus
		if err := s.ambulances.SaveStateTx(ctx, tx, ambulance); err != nil {
			return err
		}

		change = &StatusChange{Status: targetStatus, PreviousStatus: current}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return change, nil
}

func (s *LifecycleService) applySideEffects(ctx context.Context, tx *sql.Tx, ambulance *entities.Ambulance, target entities.AmbulanceStatus) error {
	switch target {
	case entities.AmbulanceStatusHospitalSelected:
		if ambulance.AssignedHospitalID == nil {
			return apperrors.NewValidationError("assigned_hospital_id is required for HOSPITAL_SELECTED")
		}
		if ambulance.ActiveCaseID == nil {
			return apperrors.NewNotFoundError("ambulance has no active case")
		}

		emergencyCase, err := s.cases.GetByIDTx(ctx, tx, *ambulance.ActiveCaseID)
		if err != nil {
			return err
		}

		_, err = s.allocator.CreateReservationTx(ctx, tx,
			*ambulance.AssignedHospitalID, ambulance.ID, emergencyCase.RequiresICU, ambulance.ActiveCaseID)
		return err

	case entities.AmbulanceStatusArrived:
		_, err := s.reservations.AdvanceForAmbulanceTx(ctx, tx, ambulance.ID,
			[]entities.ReservationStatus{entities.ReservationStatusReserved},
			entities.ReservationStatusArrived)
		return err

	case entities.AmbulanceStatusCancelled:
		_, err := s.reservations.AdvanceForAmbulanceTx(ctx, tx, ambulance.ID,
			[]entities.ReservationStatus{entities.ReservationStatusReserved, entities.ReservationStatusArrived},
			entities.ReservationStatusCancelled)
		if err != nil {
			return err
		}
		ambulance.ClearAssignment()
		return nil

	case entities.AmbulanceStatusCompleted:
		_, err := s.reservations.AdvanceForAmbulanceTx(ctx, tx, ambulance.ID,
			[]entities.ReservationStatus{entities.ReservationStatusArrived},
			entities.ReservationStatusCompleted)
		if err != nil {
			return err
		}
		ambulance.ClearAll()
		return nil

	case entities.AmbulanceStatusIdle:
		ambulance.ClearAll()
		return nil
	}

	return nil
}

// SimulateBreakdown takes an ambulance out of service for the configured
// window, cancels its reservation and reopens its linked request so another
// unit can pick it up. With an active case and a supplied location the
// request reopens where the ambulance broke down mid-transport; otherwise it
// keeps its original pickup location.
func (s *LifecycleService) SimulateBreakdown(ctx context.Context, id string, location *entities.Location) (*BreakdownResult, error) {
	var result *BreakdownResult

	err := s.client.WithTx(ctx, func(tx *sql.Tx) error {
		ambulance, err := s.ambulances.GetForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		hadActiveCase := ambulance.ActiveCaseID != nil

		if _, err := s.reservations.AdvanceForAmbulanceTx(ctx, tx, ambulance.ID,
			[]entities.ReservationStatus{entities.ReservationStatusReserved, entities.ReservationStatusArrived},
			entities.ReservationStatusCancelled); err != nil {
			return err
		}

		if ambulance.CurrentRequestID != nil {
			request, err := s.requests.GetForUpdate(ctx, tx, *ambulance.CurrentRequestID)
			if err != nil {
				return err
			}
			if hadActiveCase && location != nil {
				request.Location = *location
			}
			request.Status = entities.RequestStatusOpen
			request.AssignedAmbulanceID = nil
			if err := s.requests.SaveStateTx(ctx, tx, request); err != nil {
				return err
			}
		}

		if location != nil {
			ambulance.Location = *location
		}

		until := s.now().Add(s.breakdownFor)
		ambulance.Status = entities.AmbulanceStatusBreakdown
		ambulance.Breakdown = true
		ambulance.BreakdownUntil = &until
		ambulance.ClearAll()

		if err := s.ambulances.SaveStateTx(ctx, tx, ambulance); err != nil {
			return err
		}

		result = &BreakdownResult{BreakdownUntil: until, UpdatedLocation: ambulance.Location}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.BreakdownCount.Add(ctx, 1)
	}

	return result, nil
}

// normalizeCurrent coerces an unrecognized stored status to IDLE so the row
// stays operable, surfacing the repair through a warning and a counter
func (s *LifecycleService) normalizeCurrent(ctx context.Context, ambulance *entities.Ambulance) entities.AmbulanceStatus {
	current, recognized := ambulance.Status.Normalize()
	if !recognized {
		s.logger.Warn().
			Str("ambulance_id", ambulance.ID).
			Str("stored_status", string(ambulance.Status)).
			Msg("unrecognized ambulance status repaired to IDLE")
		if s.metrics != nil {
			s.metrics.StatusRepairCount.Add(ctx, 1)
		}
	}
	return current
}
