package services

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/entities"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/Emergencydispatchdesign/backend/pkg/errors"
)

// DispatchService matches SOS requests to ambulances. Accept and cancel lock
// the request row first and the ambulance row second, consistently, so
// concurrent attempts on the same pair serialize instead of deadlocking.
type DispatchService struct {
	client     TxRunner
	requests   repositories.RequestRepository
	ambulances repositories.AmbulanceRepository
	now        func() time.Time
}

// NewDispatchService creates a new dispatch service
func NewDispatchService(
	client TxRunner,
	requests repositories.RequestRepository,
	ambulances repositories.AmbulanceRepository,
) *DispatchService {
	return &DispatchService{
		client:     client,
		requests:   requests,
		ambulances: ambulances,
		now:        time.Now,
	}
}

// CreateRequest opens a new SOS request at the caller's position
func (s *DispatchService) CreateRequest(ctx context.Context, location entities.Location) (*entities.EmergencyRequest, error) {
	if location.Latitude == 0 && location.Longitude == 0 {
		return nil, apperrors.NewValidationError("latitude and longitude are required")
	}

	now := s.now()
	request := &entities.EmergencyRequest{
		ID:        uuid.New().String(),
		Location:  location,
		Status:    entities.RequestStatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.requests.Create(ctx, request); err != nil {
		return nil, err
	}

	return request, nil
}

// Get returns the request joined with its assigned ambulance's position, for
// caller polling
func (s *DispatchService) Get(ctx context.Context, id string) (*entities.RequestDetail, error) {
	return s.requests.GetDetail(ctx, id)
}

// ListOpen returns OPEN requests within radiusKm of the responder, nearest
// first
func (s *DispatchService) ListOpen(ctx context.Context, location entities.Location, radiusKm float64) ([]*entities.OpenRequest, error) {
	if location.Latitude == 0 && location.Longitude == 0 {
		return nil, apperrors.NewValidationError("lat and lng are required")
	}
	if radiusKm <= 0 {
		return nil, apperrors.NewValidationError("radius must be greater than zero")
	}

	open, err := s.requests.ListOpen(ctx)
	if err != nil {
		return nil, err
	}

	nearby := []*entities.OpenRequest{}
	for _, request := range open {
		dist := haversineKm(
			location.Latitude, location.Longitude,
			request.Location.Latitude, request.Location.Longitude,
		)
		if dist > radiusKm {
			continue
		}
		nearby = append(nearby, &entities.OpenRequest{
			EmergencyRequest: *request,
			DistanceKm:       dist,
		})
	}

	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].DistanceKm < nearby[j].DistanceKm
	})

	return nearby, nil
}

// Accept assigns an OPEN request to an ambulance and moves the ambulance to
// EN_ROUTE_TO_PATIENT. Under concurrent accepts only the first caller wins;
// the rest see Conflict.
func (s *DispatchService) Accept(ctx context.Context, requestID, ambulanceID string) (*entities.EmergencyRequest, error) {
	if requestID == "" || ambulanceID == "" {
		return nil, apperrors.NewValidationError("request_id and ambulance_id are required")
	}

	var accepted *entities.EmergencyRequest
	err := s.client.WithTx(ctx, func(tx *sql.Tx) error {
		request, err := s.requests.GetForUpdate(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if request.Status != entities.RequestStatusOpen {
			return apperrors.NewConflictError("request is no longer open")
		}

		ambulance, err := s.ambulances.GetForUpdate(ctx, tx, ambulanceID)
		if err != nil {
			return err
		}

		current, _ := ambulance.Status.Normalize()
		if !current.CanTransition(entities.AmbulanceStatusEnRouteToPatient) {
			return apperrors.NewInvalidTransitionError(
				"ambulance in status " + string(current) + " cannot accept a request")
		}

		request.Status = entities.RequestStatusAssigned
		request.AssignedAmbulanceID = &ambulance.ID
		if err := s.requests.SaveStateTx(ctx, tx, request); err != nil {
			return err
		}

		ambulance.Status = entities.AmbulanceStatusEnRouteToPatient
		ambulance.CurrentRequestID = &request.ID
		if err := s.ambulances.SaveStateTx(ctx, tx, ambulance); err != nil {
			return err
		}

		accepted = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	return accepted, nil
}

// Cancel closes an OPEN or ASSIGNED request. An assigned ambulance reverts to
// IDLE only while still EN_ROUTE_TO_PATIENT; one that progressed further in
// its lifecycle is left alone.
func (s *DispatchService) Cancel(ctx context.Context, requestID string) error {
	return s.client.WithTx(ctx, func(tx *sql.Tx) error {
		request, err := s.requests.GetForUpdate(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if request.Status != entities.RequestStatusOpen && request.Status != entities.RequestStatusAssigned {
			return apperrors.NewConflictError("request cannot be cancelled in status " + string(request.Status))
		}

		assignedAmbulanceID := request.AssignedAmbulanceID
		request.Status = entities.RequestStatusCancelled
		request.AssignedAmbulanceID = nil
		if err := s.requests.SaveStateTx(ctx, tx, request); err != nil {
			return err
		}

		if assignedAmbulanceID == nil {
			return nil
		}

		ambulance, err := s.ambulances.GetForUpdate(ctx, tx, *assignedAmbulanceID)
		if err != nil {
			return err
		}
		if ambulance.Status != entities.AmbulanceStatusEnRouteToPatient {
			return nil
		}

		ambulance.Status = entities.AmbulanceStatusIdle
		ambulance.CurrentRequestID = nil
		return s.ambulances.SaveStateTx(ctx, tx, ambulance)
	})
}
