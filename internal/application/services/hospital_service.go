package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/entities"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/providers"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/Emergencydispatchdesign/backend/pkg/errors"
)

// HospitalService handles hospital onboarding, heartbeat publishing and the
// simulation overlay
type HospitalService struct {
	hospitals repositories.HospitalRepository
	publisher providers.StatePublisher
	view      providers.StateView
	now       func() time.Time
}

// NewHospitalService creates a new hospital service
func NewHospitalService(
	hospitals repositories.HospitalRepository,
	publisher providers.StatePublisher,
	view providers.StateView,
) *HospitalService {
	return &HospitalService{
		hospitals: hospitals,
		publisher: publisher,
		view:      view,
		now:       time.Now,
	}
}

// Register creates a new hospital record
func (s *HospitalService) Register(ctx context.Context, hospital *entities.Hospital) (*entities.Hospital, error) {
	if hospital.Name == "" {
		return nil, apperrors.NewValidationError("name is required")
	}
	if hospital.Location.Latitude == 0 && hospital.Location.Longitude == 0 {
		return nil, apperrors.NewValidationError("latitude and longitude are required")
	}

	hospital.ID = uuid.New().String()
	hospital.CreatedAt = s.now()

	if err := s.hospitals.Create(ctx, hospital); err != nil {
		return nil, err
	}

	return hospital, nil
}

// Login resolves a hospital by exact name. Name-based lookup stands in for
// real credentials on the dashboard.
func (s *HospitalService) Login(ctx context.Context, name string) (*entities.Hospital, error) {
	if name == "" {
		return nil, apperrors.NewValidationError("name is required for login")
	}
	return s.hospitals.GetByName(ctx, name)
}

// Get retrieves a hospital by ID
func (s *HospitalService) Get(ctx context.Context, id string) (*entities.Hospital, error) {
	return s.hospitals.GetByID(ctx, id)
}

// PublishState validates the hospital and pushes its heartbeat onto the
// stream. The materialized view picks it up through the consumer group.
func (s *HospitalService) PublishState(ctx context.Context, update *entities.StateUpdate) error {
	if update.HospitalID == "" {
		return apperrors.NewValidationError("hospital_id is required")
	}

	exists, err := s.hospitals.Exists(ctx, update.HospitalID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NewNotFoundError("hospital not found")
	}

	return s.publisher.Publish(ctx, update)
}

// SetOverride installs a what-if overlay on the live view for one hospital
func (s *HospitalService) SetOverride(ctx context.Context, hospitalID string, override entities.StateOverride) error {
	if hospitalID == "" {
		return apperrors.NewValidationError("hospital_id is required")
	}

	exists, err := s.hospitals.Exists(ctx, hospitalID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NewNotFoundError("hospital not found")
	}

	s.view.SetOverride(hospitalID, override)
	return nil
}

// ResetOverrides drops every simulation overlay
func (s *HospitalService) ResetOverrides() {
	s.view.ClearOverrides()
}

// SimulationState returns the live view plus the active overlays
func (s *HospitalService) SimulationState() (map[string]*entities.HospitalState, map[string]entities.StateOverride) {
	return s.view.LiveView(), s.view.Overrides()
}
