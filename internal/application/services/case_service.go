package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/entities"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/Emergencydispatchdesign/backend/pkg/errors"
)

// CaseService records the clinical picture of a patient encounter
type CaseService struct {
	cases repositories.CaseRepository
	now   func() time.Time
}

// NewCaseService creates a new case service
func NewCaseService(cases repositories.CaseRepository) *CaseService {
	return &CaseService{
		cases: cases,
		now:   time.Now,
	}
}

// Create stores a new case. Consciousness defaults to ALERT and severity to
// 3; the triage band derives from severity unless supplied explicitly.
func (s *CaseService) Create(ctx context.Context, emergencyCase *entities.EmergencyCase) (*entities.EmergencyCase, error) {
	if emergencyCase.AmbulanceID == "" {
		return nil, apperrors.NewValidationError("ambulance_id is required")
	}

	if emergencyCase.ConsciousnessLevel == "" {
		emergencyCase.ConsciousnessLevel = entities.ConsciousnessAlert
	} else {
		emergencyCase.ConsciousnessLevel = strings.ToUpper(emergencyCase.ConsciousnessLevel)
	}
	if emergencyCase.SeverityLevel == 0 {
		emergencyCase.SeverityLevel = 3
	}
	if emergencyCase.TriageCategory == "" {
		emergencyCase.TriageCategory = entities.DeriveTriageCategory(emergencyCase.SeverityLevel)
	}

	emergencyCase.ID = uuid.New().String()
	emergencyCase.CreatedAt = s.now()

	if err := s.cases.Create(ctx, emergencyCase); err != nil {
		return nil, err
	}

	return emergencyCase, nil
}

// Get retrieves a case by ID
func (s *CaseService) Get(ctx context.Context, id string) (*entities.EmergencyCase, error) {
	return s.cases.GetByID(ctx, id)
}
