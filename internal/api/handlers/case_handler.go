package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/entities"
)

// CaseService defines the emergency case operations used by the handler.
type CaseService interface {
	Create(ctx context.Context, emergencyCase *entities.EmergencyCase) (*entities.EmergencyCase, error)
	Get(ctx context.Context, id string) (*entities.EmergencyCase, error)
}

// CaseHandler handles emergency case HTTP requests
type CaseHandler struct {
	caseService CaseService
}

// NewCaseHandler creates a new case handler
func NewCaseHandler(caseService CaseService) *CaseHandler {
	return &CaseHandler{
		caseService: caseService,
	}
}

type createCaseRequest struct {
	AmbulanceID        string `json:"ambulance_id"`
	ConsciousnessLevel string `json:"consciousness_level"`
	Bleeding           bool   `json:"bleeding"`
	InjuryType         string `json:"injury_type"`
	InjuryLocation     string `json:"injury_location"`
	MechanismOfInjury  string `json:"mechanism_of_injury"`
	TriageCategory     string `json:"triage_category"`
	SeverityLevel      int    `json:"severity_level"`
	RequiresICU        bool   `json:"requires_icu"`
	RequiresSpecialty  string `json:"requires_specialty"`
}

// Create handles POST /api/cases
func (h *CaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCaseRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	created, err := h.caseService.Create(r.Context(), &entities.EmergencyCase{
		AmbulanceID:        req.AmbulanceID,
		ConsciousnessLevel: req.ConsciousnessLevel,
		Bleeding:           req.Bleeding,
		InjuryType:         req.InjuryType,
		InjuryLocation:     req.InjuryLocation,
		MechanismOfInjury:  req.MechanismOfInjury,
		TriageCategory:     entities.TriageCategory(req.TriageCategory),
		SeverityLevel:      req.SeverityLevel,
		RequiresICU:        req.RequiresICU,
		RequiresSpecialty:  req.RequiresSpecialty,
	})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{
		"message": "Case created successfully",
		"case_id": created.ID,
	})
}

// Get handles GET /api/cases/{id}
func (h *CaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	caseID := r.PathValue("id")
	if caseID == "" {
		respondWithError(w, http.StatusBadRequest, "case ID is required")
		return
	}

	emergencyCase, err := h.caseService.Get(r.Context(), caseID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, emergencyCase)
}
