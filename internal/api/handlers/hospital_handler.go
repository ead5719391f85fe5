package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/entities"
)

// HospitalService defines the hospital operations used by the registry and
// state handlers.
type HospitalService interface {
	Register(ctx context.Context, hospital *entities.Hospital) (*entities.Hospital, error)
	Login(ctx context.Context, name string) (*entities.Hospital, error)
	Get(ctx context.Context, id string) (*entities.Hospital, error)
	PublishState(ctx context.Context, update *entities.StateUpdate) error
	SetOverride(ctx context.Context, hospitalID string, override entities.StateOverride) error
	ResetOverrides()
	SimulationState() (map[string]*entities.HospitalState, map[string]entities.StateOverride)
}

// HospitalHandler handles hospital-related HTTP requests
type HospitalHandler struct {
	hospitalService HospitalService
}

// NewHospitalHandler creates a new hospital handler
func NewHospitalHandler(hospitalService HospitalService) *HospitalHandler {
	return &HospitalHandler{
		hospitalService: hospitalService,
	}
}

type registerHospitalRequest struct {
	Name                    string   `json:"name"`
	Type                    string   `json:"type"`
	Latitude                float64  `json:"latitude"`
	Longitude               float64  `json:"longitude"`
	Address                 string   `json:"address"`
	City                    string   `json:"city"`
	TotalBeds               int      `json:"total_beds"`
	ICUBeds                 int      `json:"icu_beds"`
	Specialties             []string `json:"specialties"`
	EmergencyLevelSupported string   `json:"emergency_level_supported"`
	ContactNumber           string   `json:"contact_number"`
}

// Register handles POST /api/hospitals/register
func (h *HospitalHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerHospitalRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	hospital, err := h.hospitalService.Register(r.Context(), &entities.Hospital{
		Name:                    req.Name,
		Type:                    req.Type,
		Location:                entities.Location{Latitude: req.Latitude, Longitude: req.Longitude},
		Address:                 req.Address,
		City:                    req.City,
		TotalBeds:               req.TotalBeds,
		ICUBeds:                 req.ICUBeds,
		Specialties:             req.Specialties,
		EmergencyLevelSupported: req.EmergencyLevelSupported,
		ContactNumber:           req.ContactNumber,
	})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message":     "Hospital registered successfully",
		"hospital_id": hospital.ID,
	})
}

// Login handles POST /api/hospitals/login. Name-based lookup stands in for
// real credentials on the dashboard.
func (h *HospitalHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSONBody(w, r, &req) {
		return
	}

	hospital, err := h.hospitalService.Login(r.Context(), req.Name)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"hospital_id": hospital.ID,
		"name":        hospital.Name,
	})
}

// Get handles GET /api/hospitals/{id}
func (h *HospitalHandler) Get(w http.ResponseWriter, r *http.Request) {
	hospitalID := r.PathValue("id")
	if hospitalID == "" {
		respondWithError(w, http.StatusBadRequest, "hospital ID is required")
		return
	}

	hospital, err := h.hospitalService.Get(r.Context(), hospitalID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, hospital)
}
