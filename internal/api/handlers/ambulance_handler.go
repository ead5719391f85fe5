package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/application/services"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/entities"
)

// LifecycleService defines the ambulance lifecycle operations used by the handler.
type LifecycleService interface {
	Register(ctx context.Context, registrationNumber, organization, username, password string, location entities.Location) (*entities.Ambulance, error)
	Login(ctx context.Context, username, password string) (*entities.Ambulance, error)
	Get(ctx context.Context, id string) (*entities.Ambulance, error)
	UpdateLocation(ctx context.Context, id string, location entities.Location) error
	SetStatus(ctx context.Context, id string, target entities.AmbulanceStatus, assignedHospitalID, activeCaseID *string) (*services.StatusChange, error)
	SimulateBreakdown(ctx context.Context, id string, location *entities.Location) (*services.BreakdownResult, error)
}

// AmbulanceHandler handles ambulance-related HTTP requests
type AmbulanceHandler struct {
	lifecycleService LifecycleService
}

// NewAmbulanceHandler creates a new ambulance handler
func NewAmbulanceHandler(lifecycleService LifecycleService) *AmbulanceHandler {
	return &AmbulanceHandler{
		lifecycleService: lifecycleService,
	}
}

type registerAmbulanceRequest struct {
	RegistrationNumber string  `json:"registration_number"`
	Organization       string  `json:"organization"`
	Username           string  `json:"username"`
	Password           string  `json:"password"`
	Latitude           float64 `json:"latitude"`
	Longitude          float64 `json:"longitude"`
}

// Register handles POST /api/ambulances/register
func (h *AmbulanceHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerAmbulanceRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if req.Username == "" || req.Password == "" {
		respondWithError(w, http.StatusBadRequest, "registration_number, username, and password are required")
		return
	}

	ambulance, err := h.lifecycleService.Register(r.Context(),
		req.RegistrationNumber, req.Organization, req.Username, req.Password,
		entities.Location{Latitude: req.Latitude, Longitude: req.Longitude})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message":      "Ambulance registered successfully",
		"ambulance_id": ambulance.ID,
	})
}

// Login handles POST /api/ambulances/login
func (h *AmbulanceHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decodeJSONBody(w, r, &req) {
		return
	}

	ambulance, err := h.lifecycleService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, ambulance)
}

// Get handles GET /api/ambulances/{id}
func (h *AmbulanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	ambulanceID := r.PathValue("id")
	if ambulanceID == "" {
		respondWithError(w, http.StatusBadRequest, "ambulance ID is required")
		return
	}

	ambulance, err := h.lifecycleService.Get(r.Context(), ambulanceID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, ambulance)
}

type setStatusRequest struct {
	Status             string  `json:"status"`
	AssignedHospitalID *string `json:"assigned_hospital_id"`
	ActiveCaseID       *string `json:"active_case_id"`
}

// SetStatus handles POST /api/ambulances/{id}/status
func (h *AmbulanceHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	ambulanceID := r.PathValue("id")
	if ambulanceID == "" {
		respondWithError(w, http.StatusBadRequest, "ambulance ID is required")
		return
	}

	var req setStatusRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Status == "" {
		respondWithError(w, http.StatusBadRequest, "status is required")
		return
	}

	change, err := h.lifecycleService.SetStatus(r.Context(), ambulanceID,
		entities.AmbulanceStatus(req.Status), req.AssignedHospitalID, req.ActiveCaseID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, change)
}

type breakdownRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Breakdown handles POST /api/ambulances/{id}/breakdown
func (h *AmbulanceHandler) Breakdown(w http.ResponseWriter, r *http.Request) {
	ambulanceID := r.PathValue("id")
	if ambulanceID == "" {
		respondWithError(w, http.StatusBadRequest, "ambulance ID is required")
		return
	}

	var req breakdownRequest
	if r.ContentLength > 0 && !decodeJSONBody(w, r, &req) {
		return
	}

	var location *entities.Location
	if req.Latitude != nil && req.Longitude != nil {
		location = &entities.Location{Latitude: *req.Latitude, Longitude: *req.Longitude}
	}

	result, err := h.lifecycleService.SimulateBreakdown(r.Context(), ambulanceID, location)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

type updateLocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// UpdateLocation handles POST /api/ambulances/{id}/location
func (h *AmbulanceHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	ambulanceID := r.PathValue("id")
	if ambulanceID == "" {
		respondWithError(w, http.StatusBadRequest, "ambulance ID is required")
		return
	}

	var req updateLocationRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	err := h.lifecycleService.UpdateLocation(r.Context(), ambulanceID,
		entities.Location{Latitude: req.Latitude, Longitude: req.Longitude})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Location updated",
	})
}
