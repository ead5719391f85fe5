package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/entities"
)

// DispatchService defines the SOS dispatch operations used by the handler.
type DispatchService interface {
	CreateRequest(ctx context.Context, location entities.Location) (*entities.EmergencyRequest, error)
	Get(ctx context.Context, id string) (*entities.RequestDetail, error)
	ListOpen(ctx context.Context, location entities.Location, radiusKm float64) ([]*entities.OpenRequest, error)
	Accept(ctx context.Context, requestID, ambulanceID string) (*entities.EmergencyRequest, error)
	Cancel(ctx context.Context, requestID string) error
}

// SOSHandler handles citizen emergency request HTTP requests
type SOSHandler struct {
	dispatchService DispatchService
}

// NewSOSHandler creates a new SOS handler
func NewSOSHandler(dispatchService DispatchService) *SOSHandler {
	return &SOSHandler{
		dispatchService: dispatchService,
	}
}

type createSOSRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Create handles POST /api/sos/create
func (h *SOSHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSOSRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	request, err := h.dispatchService.CreateRequest(r.Context(),
		entities.Location{Latitude: req.Latitude, Longitude: req.Longitude})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message":    "SOS request created",
		"request_id": request.ID,
		"status":     request.Status,
	})
}

// ListOpen handles GET /api/sos/open?lat=..&lng=..&radius=..
func (h *SOSHandler) ListOpen(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	lat, err := strconv.ParseFloat(query.Get("lat"), 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "lat is required and must be a number")
		return
	}
	lng, err := strconv.ParseFloat(query.Get("lng"), 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "lng is required and must be a number")
		return
	}
	radius, err := strconv.ParseFloat(query.Get("radius"), 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "radius is required and must be a number")
		return
	}

	requests, err := h.dispatchService.ListOpen(r.Context(),
		entities.Location{Latitude: lat, Longitude: lng}, radius)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"requests": requests,
		"count":    len(requests),
	})
}

type acceptSOSRequest struct {
	AmbulanceID string `json:"ambulance_id"`
}

// Accept handles POST /api/sos/{id}/accept
func (h *SOSHandler) Accept(w http.ResponseWriter, r *http.Request) {
	requestID := r.PathValue("id")
	if requestID == "" {
		respondWithError(w, http.StatusBadRequest, "request ID is required")
		return
	}

	var req acceptSOSRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.AmbulanceID == "" {
		respondWithError(w, http.StatusBadRequest, "ambulance_id is required")
		return
	}

	request, err := h.dispatchService.Accept(r.Context(), requestID, req.AmbulanceID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Request accepted",
		"request_id": request.ID,
		"status":     request.Status,
	})
}

// Cancel handles POST /api/sos/{id}/cancel
func (h *SOSHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	requestID := r.PathValue("id")
	if requestID == "" {
		respondWithError(w, http.StatusBadRequest, "request ID is required")
		return
	}

	if err := h.dispatchService.Cancel(r.Context(), requestID); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Request cancelled",
	})
}

// Get handles GET /api/sos/{id}
func (h *SOSHandler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := r.PathValue("id")
	if requestID == "" {
		respondWithError(w, http.StatusBadRequest, "request ID is required")
		return
	}

	detail, err := h.dispatchService.Get(r.Context(), requestID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, detail)
}
