package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/entities"
)

// ReservationService defines the reservation operations used by the handler.
type ReservationService interface {
	CreateReservation(ctx context.Context, hospitalID, ambulanceID string, requiresICU bool, caseID *string) (*entities.Reservation, error)
	ActiveReservation(ctx context.Context, ambulanceID string) (*entities.Reservation, error)
	EffectiveCapacities(ctx context.Context) (map[string]*entities.EffectiveCapacity, error)
}

// ReservationHandler handles bed reservation HTTP requests
type ReservationHandler struct {
	reservationService ReservationService
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(reservationService ReservationService) *ReservationHandler {
	return &ReservationHandler{
		reservationService: reservationService,
	}
}

type createReservationRequest struct {
	HospitalID  string  `json:"hospital_id"`
	AmbulanceID string  `json:"ambulance_id"`
	RequiresICU bool    `json:"requires_icu"`
	CaseID      *string `json:"case_id"`
}

// Create handles POST /api/reservations/create
func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReservationRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	reservation, err := h.reservationService.CreateReservation(r.Context(),
		req.HospitalID, req.AmbulanceID, req.RequiresICU, req.CaseID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, reservation)
}

// Active handles GET /api/reservations/active/{ambulanceId}
func (h *ReservationHandler) Active(w http.ResponseWriter, r *http.Request) {
	ambulanceID := r.PathValue("ambulanceId")
	if ambulanceID == "" {
		respondWithError(w, http.StatusBadRequest, "ambulance ID is required")
		return
	}

	reservation, err := h.reservationService.ActiveReservation(r.Context(), ambulanceID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, reservation)
}

// Capacities handles GET /api/dashboard/capacities
func (h *ReservationHandler) Capacities(w http.ResponseWriter, r *http.Request) {
	capacities, err := h.reservationService.EffectiveCapacities(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, capacities)
}
