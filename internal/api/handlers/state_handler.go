package handlers

import (
	"net/http"

	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/entities"
)

// StateHandler handles hospital state heartbeats and the simulation overlay
type StateHandler struct {
	hospitalService HospitalService
}

// NewStateHandler creates a new state handler
func NewStateHandler(hospitalService HospitalService) *StateHandler {
	return &StateHandler{
		hospitalService: hospitalService,
	}
}

type stateUpdateRequest struct {
	HospitalID         string   `json:"hospital_id"`
	AvailableBeds      *int     `json:"available_beds"`
	AvailableICUBeds   *int     `json:"available_icu_beds"`
	CurrentLoadScore   *float64 `json:"current_load_score"`
	StaffStatus        *string  `json:"staff_status"`
	DoctorsAvailable   *int     `json:"doctors_available"`
	IncomingAmbulances *int     `json:"incoming_ambulances_count"`
	Status             *string  `json:"status"`
	Latitude           *float64 `json:"latitude"`
	Longitude          *float64 `json:"longitude"`
}

// UpdateState handles POST /api/hospital/state/update. Omitted operational
// fields fall back to heartbeat defaults; coordinates are forwarded only when
// the hospital actually reports them so a positionless heartbeat never wipes
// the seeded location.
func (h *StateHandler) UpdateState(w http.ResponseWriter, r *http.Request) {
	var req stateUpdateRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	update := &entities.StateUpdate{
		HospitalID:         req.HospitalID,
		AvailableBeds:      orDefaultInt(req.AvailableBeds, 0),
		AvailableICUBeds:   orDefaultInt(req.AvailableICUBeds, 0),
		CurrentLoadScore:   orDefaultFloat(req.CurrentLoadScore, 0),
		StaffStatus:        orDefaultString(req.StaffStatus, "adequate"),
		DoctorsAvailable:   req.DoctorsAvailable,
		IncomingAmbulances: req.IncomingAmbulances,
		Latitude:           req.Latitude,
		Longitude:          req.Longitude,
	}

	status := entities.OperationalStatusNormal
	if req.Status != nil {
		status = entities.OperationalStatus(*req.Status)
	}
	update.Status = &status

	if err := h.hospitalService.PublishState(r.Context(), update); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "State updated successfully",
	})
}

type simulationOverrideRequest struct {
	HospitalID       string                      `json:"hospital_id"`
	Status           *entities.OperationalStatus `json:"status"`
	AvailableBeds    *int                        `json:"available_beds"`
	AvailableICUBeds *int                        `json:"available_icu_beds"`
	CurrentLoadScore *float64                    `json:"current_load_score"`
}

// SetOverride handles POST /api/simulation/override
func (h *StateHandler) SetOverride(w http.ResponseWriter, r *http.Request) {
	var req simulationOverrideRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	override := entities.StateOverride{
		Status:           req.Status,
		AvailableBeds:    req.AvailableBeds,
		AvailableICUBeds: req.AvailableICUBeds,
		CurrentLoadScore: req.CurrentLoadScore,
	}

	if err := h.hospitalService.SetOverride(r.Context(), req.HospitalID, override); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Simulation override applied",
		"hospital_id": req.HospitalID,
		"override":    override,
	})
}

// ResetOverrides handles POST /api/simulation/reset
func (h *StateHandler) ResetOverrides(w http.ResponseWriter, r *http.Request) {
	h.hospitalService.ResetOverrides()

	respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Simulation reset. Returning to live state.",
	})
}

// SimulationState handles GET /api/simulation/state
func (h *StateHandler) SimulationState(w http.ResponseWriter, r *http.Request) {
	view, overrides := h.hospitalService.SimulationState()

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"hospitals": view,
		"overrides": overrides,
	})
}

func orDefaultInt(v *int, def int) *int {
	if v != nil {
		return v
	}
	return &def
}

func orDefaultFloat(v *float64, def float64) *float64 {
	if v != nil {
		return v
	}
	return &def
}

func orDefaultString(v *string, def string) *string {
	if v != nil {
		return v
	}
	return &def
}
