package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/entities"
)

// DecisionService defines the ranking operation used by the handler.
type DecisionService interface {
	Decide(ctx context.Context, request *entities.DecisionRequest) (*entities.DecisionResponse, error)
}

// DecisionHandler handles hospital ranking HTTP requests
type DecisionHandler struct {
	decisionService DecisionService
}

// NewDecisionHandler creates a new decision handler
func NewDecisionHandler(decisionService DecisionService) *DecisionHandler {
	return &DecisionHandler{
		decisionService: decisionService,
	}
}

type decideRequest struct {
	RequestID   string                       `json:"request_id"`
	Ambulance   *entities.DecisionAmbulance  `json:"ambulance"`
	Patient     *entities.DecisionPatient    `json:"patient"`
	Constraints entities.DecisionConstraints `json:"constraints"`
	Timestamp   int64                        `json:"timestamp"`
}

// Decide handles POST /api/agent/decide
func (h *DecisionHandler) Decide(w http.ResponseWriter, r *http.Request) {
	var req decideRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if req.RequestID == "" || req.Ambulance == nil || req.Patient == nil {
		respondWithError(w, http.StatusBadRequest, "request_id, ambulance, and patient are required")
		return
	}

	response, err := h.decisionService.Decide(r.Context(), &entities.DecisionRequest{
		RequestID:   req.RequestID,
		Ambulance:   *req.Ambulance,
		Patient:     *req.Patient,
		Constraints: req.Constraints,
		Timestamp:   req.Timestamp,
	})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, response)
}
