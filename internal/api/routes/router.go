package routes

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/api/handlers"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/api/middleware"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/infrastructure/observability"
)

// Router holds all route handlers

type Router struct {
	mux *http.ServeMux

	hospitalHandler *handlers.HospitalHandler

	stateHandler *handlers.StateHandler

	ambulanceHandler *handlers.AmbulanceHandler

	caseHandler *handlers.CaseHandler

	decisionHandler *handlers.DecisionHandler

	reservationHandler *handlers.ReservationHandler

	sosHandler *handlers.SOSHandler

	metrics *observability.Metrics
	logger  zerolog.Logger
}

// NewRouter creates a new router

func NewRouter(

	hospitalHandler *handlers.HospitalHandler,

	stateHandler *handlers.StateHandler,

	ambulanceHandler *handlers.AmbulanceHandler,

	caseHandler *handlers.CaseHandler,

	decisionHandler *handlers.DecisionHandler,

	reservationHandler *handlers.ReservationHandler,

	sosHandler *handlers.SOSHandler,

	metrics *observability.Metrics,
	logger zerolog.Logger,

) *Router {

	return &Router{

		mux: http.NewServeMux(),

		hospitalHandler: hospitalHandler,

		stateHandler: stateHandler,

		ambulanceHandler: ambulanceHandler,

		caseHandler: caseHandler,

		decisionHandler: decisionHandler,

		reservationHandler: reservationHandler,

		sosHandler: sosHandler,

		metrics: metrics,
		logger:  logger,
	}

}

// SetupRoutes configures all application routes

func (r *Router) SetupRoutes() http.Handler {

	// Health check endpoint

	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {

		w.WriteHeader(http.StatusOK)

		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}

	})

	// Hospital registry endpoints

	r.mux.HandleFunc("POST /api/hospitals/register", r.hospitalHandler.Register)

	r.mux.HandleFunc("POST /api/hospitals/login", r.hospitalHandler.Login)

	r.mux.HandleFunc("GET /api/hospitals/{id}", r.hospitalHandler.Get)

	// Hospital state heartbeat endpoint

	r.mux.HandleFunc("POST /api/hospital/state/update", r.stateHandler.UpdateState)

	// Simulation overlay endpoints

	r.mux.HandleFunc("POST /api/simulation/override", r.stateHandler.SetOverride)
	r.mux.HandleFunc("POST /api/simulation/reset", r.stateHandler.ResetOverrides)
	r.mux.HandleFunc("GET /api/simulation/state", r.stateHandler.SimulationState)

	// Ambulance endpoints

	r.mux.HandleFunc("POST /api/ambulances/register", r.ambulanceHandler.Register)

	r.mux.HandleFunc("POST /api/ambulances/login", r.ambulanceHandler.Login)

	r.mux.HandleFunc("GET /api/ambulances/{id}", r.ambulanceHandler.Get)

	r.mux.HandleFunc("POST /api/ambulances/{id}/status", r.ambulanceHandler.SetStatus)
	r.mux.HandleFunc("POST /api/ambulances/{id}/location", r.ambulanceHandler.UpdateLocation)
	r.mux.HandleFunc("POST /api/ambulances/{id}/breakdown", r.ambulanceHandler.Breakdown)

	// Emergency case endpoints

	r.mux.HandleFunc("POST /api/cases", r.caseHandler.Create)

	r.mux.HandleFunc("GET /api/cases/{id}", r.caseHandler.Get)

	// Hospital ranking endpoint

	r.mux.HandleFunc("POST /api/agent/decide", r.decisionHandler.Decide)

	// Reservation endpoints

	r.mux.HandleFunc("POST /api/reservations/create", r.reservationHandler.Create)

	r.mux.HandleFunc("GET /api/reservations/active/{ambulanceId}", r.reservationHandler.Active)

	r.mux.HandleFunc("GET /api/dashboard/capacities", r.reservationHandler.Capacities)

	// SOS endpoints

	r.mux.HandleFunc("POST /api/sos/create", r.sosHandler.Create)

	r.mux.HandleFunc("GET /api/sos/open", r.sosHandler.ListOpen)

	r.mux.HandleFunc("POST /api/sos/{id}/accept", r.sosHandler.Accept)
	r.mux.HandleFunc("POST /api/sos/{id}/cancel", r.sosHandler.Cancel)
	r.mux.HandleFunc("GET /api/sos/{id}", r.sosHandler.Get)

	// Apply middleware in reverse order (last middleware wraps first)

	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(r.logger)(handler)

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// CORS wraps everything so preflight requests short-circuit early
	handler = middleware.CORSMiddleware(handler)

	return handler
}
