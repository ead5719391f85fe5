package entities

import "time"

// RequestStatus is the lifecycle state of an SOS request
type RequestStatus string

const (
	RequestStatusOpen      RequestStatus = "OPEN"
	RequestStatusAssigned  RequestStatus = "ASSIGNED"
	RequestStatusCancelled RequestStatus = "CANCELLED"
)

// EmergencyRequest is an inbound rescue (SOS) request. It moves
// OPEN -> ASSIGNED and terminates as CANCELLED, or is re-opened by an
// ambulance breakdown; it never regresses from CANCELLED.
type EmergencyRequest struct {
	ID                  string        `json:"request_id" db:"request_id"`
	Location            Location      `json:"location" db:"-"`
	Status              RequestStatus `json:"request_status" db:"request_status"`
	AssignedAmbulanceID *string       `json:"assigned_ambulance_id,omitempty" db:"assigned_ambulance_id"`
	CreatedAt           time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at" db:"updated_at"`
}

// OpenRequest is a listing row for open requests near a responder
type OpenRequest struct {
	EmergencyRequest
	DistanceKm float64 `json:"distance_km"`
}

// RequestDetail is the polling view of a request joined with its assigned
// ambulance's position
type RequestDetail struct {
	EmergencyRequest
	AmbulanceLatitude     *float64 `json:"ambulance_lat,omitempty"`
	AmbulanceLongitude    *float64 `json:"ambulance_lng,omitempty"`
	AmbulanceRegistration *string  `json:"registration_number,omitempty"`
}
