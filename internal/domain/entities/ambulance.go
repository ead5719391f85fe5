package entities

import "time"

// AmbulanceStatus is the operational lifecycle state of an ambulance
type AmbulanceStatus string

const (
	AmbulanceStatusIdle             AmbulanceStatus = "IDLE"
	AmbulanceStatusCaseCreated      AmbulanceStatus = "CASE_CREATED"
	AmbulanceStatusHospitalSelected AmbulanceStatus = "HOSPITAL_SELECTED"
	AmbulanceStatusEnRoute          AmbulanceStatus = "EN_ROUTE"
	AmbulanceStatusArrived          AmbulanceStatus = "ARRIVED"
	AmbulanceStatusPatientAdmitted  AmbulanceStatus = "PATIENT_ADMITTED"
	AmbulanceStatusCompleted        AmbulanceStatus = "COMPLETED"
	AmbulanceStatusCancelled        AmbulanceStatus = "CANCELLED"
	AmbulanceStatusEnRouteToPatient AmbulanceStatus = "EN_ROUTE_TO_PATIENT"
	AmbulanceStatusAtPatient        AmbulanceStatus = "AT_PATIENT"
	AmbulanceStatusBreakdown        AmbulanceStatus = "BREAKDOWN"

	// AmbulanceStatusOnCall is a legacy alias still present in old rows; it
	// transitions like IDLE.
	AmbulanceStatusOnCall AmbulanceStatus = "ON_CALL"
)

// allowedTransitions is the fixed transition table enforced on every
// status-change request. A transition to the current status is always
// permitted as a no-op and is not listed here.
var allowedTransitions = map[AmbulanceStatus][]AmbulanceStatus{
	AmbulanceStatusIdle:             {AmbulanceStatusCaseCreated, AmbulanceStatusCancelled, AmbulanceStatusEnRouteToPatient, AmbulanceStatusBreakdown},
	AmbulanceStatusCaseCreated:      {AmbulanceStatusHospitalSelected, AmbulanceStatusIdle, AmbulanceStatusCancelled},
	AmbulanceStatusHospitalSelected: {AmbulanceStatusEnRoute, AmbulanceStatusCancelled},
	AmbulanceStatusEnRoute:          {AmbulanceStatusArrived, AmbulanceStatusCancelled},
	AmbulanceStatusArrived:          {AmbulanceStatusPatientAdmitted, AmbulanceStatusCancelled},
	AmbulanceStatusPatientAdmitted:  {AmbulanceStatusCompleted, AmbulanceStatusCancelled},
	AmbulanceStatusCompleted:        {AmbulanceStatusIdle},
	AmbulanceStatusCancelled:        {AmbulanceStatusIdle},
	AmbulanceStatusEnRouteToPatient: {AmbulanceStatusAtPatient, AmbulanceStatusBreakdown, AmbulanceStatusIdle},
	AmbulanceStatusAtPatient:        {AmbulanceStatusCaseCreated},
	AmbulanceStatusBreakdown:        {AmbulanceStatusIdle},
}

// Normalize maps legacy aliases to their canonical status and reports whether
// the status was recognized at all. Unrecognized statuses normalize to IDLE
// so a corrupted row stays operable; callers should surface the repair.
func (s AmbulanceStatus) Normalize() (AmbulanceStatus, bool) {
	if s == AmbulanceStatusOnCall {
		return AmbulanceStatusIdle, true
	}
	if _, ok := allowedTransitions[s]; ok {
		return s, true
	}
	return AmbulanceStatusIdle, false
}

// CanTransition reports whether the state machine allows moving from s to
// target. Same-status transitions are always allowed.
func (s AmbulanceStatus) CanTransition(target AmbulanceStatus) bool {
	if s == target {
		return true
	}
	for _, allowed := range allowedTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Ambulance represents an ambulance unit. Its status is mutated only through
// validated lifecycle transitions.
type Ambulance struct {
	ID                 string          `json:"ambulance_id" db:"ambulance_id"`
	RegistrationNumber string          `json:"registration_number" db:"registration_number"`
	Organization       string          `json:"organization,omitempty" db:"organization"`
	Username           string          `json:"username,omitempty" db:"username"`
	Status             AmbulanceStatus `json:"status" db:"status"`
	AssignedHospitalID *string         `json:"assigned_hospital_id,omitempty" db:"assigned_hospital_id"`
	ActiveCaseID       *string         `json:"active_case_id,omitempty" db:"active_case_id"`
	CurrentRequestID   *string         `json:"current_request_id,omitempty" db:"current_request_id"`
	Breakdown          bool            `json:"breakdown" db:"breakdown"`
	BreakdownUntil     *time.Time      `json:"breakdown_until,omitempty" db:"breakdown_until"`
	Location           Location        `json:"location" db:"-"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at" db:"updated_at"`
}

// BreakdownElapsed reports whether the breakdown window has passed
func (a *Ambulance) BreakdownElapsed(now time.Time) bool {
	return a.Breakdown && a.BreakdownUntil != nil && !now.Before(*a.BreakdownUntil)
}

// ClearAssignment drops the hospital and case links
func (a *Ambulance) ClearAssignment() {
	a.AssignedHospitalID = nil
	a.ActiveCaseID = nil
}

// ClearAll drops hospital, case and request links
func (a *Ambulance) ClearAll() {
	a.AssignedHospitalID = nil
	a.ActiveCaseID = nil
	a.CurrentRequestID = nil
}
