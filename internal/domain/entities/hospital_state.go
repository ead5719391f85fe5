package entities

import (
	"strconv"
	"time"
)

// OperationalStatus describes a hospital's self-reported operational state
type OperationalStatus string

const (
	OperationalStatusNormal     OperationalStatus = "NORMAL"
	OperationalStatusCrowded    OperationalStatus = "CROWDED"
	OperationalStatusOverloaded OperationalStatus = "OVERLOADED"
	OperationalStatusOffline    OperationalStatus = "OFFLINE"
)

// HospitalState is one entry of the materialized hospital view. It is derived
// from the hospital record plus the state-change stream and is never the
// system of record for capacity.
type HospitalState struct {
	HospitalID         string            `json:"hospital_id"`
	Name               string            `json:"name"`
	Type               string            `json:"type"`
	Specialties        []string          `json:"specialties,omitempty"`
	Latitude           float64           `json:"latitude"`
	Longitude          float64           `json:"longitude"`
	AvailableBeds      int               `json:"available_beds"`
	AvailableICUBeds   int               `json:"available_icu_beds"`
	CurrentLoadScore   float64           `json:"current_load_score"`
	StaffStatus        string            `json:"staff_status,omitempty"`
	DoctorsAvailable   int               `json:"doctors_available"`
	IncomingAmbulances int               `json:"incoming_ambulances_count"`
	Status             OperationalStatus `json:"status"`
	LastHeartbeatAt    time.Time         `json:"last_heartbeat_at,omitempty"`
	LastUpdatedAt      time.Time         `json:"last_updated_at"`
	Simulated          bool              `json:"simulated"`
	Extra              map[string]string `json:"extra,omitempty"`
}

// HasCoordinates reports whether the hospital's position is known. Producers
// that never reported a position leave both fields at zero.
func (s *HospitalState) HasCoordinates() bool {
	return s.Latitude != 0 || s.Longitude != 0
}

// Clone returns a deep copy of the state entry
func (s *HospitalState) Clone() *HospitalState {
	c := *s
	if s.Specialties != nil {
		c.Specialties = append([]string(nil), s.Specialties...)
	}
	if s.Extra != nil {
		c.Extra = make(map[string]string, len(s.Extra))
		for k, v := range s.Extra {
			c.Extra[k] = v
		}
	}
	return &c
}

// StateUpdate is a typed, partial decode of one stream message. Nil fields
// were absent from the message and must not overwrite cached values.
type StateUpdate struct {
	HospitalID         string
	AvailableBeds      *int
	AvailableICUBeds   *int
	CurrentLoadScore   *float64
	StaffStatus        *string
	DoctorsAvailable   *int
	IncomingAmbulances *int
	Status             *OperationalStatus
	Latitude           *float64
	Longitude          *float64
	LastHeartbeatAt    *time.Time
	Extra              map[string]string
}

// DecodeStateUpdate parses the flattened key/value fields of a stream message.
// All values arrive as text; numeric fields that fail to parse are dropped
// rather than failing the whole message. Unknown fields are preserved in
// Extra so later schema additions survive the merge.
func DecodeStateUpdate(values map[string]interface{}) (*StateUpdate, bool) {
	u := &StateUpdate{}

	for key, raw := range values {
		val, ok := raw.(string)
		if !ok {
			continue
		}

		switch key {
		case "hospital_id":
			u.HospitalID = val
		case "available_beds":
			if n, err := strconv.Atoi(val); err == nil {
				u.AvailableBeds = &n
			}
		case "available_icu_beds":
			if n, err := strconv.Atoi(val); err == nil {
				u.AvailableICUBeds = &n
			}
		case "current_load_score":
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				u.CurrentLoadScore = &f
			}
		case "doctors_available":
			if n, err := strconv.Atoi(val); err == nil {
				u.DoctorsAvailable = &n
			}
		case "incoming_ambulances_count":
			if n, err := strconv.Atoi(val); err == nil {
				u.IncomingAmbulances = &n
			}
		case "staff_status":
			u.StaffStatus = &val
		case "status":
			st := OperationalStatus(val)
			u.Status = &st
		case "latitude":
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				u.Latitude = &f
			}
		case "longitude":
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				u.Longitude = &f
			}
		case "last_heartbeat_at":
			if ms, err := strconv.ParseInt(val, 10, 64); err == nil {
				t := time.UnixMilli(ms)
				u.LastHeartbeatAt = &t
			}
		default:
			if u.Extra == nil {
				u.Extra = make(map[string]string)
			}
			u.Extra[key] = val
		}
	}

	return u, u.HospitalID != ""
}

// Apply merges the update into the state entry, field by field. Merges are
// idempotent overwrites, so reprocessing a message after a crash is safe.
func (s *HospitalState) Apply(u *StateUpdate, receivedAt time.Time) {
	if u.AvailableBeds != nil {
		s.AvailableBeds = *u.AvailableBeds
	}
	if u.AvailableICUBeds != nil {
		s.AvailableICUBeds = *u.AvailableICUBeds
	}
	if u.CurrentLoadScore != nil {
		s.CurrentLoadScore = *u.CurrentLoadScore
	}
	if u.StaffStatus != nil {
		s.StaffStatus = *u.StaffStatus
	}
	if u.DoctorsAvailable != nil {
		s.DoctorsAvailable = *u.DoctorsAvailable
	}
	if u.IncomingAmbulances != nil {
		s.IncomingAmbulances = *u.IncomingAmbulances
	}
	if u.Status != nil {
		s.Status = *u.Status
	}
	if u.Latitude != nil {
		s.Latitude = *u.Latitude
	}
	if u.Longitude != nil {
		s.Longitude = *u.Longitude
	}
	if u.LastHeartbeatAt != nil {
		s.LastHeartbeatAt = *u.LastHeartbeatAt
	}
	for k, v := range u.Extra {
		if s.Extra == nil {
			s.Extra = make(map[string]string)
		}
		s.Extra[k] = v
	}
	s.LastUpdatedAt = receivedAt
}

// StateOverride is a transient what-if overlay for a single hospital. It
// lives only in memory and is merged over the live view on read; the
// underlying cache is never mutated.
type StateOverride struct {
	Status           *OperationalStatus `json:"status,omitempty"`
	AvailableBeds    *int               `json:"available_beds,omitempty"`
	AvailableICUBeds *int               `json:"available_icu_beds,omitempty"`
	CurrentLoadScore *float64           `json:"current_load_score,omitempty"`
}

// ApplyTo overlays the override onto a copy of the state entry
func (o *StateOverride) ApplyTo(s *HospitalState) {
	if o.Status != nil {
		s.Status = *o.Status
	}
	if o.AvailableBeds != nil {
		s.AvailableBeds = *o.AvailableBeds
	}
	if o.AvailableICUBeds != nil {
		s.AvailableICUBeds = *o.AvailableICUBeds
	}
	if o.CurrentLoadScore != nil {
		s.CurrentLoadScore = *o.CurrentLoadScore
	}
	s.Simulated = true
}
