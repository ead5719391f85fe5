package entities

import "time"

// BedType is the class of bed held by a reservation. It is fixed at creation
// from the case's ICU requirement and never changes.
type BedType string

const (
	BedTypeNormal BedType = "NORMAL"
	BedTypeICU    BedType = "ICU"
)

// ReservationStatus is the lifecycle state of a bed reservation
type ReservationStatus string

const (
	ReservationStatusReserved  ReservationStatus = "RESERVED"
	ReservationStatusArrived   ReservationStatus = "ARRIVED"
	ReservationStatusCompleted ReservationStatus = "COMPLETED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

// Reservation holds one bed at a hospital for one ambulance. An ambulance has
// at most one reservation in RESERVED or ARRIVED at any time.
type Reservation struct {
	ID          string            `json:"reservation_id" db:"reservation_id"`
	HospitalID  string            `json:"hospital_id" db:"hospital_id"`
	AmbulanceID string            `json:"ambulance_id" db:"ambulance_id"`
	CaseID      *string           `json:"case_id,omitempty" db:"case_id"`
	BedType     BedType           `json:"bed_type" db:"bed_type"`
	Status      ReservationStatus `json:"reservation_status" db:"reservation_status"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
	ExpiresAt   time.Time         `json:"expires_at" db:"expires_at"`
}

// EffectiveCapacity is a hospital's bed availability after subtracting active
// reservations, floored at zero.
type EffectiveCapacity struct {
	HospitalID       string `json:"hospital_id"`
	TotalBeds        int    `json:"total_beds"`
	ICUBeds          int    `json:"icu_beds"`
	UsedBeds         int    `json:"used_beds"`
	UsedICUBeds      int    `json:"used_icu_beds"`
	AvailableBeds    int    `json:"available_beds"`
	AvailableICUBeds int    `json:"available_icu_beds"`
}
