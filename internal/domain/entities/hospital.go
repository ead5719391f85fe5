package entities

import "time"

// Hospital represents a registered hospital in the network
type Hospital struct {
	ID                      string    `json:"hospital_id" db:"hospital_id"`
	Name                    string    `json:"name" db:"name"`
	Type                    string    `json:"type" db:"type"`
	Location                Location  `json:"location" db:"-"`
	Address                 string    `json:"address" db:"address"`
	City                    string    `json:"city" db:"city"`
	TotalBeds               int       `json:"total_beds" db:"total_beds"`
	ICUBeds                 int       `json:"icu_beds" db:"icu_beds"`
	Specialties             []string  `json:"specialties" db:"-"`
	EmergencyLevelSupported string    `json:"emergency_level_supported" db:"emergency_level_supported"`
	ContactNumber           string    `json:"contact_number" db:"contact_number"`
	CreatedAt               time.Time `json:"created_at" db:"created_at"`
}

// Location represents geographical coordinates
type Location struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}
