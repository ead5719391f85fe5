package entities

import "time"

// TriageCategory is the coarse triage band derived from severity
type TriageCategory string

const (
	TriageCategoryRed    TriageCategory = "RED"
	TriageCategoryYellow TriageCategory = "YELLOW"
	TriageCategoryGreen  TriageCategory = "GREEN"
)

// DeriveTriageCategory maps a 1-5 severity level to a triage band
func DeriveTriageCategory(severityLevel int) TriageCategory {
	switch {
	case severityLevel >= 4:
		return TriageCategoryRed
	case severityLevel >= 2:
		return TriageCategoryYellow
	default:
		return TriageCategoryGreen
	}
}

// EmergencyCase captures the clinical picture of one patient encounter. It is
// created once per encounter and read by the lifecycle to pick the bed type.
type EmergencyCase struct {
	ID                 string         `json:"case_id" db:"case_id"`
	AmbulanceID        string         `json:"ambulance_id" db:"ambulance_id"`
	ConsciousnessLevel string         `json:"consciousness_level" db:"consciousness_level"`
	Bleeding           bool           `json:"bleeding" db:"bleeding"`
	InjuryType         string         `json:"injury_type,omitempty" db:"injury_type"`
	InjuryLocation     string         `json:"injury_location,omitempty" db:"injury_location"`
	MechanismOfInjury  string         `json:"mechanism_of_injury,omitempty" db:"mechanism_of_injury"`
	TriageCategory     TriageCategory `json:"triage_category" db:"triage_category"`
	SeverityLevel      int            `json:"severity_level" db:"severity_level"`
	RequiresICU        bool           `json:"requires_icu" db:"requires_icu"`
	RequiresSpecialty  string         `json:"requires_specialty,omitempty" db:"requires_specialty"`
	CreatedAt          time.Time      `json:"created_at" db:"created_at"`
}
