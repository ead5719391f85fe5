package entities

// Consciousness levels on the AVPU scale
const (
	ConsciousnessAlert        = "ALERT"
	ConsciousnessVerbal       = "VERBAL"
	ConsciousnessPain         = "PAIN"
	ConsciousnessUnresponsive = "UNRESPONSIVE"
)

// DecisionRequest asks the decision engine to rank hospitals for a dispatch.
// It is immutable per call.
type DecisionRequest struct {
	RequestID   string              `json:"request_id"`
	Ambulance   DecisionAmbulance   `json:"ambulance"`
	Patient     DecisionPatient     `json:"patient"`
	Constraints DecisionConstraints `json:"constraints"`
	Timestamp   int64               `json:"timestamp,omitempty"`
}

// DecisionAmbulance identifies the requesting ambulance and its position
type DecisionAmbulance struct {
	AmbulanceID string   `json:"ambulance_id"`
	Location    Location `json:"location"`
}

// DecisionPatient carries the clinical attributes that drive scoring
type DecisionPatient struct {
	ConsciousnessLevel string `json:"consciousness_level,omitempty"`
	Bleeding           bool   `json:"bleeding"`
	InjuryLocation     string `json:"injury_location,omitempty"`
	MechanismOfInjury  string `json:"mechanism_of_injury,omitempty"`
	SeverityLevel      int    `json:"severity_level,omitempty"`
	RequiresICU        bool   `json:"requires_icu"`
	RequiresSpecialty  string `json:"requires_specialty,omitempty"`
}

// DecisionConstraints bounds the candidate set
type DecisionConstraints struct {
	MaxDistanceKm float64 `json:"max_distance_km,omitempty"`
	MaxResults    int     `json:"max_results,omitempty"`
}

// ScoringWeights is the weight table selected for a request
type ScoringWeights struct {
	Distance  float64 `json:"distance"`
	Specialty float64 `json:"specialty"`
	Capacity  float64 `json:"capacity"`
}

// CapacitySnapshot is the view-state the engine scored a candidate against
type CapacitySnapshot struct {
	AvailableBeds    int               `json:"available_beds"`
	AvailableICUBeds int               `json:"available_icu_beds"`
	Status           OperationalStatus `json:"status"`
	CurrentLoadScore float64           `json:"current_load_score"`
}

// RankedHospital is one scored candidate; ephemeral, never persisted
type RankedHospital struct {
	HospitalID string           `json:"hospital_id"`
	Name       string           `json:"name"`
	Rank       int              `json:"rank"`
	Score      float64          `json:"score"`
	DistanceKm float64          `json:"distance_km"`
	ETAMinutes int              `json:"eta_minutes"`
	Reasons    []string         `json:"reasons"`
	Snapshot   CapacitySnapshot `json:"snapshot"`
}

// DecisionExplanation names the strategy and bonuses applied to a ranking
type DecisionExplanation struct {
	Strategy             string         `json:"strategy"`
	BleedingMode         bool           `json:"bleeding_mode"`
	Consciousness        string         `json:"consciousness"`
	SeverityLevel        int            `json:"severity_level"`
	SeverityBonusApplied int            `json:"severity_bonus_applied"`
	RankingWeightsUsed   ScoringWeights `json:"ranking_weights_used"`
	ICUExtraWeight       string         `json:"icu_extra_weight,omitempty"`
}

// DecisionResponse is the ranked recommendation list for a request
type DecisionResponse struct {
	RequestID           string              `json:"request_id"`
	GeneratedAt         int64               `json:"generated_at"`
	Recommendations     []RankedHospital    `json:"recommendations"`
	DecisionExplanation DecisionExplanation `json:"decision_explanation"`
}
