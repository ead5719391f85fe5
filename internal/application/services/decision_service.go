package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/entities"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/providers"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/Emergencydispatchdesign/backend/pkg/errors"
)

// Scoring weight tables selected by the patient's bleeding flag. A bleeding
// patient ranks capability and capacity over proximity; a stable patient
// ranks proximity first.
var (
	bleedingWeights = entities.ScoringWeights{Distance: 0.25, Specialty: 0.45, Capacity: 0.30}
	stableWeights   = entities.ScoringWeights{Distance: 0.60, Specialty: 0.10, Capacity: 0.30}
)

// traumaKeywords mark hospital types with trauma/surgery capability
var traumaKeywords = []string{"trauma", "surgery", "surgical", "emergency", "multi", "tertiary"}

// DecisionService ranks hospitals for a dispatch from the materialized state
// view. Scoring is pure and deterministic: identical request and view produce
// identical output.
type DecisionService struct {
	view       providers.StateView
	maxResults int
	metrics    *observability.Metrics
	now        func() time.Time
}

// NewDecisionService creates a new decision service
func NewDecisionService(view providers.StateView, maxResults int, metrics *observability.Metrics) *DecisionService {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &DecisionService{
		view:       view,
		maxResults: maxResults,
		metrics:    metrics,
		now:        time.Now,
	}
}

// Decide scores every hospital in the current view against the request and
// returns the top candidates, best first
func (s *DecisionService) Decide(ctx context.Context, request *entities.DecisionRequest) (*entities.DecisionResponse, error) {
	if request.RequestID == "" {
		return nil, apperrors.NewValidationError("request_id is required")
	}
	if request.Ambulance.AmbulanceID == "" {
		return nil, apperrors.NewValidationError("ambulance.ambulance_id is required")
	}

	started := s.now()
	response := s.rank(request, s.view.LiveView())

	if s.metrics != nil {
		s.metrics.DecisionDuration.Record(ctx, float64(s.now().Sub(started).Microseconds())/1000.0)
	}

	return response, nil
}

func (s *DecisionService) rank(request *entities.DecisionRequest, view map[string]*entities.HospitalState) *entities.DecisionResponse {
	patient := request.Patient

	consciousness := strings.ToUpper(patient.ConsciousnessLevel)
	if consciousness == "" {
		consciousness = entities.ConsciousnessAlert
	}
	severity := patient.SeverityLevel
	if severity == 0 {
		severity = 3
	}

	weights := stableWeights
	if patient.Bleeding {
		weights = bleedingWeights
	}

	// UNRESPONSIVE escalates the effective ICU need even when the flag is not
	// set; PAIN feeds the severity component instead.
	icuExtraWeight := 0
	if consciousness == entities.ConsciousnessUnresponsive {
		icuExtraWeight = 20
	}
	consciousnessBonus := 0
	if consciousness == entities.ConsciousnessPain {
		consciousnessBonus = 10
	}
	severityBonus := (severity-1)*3 + consciousnessBonus
	requiresICU := patient.RequiresICU || consciousness == entities.ConsciousnessUnresponsive

	var candidates []entities.RankedHospital
	for hospitalID, state := range view {
		if !state.HasCoordinates() {
			continue
		}

		dist := haversineKm(
			request.Ambulance.Location.Latitude, request.Ambulance.Location.Longitude,
			state.Latitude, state.Longitude,
		)
		if request.Constraints.MaxDistanceKm > 0 && dist > request.Constraints.MaxDistanceKm {
			continue
		}

		score := 0.0
		var reasons []string

		availScore := 0.0
		if requiresICU {
			if state.AvailableICUBeds > 0 {
				availScore = float64(40 + icuExtraWeight)
				reasons = append(reasons, "ICU Available")
			} else {
				availScore = -50
				reasons = append(reasons, "No ICU")
			}
		} else if state.AvailableBeds > 0 {
			availScore = 20
			reasons = append(reasons, "Beds Available")
		}
		score += availScore * weights.Capacity

		// Load counts at full weight, inverse of the reported score
		switch {
		case state.CurrentLoadScore < 30:
			score += 30
			reasons = append(reasons, "Low Load")
		case state.CurrentLoadScore < 70:
			score += 15
			reasons = append(reasons, "Moderate Load")
		default:
			reasons = append(reasons, "High Load")
		}

		distScore := 0.0
		if dist < 5 {
			distScore = 20
			reasons = append(reasons, "Very Close (<5km)")
		} else if dist < 10 {
			distScore = 10
			reasons = append(reasons, "Close (<10km)")
		}
		// 0.20 is the scoring baseline the distance weight normalizes against
		score += distScore * (weights.Distance / 0.20)

		if patient.RequiresSpecialty != "" && matchesSpecialty(state, patient.RequiresSpecialty) {
			score += 10 * (weights.Specialty / 0.10)
			reasons = append(reasons, fmt.Sprintf("Specialty Match: %s", patient.RequiresSpecialty))
		}

		if patient.Bleeding && hasTraumaCapability(state.Type) {
			score += 15
			reasons = append(reasons, "Trauma/Surgery Capable")
		}

		if state.DoctorsAvailable > 0 {
			score += float64(min(state.DoctorsAvailable, 10))
			reasons = append(reasons, fmt.Sprintf("Doctors On-Duty: %d", state.DoctorsAvailable))
		}

		score += float64(severityBonus)

		candidates = append(candidates, entities.RankedHospital{
			HospitalID: hospitalID,
			Name:       state.Name,
			Score:      math.Round(score*10) / 10,
			DistanceKm: math.Round(dist*100) / 100,
			ETAMinutes: int(math.Ceil(dist * 2)),
			Reasons:    reasons,
			Snapshot: entities.CapacitySnapshot{
				AvailableBeds:    state.AvailableBeds,
				AvailableICUBeds: state.AvailableICUBeds,
				Status:           state.Status,
				CurrentLoadScore: state.CurrentLoadScore,
			},
		})
	}

	// Score descending; equal scores break by ascending hospital id so the
	// ranking is stable across map iteration orders
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].HospitalID < candidates[j].HospitalID
	})

	maxResults := request.Constraints.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}
	if len(candidates) > maxResults {
		candidates = candidates[:maxResults]
	}
	for i := range candidates {
		candidates[i].Rank = i + 1
	}

	strategy := "distance-weighted"
	if patient.Bleeding {
		strategy = "specialty-weighted"
	}
	icuExtra := ""
	if icuExtraWeight > 0 {
		icuExtra = fmt.Sprintf("+%d (UNRESPONSIVE patient)", icuExtraWeight)
	}

	return &entities.DecisionResponse{
		RequestID:       request.RequestID,
		GeneratedAt:     s.now().UnixMilli(),
		Recommendations: candidates,
		DecisionExplanation: entities.DecisionExplanation{
			Strategy:             strategy,
			BleedingMode:         patient.Bleeding,
			Consciousness:        consciousness,
			SeverityLevel:        severity,
			SeverityBonusApplied: severityBonus,
			RankingWeightsUsed:   weights,
			ICUExtraWeight:       icuExtra,
		},
	}
}

func matchesSpecialty(state *entities.HospitalState, required string) bool {
	needle := strings.ToLower(required)
	if strings.Contains(strings.ToLower(state.Type), needle) {
		return true
	}
	for _, specialty := range state.Specialties {
		if strings.Contains(strings.ToLower(specialty), needle) {
			return true
		}
	}
	return false
}

func hasTraumaCapability(hospitalType string) bool {
	t := strings.ToLower(hospitalType)
	for _, keyword := range traumaKeywords {
		if strings.Contains(t, keyword) {
			return true
		}
	}
	return false
}

// haversineKm returns the great-circle distance between two points in km
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371

	dLat := (lat2 - lat1) * (math.Pi / 180)
	dLon := (lon2 - lon1) * (math.Pi / 180)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*(math.Pi/180))*math.Cos(lat2*(math.Pi/180))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}
