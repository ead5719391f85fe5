package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/application/services"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/entities"
	apperrors "github.com/zatekoja/Emergencydispatchdesign/backend/pkg/errors"
)

type stubView struct {
	states map[string]*entities.HospitalState
}

func (v *stubView) LiveView() map[string]*entities.HospitalState { return v.states }
func (v *stubView) SetOverride(string, entities.StateOverride)   {}
func (v *stubView) ClearOverrides()                              {}
func (v *stubView) Overrides() map[string]entities.StateOverride { return nil }

func decisionRequest() *entities.DecisionRequest {
	return &entities.DecisionRequest{
		RequestID: "req-1",
		Ambulance: entities.DecisionAmbulance{
			AmbulanceID: "amb-1",
			Location:    entities.Location{Latitude: 10, Longitude: 10},
		},
	}
}

func TestDecide_ValidatesRequiredFields(t *testing.T) {
	svc := services.NewDecisionService(&stubView{}, 5, nil)

	_, err := svc.Decide(context.Background(), &entities.DecisionRequest{})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	_, err = svc.Decide(context.Background(), &entities.DecisionRequest{RequestID: "req-1"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestDecide_ScoresStablePatientByProximity(t *testing.T) {
	view := &stubView{states: map[string]*entities.HospitalState{
		"hosp-1": {
			HospitalID:    "hosp-1",
			Name:          "Central",
			Latitude:      10,
			Longitude:     10,
			AvailableBeds: 10,
		},
	}}
	svc := services.NewDecisionService(view, 5, nil)

	response, err := svc.Decide(context.Background(), decisionRequest())
	require.NoError(t, err)
	require.Len(t, response.Recommendations, 1)

	top := response.Recommendations[0]
	// beds 20*0.30 + low load 30 + very close 20*(0.60/0.20) + severity (3-1)*3
	assert.Equal(t, 102.0, top.Score)
	assert.Equal(t, 1, top.Rank)
	assert.Equal(t, 0.0, top.DistanceKm)
	assert.Equal(t, 0, top.ETAMinutes)
	assert.Contains(t, top.Reasons, "Beds Available")
	assert.Contains(t, top.Reasons, "Low Load")
	assert.Contains(t, top.Reasons, "Very Close (<5km)")
	assert.Equal(t, "distance-weighted", response.DecisionExplanation.Strategy)
	assert.Equal(t, 6, response.DecisionExplanation.SeverityBonusApplied)
}

func TestDecide_ICURequiredRanksICUCapacityHigher(t *testing.T) {
	view := &stubView{states: map[string]*entities.HospitalState{
		"hosp-icu": {
			HospitalID:       "hosp-icu",
			Latitude:         10.01,
			Longitude:        10,
			AvailableBeds:    5,
			AvailableICUBeds: 1,
		},
		"hosp-full": {
			HospitalID:       "hosp-full",
			Latitude:         10.01,
			Longitude:        10,
			AvailableBeds:    5,
			AvailableICUBeds: 0,
		},
	}}
	svc := services.NewDecisionService(view, 5, nil)

	request := decisionRequest()
	request.Patient.Bleeding = true
	request.Patient.RequiresICU = true

	response, err := svc.Decide(context.Background(), request)
	require.NoError(t, err)
	require.Len(t, response.Recommendations, 2)

	assert.Equal(t, "hosp-icu", response.Recommendations[0].HospitalID)
	assert.Greater(t, response.Recommendations[0].Score, response.Recommendations[1].Score)
	assert.Contains(t, response.Recommendations[0].Reasons, "ICU Available")
	assert.Contains(t, response.Recommendations[1].Reasons, "No ICU")
	assert.Equal(t, "specialty-weighted", response.DecisionExplanation.Strategy)
}

func TestDecide_MaxDistanceFiltersCandidates(t *testing.T) {
	view := &stubView{states: map[string]*entities.HospitalState{
		"hosp-near": {HospitalID: "hosp-near", Latitude: 10.01, Longitude: 10, AvailableBeds: 5},
		"hosp-far":  {HospitalID: "hosp-far", Latitude: 11, Longitude: 10, AvailableBeds: 5},
	}}
	svc := services.NewDecisionService(view, 5, nil)

	request := decisionRequest()
	request.Constraints.MaxDistanceKm = 50

	response, err := svc.Decide(context.Background(), request)
	require.NoError(t, err)
	require.Len(t, response.Recommendations, 1)
	assert.Equal(t, "hosp-near", response.Recommendations[0].HospitalID)
}

func TestDecide_SkipsHospitalsWithoutCoordinates(t *testing.T) {
	view := &stubView{states: map[string]*entities.HospitalState{
		"hosp-nocoords": {HospitalID: "hosp-nocoords", AvailableBeds: 5},
	}}
	svc := services.NewDecisionService(view, 5, nil)

	response, err := svc.Decide(context.Background(), decisionRequest())
	require.NoError(t, err)
	assert.Empty(t, response.Recommendations)
}

func TestDecide_EqualScoresBreakTiesByHospitalID(t *testing.T) {
	same := func(id string) *entities.HospitalState {
		return &entities.HospitalState{HospitalID: id, Latitude: 10, Longitude: 10, AvailableBeds: 5}
	}
	view := &stubView{states: map[string]*entities.HospitalState{
		"hosp-b": same("hosp-b"),
		"hosp-a": same("hosp-a"),
		"hosp-c": same("hosp-c"),
	}}
	svc := services.NewDecisionService(view, 5, nil)

	response, err := svc.Decide(context.Background(), decisionRequest())
	require.NoError(t, err)
	require.Len(t, response.Recommendations, 3)
	assert.Equal(t, "hosp-a", response.Recommendations[0].HospitalID)
	assert.Equal(t, "hosp-b", response.Recommendations[1].HospitalID)
	assert.Equal(t, "hosp-c", response.Recommendations[2].HospitalID)
}

func TestDecide_Deterministic(t *testing.T) {
	view := &stubView{states: map[string]*entities.HospitalState{
		"hosp-1": {HospitalID: "hosp-1", Latitude: 10.02, Longitude: 10, AvailableBeds: 3, DoctorsAvailable: 4},
		"hosp-2": {HospitalID: "hosp-2", Latitude: 10.05, Longitude: 10.05, AvailableBeds: 8, CurrentLoadScore: 45},
		"hosp-3": {HospitalID: "hosp-3", Latitude: 9.9, Longitude: 10, AvailableICUBeds: 2, Type: "Trauma Center"},
	}}
	svc := services.NewDecisionService(view, 5, nil)

	request := decisionRequest()
	request.Patient.Bleeding = true
	request.Patient.SeverityLevel = 4

	first, err := svc.Decide(context.Background(), request)
	require.NoError(t, err)
	second, err := svc.Decide(context.Background(), request)
	require.NoError(t, err)

	assert.Equal(t, first.Recommendations, second.Recommendations)
	assert.Equal(t, first.DecisionExplanation, second.DecisionExplanation)
}

func TestDecide_TruncatesToMaxResults(t *testing.T) {
	states := make(map[string]*entities.HospitalState)
	for _, id := range []string{"hosp-1", "hosp-2", "hosp-3", "hosp-4"} {
		states[id] = &entities.HospitalState{HospitalID: id, Latitude: 10, Longitude: 10, AvailableBeds: 5}
	}
	view := &stubView{states: states}
	svc := services.NewDecisionService(view, 5, nil)

	request := decisionRequest()
	request.Constraints.MaxResults = 2

	response, err := svc.Decide(context.Background(), request)
	require.NoError(t, err)
	require.Len(t, response.Recommendations, 2)
	assert.Equal(t, 1, response.Recommendations[0].Rank)
	assert.Equal(t, 2, response.Recommendations[1].Rank)
}

func TestDecide_ConsciousnessAdjustments(t *testing.T) {
	view := &stubView{states: map[string]*entities.HospitalState{
		"hosp-1": {HospitalID: "hosp-1", Latitude: 10, Longitude: 10, AvailableBeds: 5, AvailableICUBeds: 2},
	}}
	svc := services.NewDecisionService(view, 5, nil)

	t.Run("unresponsive escalates ICU need", func(t *testing.T) {
		request := decisionRequest()
		request.Patient.ConsciousnessLevel = entities.ConsciousnessUnresponsive

		response, err := svc.Decide(context.Background(), request)
		require.NoError(t, err)
		assert.Equal(t, "+20 (UNRESPONSIVE patient)", response.DecisionExplanation.ICUExtraWeight)
		assert.Contains(t, response.Recommendations[0].Reasons, "ICU Available")
	})

	t.Run("pain feeds the severity bonus", func(t *testing.T) {
		request := decisionRequest()
		request.Patient.ConsciousnessLevel = entities.ConsciousnessPain

		response, err := svc.Decide(context.Background(), request)
		require.NoError(t, err)
		// (3-1)*3 + 10
		assert.Equal(t, 16, response.DecisionExplanation.SeverityBonusApplied)
		assert.Empty(t, response.DecisionExplanation.ICUExtraWeight)
	})
}

func TestDecide_SpecialtyMatchIsCaseInsensitiveSubstring(t *testing.T) {
	view := &stubView{states: map[string]*entities.HospitalState{
		"hosp-cardio": {
			HospitalID:    "hosp-cardio",
			Latitude:      10.01,
			Longitude:     10,
			AvailableBeds: 5,
			Specialties:   []string{"Cardiology", "Neurology"},
		},
		"hosp-general": {
			HospitalID:    "hosp-general",
			Latitude:      10.01,
			Longitude:     10,
			AvailableBeds: 5,
			Type:          "General",
		},
	}}
	svc := services.NewDecisionService(view, 5, nil)

	request := decisionRequest()
	request.Patient.RequiresSpecialty = "cardio"

	response, err := svc.Decide(context.Background(), request)
	require.NoError(t, err)
	require.Len(t, response.Recommendations, 2)
	assert.Equal(t, "hosp-cardio", response.Recommendations[0].HospitalID)
	assert.Contains(t, response.Recommendations[0].Reasons, "Specialty Match: cardio")
}
