package entities_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/entities"
)

func TestAmbulanceStatusCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    entities.AmbulanceStatus
		to      entities.AmbulanceStatus
		allowed bool
	}{
		{"idle to case created", entities.AmbulanceStatusIdle, entities.AmbulanceStatusCaseCreated, true},
		{"idle to en route to patient", entities.AmbulanceStatusIdle, entities.AmbulanceStatusEnRouteToPatient, true},
		{"idle to arrived skips steps", entities.AmbulanceStatusIdle, entities.AmbulanceStatusArrived, false},
		{"case created to hospital selected", entities.AmbulanceStatusCaseCreated, entities.AmbulanceStatusHospitalSelected, true},
		{"hospital selected to en route", entities.AmbulanceStatusHospitalSelected, entities.AmbulanceStatusEnRoute, true},
		{"en route to arrived", entities.AmbulanceStatusEnRoute, entities.AmbulanceStatusArrived, true},
		{"arrived to admitted", entities.AmbulanceStatusArrived, entities.AmbulanceStatusPatientAdmitted, true},
		{"admitted to completed", entities.AmbulanceStatusPatientAdmitted, entities.AmbulanceStatusCompleted, true},
		{"completed back to idle", entities.AmbulanceStatusCompleted, entities.AmbulanceStatusIdle, true},
		{"completed cannot reopen", entities.AmbulanceStatusCompleted, entities.AmbulanceStatusEnRoute, false},
		{"at patient to case created", entities.AmbulanceStatusAtPatient, entities.AmbulanceStatusCaseCreated, true},
		{"breakdown only recovers to idle", entities.AmbulanceStatusBreakdown, entities.AmbulanceStatusEnRoute, false},
		{"breakdown to idle", entities.AmbulanceStatusBreakdown, entities.AmbulanceStatusIdle, true},
		{"same status is a no-op", entities.AmbulanceStatusEnRoute, entities.AmbulanceStatusEnRoute, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransition(tt.to))
		})
	}
}

func TestAmbulanceStatusNormalize(t *testing.T) {
	status, ok := entities.AmbulanceStatusOnCall.Normalize()
	assert.True(t, ok)
	assert.Equal(t, entities.AmbulanceStatusIdle, status)

	status, ok = entities.AmbulanceStatusEnRoute.Normalize()
	assert.True(t, ok)
	assert.Equal(t, entities.AmbulanceStatusEnRoute, status)

	status, ok = entities.AmbulanceStatus("GARBAGE").Normalize()
	assert.False(t, ok)
	assert.Equal(t, entities.AmbulanceStatusIdle, status)
}

func TestAmbulanceBreakdownElapsed(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	until := now.Add(30 * time.Second)

	ambulance := &entities.Ambulance{
		Status:         entities.AmbulanceStatusBreakdown,
		Breakdown:      true,
		BreakdownUntil: &until,
	}

	assert.False(t, ambulance.BreakdownElapsed(now))
	assert.False(t, ambulance.BreakdownElapsed(now.Add(29*time.Second)))
	assert.True(t, ambulance.BreakdownElapsed(until))
	assert.True(t, ambulance.BreakdownElapsed(until.Add(time.Minute)))

	ambulance.Breakdown = false
	assert.False(t, ambulance.BreakdownElapsed(until.Add(time.Minute)))
}
