package entities_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/entities"
)

func TestDecodeStateUpdate_TypedFields(t *testing.T) {
	update, ok := entities.DecodeStateUpdate(map[string]interface{}{
		"hospital_id":               "hosp-1",
		"available_beds":            "12",
		"available_icu_beds":        "3",
		"current_load_score":        "41.5",
		"staff_status":              "adequate",
		"doctors_available":         "7",
		"incoming_ambulances_count": "2",
		"status":                    "CROWDED",
		"latitude":                  "6.5244",
		"longitude":                 "3.3792",
		"last_heartbeat_at":         "1767225600000",
	})

	require.True(t, ok)
	assert.Equal(t, "hosp-1", update.HospitalID)
	require.NotNil(t, update.AvailableBeds)
	assert.Equal(t, 12, *update.AvailableBeds)
	require.NotNil(t, update.CurrentLoadScore)
	assert.Equal(t, 41.5, *update.CurrentLoadScore)
	require.NotNil(t, update.Status)
	assert.Equal(t, entities.OperationalStatusCrowded, *update.Status)
	require.NotNil(t, update.Latitude)
	assert.Equal(t, 6.5244, *update.Latitude)
	require.NotNil(t, update.LastHeartbeatAt)
	assert.Equal(t, time.UnixMilli(1767225600000), *update.LastHeartbeatAt)
	require.NotNil(t, update.IncomingAmbulances)
	assert.Equal(t, 2, *update.IncomingAmbulances)
}

func TestDecodeStateUpdate_MissingHospitalIDRejected(t *testing.T) {
	_, ok := entities.DecodeStateUpdate(map[string]interface{}{
		"available_beds": "5",
	})

	assert.False(t, ok)
}

func TestDecodeStateUpdate_BadNumbersDroppedNotFatal(t *testing.T) {
	update, ok := entities.DecodeStateUpdate(map[string]interface{}{
		"hospital_id":        "hosp-1",
		"available_beds":     "not-a-number",
		"current_load_score": "12.5",
	})

	require.True(t, ok)
	assert.Nil(t, update.AvailableBeds)
	require.NotNil(t, update.CurrentLoadScore)
	assert.Equal(t, 12.5, *update.CurrentLoadScore)
}

func TestDecodeStateUpdate_UnknownFieldsKeptInExtra(t *testing.T) {
	update, ok := entities.DecodeStateUpdate(map[string]interface{}{
		"hospital_id":      "hosp-1",
		"blood_bank_units": "14",
	})

	require.True(t, ok)
	assert.Equal(t, "14", update.Extra["blood_bank_units"])
}

func TestHospitalStateApply_PartialMergePreservesFields(t *testing.T) {
	state := &entities.HospitalState{
		HospitalID:       "hosp-1",
		AvailableBeds:    20,
		AvailableICUBeds: 4,
		CurrentLoadScore: 10,
		Status:           entities.OperationalStatusNormal,
	}

	beds := 15
	receivedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	state.Apply(&entities.StateUpdate{AvailableBeds: &beds}, receivedAt)

	assert.Equal(t, 15, state.AvailableBeds)
	assert.Equal(t, 4, state.AvailableICUBeds)
	assert.Equal(t, 10.0, state.CurrentLoadScore)
	assert.Equal(t, entities.OperationalStatusNormal, state.Status)
	assert.Equal(t, receivedAt, state.LastUpdatedAt)
}

func TestHospitalStateClone_IsDeep(t *testing.T) {
	state := &entities.HospitalState{
		HospitalID:  "hosp-1",
		Specialties: []string{"trauma"},
		Extra:       map[string]string{"wing": "A"},
	}

	clone := state.Clone()
	clone.Specialties[0] = "cardiology"
	clone.Extra["wing"] = "B"

	assert.Equal(t, "trauma", state.Specialties[0])
	assert.Equal(t, "A", state.Extra["wing"])
}
