package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_StreamConfig(t *testing.T) {
	// Setup environment variables
	os.Setenv("HOSPITAL_STREAM", "hospital:state:test")
	os.Setenv("HOSPITAL_STREAM_GROUP", "test_group")
	os.Setenv("HOSPITAL_STREAM_BLOCK", "500ms")
	os.Setenv("HOSPITAL_STREAM_BATCH", "25")
	defer func() {
		os.Unsetenv("HOSPITAL_STREAM")
		os.Unsetenv("HOSPITAL_STREAM_GROUP")
		os.Unsetenv("HOSPITAL_STREAM_BLOCK")
		os.Unsetenv("HOSPITAL_STREAM_BATCH")
	}()

	// Load config
	cfg, err := Load()
	assert.NoError(t, err)

	// Verify stream config
	assert.Equal(t, "hospital:state:test", cfg.Stream.Key)
	assert.Equal(t, "test_group", cfg.Stream.Group)
	assert.Equal(t, 500*time.Millisecond, cfg.Stream.BlockTimeout)
	assert.Equal(t, int64(25), cfg.Stream.BatchCount)
}

func TestLoad_Defaults(t *testing.T) {
	// Ensure env vars are cleared
	os.Unsetenv("HOSPITAL_STREAM")
	os.Unsetenv("RESERVATION_TTL")
	os.Unsetenv("BREAKDOWN_DURATION")

	cfg, err := Load()
	assert.NoError(t, err)

	// Verify defaults
	assert.Equal(t, "hospital:state", cfg.Stream.Key)
	assert.Equal(t, "api_state_cache", cfg.Stream.Group)
	assert.Equal(t, 2*time.Second, cfg.Stream.BlockTimeout)
	assert.Equal(t, 15*time.Minute, cfg.Dispatch.ReservationTTL)
	assert.Equal(t, 30*time.Second, cfg.Dispatch.BreakdownDuration)
	assert.Equal(t, 5, cfg.Dispatch.MaxResults)
	assert.Equal(t, "hospital_coordination", cfg.Database.Database)
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	os.Setenv("BREAKDOWN_DURATION", "not-a-duration")
	defer os.Unsetenv("BREAKDOWN_DURATION")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Dispatch.BreakdownDuration)
}
