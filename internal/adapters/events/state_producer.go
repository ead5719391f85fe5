package events

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/entities"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/providers"
	redisclient "github.com/zatekoja/Emergencydispatchdesign/backend/internal/infrastructure/clients/redis"
	apperrors "github.com/zatekoja/Emergencydispatchdesign/backend/pkg/errors"
)

// StateProducer appends hospital state changes to the stream. Hospitals
// report through this path; the synchronizer is the only reader.
type StateProducer struct {
	client *redis.Client
	key    string
	now    func() time.Time
}

// NewStateProducer creates a publisher for the given stream key
func NewStateProducer(client *redisclient.Client, key string) providers.StatePublisher {
	return &StateProducer{
		client: client.Client(),
		key:    key,
		now:    time.Now,
	}
}

// Publish flattens the update into stream fields. Only set fields are sent;
// the consumer-side merge leaves everything else untouched. Every message
// carries a heartbeat timestamp in epoch milliseconds.
func (p *StateProducer) Publish(ctx context.Context, update *entities.StateUpdate) error {
	if update.HospitalID == "" {
		return apperrors.NewValidationError("hospital_id is required")
	}

	values := map[string]interface{}{
		"hospital_id": update.HospitalID,
	}

	if update.AvailableBeds != nil {
		values["available_beds"] = strconv.Itoa(*update.AvailableBeds)
	}
	if update.AvailableICUBeds != nil {
		values["available_icu_beds"] = strconv.Itoa(*update.AvailableICUBeds)
	}
	if update.CurrentLoadScore != nil {
		values["current_load_score"] = strconv.FormatFloat(*update.CurrentLoadScore, 'f', -1, 64)
	}
	if update.DoctorsAvailable != nil {
		values["doctors_available"] = strconv.Itoa(*update.DoctorsAvailable)
	}
	if update.IncomingAmbulances != nil {
		values["incoming_ambulances_count"] = strconv.Itoa(*update.IncomingAmbulances)
	}
	if update.StaffStatus != nil {
		values["staff_status"] = *update.StaffStatus
	}
	if update.Status != nil {
		values["status"] = string(*update.Status)
	}
	if update.Latitude != nil {
		values["latitude"] = strconv.FormatFloat(*update.Latitude, 'f', -1, 64)
	}
	if update.Longitude != nil {
		values["longitude"] = strconv.FormatFloat(*update.Longitude, 'f', -1, 64)
	}
	for key, val := range update.Extra {
		values[key] = val
	}

	heartbeat := p.now()
	if update.LastHeartbeatAt != nil {
		heartbeat = *update.LastHeartbeatAt
	}
	values["last_heartbeat_at"] = strconv.FormatInt(heartbeat.UnixMilli(), 10)

	err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.key,
		Values: values,
	}).Err()
	if err != nil {
		return apperrors.NewExternalError("failed to publish hospital state update", err)
	}

	return nil
}
