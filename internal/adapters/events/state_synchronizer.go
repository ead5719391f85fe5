package events

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/adapters/cache"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/entities"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/repositories"
	redisclient "github.com/zatekoja/Emergencydispatchdesign/backend/internal/infrastructure/clients/redis"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/infrastructure/observability"
	"github.com/zatekoja/Emergencydispatchdesign/backend/pkg/config"
)

// StateSynchronizer consumes the hospital state stream through a consumer
// group and folds every message into the in-memory view. Messages are acked
// only after the merge, so a crash between read and ack redelivers; merges
// are idempotent overwrites and reprocessing is harmless.
type StateSynchronizer struct {
	client    *redis.Client
	hospitals repositories.HospitalRepository
	cache     *cache.StateCache
	cfg       config.StreamConfig
	metrics   *observability.Metrics
	logger    zerolog.Logger
	consumer  string
	now       func() time.Time
}

// NewStateSynchronizer creates a stream consumer bound to the given cache
func NewStateSynchronizer(
	client *redisclient.Client,
	hospitals repositories.HospitalRepository,
	stateCache *cache.StateCache,
	cfg config.StreamConfig,
	metrics *observability.Metrics,
) *StateSynchronizer {
	return &StateSynchronizer{
		client:    client.Client(),
		hospitals: hospitals,
		cache:     stateCache,
		cfg:       cfg,
		metrics:   metrics,
		logger:    observability.GetLogger().With().Str("component", "state_synchronizer").Logger(),
		consumer:  consumerName(),
		now:       time.Now,
	}
}

// Start seeds the view, ensures the consumer group exists and then blocks in
// the read loop until ctx is cancelled. Run it in its own goroutine.
func (s *StateSynchronizer) Start(ctx context.Context) error {
	if err := s.seed(ctx); err != nil {
		return err
	}

	if err := s.ensureGroup(ctx); err != nil {
		return err
	}

	s.logger.Info().
		Str("stream", s.cfg.Key).
		Str("group", s.cfg.Group).
		Str("consumer", s.consumer).
		Msg("hospital state synchronizer started")

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		streams, err := s.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    s.cfg.Group,
			Consumer: s.consumer,
			Streams:  []string{s.cfg.Key, ">"},
			Count:    s.cfg.BatchCount,
			Block:    s.cfg.BlockTimeout,
		}).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.logger.Warn().Err(err).Msg("stream read failed, backing off")
			if !sleepCtx(ctx, s.cfg.RetryBackoff) {
				return nil
			}
			continue
		}

		for _, stream := range streams {
			for _, message := range stream.Messages {
				s.handleMessage(ctx, message)
			}
		}
	}
}

// seed preloads the view from hospital records so the ranking engine has a
// complete picture before the first heartbeat arrives
func (s *StateSynchronizer) seed(ctx context.Context) error {
	hospitals, err := s.hospitals.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed hospital state view: %w", err)
	}

	s.cache.Seed(hospitals, s.now())
	s.logger.Info().Int("hospitals", len(hospitals)).Msg("seeded hospital state view")

	return nil
}

// ensureGroup creates the consumer group from the start of the stream so a
// fresh deployment replays history. Recreating an existing group is fine.
func (s *StateSynchronizer) ensureGroup(ctx context.Context) error {
	err := s.client.XGroupCreateMkStream(ctx, s.cfg.Key, s.cfg.Group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}
	return nil
}

func (s *StateSynchronizer) handleMessage(ctx context.Context, message redis.XMessage) {
	update, ok := entities.DecodeStateUpdate(message.Values)
	if !ok {
		s.logger.Warn().Str("message_id", message.ID).Msg("dropping stream message without hospital_id")
		if s.metrics != nil {
			s.metrics.StreamDecodeFailures.Add(ctx, 1)
		}
		s.ack(ctx, message.ID)
		return
	}

	s.cache.Apply(update, s.now())
	if s.metrics != nil {
		s.metrics.StreamMessageCount.Add(ctx, 1)
	}

	s.ack(ctx, message.ID)
}

// ack confirms processing. An ack failure is only logged: the message will be
// redelivered and reapplied, which the merge tolerates.
func (s *StateSynchronizer) ack(ctx context.Context, messageID string) {
	if err := s.client.XAck(ctx, s.cfg.Key, s.cfg.Group, messageID).Err(); err != nil {
		s.logger.Warn().Err(err).Str("message_id", messageID).Msg("failed to ack stream message")
	}
}

func consumerName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "api"
	}
	return fmt.Sprintf("%s-%s", host, uuid.New().String()[:8])
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
