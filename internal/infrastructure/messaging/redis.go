package messaging

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
	"github.com/mentoria-hub/mentoria-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// REDIS PUBLISHER
// ══════════════════════════════════════════════════════════════════════════════

// DefaultChannel is the Pub/Sub channel events are published on.
const DefaultChannel = "mentoria-hub:events"

// ChannelPublisher publishes an encodable message on a channel.
// *redis.Client from the persistence/redis package implements it.
type ChannelPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) error
}

// Envelope is the wire format of an event on the channel.
type Envelope struct {
	InstanceID  string                 `json:"instance_id"`
	EventType   shared.EventType       `json:"event_type"`
	AggregateID string                 `json:"aggregate_id"`
	OccurredAt  time.Time              `json:"occurred_at"`
	Payload     map[string]interface{} `json:"payload"`
}

// RedisPublisher publishes events to Redis Pub/Sub and then to a local bus.
// It implements shared.EventPublisher.
type RedisPublisher struct {
	client     ChannelPublisher
	local      shared.EventPublisher
	channel    string
	instanceID string
	logger     *logger.Logger
}

// RedisPublisherConfig contains configuration for RedisPublisher.
type RedisPublisherConfig struct {
	Client ChannelPublisher

	// Local receives every event after the Redis publish. Optional.
	Local shared.EventPublisher

	Channel    string
	InstanceID string
	Logger     *logger.Logger
}

// NewRedisPublisher creates a RedisPublisher.
func NewRedisPublisher(config RedisPublisherConfig) (*RedisPublisher, error) {
	if config.Client == nil {
		return nil, errors.New("redis client is required")
	}
	if config.Channel == "" {
		config.Channel = DefaultChannel
	}
	if config.InstanceID == "" {
		config.InstanceID = generateInstanceID()
	}
	if config.Local == nil {
		config.Local = shared.NopPublisher{}
	}
	if config.Logger == nil {
		config.Logger = logger.Nop()
	}
	return &RedisPublisher{
		client:     config.Client,
		local:      config.Local,
		channel:    config.Channel,
		instanceID: config.InstanceID,
		logger:     config.Logger.With(logger.Component("redis_publisher")),
	}, nil
}

// Publish implements shared.EventPublisher. A Redis failure is logged and
// returned after local delivery.
func (p *RedisPublisher) Publish(ctx context.Context, event shared.Event) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}

	env := Envelope{
		InstanceID:  p.instanceID,
		EventType:   event.EventType(),
		AggregateID: event.AggregateID(),
		OccurredAt:  event.OccurredAt(),
		Payload:     event.Payload(),
	}
	redisErr := p.client.Publish(ctx, p.channel, env)
	if redisErr != nil {
		p.logger.Error("failed to publish to redis",
			logger.String("event_type", string(event.EventType())),
			logger.Err(redisErr),
		)
	}

	if err := p.local.Publish(ctx, event); err != nil {
		return err
	}
	return redisErr
}

func generateInstanceID() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "instance"
	}
	return host + "-" + uuid.NewString()[:8]
}
