package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/FireRedDev/ebayklon/internal/config"
	"github.com/FireRedDev/ebayklon/utils"

	"github.com/go-redis/redis/v8"
)

// Action names the kind of change an EntityEvent reports
type Action string

const (
	Created Action = "created"
	Updated Action = "updated"
	Deleted Action = "deleted"
)

// EntityEvent is published after every successful mutation of the catalog
type EntityEvent struct {
	Entity string    `json:"entity"`
	Action Action    `json:"action"`
	ID     int64     `json:"id"`
	At     time.Time `json:"at"`
}

// NewEntityEvent stamps an event with the current UTC time
func NewEntityEvent(entity string, action Action, id int64) EntityEvent {
	return EntityEvent{Entity: entity, Action: action, ID: id, At: time.Now().UTC()}
}

// Publisher broadcasts entity events to interested consumers
type Publisher interface {
	Publish(ctx context.Context, event EntityEvent) error
}

// RedisPublisher publishes events as JSON on a redis pub/sub channel
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

// NewRedisClient builds the client for the configured redis instance
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func (p *RedisPublisher) Publish(ctx context.Context, event EntityEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: encode %s %s: %w", event.Entity, event.Action, err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("events: publish on %s: %w", p.channel, err)
	}
	utils.Debug("entity event published", map[string]any{
		"channel": p.channel,
		"entity":  event.Entity,
		"action":  string(event.Action),
		"id":      event.ID,
	})
	return nil
}

// NopPublisher drops every event. Used when redis is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, EntityEvent) error { return nil }

// FromConfig returns a redis publisher when redis is enabled and a NopPublisher otherwise.
// The returned close function releases the redis connection pool.
func FromConfig(cfg config.RedisConfig) (Publisher, func() error) {
	if !cfg.Enabled {
		return NopPublisher{}, func() error { return nil }
	}
	client := NewRedisClient(cfg)
	return NewRedisPublisher(client, cfg.Channel), client.Close
}
