package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"rtladder/pkg/redis"
)

// Publisher is the contract the engine has with the notification side.
// Events are plain data; subscribers decide how they look.
type Publisher interface {
	MatchFinished(ctx context.Context, event MatchFinishedEvent) error
	NewMatch(ctx context.Context, event NewMatchEvent) error
	RosterChanged(ctx context.Context, event RosterChangedEvent) error
}

// RedisPublisher fans events out over redis pub/sub channels.
type RedisPublisher struct {
	redis *redis.RedisClient
}

// NewRedisPublisher creates the publisher over the shared client.
func NewRedisPublisher(client *redis.RedisClient) *RedisPublisher {
	return &RedisPublisher{redis: client}
}

// MatchFinished publishes a decided game.
func (p *RedisPublisher) MatchFinished(ctx context.Context, event MatchFinishedEvent) error {
	return p.publish(ctx, ChannelGameFinished, event)
}

// NewMatch publishes a freshly created game.
func (p *RedisPublisher) NewMatch(ctx context.Context, event NewMatchEvent) error {
	return p.publish(ctx, ChannelNewGame, event)
}

// RosterChanged publishes an eligibility change.
func (p *RedisPublisher) RosterChanged(ctx context.Context, event RosterChangedEvent) error {
	return p.publish(ctx, ChannelRoster, event)
}

func (p *RedisPublisher) publish(ctx context.Context, channel string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("couldn't encode the event for channel %s: %v", channel, err)
	}

	return p.redis.Publish(ctx, channel, payload)
}
