package events

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"
)

// Sink delivers relayed envelopes to the bus.
type Sink interface {
	Send(ctx context.Context, env Envelope) error
}

type streamSink struct {
	client *redis.Client
	stream string
}

// NewStreamSink appends envelopes to a redis stream, one entry per event.
func NewStreamSink(client *redis.Client, stream string) Sink {
	return &streamSink{client: client, stream: stream}
}

func (s *streamSink) Send(ctx context.Context, env Envelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return err
	}
	key, err := json.Marshal(env.Key)
	if err != nil {
		return err
	}
	return s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{
			"id":    env.ID,
			"topic": env.Topic,
			"key":   string(key),
			"event": string(body),
		},
	}).Err()
}
