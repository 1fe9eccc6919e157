package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/contoso/university/internal/config"
	"github.com/contoso/university/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// EventPublisher announces committed course mutations.
type EventPublisher interface {
	Publish(ctx context.Context, ev model.CourseEvent) error
}

// CourseEvents fans course mutations out over Redis Pub/Sub so every server
// instance can stream them to its WebSocket clients.
type CourseEvents struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewCourseEvents creates a new CourseEvents.
func NewCourseEvents(rdb *redis.Client, log zerolog.Logger) *CourseEvents {
	return &CourseEvents{
		rdb: rdb,
		log: log.With().Str("component", "course_events").Logger(),
	}
}

// Publish sends ev on the course activity channel.
func (e *CourseEvents) Publish(ctx context.Context, ev model.CourseEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal course event: %w", err)
	}
	if err := e.rdb.Publish(ctx, config.CacheKey.CourseActivityChannel(), payload).Err(); err != nil {
		return fmt.Errorf("publish course event: %w", err)
	}
	return nil
}

// Subscribe streams course events until ctx is cancelled. The returned
// channel is closed when the subscription ends.
func (e *CourseEvents) Subscribe(ctx context.Context) (<-chan model.CourseEvent, error) {
	pubsub := e.rdb.Subscribe(ctx, config.CacheKey.CourseActivityChannel())

	// Wait for the subscription confirmation so callers see errors up front.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe course events: %w", err)
	}

	out := make(chan model.CourseEvent)
	go func() {
		defer close(out)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev model.CourseEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					e.log.Warn().Err(err).Msg("Dropping malformed course event")
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
