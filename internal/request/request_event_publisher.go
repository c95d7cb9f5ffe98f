package request

import (
	"context"
	"encoding/json"
	"time"

	"go-leavebot/internal/events"

	"github.com/segmentio/kafka-go"
)

// EventPublisher mirrors the notification contract: lifecycle events are
// best-effort and a publish failure never blocks the flow that raised it.
type EventPublisher interface {
	PublishLeaveRequestEvent(ctx context.Context, event events.LeaveRequestEvent) error
}

type noopEventPublisher struct{}

func NewNoopEventPublisher() EventPublisher {
	return noopEventPublisher{}
}

func (noopEventPublisher) PublishLeaveRequestEvent(context.Context, events.LeaveRequestEvent) error {
	return nil
}

type kafkaEventPublisher struct {
	writer *kafka.Writer
}

func NewKafkaEventPublisher(writer *kafka.Writer) EventPublisher {
	return &kafkaEventPublisher{writer: writer}
}

func (p *kafkaEventPublisher) PublishLeaveRequestEvent(
	ctx context.Context,
	event events.LeaveRequestEvent,
) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: events.LeaveRequestTopic,
		Key:   []byte(event.Email),
		Value: payload,
	})
}
