package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"inventory-service/internal/models"

	"github.com/segmentio/kafka-go"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishItemEvent publishes ItemCreated, ItemUpdated and ItemDeleted events
func (ep *EventPublisher) PublishItemEvent(ctx context.Context, event *models.ItemEvent) error {
	key := fmt.Sprintf("item-%d", event.ItemID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishItemConsumed publishes ItemConsumed event
func (ep *EventPublisher) PublishItemConsumed(ctx context.Context, event *models.ItemConsumedEvent) error {
	key := fmt.Sprintf("item-%d", event.ItemID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishStockWithdrawn publishes StockWithdrawn event
func (ep *EventPublisher) PublishStockWithdrawn(ctx context.Context, event *models.StockWithdrawnEvent) error {
	key := fmt.Sprintf("item-%d", event.ItemID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishStockRestored publishes StockRestored event
func (ep *EventPublisher) PublishStockRestored(ctx context.Context, event *models.StockRestoredEvent) error {
	key := fmt.Sprintf("item-%d", event.ItemID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishConsumedRecorded publishes ConsumedRecorded event
func (ep *EventPublisher) PublishConsumedRecorded(ctx context.Context, event *models.ConsumedRecordedEvent) error {
	key := fmt.Sprintf("item-%d", event.ItemID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler routes incoming events to registered callbacks
type EventHandler struct {
	onItemEvent      func(context.Context, *models.ItemEvent) error
	onItemConsumed   func(context.Context, *models.ItemConsumedEvent) error
	onStockWithdrawn func(context.Context, *models.StockWithdrawnEvent) error
	onStockRestored  func(context.Context, *models.StockRestoredEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnItemEvent registers a handler for item lifecycle events
func (eh *EventHandler) OnItemEvent(handler func(context.Context, *models.ItemEvent) error) {
	eh.onItemEvent = handler
}

// OnItemConsumed registers a handler for ItemConsumed events
func (eh *EventHandler) OnItemConsumed(handler func(context.Context, *models.ItemConsumedEvent) error) {
	eh.onItemConsumed = handler
}

// OnStockWithdrawn registers a handler for StockWithdrawn events
func (eh *EventHandler) OnStockWithdrawn(handler func(context.Context, *models.StockWithdrawnEvent) error) {
	eh.onStockWithdrawn = handler
}

// OnStockRestored registers a handler for StockRestored events
func (eh *EventHandler) OnStockRestored(handler func(context.Context, *models.StockRestoredEvent) error) {
	eh.onStockRestored = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	log.Printf("Handling event: type=%s, id=%s", baseEvent.EventType, baseEvent.EventID)

	switch baseEvent.EventType {
	case models.EventTypeItemCreated, models.EventTypeItemUpdated, models.EventTypeItemDeleted:
		if eh.onItemEvent != nil {
			var event models.ItemEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal item event: %w", err)
			}
			return eh.onItemEvent(ctx, &event)
		}

	case models.EventTypeItemConsumed:
		if eh.onItemConsumed != nil {
			var event models.ItemConsumedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ItemConsumed event: %w", err)
			}
			return eh.onItemConsumed(ctx, &event)
		}

	case models.EventTypeStockWithdrawn:
		if eh.onStockWithdrawn != nil {
			var event models.StockWithdrawnEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal StockWithdrawn event: %w", err)
			}
			return eh.onStockWithdrawn(ctx, &event)
		}

	case models.EventTypeStockRestored:
		if eh.onStockRestored != nil {
			var event models.StockRestoredEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal StockRestored event: %w", err)
			}
			return eh.onStockRestored(ctx, &event)
		}

	default:
		log.Printf("Unhandled event type: %s", baseEvent.EventType)
	}

	return nil
}
