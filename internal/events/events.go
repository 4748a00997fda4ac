// Package events provides publishing of image-lifecycle events to the queue for downstream consumers
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/UnendingLoop/ImageManager/internal/kafka"
	"github.com/UnendingLoop/ImageManager/internal/model"
	wbfkafka "github.com/wb-go/wbf/kafka"
	"github.com/wb-go/wbf/retry"
)

// Стратегия ретрая отправки в очередь: ограниченное число попыток, фиксированная пауза
var publishStrategy = retry.Strategy{
	Attempts: 5,
	Delay:    2 * time.Second,
	Backoff:  1.0,
}

// Publisher - владеет только адресами, соединение открывается на каждый Publish.
// Намеренно без пула соединений - см. DESIGN.md.
type Publisher struct {
	brokers []string
	topic   string
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{brokers: brokers, topic: topic}
}

// Publish - объявляет очередь (идемпотентно), шлет {"event":..., "data":{"image_id":...}} и закрывает соединение.
// At-least-once: при обрыве после доставки ретрай может продублировать сообщение.
func (p *Publisher) Publish(ctx context.Context, event model.Event, imageID int64) error {
	body, err := json.Marshal(model.EventMessage{
		Event: event,
		Data:  model.EventPayload{ImageID: imageID},
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event %q for image %d: %w", event, imageID, err)
	}

	if err := kafka.EnsureTopics(ctx, p.brokers[0], p.topic); err != nil {
		return fmt.Errorf("failed to ensure topic %q: %w", p.topic, err)
	}

	producer := wbfkafka.NewProducer(p.brokers, p.topic)
	defer func() {
		if err := producer.Close(); err != nil {
			log.Println("Failed to close producer after publishing:", err)
		}
	}()

	key := []byte(strconv.FormatInt(imageID, 10))
	if err := producer.SendWithRetry(ctx, publishStrategy, key, body); err != nil {
		return fmt.Errorf("failed to publish event %q for image %d: %w", event, imageID, err)
	}

	return nil
}
