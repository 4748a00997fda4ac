// Package main (in processor-subfolder) provides the downstream consumer of image-lifecycle events
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnendingLoop/ImageManager/internal/kafka"
	"github.com/UnendingLoop/ImageManager/internal/model"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/wb-go/wbf/config"
	wbfkafka "github.com/wb-go/wbf/kafka"
	"github.com/wb-go/wbf/retry"
)

func main() {
	// инициализировать конфиг/ считать энвы
	appConfig := config.New()
	appConfig.EnableEnv("")
	if err := appConfig.LoadEnvFiles("./.env"); err != nil {
		log.Fatalf("Failed to load envs: %s\nExiting app...", err)
	}

	// ждем пока кафка раздуплится
	broker := appConfig.GetString("KAFKA_BROKER")
	kafka.WaitKafkaReady(broker)

	// подключиться к кафке как читатель
	queue := make(chan kafkago.Message)
	retryStrategy := retry.Strategy{
		Attempts: 5,
		Delay:    5 * time.Second,
		Backoff:  1.0,
	}
	topic := appConfig.GetString("KAFKA_TOPIC")
	groupID := appConfig.GetString("KAFKA_GROUPID")
	cons := wbfkafka.NewConsumer([]string{broker}, topic, groupID)

	// Listening to interruptions through context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cons.StartConsuming(ctx, queue, retryStrategy)

	go consumeEvents(ctx, queue, cons)

	// Waiting for interruption to stop context to start Graceful shutdown
	<-ctx.Done()

	shutdown(cons)
	log.Println("Exiting processor...")
}

// consumeEvents - даунстрим пока только логирует события; сюда позже встанет реальная обработка
func consumeEvents(ctx context.Context, queue <-chan kafkago.Message, cons *wbfkafka.Consumer) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-queue:
			if !ok {
				log.Println("Queue channel closed, stopping processor...")
				return
			}

			var event model.EventMessage
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Printf("Received malformed message %q: %v", string(msg.Value), err)
			} else {
				log.Printf("Received event %q for image %d", event.Event, event.Data.ImageID)
			}

			if err := cons.Commit(ctx, msg); err != nil {
				log.Printf("Failed to commit queue-message: %v", err)
			}
		}
	}
}

func shutdown(cons *wbfkafka.Consumer) {
	log.Println("Interrupt received!!! Starting shutdown sequence...")

	// Closing Kafka connection:
	if err := cons.Close(); err != nil {
		log.Println("Failed to close Kafka-reader:", err)
	}
	log.Println("Kafka-consumer connection closed.")
}
