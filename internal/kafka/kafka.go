// Package kafka provides methods for initiating kafka-topics for the app and a kafka readiness-probing
package kafka

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// EnsureTopics - одна идемпотентная попытка создать топики; уже существующий топик - не ошибка
func EnsureTopics(ctx context.Context, brokerAddr string, topics ...string) error {
	client := &kafkago.Client{
		Addr:    kafkago.TCP(brokerAddr),
		Timeout: 10 * time.Second,
	}

	req := kafkago.CreateTopicsRequest{
		Topics: make([]kafkago.TopicConfig, 0, len(topics)),
	}

	for _, t := range topics {
		topic := kafkago.TopicConfig{
			Topic:             t,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
		req.Topics = append(req.Topics, topic)
	}

	resp, err := client.CreateTopics(ctx, &req)
	if err != nil {
		return fmt.Errorf("failed to run topics creation request: %w", err)
	}

	for k, v := range resp.Errors {
		switch {
		case v == nil:
		case errors.Is(v, kafkago.TopicAlreadyExists):
		default:
			return fmt.Errorf("topic %q creation error: %w", k, v)
		}
	}

	return nil
}

// InitKafkaTopics - creates topics in kafka, retrying until the broker accepts all of them
func InitKafkaTopics(ctx context.Context, brokerAddr string, delay time.Duration, topics ...string) {
	for {
		select {
		case <-ctx.Done():
			log.Println("InitKafkaTopics canceled or timed out")
			return
		default:
		}

		if err := EnsureTopics(ctx, brokerAddr, topics...); err != nil {
			log.Printf("Failed to create topics: %v\nWait %v before next try...", err, delay)
			time.Sleep(delay)
			continue
		}

		log.Println("All topics created successfully!")
		return
	}
}

// WaitKafkaReady - timeout given to kafka-service for getting fully functional
func WaitKafkaReady(brokerAddr string) {
	for {
		conn, err := kafkago.Dial("tcp", brokerAddr)
		if err == nil {
			if errConn := conn.Close(); errConn != nil {
				log.Println("Failed to close connection after testing Kafka readyness:", errConn)
			}
			break
		}
		log.Println("Kafka not ready, retrying in 5s...")
		time.Sleep(10 * time.Second)
	}
	log.Println("Kafka is ready!")
}
