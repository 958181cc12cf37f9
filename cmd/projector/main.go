package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/example/bazaarlink/internal/infrastructure/kafka"
	"github.com/example/bazaarlink/internal/infrastructure/store"
	"github.com/example/bazaarlink/internal/projection"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Configuration from environment variables
	kafkaBrokersStr := getEnv("KAFKA_BROKERS", "localhost:9092")
	kafkaBrokers := strings.Split(kafkaBrokersStr, ",")
	kafkaTopic := getEnv("KAFKA_TOPIC", "bazaarlink-events")
	consumerGroup := getEnv("KAFKA_CONSUMER_GROUP", "projector")
	mongoURI := getEnv("MONGO_URI", "mongodb://localhost:27017")
	mongoDB := getEnv("MONGO_DATABASE", "bazaarlink")

	log.Println("[Projector] ========================================")
	log.Println("[Projector] BazaarLink - Read Model Projector")
	log.Println("[Projector] ========================================")
	log.Printf("[Projector] Kafka: %v", kafkaBrokers)
	log.Printf("[Projector] Topic: %s", kafkaTopic)
	log.Printf("[Projector] Group: %s", consumerGroup)

	// Initialize MongoDB connection for read models
	client, err := store.ConnectMongo(mongoURI)
	if err != nil {
		log.Fatalf("[Projector] Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())
	log.Printf("[Projector] Connected to MongoDB (%s)", mongoDB)

	readStore := store.NewMongoReadStore(client.Database(mongoDB))

	// Initialize projector
	projector := projection.NewProjector(readStore)

	// Initialize Kafka consumer
	consumer := kafka.NewConsumer(kafkaBrokers, kafkaTopic, consumerGroup)
	defer consumer.Close()

	// Start consuming
	go func() {
		log.Println("[Projector] Starting event consumer...")
		log.Printf("[Projector] Listening to topic: %s", kafkaTopic)
		if err := consumer.Consume(ctx, projector.HandleEvent); err != nil {
			log.Printf("[Projector] Consumer error: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[Projector] Shutting down...")
	cancel()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
