package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hoppyhub/image-service/internal/app/image/config"
	"hoppyhub/image-service/internal/app/image/handler"
	"hoppyhub/image-service/internal/app/image/processor"
	"hoppyhub/image-service/internal/app/image/repository"
	"hoppyhub/image-service/internal/app/image/service"
	"hoppyhub/image-service/internal/app/image/storage"
	"hoppyhub/pkg/events"
	"hoppyhub/pkg/logger"
	"hoppyhub/pkg/messaging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init("image-service", cfg.LogLevel)

	mongoClient, err := connectMongoDB(cfg.MongoDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			logger.Error().Err(err).Msg("Error disconnecting from MongoDB")
		}
	}()
	logger.Info().
		Str("database", cfg.MongoDB.Database).
		Msg("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB.Database)

	store, err := storage.NewDiskStore(cfg.Blob.RootDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize blob storage")
	}
	logger.Info().Str("root", cfg.Blob.RootDir).Msg("Initialized blob storage")

	kafkaProducer := messaging.NewKafkaProducer("image-service", cfg.Kafka.Brokers)
	defer kafkaProducer.Close()
	logger.Info().
		Strs("brokers", cfg.Kafka.Brokers).
		Msg("Initialized Kafka producer")

	imageRepo := repository.NewImageRepository(db)
	imageService := service.NewImageService(store, imageRepo, kafkaProducer, cfg.Blob.BaseURL)

	eventProcessor := processor.NewEventProcessor(imageService)

	ctx := context.Background()
	consumer := messaging.NewKafkaConsumer("image-service", cfg.Kafka.Brokers, events.TopicBeerEvents, cfg.Kafka.GroupID, eventProcessor.HandleBeerEvent)
	consumer.Start(ctx)

	imageHandler := handler.NewImageHandler(imageService)
	router := handler.SetupRoutes(imageHandler, store.Root())

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("Starting Image Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Image Service...")

	consumer.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Image Service stopped gracefully")
}

func connectMongoDB(cfg config.MongoDBConfig) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(cfg.URI)

	var client *mongo.Client
	var err error

	for i := 0; i < 10; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		client, err = mongo.Connect(ctx, clientOptions)
		if err == nil {
			pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer pingCancel()

			if err = client.Ping(pingCtx, nil); err == nil {
				return client, nil
			}
		}

		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to MongoDB, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, err
}
