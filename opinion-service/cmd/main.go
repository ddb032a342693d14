package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"hoppyhub/opinion-service/internal/app/opinion/config"
	"hoppyhub/opinion-service/internal/app/opinion/entity"
	"hoppyhub/opinion-service/internal/app/opinion/handler"
	infrahttp "hoppyhub/opinion-service/internal/app/opinion/infrastructure/http"
	"hoppyhub/opinion-service/internal/app/opinion/processor"
	"hoppyhub/opinion-service/internal/app/opinion/repository"
	"hoppyhub/opinion-service/internal/app/opinion/service"
	"hoppyhub/pkg/events"
	"hoppyhub/pkg/logger"
	"hoppyhub/pkg/messaging"
	"hoppyhub/pkg/outbox"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init("opinion-service", cfg.LogLevel)

	db, err := connectDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	logger.Info().
		Str("host", cfg.Database.Host).
		Str("database", cfg.Database.DBName).
		Msg("Connected to PostgreSQL")

	if err := db.AutoMigrate(&entity.Opinion{}, &entity.Beer{}, &entity.User{}, &outbox.Record{}); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	kafkaProducer := messaging.NewKafkaProducer("opinion-service", cfg.Kafka.Brokers)
	defer kafkaProducer.Close()
	logger.Info().
		Strs("brokers", cfg.Kafka.Brokers).
		Msg("Initialized Kafka producer")

	relay := outbox.NewRelay("opinion-service", db, kafkaProducer)
	if err := relay.Start(context.Background(), cfg.Outbox.Schedule); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start outbox relay")
	}
	defer relay.Stop()

	imageClient := infrahttp.NewImageClient(cfg.ImageService.URL, cfg.ImageService.Timeout)
	logger.Info().Str("url", cfg.ImageService.URL).Msg("Initialized Image Service client")

	opinionRepo := repository.NewOpinionRepository(db)
	beerRepo := repository.NewBeerRepository(db)
	userRepo := repository.NewUserRepository(db)

	opinionService := service.NewOpinionService(opinionRepo, beerRepo, userRepo, imageClient)

	eventProcessor := processor.NewEventProcessor(beerRepo, userRepo, imageClient)

	ctx := context.Background()
	consumers := []*messaging.KafkaConsumer{
		messaging.NewKafkaConsumer("opinion-service", cfg.Kafka.Brokers, events.TopicBeerEvents, cfg.Kafka.GroupID, eventProcessor.HandleBeerEvent),
		messaging.NewKafkaConsumer("opinion-service", cfg.Kafka.Brokers, events.TopicUserEvents, cfg.Kafka.GroupID, eventProcessor.HandleUserEvent),
	}
	for _, consumer := range consumers {
		consumer.Start(ctx)
	}

	authMiddleware := handler.NewAuthMiddleware(cfg.JWT.Secret)
	opinionHandler := handler.NewOpinionHandler(opinionService)
	router := handler.SetupRoutes(opinionHandler, authMiddleware)

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
			Msg("Starting Opinion Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Opinion Service...")

	for _, consumer := range consumers {
		consumer.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Opinion Service stopped gracefully")
}

func connectDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	var db *gorm.DB
	var err error

	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
		if err == nil {
			sqlDB, sqlErr := db.DB()
			if sqlErr != nil {
				err = sqlErr
			} else {
				pingErr := sqlDB.Ping()
				if pingErr != nil {
					err = pingErr
				} else {
					sqlDB.SetMaxOpenConns(25)
					sqlDB.SetMaxIdleConns(5)
					sqlDB.SetConnMaxLifetime(5 * time.Minute)
					sqlDB.SetConnMaxIdleTime(1 * time.Minute)
					return db, nil
				}
			}
		}
		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to database, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}
