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

	"hoppyhub/favorite-service/internal/app/favorite/config"
	"hoppyhub/favorite-service/internal/app/favorite/entity"
	"hoppyhub/favorite-service/internal/app/favorite/handler"
	"hoppyhub/favorite-service/internal/app/favorite/processor"
	"hoppyhub/favorite-service/internal/app/favorite/repository"
	"hoppyhub/favorite-service/internal/app/favorite/service"
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

	logger.Init("favorite-service", cfg.LogLevel)

	db, err := connectDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	logger.Info().
		Str("host", cfg.Database.Host).
		Str("database", cfg.Database.DBName).
		Msg("Connected to PostgreSQL")

	if err := db.AutoMigrate(&entity.Favorite{}, &entity.Beer{}, &entity.User{}, &outbox.Record{}); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	kafkaProducer := messaging.NewKafkaProducer("favorite-service", cfg.Kafka.Brokers)
	defer kafkaProducer.Close()
	logger.Info().
		Strs("brokers", cfg.Kafka.Brokers).
		Msg("Initialized Kafka producer")

	relay := outbox.NewRelay("favorite-service", db, kafkaProducer)
	if err := relay.Start(context.Background(), cfg.Outbox.Schedule); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start outbox relay")
	}
	defer relay.Stop()

	favoriteRepo := repository.NewFavoriteRepository(db)
	beerRepo := repository.NewBeerRepository(db)
	userRepo := repository.NewUserRepository(db)

	favoriteService := service.NewFavoriteService(favoriteRepo, beerRepo)

	eventProcessor := processor.NewEventProcessor(beerRepo, userRepo)

	ctx := context.Background()
	consumers := []*messaging.KafkaConsumer{
		messaging.NewKafkaConsumer("favorite-service", cfg.Kafka.Brokers, events.TopicBeerEvents, cfg.Kafka.GroupID, eventProcessor.HandleBeerEvent),
		messaging.NewKafkaConsumer("favorite-service", cfg.Kafka.Brokers, events.TopicUserEvents, cfg.Kafka.GroupID, eventProcessor.HandleUserEvent),
	}
	for _, consumer := range consumers {
		consumer.Start(ctx)
	}

	authMiddleware := handler.NewAuthMiddleware(cfg.JWT.Secret)
	favoriteHandler := handler.NewFavoriteHandler(favoriteService)
	router := handler.SetupRoutes(favoriteHandler, authMiddleware)

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
			Msg("Starting Favorite Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Favorite Service...")

	for _, consumer := range consumers {
		consumer.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Favorite Service stopped gracefully")
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
