package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/devanshhooda/learn-live-server/internal/config"
	"github.com/devanshhooda/learn-live-server/internal/database"
	"github.com/devanshhooda/learn-live-server/internal/events"
	"github.com/devanshhooda/learn-live-server/internal/handlers"
	"github.com/devanshhooda/learn-live-server/internal/middleware"
	"github.com/devanshhooda/learn-live-server/internal/notify"
	"github.com/devanshhooda/learn-live-server/internal/repository"
	"github.com/devanshhooda/learn-live-server/internal/server"
	"github.com/devanshhooda/learn-live-server/internal/service"
	"github.com/devanshhooda/learn-live-server/internal/token"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables:", err)
	}

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var logger *zap.Logger
	if cfg.App.Env == "development" {
		l, _ := zap.NewDevelopment()
		logger = l
	} else {
		l, _ := zap.NewProduction()
		logger = l
	}
	defer func() {
		_ = logger.Sync()
	}()
	sugar := logger.Sugar()
	sugar.Infof("Starting learn-live-server in %s environment on port %d", cfg.App.Env, cfg.App.Port)

	db, mongoClient, err := database.ConnectMongo(cfg.Mongo, cfg.OutboundTimeout(), sugar)
	if err != nil {
		sugar.Fatal(err)
	}

	var limiter *middleware.RateLimiter
	if cfg.Redis.Addr != "" {
		rdb, err := database.ConnectRedis(cfg.Redis, cfg.OutboundTimeout(), sugar)
		if err != nil {
			sugar.Fatal(err)
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				sugar.Errorf("Redis client close error: %v", err)
			}
		}()
		window := time.Duration(cfg.Security.AuthRateWindowMinutes) * time.Minute
		limiter = middleware.NewRateLimiter(rdb, "auth_rate_limit", cfg.Security.AuthRateLimit, window, sugar)
	} else {
		sugar.Warn("Redis not configured. Auth rate limiting is disabled.")
	}

	pusher, err := notify.NewClient(context.Background(), cfg.Firebase.CredentialsPath, sugar)
	if err != nil {
		sugar.Fatal(err)
	}
	if !pusher.IsConfigured() {
		sugar.Warn("FCM client not configured. Call signaling will be unavailable.")
	} else {
		sugar.Info("FCM client configured.")
	}

	publisher := events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, sugar)
	if publisher == nil {
		sugar.Warn("Kafka not configured. Lifecycle events will not be published.")
	}

	tokens := token.NewManager(cfg.App.JWT.Secret, cfg.App.JWT.AccessTTLMinutes)
	userRepo := repository.NewMongoUserRepo(db, cfg.Mongo.Collection)

	userSvc := service.NewUserService(userRepo, tokens, publisher, cfg.Security.PasswordHashCost, sugar)
	relationSvc := service.NewRelationService(userRepo, publisher, sugar)
	callSvc := service.NewCallService(userRepo, pusher, cfg.OutboundTimeout(), sugar)

	h := handlers.NewHandler(userSvc, relationSvc, callSvc, logger)
	app := server.New(cfg, h, tokens, limiter, logger)

	go func() {
		listenAddr := fmt.Sprintf(":%d", cfg.App.Port)
		sugar.Infof("Server listening on %s", listenAddr)
		if err := app.Listen(listenAddr); err != nil {
			sugar.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	sugar.Info("Shutting down server...")

	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := app.ShutdownWithContext(ctxShut); err != nil {
		sugar.Errorf("Fiber app shutdown error: %v", err)
	}
	if err := mongoClient.Disconnect(ctxShut); err != nil {
		sugar.Errorf("MongoDB disconnect error: %v", err)
	}
	if err := publisher.Close(); err != nil {
		sugar.Errorf("Kafka producer close error: %v", err)
	}

	sugar.Info("Graceful shutdown complete.")
}
