package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/devanshhooda/learn-live-server/internal/config"
)

// ConnectMongo dials the user store described by cfg and verifies the
// connection with a ping. Connect and ping share one deadline so startup
// fails fast when the cluster is unreachable.
func ConnectMongo(cfg config.MongoCfg, deadline time.Duration, log *zap.SugaredLogger) (*mongo.Database, *mongo.Client, error) {
	if deadline <= 0 {
		deadline = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), deadline)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	log.Infof("Connected to MongoDB database %q", cfg.Database)
	return client.Database(cfg.Database), client, nil
}
