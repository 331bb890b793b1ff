package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultMongoURL = "mongodb://localhost:27017"
	defaultDBName   = "floorplan"
	plansCollection = "plans"
)

// databaseSettings reads the same keys the floorplan service does.
func databaseSettings(config *apt.Config) (string, string) {
	url := config.GetStringOrDef("db.mongo.url", defaultMongoURL)
	name := config.GetStringOrDef("db.mongo.name", defaultDBName)
	return url, name
}

func connect(ctx context.Context, config *apt.Config, logger apt.Logger) (*mongo.Client, string, error) {
	mongoURL, dbName := databaseSettings(config)

	clientOptions := options.Client().ApplyURI(mongoURL).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, "", fmt.Errorf("connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, "", fmt.Errorf("ping mongodb: %w", err)
	}

	logger.Info("Connected to MongoDB", "database", dbName)
	return client, dbName, nil
}
