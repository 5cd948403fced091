package database

import (
	"context"
	"fmt"
	"medblock-service/internal/app/config"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const mongoConnectTimeout = 10 * time.Second

func MongoURI(driverConfig *config.DriverConfig) string {
	host := fmt.Sprintf("%s:%s", driverConfig.MongoDB.Host, driverConfig.MongoDB.Port)
	if driverConfig.MongoDB.Username == "" {
		return fmt.Sprintf("mongodb://%s", host)
	}
	return fmt.Sprintf(
		"mongodb://%s:%s@%s",
		url.QueryEscape(driverConfig.MongoDB.Username),
		url.QueryEscape(driverConfig.MongoDB.Password),
		host,
	)
}

// NewMongoDB connects and pings the primary before returning.
func NewMongoDB(ctx context.Context, driverConfig *config.DriverConfig) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	dbOptions := options.Client().
		ApplyURI(MongoURI(driverConfig)).
		SetServerSelectionTimeout(mongoConnectTimeout)

	client, err := mongo.Connect(ctx, dbOptions)
	if err != nil {
		return nil, fmt.Errorf("connect to mongo database: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo database: %w", err)
	}
	return client, nil
}
