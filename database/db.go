package database

import (
	"context"
	"fmt"
	"time"

	"slotbook/config"
	"slotbook/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// MongoClient is the global MongoDB client instance.
var MongoClient *mongo.Client

// Connect dials uri and pings the primary.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetAppName("slotbook").
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(50)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

// InitDB connects the global client and exits the process on failure.
func InitDB() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := Connect(ctx, config.AppConfig.DatabaseURL)
	if err != nil {
		utils.GetLogger().Fatal("Database unavailable", zap.Error(err))
	}
	MongoClient = client
	utils.GetLogger().Info("Connected to MongoDB", zap.String("database", config.AppConfig.DatabaseName))
}

// DB returns the application database.
func DB() *mongo.Database {
	if MongoClient == nil {
		InitDB()
	}
	return MongoClient.Database(config.AppConfig.DatabaseName)
}

// Disconnect closes the global client.
func Disconnect(ctx context.Context) error {
	if MongoClient == nil {
		return nil
	}
	return MongoClient.Disconnect(ctx)
}
