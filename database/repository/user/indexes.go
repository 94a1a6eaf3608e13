package userRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates indexes for fields frequently used in queries.
func (r *MongoUserRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_email"),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_username"),
		},
		{
			Keys:    bson.D{{Key: "specialization", Value: 1}, {Key: "averageRating", Value: -1}},
			Options: options.Index().SetName("specialization_rating_idx"),
		},
		{
			Keys: bson.D{{Key: "telegramChatId", Value: 1}},
			Options: options.Index().SetName("telegram_chat_idx").
				SetPartialFilterExpression(bson.M{"telegramChatId": bson.M{"$gt": 0}}),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	return nil
}
