package workRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"slotbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoWorkRepo struct {
	coll *mongo.Collection
}

func NewMongoWorkRepo(db *mongo.Database) *MongoWorkRepo {
	return &MongoWorkRepo{coll: db.Collection("works")}
}

func (r *MongoWorkRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("user_created_idx"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create work indexes: %w", err)
	}
	return nil
}

func (r *MongoWorkRepo) Create(ctx context.Context, work *models.Work) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, work); err != nil {
		return fmt.Errorf("failed to create work: %w", err)
	}
	return nil
}

func (r *MongoWorkRepo) GetByID(ctx context.Context, id string) (*models.Work, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var work models.Work
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&work); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch work %s: %w", id, err)
	}
	return &work, nil
}

func (r *MongoWorkRepo) ListByUser(ctx context.Context, userID string) ([]models.Work, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list works: %w", err)
	}
	defer cursor.Close(ctx)

	works := []models.Work{}
	if err := cursor.All(ctx, &works); err != nil {
		return nil, fmt.Errorf("failed to decode works: %w", err)
	}
	return works, nil
}

func (r *MongoWorkRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete work %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
