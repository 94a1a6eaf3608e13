package reviewRepo

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

type MongoReviewRepo struct {
	coll *mongo.Collection
}

func NewMongoReviewRepo(db *mongo.Database) *MongoReviewRepo {
	return &MongoReviewRepo{coll: db.Collection("reviews")}
}

func (r *MongoReviewRepo) Create(ctx context.Context, review *models.Review) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, review); err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (r *MongoReviewRepo) GetByID(ctx context.Context, id string) (*models.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var review models.Review
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&review); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch review %s: %w", id, err)
	}
	return &review, nil
}

func (r *MongoReviewRepo) ListByMaster(ctx context.Context, masterID string) ([]models.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"masterId": masterID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return reviews, nil
}

func (r *MongoReviewRepo) Update(ctx context.Context, id string, rating int, comment string) (*models.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"rating": rating, "comment": comment, "updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var review models.Review
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&review); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update review %s: %w", id, err)
	}
	return &review, nil
}

func (r *MongoReviewRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete review %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoReviewRepo) AverageRating(ctx context.Context, masterID string) (float64, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"masterId": masterID}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "avg": bson.M{"$avg": "$rating"}}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, false, fmt.Errorf("failed to aggregate ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Avg float64 `bson:"avg"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, false, fmt.Errorf("failed to decode rating aggregate: %w", err)
	}
	if len(rows) == 0 {
		return 0, false, nil
	}
	return rows[0].Avg, true, nil
}
