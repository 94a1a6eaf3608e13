package userRepo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"slotbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserRepo implements UserRepository using MongoDB.
type MongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo creates a new instance of UserRepository using MongoDB.
func NewMongoUserRepo(db *mongo.Database) *MongoUserRepo {
	return &MongoUserRepo{coll: db.Collection("users")}
}

func (r *MongoUserRepo) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	user.RegisteredAt = now
	user.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *MongoUserRepo) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

func (r *MongoUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *MongoUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepo) GetByTelegramChatID(ctx context.Context, chatID int64) (*models.User, error) {
	return r.findOne(ctx, bson.M{"telegramChatId": chatID})
}

func (r *MongoUserRepo) UpdateFields(ctx context.Context, id string, fields bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to update user with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoUserRepo) ListMasters(ctx context.Context, filter models.MasterFilter) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := bson.M{"specialization": bson.M{"$nin": bson.A{"", models.SpecializationClient}}}
	if filter.Specialization != "" && filter.Specialization != models.SpecializationClient {
		query["specialization"] = filter.Specialization
	}
	if filter.MinRating > 0 {
		query["averageRating"] = bson.M{"$gte": filter.MinRating}
	}

	opts := options.Find().SetSort(bson.D{{Key: "averageRating", Value: -1}, {Key: "username", Value: 1}})
	return r.findMany(ctx, query, opts)
}

func (r *MongoUserRepo) Search(ctx context.Context, key string, limit int64) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pattern := substringMatch(key)
	query := bson.M{"$or": bson.A{
		bson.M{"username": pattern},
		bson.M{"fullName": pattern},
		bson.M{"specialization": pattern},
	}}
	opts := options.Find().SetLimit(limit).SetSort(bson.D{{Key: "username", Value: 1}})
	return r.findMany(ctx, query, opts)
}

func (r *MongoUserRepo) findMany(ctx context.Context, query bson.M, opts *options.FindOptions) ([]models.User, error) {
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

// substringMatch builds a case-insensitive literal substring match.
func substringMatch(key string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(key), "$options": "i"}
}
