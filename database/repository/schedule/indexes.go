package scheduleRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates one unique index per schedule collection.
func (r *MongoScheduleRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	byDate := mongo.IndexModel{
		Keys:    bson.D{{Key: "masterId", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("master_date_unique"),
	}
	byWeekday := mongo.IndexModel{
		Keys:    bson.D{{Key: "masterId", Value: 1}, {Key: "dayOfWeek", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("master_weekday_unique"),
	}

	if _, err := r.daysOff.Indexes().CreateOne(ctx, byDate); err != nil {
		return fmt.Errorf("failed to create days_off indexes: %w", err)
	}
	if _, err := r.overrides.Indexes().CreateOne(ctx, byDate); err != nil {
		return fmt.Errorf("failed to create date_overrides indexes: %w", err)
	}
	if _, err := r.templates.Indexes().CreateOne(ctx, byWeekday); err != nil {
		return fmt.Errorf("failed to create weekly_templates indexes: %w", err)
	}
	return nil
}
