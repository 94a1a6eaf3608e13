package scheduleRepo

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

type MongoScheduleRepo struct {
	daysOff   *mongo.Collection
	templates *mongo.Collection
	overrides *mongo.Collection
}

func NewMongoScheduleRepo(db *mongo.Database) *MongoScheduleRepo {
	return &MongoScheduleRepo{
		daysOff:   db.Collection("days_off"),
		templates: db.Collection("weekly_templates"),
		overrides: db.Collection("date_overrides"),
	}
}

func newContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, 5*time.Second)
}

func (r *MongoScheduleRepo) IsDayOff(ctx context.Context, masterID, date string) (bool, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	n, err := r.daysOff.CountDocuments(ctx, bson.M{"masterId": masterID, "date": date}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check day off: %w", err)
	}
	return n > 0, nil
}

func (r *MongoScheduleRepo) SetDayOff(ctx context.Context, masterID, date string, off bool) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	filter := bson.M{"masterId": masterID, "date": date}
	if !off {
		if _, err := r.daysOff.DeleteOne(ctx, filter); err != nil {
			return fmt.Errorf("failed to clear day off: %w", err)
		}
		return nil
	}

	update := bson.M{"$setOnInsert": bson.M{"createdAt": time.Now().UTC()}}
	if _, err := r.daysOff.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to set day off: %w", err)
	}
	return nil
}

func (r *MongoScheduleRepo) ListDaysOff(ctx context.Context, masterID, from, to string) ([]string, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	filter := bson.M{"masterId": masterID, "date": bson.M{"$gte": from, "$lte": to}}
	cursor, err := r.daysOff.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list days off: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []models.DayOff
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode days off: %w", err)
	}
	dates := make([]string, 0, len(docs))
	for _, d := range docs {
		dates = append(dates, d.Date)
	}
	return dates, nil
}

func (r *MongoScheduleRepo) GetWeekdaySlots(ctx context.Context, masterID, weekday string) ([]string, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	var tpl models.WeekdayTemplate
	err := r.templates.FindOne(ctx, bson.M{"masterId": masterID, "dayOfWeek": weekday}).Decode(&tpl)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch weekday template: %w", err)
	}
	return tpl.Slots, nil
}

func (r *MongoScheduleRepo) SetWeekdaySlots(ctx context.Context, masterID, weekday string, slots []string) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	filter := bson.M{"masterId": masterID, "dayOfWeek": weekday}
	if len(slots) == 0 {
		if _, err := r.templates.DeleteOne(ctx, filter); err != nil {
			return fmt.Errorf("failed to clear weekday template: %w", err)
		}
		return nil
	}

	update := bson.M{"$set": bson.M{"slots": slots, "updatedAt": time.Now().UTC()}}
	if _, err := r.templates.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to save weekday template: %w", err)
	}
	return nil
}

func (r *MongoScheduleRepo) ListWeekdayTemplates(ctx context.Context, masterID string) (map[string][]string, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	cursor, err := r.templates.Find(ctx, bson.M{"masterId": masterID})
	if err != nil {
		return nil, fmt.Errorf("failed to list weekday templates: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []models.WeekdayTemplate
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode weekday templates: %w", err)
	}
	out := make(map[string][]string, len(docs))
	for _, d := range docs {
		out[d.DayOfWeek] = d.Slots
	}
	return out, nil
}

func (r *MongoScheduleRepo) GetDateOverride(ctx context.Context, masterID, date string) (*[]string, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	var ov models.DateOverride
	err := r.overrides.FindOne(ctx, bson.M{"masterId": masterID, "date": date}).Decode(&ov)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch date override: %w", err)
	}
	slots := ov.Slots
	if slots == nil {
		slots = []string{}
	}
	return &slots, nil
}

func (r *MongoScheduleRepo) SetDateOverride(ctx context.Context, masterID, date string, slots []string) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	if slots == nil {
		slots = []string{}
	}
	filter := bson.M{"masterId": masterID, "date": date}
	update := bson.M{"$set": bson.M{"slots": slots, "updatedAt": time.Now().UTC()}}
	if _, err := r.overrides.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to save date override: %w", err)
	}
	return nil
}

func (r *MongoScheduleRepo) DeleteDateOverride(ctx context.Context, masterID, date string) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	if _, err := r.overrides.DeleteOne(ctx, bson.M{"masterId": masterID, "date": date}); err != nil {
		return fmt.Errorf("failed to delete date override: %w", err)
	}
	return nil
}
