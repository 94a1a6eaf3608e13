package appointmentRepo

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

type MongoAppointmentRepo struct {
	coll *mongo.Collection
}

func NewMongoAppointmentRepo(db *mongo.Database) *MongoAppointmentRepo {
	return &MongoAppointmentRepo{coll: db.Collection("appointments")}
}

// Create inserts the appointment. The first writer of an active slot wins; the
// unique partial index rejects the rest with ErrSlotTaken.
func (r *MongoAppointmentRepo) Create(ctx context.Context, appt *models.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, appt); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *MongoAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var appt models.Appointment
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&appt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch appointment %s: %w", id, err)
	}
	return &appt, nil
}

func (r *MongoAppointmentRepo) ListActiveByMasterDate(ctx context.Context, masterID, date string) ([]models.Appointment, error) {
	filter := bson.M{"masterId": masterID, "date": date, "status": models.AppointmentActive}
	return r.find(ctx, filter)
}

func (r *MongoAppointmentRepo) ListForUser(ctx context.Context, userID string, f models.AppointmentFilter) ([]models.Appointment, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"clientId": userID},
		bson.M{"masterId": userID},
	}}
	if f.Date != "" {
		filter["date"] = f.Date
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	return r.find(ctx, filter)
}

func (r *MongoAppointmentRepo) find(ctx context.Context, filter bson.M) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "scheduledAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query appointments: %w", err)
	}
	defer cursor.Close(ctx)

	appts := []models.Appointment{}
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}
	return appts, nil
}

func (r *MongoAppointmentRepo) Cancel(ctx context.Context, id, cancelledBy string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Conditional on status so two concurrent cancels cannot both succeed.
	filter := bson.M{"id": id, "status": models.AppointmentActive}
	update := bson.M{"$set": bson.M{
		"status":      models.AppointmentCancelled,
		"cancelledAt": at,
		"cancelledBy": cancelledBy,
	}}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to cancel appointment %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotActive
	}
	return nil
}

func (r *MongoAppointmentRepo) HasVisit(ctx context.Context, clientID, masterID string, before time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"clientId":    clientID,
		"masterId":    masterID,
		"status":      models.AppointmentActive,
		"scheduledAt": bson.M{"$lt": before},
	}
	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to count visits: %w", err)
	}
	return n > 0, nil
}
