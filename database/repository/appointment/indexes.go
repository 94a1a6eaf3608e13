package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"slotbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the appointment indexes, including the partial unique
// index that admits at most one active appointment per master slot.
func (r *MongoAppointmentRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "masterId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetName("master_date_idx"),
		},
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "scheduledAt", Value: 1}},
			Options: options.Index().SetName("client_scheduled_idx"),
		},
		{
			Keys: bson.D{{Key: "masterId", Value: 1}, {Key: "date", Value: 1}, {Key: "time", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": models.AppointmentActive}).
				SetName("active_slot_unique"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create appointment indexes: %w", err)
	}
	return nil
}
