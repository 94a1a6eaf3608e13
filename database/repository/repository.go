package repository

import (
	"context"

	appointmentRepo "slotbook/database/repository/appointment"
	reviewRepo "slotbook/database/repository/review"
	scheduleRepo "slotbook/database/repository/schedule"
	userRepo "slotbook/database/repository/user"
	workRepo "slotbook/database/repository/work"

	"go.mongodb.org/mongo-driver/mongo"
)

// Re-export the repository interfaces.
type (
	UserRepository        = userRepo.UserRepository
	AppointmentRepository = appointmentRepo.AppointmentRepository
	ScheduleRepository    = scheduleRepo.ScheduleRepository
	ReviewRepository      = reviewRepo.ReviewRepository
	WorkRepository        = workRepo.WorkRepository
)

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

// Repositories groups the Mongo-backed repositories of one database.
type Repositories struct {
	Users        *userRepo.MongoUserRepo
	Appointments *appointmentRepo.MongoAppointmentRepo
	Schedules    *scheduleRepo.MongoScheduleRepo
	Reviews      *reviewRepo.MongoReviewRepo
	Works        *workRepo.MongoWorkRepo
}

// NewRepositories constructs every repository over db.
func NewRepositories(db *mongo.Database) *Repositories {
	return &Repositories{
		Users:        userRepo.NewMongoUserRepo(db),
		Appointments: appointmentRepo.NewMongoAppointmentRepo(db),
		Schedules:    scheduleRepo.NewMongoScheduleRepo(db),
		Reviews:      reviewRepo.NewMongoReviewRepo(db),
		Works:        workRepo.NewMongoWorkRepo(db),
	}
}

// EnsureIndexes creates the indexes of every collection, stopping at the first failure.
func (r *Repositories) EnsureIndexes(ctx context.Context) error {
	for _, ix := range []indexer{r.Users, r.Appointments, r.Schedules, r.Reviews, r.Works} {
		if err := ix.EnsureIndexes(ctx); err != nil {
			return err
		}
	}
	return nil
}
