package appointmentRepo

import (
	"context"
	"errors"
	"time"

	"slotbook/models"
)

var (
	ErrNotFound = errors.New("appointment not found")
	// ErrSlotTaken is returned when another active appointment already holds the slot.
	ErrSlotTaken = errors.New("slot already booked")
	// ErrNotActive is returned when cancelling an appointment that is no longer active.
	ErrNotActive = errors.New("appointment is not active")
)

type AppointmentRepository interface {
	Create(ctx context.Context, appt *models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	// ListActiveByMasterDate returns the master's active appointments on one date.
	ListActiveByMasterDate(ctx context.Context, masterID, date string) ([]models.Appointment, error)
	// ListForUser returns appointments where the user is the client or the master, earliest first.
	ListForUser(ctx context.Context, userID string, filter models.AppointmentFilter) ([]models.Appointment, error)
	// Cancel moves an active appointment to cancelled. ErrNotActive when it already left that state.
	Cancel(ctx context.Context, id, cancelledBy string, at time.Time) error
	// HasVisit reports whether the client held an active appointment with the master before t.
	HasVisit(ctx context.Context, clientID, masterID string, before time.Time) (bool, error)
}
