package booking

import (
	"context"
	"errors"
	"slices"
	"time"

	appointmentRepo "slotbook/database/repository/appointment"
	userRepo "slotbook/database/repository/user"
	"slotbook/models"
	"slotbook/services/availability"
	"slotbook/services/schedule"
	"slotbook/services/tasks"
	"slotbook/utils"

	"go.uber.org/zap"
)

type BookingService interface {
	// Book creates an active appointment for clientID at "YYYY-MM-DD HH:MM".
	Book(ctx context.Context, clientID string, req models.CreateAppointmentRequest) (*models.Appointment, error)
	// List returns appointments where userID is the client or the master.
	List(ctx context.Context, userID string, filter models.AppointmentFilter) ([]models.Appointment, error)
	// Cancel moves an active appointment to cancelled on behalf of one of its parties.
	Cancel(ctx context.Context, userID, appointmentID string) (*models.Appointment, error)
}

type DefaultBookingService struct {
	Users        userRepo.UserRepository
	Appointments appointmentRepo.AppointmentRepository
	Schedule     schedule.ScheduleService
	Publisher    tasks.Publisher
	ReminderLead time.Duration
	// Now is replaceable in tests.
	Now func() time.Time
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultBookingService) Book(ctx context.Context, clientID string, req models.CreateAppointmentRequest) (*models.Appointment, error) {
	logger := utils.GetLogger().With(zap.String("clientID", clientID), zap.String("masterID", req.MasterID))

	if req.MasterID == clientID {
		return nil, ErrSelfBooking
	}
	// Appointment times carry no zone and are read as UTC.
	at, date, slot, err := availability.ParseAppointmentTime(req.Time)
	if err != nil {
		return nil, err
	}
	if !at.After(s.now().UTC()) {
		return nil, ErrPastTime
	}

	master, err := s.Users.GetByID(ctx, req.MasterID)
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return nil, schedule.ErrMasterNotFound
		}
		return nil, err
	}
	if !master.IsMaster() {
		return nil, ErrNotAMaster
	}

	day, err := s.Schedule.GetSchedule(ctx, req.MasterID, date)
	if err != nil {
		return nil, err
	}
	if day.IsDayOff || !slices.Contains(day.Slots, slot) {
		return nil, ErrMasterUnavailable
	}
	if slices.Contains(day.Booked, slot) {
		return nil, ErrSlotTaken
	}

	appt := &models.Appointment{
		ID:          utils.NewID(),
		ClientID:    clientID,
		MasterID:    req.MasterID,
		Date:        date,
		Time:        slot,
		ScheduledAt: at,
		Status:      models.AppointmentActive,
		CreatedAt:   s.now().UTC(),
	}
	// Two clients can pass the check above at once; the store keeps the first.
	if err := s.Appointments.Create(ctx, appt); err != nil {
		if errors.Is(err, ErrSlotTaken) {
			logger.Info("Lost booking race", zap.String("date", date), zap.String("time", slot))
		}
		return nil, err
	}

	logger.Info("Appointment booked", zap.String("appointmentID", appt.ID), zap.String("time", req.Time))
	s.publishCreated(ctx, *appt)
	return appt, nil
}

func (s *DefaultBookingService) publishCreated(ctx context.Context, appt models.Appointment) {
	if s.Publisher == nil {
		return
	}
	logger := utils.GetLogger()

	if task, err := tasks.NewAppointmentCreatedTask(appt); err != nil {
		logger.Error("Failed to build created task", zap.Error(err))
	} else if err := s.Publisher.Enqueue(ctx, task); err != nil {
		logger.Error("Failed to publish appointment created", zap.String("appointmentID", appt.ID), zap.Error(err))
	}

	task, opts, err := tasks.NewReminderTask(appt, s.ReminderLead, s.now())
	if err != nil {
		logger.Error("Failed to build reminder task", zap.Error(err))
		return
	}
	if task == nil {
		return
	}
	if err := s.Publisher.Enqueue(ctx, task, opts...); err != nil {
		logger.Error("Failed to schedule reminder", zap.String("appointmentID", appt.ID), zap.Error(err))
	}
}

func (s *DefaultBookingService) List(ctx context.Context, userID string, filter models.AppointmentFilter) ([]models.Appointment, error) {
	if filter.Date != "" && !availability.ValidDate(filter.Date) {
		return nil, availability.ValidationError{Msg: "invalid date filter, expected YYYY-MM-DD"}
	}
	switch filter.Status {
	case "", models.AppointmentActive, models.AppointmentCancelled:
	default:
		return nil, availability.ValidationError{Msg: "status must be active or cancelled"}
	}
	return s.Appointments.ListForUser(ctx, userID, filter)
}

func (s *DefaultBookingService) Cancel(ctx context.Context, userID, appointmentID string) (*models.Appointment, error) {
	appt, err := s.Appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt.ClientID != userID && appt.MasterID != userID {
		return nil, ErrNotParty
	}
	if !appt.IsActive() {
		return nil, ErrAlreadyCancelled
	}

	at := s.now().UTC()
	if err := s.Appointments.Cancel(ctx, appointmentID, userID, at); err != nil {
		if errors.Is(err, appointmentRepo.ErrNotActive) {
			return nil, ErrAlreadyCancelled
		}
		return nil, err
	}
	appt.Status = models.AppointmentCancelled
	appt.CancelledAt = &at
	appt.CancelledBy = userID

	utils.GetLogger().Info("Appointment cancelled",
		zap.String("appointmentID", appointmentID), zap.String("by", userID))

	if s.Publisher != nil {
		task, err := tasks.NewAppointmentCancelledTask(*appt)
		if err == nil {
			err = s.Publisher.Enqueue(ctx, task)
		}
		if err != nil {
			utils.GetLogger().Error("Failed to publish appointment cancelled",
				zap.String("appointmentID", appointmentID), zap.Error(err))
		}
	}
	return appt, nil
}
