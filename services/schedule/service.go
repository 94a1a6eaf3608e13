package schedule

import (
	"context"
	"errors"
	"fmt"

	appointmentRepo "slotbook/database/repository/appointment"
	scheduleRepo "slotbook/database/repository/schedule"
	userRepo "slotbook/database/repository/user"
	"slotbook/models"
	"slotbook/services/availability"
	"slotbook/utils"

	"go.uber.org/zap"
)

var (
	ErrMasterNotFound = errors.New("master not found")
	ErrNotMaster      = errors.New("only masters can manage a schedule")
)

type ScheduleService interface {
	// GetSchedule resolves the master's offered and booked slots for one date.
	GetSchedule(ctx context.Context, masterID, date string) (*models.DaySchedule, error)
	SetDayOff(ctx context.Context, masterID, date string, off bool) error
	// SetWeekdaySlots stores the normalized slots; an empty list clears the weekday.
	SetWeekdaySlots(ctx context.Context, masterID, weekday string, slots []string) ([]string, error)
	// SetDateSlots stores a per-date override; an empty list means "no slots" on that date.
	SetDateSlots(ctx context.Context, masterID, date string, slots []string) ([]string, error)
	DeleteDateSlots(ctx context.Context, masterID, date string) error
	// WeekTemplates returns every weekday template of the master.
	WeekTemplates(ctx context.Context, masterID string) (map[string][]string, error)
}

type DefaultScheduleService struct {
	Users        userRepo.UserRepository
	Schedules    scheduleRepo.ScheduleRepository
	Appointments appointmentRepo.AppointmentRepository
}

func (s *DefaultScheduleService) lookupMaster(ctx context.Context, masterID string) (*models.User, error) {
	u, err := s.Users.GetByID(ctx, masterID)
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return nil, ErrMasterNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *DefaultScheduleService) requireMaster(ctx context.Context, masterID string) error {
	u, err := s.lookupMaster(ctx, masterID)
	if err != nil {
		return err
	}
	if !u.IsMaster() {
		return ErrNotMaster
	}
	return nil
}

func (s *DefaultScheduleService) GetSchedule(ctx context.Context, masterID, date string) (*models.DaySchedule, error) {
	weekday, err := availability.WeekdayOf(date)
	if err != nil {
		return nil, err
	}
	u, err := s.lookupMaster(ctx, masterID)
	if err != nil {
		return nil, err
	}
	if !u.IsMaster() {
		return nil, ErrMasterNotFound
	}

	in := availability.DayInput{MasterID: masterID, Date: date}
	if in.DayOff, err = s.Schedules.IsDayOff(ctx, masterID, date); err != nil {
		return nil, err
	}
	if !in.DayOff {
		if in.Override, err = s.Schedules.GetDateOverride(ctx, masterID, date); err != nil {
			return nil, err
		}
		if in.Override == nil {
			if in.Template, err = s.Schedules.GetWeekdaySlots(ctx, masterID, weekday); err != nil {
				return nil, err
			}
		}
		if in.Appointments, err = s.Appointments.ListActiveByMasterDate(ctx, masterID, date); err != nil {
			return nil, err
		}
	}

	resolved := availability.Resolve(in)
	return &resolved, nil
}

func (s *DefaultScheduleService) SetDayOff(ctx context.Context, masterID, date string, off bool) error {
	if !availability.ValidDate(date) {
		return availability.ValidationError{Msg: fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", date)}
	}
	if err := s.requireMaster(ctx, masterID); err != nil {
		return err
	}
	if err := s.Schedules.SetDayOff(ctx, masterID, date, off); err != nil {
		utils.GetLogger().Error("Failed to set day off",
			zap.String("masterID", masterID), zap.String("date", date), zap.Error(err))
		return err
	}
	utils.GetLogger().Info("Day off updated",
		zap.String("masterID", masterID), zap.String("date", date), zap.Bool("dayOff", off))
	return nil
}

func (s *DefaultScheduleService) SetWeekdaySlots(ctx context.Context, masterID, weekday string, slots []string) ([]string, error) {
	day, err := availability.ParseWeekday(weekday)
	if err != nil {
		return nil, err
	}
	normalized, err := availability.NormalizeSlots(slots)
	if err != nil {
		return nil, err
	}
	if err := s.requireMaster(ctx, masterID); err != nil {
		return nil, err
	}
	if err := s.Schedules.SetWeekdaySlots(ctx, masterID, day, normalized); err != nil {
		utils.GetLogger().Error("Failed to save weekday slots",
			zap.String("masterID", masterID), zap.String("weekday", day), zap.Error(err))
		return nil, err
	}
	return normalized, nil
}

func (s *DefaultScheduleService) SetDateSlots(ctx context.Context, masterID, date string, slots []string) ([]string, error) {
	if !availability.ValidDate(date) {
		return nil, availability.ValidationError{Msg: fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", date)}
	}
	normalized, err := availability.NormalizeSlots(slots)
	if err != nil {
		return nil, err
	}
	if err := s.requireMaster(ctx, masterID); err != nil {
		return nil, err
	}
	if err := s.Schedules.SetDateOverride(ctx, masterID, date, normalized); err != nil {
		utils.GetLogger().Error("Failed to save date override",
			zap.String("masterID", masterID), zap.String("date", date), zap.Error(err))
		return nil, err
	}
	return normalized, nil
}

func (s *DefaultScheduleService) DeleteDateSlots(ctx context.Context, masterID, date string) error {
	if !availability.ValidDate(date) {
		return availability.ValidationError{Msg: fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", date)}
	}
	if err := s.requireMaster(ctx, masterID); err != nil {
		return err
	}
	return s.Schedules.DeleteDateOverride(ctx, masterID, date)
}

func (s *DefaultScheduleService) WeekTemplates(ctx context.Context, masterID string) (map[string][]string, error) {
	if err := s.requireMaster(ctx, masterID); err != nil {
		return nil, err
	}
	return s.Schedules.ListWeekdayTemplates(ctx, masterID)
}
