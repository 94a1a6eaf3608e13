package notification

import (
	"context"
	"errors"
	"fmt"

	userRepo "slotbook/database/repository/user"
	"slotbook/models"
	"slotbook/services/tasks"
	"slotbook/utils"

	"go.uber.org/zap"
)

// NotificationService tells the parties of an appointment what happened to it.
// Masters are reached through their linked Telegram chat, clients through FCM.
type NotificationService interface {
	AppointmentCreated(ctx context.Context, p tasks.AppointmentPayload) error
	AppointmentCancelled(ctx context.Context, p tasks.AppointmentPayload) error
	AppointmentReminder(ctx context.Context, p tasks.AppointmentPayload) error
	ReviewCreated(ctx context.Context, p tasks.ReviewPayload) error
}

// DefaultNotificationService is the production implementation. A nil Telegram
// or Push sender disables that channel.
type DefaultNotificationService struct {
	Users    userRepo.UserRepository
	Telegram TelegramSender
	Push     PushSender
}

func NewDefaultNotificationService(users userRepo.UserRepository, tg TelegramSender, push PushSender) (*DefaultNotificationService, error) {
	if users == nil {
		return nil, fmt.Errorf("notification service initialization error: user repository is nil")
	}
	return &DefaultNotificationService{Users: users, Telegram: tg, Push: push}, nil
}

func (s *DefaultNotificationService) parties(ctx context.Context, masterID, clientID string) (master, client *models.User, err error) {
	master, err = s.Users.GetByID(ctx, masterID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load master %s: %w", masterID, err)
	}
	client, err = s.Users.GetByID(ctx, clientID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load client %s: %w", clientID, err)
	}
	return master, client, nil
}

func (s *DefaultNotificationService) AppointmentCreated(ctx context.Context, p tasks.AppointmentPayload) error {
	master, client, err := s.parties(ctx, p.MasterID, p.ClientID)
	if err != nil {
		return err
	}
	return errors.Join(
		s.tellMaster(ctx, master, fmt.Sprintf("New appointment on %s at %s with %s (@%s).",
			p.Date, p.Time, client.FullName, client.Username)),
		s.pushClient(ctx, client, "Appointment booked",
			fmt.Sprintf("%s expects you on %s at %s.", master.FullName, p.Date, p.Time),
			pushData("appointment_created", p.AppointmentID)),
	)
}

// AppointmentCancelled notifies the party that did not cancel.
func (s *DefaultNotificationService) AppointmentCancelled(ctx context.Context, p tasks.AppointmentPayload) error {
	master, client, err := s.parties(ctx, p.MasterID, p.ClientID)
	if err != nil {
		return err
	}
	if p.CancelledBy == p.MasterID {
		return s.pushClient(ctx, client, "Appointment cancelled",
			fmt.Sprintf("%s cancelled your appointment on %s at %s.", master.FullName, p.Date, p.Time),
			pushData("appointment_cancelled", p.AppointmentID))
	}
	return s.tellMaster(ctx, master, fmt.Sprintf("%s (@%s) cancelled the appointment on %s at %s.",
		client.FullName, client.Username, p.Date, p.Time))
}

func (s *DefaultNotificationService) AppointmentReminder(ctx context.Context, p tasks.AppointmentPayload) error {
	master, client, err := s.parties(ctx, p.MasterID, p.ClientID)
	if err != nil {
		return err
	}
	return errors.Join(
		s.tellMaster(ctx, master, fmt.Sprintf("Reminder: %s (@%s) at %s today.",
			client.FullName, client.Username, p.Time)),
		s.pushClient(ctx, client, "Upcoming appointment",
			fmt.Sprintf("You are booked with %s on %s at %s.", master.FullName, p.Date, p.Time),
			pushData("appointment_reminder", p.AppointmentID)),
	)
}

func (s *DefaultNotificationService) ReviewCreated(ctx context.Context, p tasks.ReviewPayload) error {
	master, err := s.Users.GetByID(ctx, p.MasterID)
	if err != nil {
		return fmt.Errorf("failed to load master %s: %w", p.MasterID, err)
	}
	text := fmt.Sprintf("New review: %s", stars(p.Rating))
	if p.Comment != "" {
		text += "\n" + p.Comment
	}
	return s.tellMaster(ctx, master, text)
}

func (s *DefaultNotificationService) tellMaster(ctx context.Context, master *models.User, text string) error {
	if s.Telegram == nil || master.TelegramChatID == 0 {
		utils.GetLogger().Debug("Master has no linked chat, skipping", zap.String("masterID", master.ID))
		return nil
	}
	return sendTelegram(ctx, s.Telegram, master.TelegramChatID, text)
}

func (s *DefaultNotificationService) pushClient(ctx context.Context, client *models.User, title, body string, data map[string]string) error {
	if s.Push == nil || client.PushToken == "" {
		utils.GetLogger().Debug("Client has no push token, skipping", zap.String("userID", client.ID))
		return nil
	}
	return sendPush(ctx, s.Push, client.PushToken, title, body, data)
}

func pushData(kind, appointmentID string) map[string]string {
	return map[string]string{
		"type":           kind,
		"appointment_id": appointmentID,
	}
}

func stars(n int) string {
	out := ""
	for i := 0; i < 5; i++ {
		if i < n {
			out += "★"
		} else {
			out += "☆"
		}
	}
	return out
}
