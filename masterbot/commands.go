package masterbot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	userRepo "slotbook/database/repository/user"
	"slotbook/models"
	"slotbook/services/availability"
	"slotbook/services/booking"
	"slotbook/services/schedule"
	"slotbook/services/user"
	"slotbook/utils"

	"go.uber.org/zap"
)

const helpText = "Commands:\n" +
	"/login <username> <password> - link this chat to your master account\n" +
	"/today - today's slots and bookings\n" +
	"/schedule <YYYY-MM-DD> - slots and bookings of a date\n" +
	"/dayoff <YYYY-MM-DD...> - mark dates as days off\n" +
	"/workday <YYYY-MM-DD...> - make dates working again\n" +
	"/hours <weekday> <HH:MM...> - weekly hours, \"-\" clears the weekday\n" +
	"/datehours <YYYY-MM-DD> <HH:MM...> - hours for one date, \"-\" means no slots\n" +
	"/cleardate <YYYY-MM-DD> - drop the hours set for a date\n" +
	"/cancel - stop the current dialog"

const notLinkedText = "This chat is not linked yet. Send /login <username> <password>."

// Controller turns bot messages into schedule operations for the linked master.
type Controller struct {
	Users    userRepo.UserRepository
	Accounts user.UserService
	Schedule schedule.ScheduleService
	Bookings booking.BookingService
	State    *Manager
	Now      func() time.Time
}

func (c *Controller) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// parseCommand splits "/cmd@bot a b" into "/cmd" and its arguments.
// Text that is not a command yields an empty name.
func parseCommand(text string) (string, []string) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", fields
	}
	name, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")
	return name, fields[1:]
}

// parseSlots accepts space or comma separated times. A lone "-" means none.
func parseSlots(args []string) ([]string, error) {
	if len(args) == 1 && args[0] == "-" {
		return []string{}, nil
	}
	var raw []string
	for _, a := range args {
		for _, s := range strings.Split(a, ",") {
			if s = strings.TrimSpace(s); s != "" {
				raw = append(raw, s)
			}
		}
	}
	if len(raw) == 0 {
		return nil, availability.ValidationError{Msg: "no hours given, use \"-\" for none"}
	}
	return availability.NormalizeSlots(raw)
}

func parseDates(args []string) ([]string, error) {
	if len(args) == 0 {
		return nil, availability.ValidationError{Msg: "give at least one date as YYYY-MM-DD"}
	}
	for _, d := range args {
		if _, err := availability.ParseDate(d); err != nil {
			return nil, err
		}
	}
	return args, nil
}

// Reply handles one incoming message and returns the text to send back.
func (c *Controller) Reply(ctx context.Context, chatID int64, text string) string {
	name, args := parseCommand(text)

	switch name {
	case "/start":
		return "Hi! I manage your slotbook schedule.\n\n" + helpText
	case "/help":
		return helpText
	case "/cancel":
		if c.State.GetState(chatID) == StateNone {
			return "Nothing to cancel."
		}
		c.State.ClearState(chatID)
		return "Cancelled."
	case "/login":
		return c.login(ctx, chatID, args)
	case "":
		return c.dialog(ctx, chatID, args)
	}

	master, err := c.Users.GetByTelegramChatID(ctx, chatID)
	if errors.Is(err, userRepo.ErrNotFound) {
		return notLinkedText
	}
	if err != nil {
		return c.errorText(err)
	}
	// Any new command abandons a pending dialog.
	c.State.ClearState(chatID)

	switch name {
	case "/today":
		return c.day(ctx, master.ID, c.now().UTC().Format(availability.DateLayout))
	case "/schedule":
		if len(args) == 0 {
			return c.day(ctx, master.ID, c.now().UTC().Format(availability.DateLayout))
		}
		if _, err := availability.ParseDate(args[0]); err != nil {
			return c.errorText(err)
		}
		return c.day(ctx, master.ID, args[0])
	case "/dayoff", "/workday":
		return c.setDaysOff(ctx, master.ID, args, name == "/dayoff")
	case "/hours":
		return c.hours(ctx, chatID, master.ID, args)
	case "/datehours":
		if len(args) < 2 {
			return "Usage: /datehours <YYYY-MM-DD> <HH:MM...>, \"-\" for no slots"
		}
		slots, err := parseSlots(args[1:])
		if err != nil {
			return c.errorText(err)
		}
		saved, err := c.Schedule.SetDateSlots(ctx, master.ID, args[0], slots)
		if err != nil {
			return c.errorText(err)
		}
		return fmt.Sprintf("Hours for %s: %s", args[0], listOrNone(saved))
	case "/cleardate":
		if len(args) != 1 {
			return "Usage: /cleardate <YYYY-MM-DD>"
		}
		if err := c.Schedule.DeleteDateSlots(ctx, master.ID, args[0]); err != nil {
			return c.errorText(err)
		}
		return fmt.Sprintf("%s follows the weekly hours again.", args[0])
	}
	return "Unknown command. See /help."
}

func (c *Controller) login(ctx context.Context, chatID int64, args []string) string {
	if len(args) != 2 {
		return "Usage: /login <username> <password>"
	}
	u, err := c.Accounts.LinkTelegram(ctx, args[0], args[1], chatID)
	switch {
	case errors.Is(err, user.ErrInvalidCredentials):
		return "Wrong username or password."
	case errors.Is(err, user.ErrNotMaster):
		return "Only masters can use this bot."
	case err != nil:
		return c.errorText(err)
	}
	return fmt.Sprintf("Linked to @%s. Notifications about your appointments will arrive here.", u.Username)
}

func (c *Controller) setDaysOff(ctx context.Context, masterID string, args []string, off bool) string {
	dates, err := parseDates(args)
	if err != nil {
		return c.errorText(err)
	}
	for _, d := range dates {
		if err := c.Schedule.SetDayOff(ctx, masterID, d, off); err != nil {
			return c.errorText(err)
		}
	}
	if off {
		return "Day off: " + strings.Join(dates, ", ")
	}
	return "Working: " + strings.Join(dates, ", ")
}

// hours sets a weekday template, asking for the missing parts when called short.
func (c *Controller) hours(ctx context.Context, chatID int64, masterID string, args []string) string {
	if len(args) == 0 {
		c.State.SetState(chatID, StateAwaitWeekday)
		return "Which weekday? (monday ... sunday)"
	}
	weekday, err := availability.ParseWeekday(args[0])
	if err != nil {
		return c.errorText(err)
	}
	if len(args) == 1 {
		c.State.SetState(chatID, StateAwaitWeekSlot)
		c.State.SetData(chatID, "weekday", weekday)
		return fmt.Sprintf("Send the hours for %s, e.g. 09:00 10:30 14:00, or \"-\" for none.", weekday)
	}
	return c.saveWeekday(ctx, masterID, weekday, args[1:])
}

func (c *Controller) saveWeekday(ctx context.Context, masterID, weekday string, args []string) string {
	slots, err := parseSlots(args)
	if err != nil {
		return c.errorText(err)
	}
	saved, err := c.Schedule.SetWeekdaySlots(ctx, masterID, weekday, slots)
	if err != nil {
		return c.errorText(err)
	}
	return fmt.Sprintf("Every %s: %s", weekday, listOrNone(saved))
}

// dialog continues a conversation started by /hours.
func (c *Controller) dialog(ctx context.Context, chatID int64, words []string) string {
	state := c.State.GetState(chatID)
	if state == StateNone {
		return "Unknown command. See /help."
	}
	master, err := c.Users.GetByTelegramChatID(ctx, chatID)
	if errors.Is(err, userRepo.ErrNotFound) {
		c.State.ClearState(chatID)
		return notLinkedText
	}
	if err != nil {
		return c.errorText(err)
	}

	switch state {
	case StateAwaitWeekday:
		if len(words) != 1 {
			return "Send one weekday, or /cancel."
		}
		weekday, err := availability.ParseWeekday(words[0])
		if err != nil {
			return c.errorText(err)
		}
		c.State.SetState(chatID, StateAwaitWeekSlot)
		c.State.SetData(chatID, "weekday", weekday)
		return fmt.Sprintf("Send the hours for %s, e.g. 09:00 10:30 14:00, or \"-\" for none.", weekday)
	case StateAwaitWeekSlot:
		weekday, _ := c.State.GetData(chatID, "weekday")
		if _, err := parseSlots(words); err != nil {
			return c.errorText(err)
		}
		c.State.ClearState(chatID)
		return c.saveWeekday(ctx, master.ID, weekday, words)
	}
	c.State.ClearState(chatID)
	return "Unknown command. See /help."
}

func (c *Controller) day(ctx context.Context, masterID, date string) string {
	sched, err := c.Schedule.GetSchedule(ctx, masterID, date)
	if err != nil {
		return c.errorText(err)
	}
	appts, err := c.Bookings.List(ctx, masterID, models.AppointmentFilter{Date: date, Status: models.AppointmentActive})
	if err != nil {
		return c.errorText(err)
	}
	clients := make(map[string]string, len(appts))
	for _, a := range appts {
		if u, err := c.Users.GetByID(ctx, a.ClientID); err == nil {
			clients[a.Time] = "@" + u.Username
		}
	}
	return renderDay(*sched, clients)
}

func (c *Controller) errorText(err error) string {
	var ve availability.ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Msg
	case errors.Is(err, schedule.ErrNotMaster):
		return "Only masters can manage a schedule."
	}
	utils.GetLogger().Error("Bot command failed", zap.Error(err))
	return "Something went wrong, try again later."
}
