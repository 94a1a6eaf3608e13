package client

import (
	"context"

	"slotbook/models"
	"slotbook/services/availability"
)

// Session runs user flows against the API and records every outcome in the Store. Each flow
// step is an independent dispatch; a failed refresh never undoes a completed booking.
type Session struct {
	Client *Client
	Store  *Store
}

func NewSession(c *Client, store *Store) *Session {
	return &Session{Client: c, Store: store}
}

// dispatch applies a and drops the client token when the store forced a logout.
func (s *Session) dispatch(a Action) {
	s.Store.Dispatch(a)
	if !s.Store.State().LoggedIn() && s.Client.Token() != "" {
		s.Client.SetToken("")
	}
}

func (s *Session) fail(err error) error {
	s.dispatch(Failed{Err: err})
	return err
}

func (s *Session) requireLogin() error {
	st := s.Store.State()
	if !st.LoggedIn() {
		return &ValidationError{Msg: "log in first"}
	}
	if st.Claims.Expired(s.Store.clock()) {
		s.dispatch(LoggedOut{})
		return s.fail(ErrSessionExpired)
	}
	return nil
}

// Login obtains a token and loads the user's profile.
func (s *Session) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return s.fail(&ValidationError{Msg: "username and password are required"})
	}
	token, err := s.Client.Login(ctx, username, password)
	if err != nil {
		return s.fail(err)
	}
	claims, err := DecodeClaims(token)
	if err != nil {
		return s.fail(err)
	}
	if claims.Expired(s.Store.clock()) {
		return s.fail(ErrSessionExpired)
	}

	s.Client.SetToken(token)
	s.dispatch(LoginSucceeded{Token: token, Claims: claims})

	if u, err := s.Client.GetUser(ctx, claims.Subject); err != nil {
		s.dispatch(Failed{Err: err})
	} else {
		s.dispatch(ProfileLoaded{User: *u})
	}
	return nil
}

// Logout revokes the token on the server and clears local state even when revocation fails.
func (s *Session) Logout(ctx context.Context) error {
	var err error
	if s.Client.Token() != "" {
		err = s.Client.Logout(ctx)
	}
	s.Client.SetToken("")
	s.dispatch(LoggedOut{})
	return err
}

func (s *Session) LoadMasters(ctx context.Context, filter models.MasterFilter) error {
	masters, err := s.Client.ListMasters(ctx, filter)
	if err != nil {
		return s.fail(err)
	}
	s.dispatch(MastersLoaded{Masters: masters})
	return nil
}

func (s *Session) LoadAppointments(ctx context.Context, filter models.AppointmentFilter) error {
	if err := s.requireLogin(); err != nil {
		return err
	}
	appts, err := s.Client.ListAppointments(ctx, filter)
	if err != nil {
		return s.fail(err)
	}
	s.dispatch(AppointmentsLoaded{Appointments: appts})
	return nil
}

// LoadSchedule selects (masterID, date) and fetches its resolved schedule.
func (s *Session) LoadSchedule(ctx context.Context, masterID, date string) error {
	if !availability.ValidDate(date) {
		return s.fail(&ValidationError{Field: "date", Msg: "expected YYYY-MM-DD"})
	}
	if err := s.requireLogin(); err != nil {
		return err
	}
	s.dispatch(ScheduleRequest{Key: ScheduleKey{MasterID: masterID, Date: date}})

	day, err := s.Client.Schedule(ctx, masterID, date)
	if err != nil {
		return s.fail(err)
	}
	s.dispatch(ScheduleLoaded{Schedule: *day})
	return nil
}

// Book reserves slot on date with masterID. The slot must be offered and free in the loaded
// schedule. After success or a conflict the schedule is fetched again.
func (s *Session) Book(ctx context.Context, masterID, date, slot string) (string, error) {
	if !availability.ValidSlot(slot) {
		return "", s.fail(&ValidationError{Field: "time", Msg: "expected HH:MM"})
	}
	if err := s.requireLogin(); err != nil {
		return "", err
	}
	st := s.Store.State()
	if st.Schedule == nil || st.Selected != (ScheduleKey{MasterID: masterID, Date: date}) {
		return "", s.fail(&ValidationError{Msg: "load the schedule of this day first"})
	}
	if !availability.Bookable(*st.Schedule, slot) {
		return "", s.fail(&ValidationError{Field: "time", Msg: "slot " + slot + " is not available"})
	}

	id, err := s.Client.CreateAppointment(ctx, masterID, date+" "+slot)
	if err != nil {
		s.dispatch(Failed{Err: err})
		if IsConflict(err) {
			_ = s.LoadSchedule(ctx, masterID, date)
		}
		return "", err
	}

	s.dispatch(AppointmentBooked{Appointment: models.Appointment{
		ID:       id,
		ClientID: st.Claims.Subject,
		MasterID: masterID,
		Date:     date,
		Time:     slot,
		Status:   models.AppointmentActive,
	}})
	s.dispatch(Notified{Message: "Appointment booked for " + date + " " + slot})
	_ = s.LoadSchedule(ctx, masterID, date)
	return id, nil
}

// Cancel cancels an active appointment and refreshes the selected schedule when it shows that day.
func (s *Session) Cancel(ctx context.Context, id string) error {
	if err := s.requireLogin(); err != nil {
		return err
	}
	st := s.Store.State()
	var known *models.Appointment
	for i := range st.Appointments {
		if st.Appointments[i].ID == id {
			known = &st.Appointments[i]
			break
		}
	}
	if known != nil && !known.IsActive() {
		return s.fail(&ValidationError{Msg: "appointment is already cancelled"})
	}

	if err := s.Client.CancelAppointment(ctx, id); err != nil {
		return s.fail(err)
	}
	s.dispatch(AppointmentCancelled{ID: id})
	s.dispatch(Notified{Message: "Appointment cancelled"})

	if known != nil && st.Selected == (ScheduleKey{MasterID: known.MasterID, Date: known.Date}) {
		_ = s.LoadSchedule(ctx, known.MasterID, known.Date)
	}
	return nil
}
