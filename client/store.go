package client

import (
	"sync"
	"time"

	"slotbook/models"
)

// ScheduleKey identifies the (master, date) schedule the user is looking at.
type ScheduleKey struct {
	MasterID string
	Date     string
}

type AlertKind int

const (
	AlertError AlertKind = iota + 1
	AlertSuccess
)

// Alert is the last message meant for the user.
type Alert struct {
	Kind    AlertKind
	Message string
}

// State is the whole client-side application state. Values handed out by the Store are
// snapshots; reducers never modify a slice in place.
type State struct {
	Token  string
	Claims Claims
	User   *models.User

	Masters []models.User

	Selected        ScheduleKey
	Schedule        *models.DaySchedule
	ScheduleLoading bool

	Appointments []models.Appointment

	Alert     *Alert
	LastError error
}

// LoggedIn reports whether a token is held.
func (s State) LoggedIn() bool { return s.Token != "" }

// Action is one state transition request.
type Action interface{ action() }

type (
	LoginSucceeded struct {
		Token  string
		Claims Claims
	}
	LoggedOut       struct{}
	ProfileLoaded   struct{ User models.User }
	MastersLoaded   struct{ Masters []models.User }
	ScheduleRequest struct{ Key ScheduleKey }
	ScheduleLoaded  struct{ Schedule models.DaySchedule }

	AppointmentsLoaded   struct{ Appointments []models.Appointment }
	AppointmentBooked    struct{ Appointment models.Appointment }
	AppointmentCancelled struct{ ID string }

	Failed   struct{ Err error }
	Notified struct{ Message string }
)

func (LoginSucceeded) action()       {}
func (LoggedOut) action()            {}
func (ProfileLoaded) action()        {}
func (MastersLoaded) action()        {}
func (ScheduleRequest) action()      {}
func (ScheduleLoaded) action()       {}
func (AppointmentsLoaded) action()   {}
func (AppointmentBooked) action()    {}
func (AppointmentCancelled) action() {}
func (Failed) action()               {}
func (Notified) action()             {}

// Reduce returns the state that follows s after a.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case LoginSucceeded:
		s = State{Token: a.Token, Claims: a.Claims, Masters: s.Masters}
	case LoggedOut:
		s = State{Masters: s.Masters, Alert: s.Alert, LastError: s.LastError}
	case ProfileLoaded:
		u := a.User
		s.User = &u
	case MastersLoaded:
		s.Masters = a.Masters
	case ScheduleRequest:
		if s.Selected != a.Key {
			s.Schedule = nil
		}
		s.Selected = a.Key
		s.ScheduleLoading = true
	case ScheduleLoaded:
		// A late response for a day the user already left is dropped.
		if (ScheduleKey{MasterID: a.Schedule.MasterID, Date: a.Schedule.Date}) != s.Selected {
			return s
		}
		day := a.Schedule
		s.Schedule = &day
		s.ScheduleLoading = false
	case AppointmentsLoaded:
		s.Appointments = a.Appointments
	case AppointmentBooked:
		appts := make([]models.Appointment, 0, len(s.Appointments)+1)
		appts = append(appts, s.Appointments...)
		s.Appointments = append(appts, a.Appointment)
	case AppointmentCancelled:
		appts := make([]models.Appointment, len(s.Appointments))
		copy(appts, s.Appointments)
		for i := range appts {
			if appts[i].ID == a.ID && appts[i].IsActive() {
				appts[i].Status = models.AppointmentCancelled
			}
		}
		s.Appointments = appts
	case Failed:
		s.LastError = a.Err
		s.ScheduleLoading = false
		if a.Err != nil {
			s.Alert = &Alert{Kind: AlertError, Message: a.Err.Error()}
		}
	case Notified:
		s.LastError = nil
		s.Alert = &Alert{Kind: AlertSuccess, Message: a.Message}
	}
	return s
}

// Store holds the State and applies dispatched actions one at a time.
type Store struct {
	mu     sync.Mutex
	state  State
	subs   map[int]func(State)
	nextID int
	now    func() time.Time
}

func NewStore() *Store {
	return &Store{subs: make(map[int]func(State)), now: time.Now}
}

// WithClock replaces the clock used for expiry checks.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
	return s
}

func (s *Store) clock() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now()
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to run after every dispatch and returns a function that removes it.
// Subscribers run on the dispatching goroutine and must not call Dispatch.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Dispatch applies a. When the held token has expired the session is dropped first and any
// action other than a login is discarded.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.LoggedIn() && s.state.Claims.Expired(s.now()) {
		switch a.(type) {
		case LoginSucceeded, LoggedOut:
		default:
			s.state = Reduce(s.state, LoggedOut{})
			s.state = Reduce(s.state, Failed{Err: ErrSessionExpired})
			s.notify()
			return
		}
	}

	s.state = Reduce(s.state, a)
	s.notify()
}

func (s *Store) notify() {
	for _, fn := range s.subs {
		fn(s.state)
	}
}
