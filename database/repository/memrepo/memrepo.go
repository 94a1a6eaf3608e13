// Package memrepo holds in-memory repositories with the same uniqueness rules
// as the Mongo indexes. Services and handlers use them in tests.
package memrepo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	appointmentRepo "slotbook/database/repository/appointment"
	reviewRepo "slotbook/database/repository/review"
	scheduleRepo "slotbook/database/repository/schedule"
	userRepo "slotbook/database/repository/user"
	workRepo "slotbook/database/repository/work"
	"slotbook/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Users is an in-memory userRepo.UserRepository.
type Users struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewUsers() *Users {
	return &Users{users: make(map[string]models.User)}
}

func (r *Users) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.ID == u.ID || existing.Username == u.Username || existing.Email == u.Email {
			return userRepo.ErrDuplicate
		}
	}
	now := time.Now().UTC()
	u.RegisteredAt, u.UpdatedAt = now, now
	r.users[u.ID] = *u
	return nil
}

func (r *Users) find(match func(models.User) bool) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if match(u) {
			u := u
			return &u, nil
		}
	}
	return nil, userRepo.ErrNotFound
}

func (r *Users) GetByID(_ context.Context, id string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.ID == id })
}

func (r *Users) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Username == username })
}

func (r *Users) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email })
}

func (r *Users) GetByTelegramChatID(_ context.Context, chatID int64) (*models.User, error) {
	return r.find(func(u models.User) bool { return chatID != 0 && u.TelegramChatID == chatID })
}

// UpdateFields understands the field names written by the services.
func (r *Users) UpdateFields(_ context.Context, id string, fields bson.M) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return userRepo.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "username":
			u.Username = v.(string)
		case "email":
			u.Email = v.(string)
		case "fullName":
			u.FullName = v.(string)
		case "bio":
			u.Bio = v.(string)
		case "specialization":
			u.Specialization = v.(string)
		case "passwordHash":
			u.PasswordHash = v.(string)
		case "averageRating":
			u.AverageRating = v.(float64)
		case "hasAvatar":
			u.HasAvatar = v.(bool)
		case "telegramChatId":
			u.TelegramChatID = v.(int64)
		case "pushToken":
			u.PushToken = v.(string)
		}
	}
	for otherID, other := range r.users {
		if otherID != id && (other.Username == u.Username || other.Email == u.Email) {
			return userRepo.ErrDuplicate
		}
	}
	u.UpdatedAt = time.Now().UTC()
	r.users[id] = u
	return nil
}

func (r *Users) ListMasters(_ context.Context, f models.MasterFilter) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.User{}
	for _, u := range r.users {
		if !u.IsMaster() {
			continue
		}
		if f.Specialization != "" && u.Specialization != f.Specialization {
			continue
		}
		if f.MinRating > 0 && u.AverageRating < f.MinRating {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AverageRating != out[j].AverageRating {
			return out[i].AverageRating > out[j].AverageRating
		}
		return out[i].Username < out[j].Username
	})
	return out, nil
}

func (r *Users) Search(_ context.Context, key string, limit int64) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key = strings.ToLower(key)
	out := []models.User{}
	for _, u := range r.users {
		if strings.Contains(strings.ToLower(u.Username), key) ||
			strings.Contains(strings.ToLower(u.FullName), key) ||
			strings.Contains(strings.ToLower(u.Specialization), key) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Appointments is an in-memory appointmentRepo.AppointmentRepository.
type Appointments struct {
	mu    sync.Mutex
	items []models.Appointment
}

func NewAppointments() *Appointments {
	return &Appointments{}
}

func (r *Appointments) Create(_ context.Context, a *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.IsActive() && a.IsActive() &&
			existing.MasterID == a.MasterID && existing.Date == a.Date && existing.Time == a.Time {
			return appointmentRepo.ErrSlotTaken
		}
	}
	r.items = append(r.items, *a)
	return nil
}

func (r *Appointments) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.items {
		if a.ID == id {
			a := a
			return &a, nil
		}
	}
	return nil, appointmentRepo.ErrNotFound
}

func (r *Appointments) filter(match func(models.Appointment) bool) []models.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Appointment{}
	for _, a := range r.items {
		if match(a) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	return out
}

func (r *Appointments) ListActiveByMasterDate(_ context.Context, masterID, date string) ([]models.Appointment, error) {
	return r.filter(func(a models.Appointment) bool {
		return a.MasterID == masterID && a.Date == date && a.IsActive()
	}), nil
}

func (r *Appointments) ListForUser(_ context.Context, userID string, f models.AppointmentFilter) ([]models.Appointment, error) {
	return r.filter(func(a models.Appointment) bool {
		if a.ClientID != userID && a.MasterID != userID {
			return false
		}
		if f.Date != "" && a.Date != f.Date {
			return false
		}
		return f.Status == "" || a.Status == f.Status
	}), nil
}

func (r *Appointments) Cancel(_ context.Context, id, by string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID != id {
			continue
		}
		if !r.items[i].IsActive() {
			return appointmentRepo.ErrNotActive
		}
		r.items[i].Status = models.AppointmentCancelled
		r.items[i].CancelledAt = &at
		r.items[i].CancelledBy = by
		return nil
	}
	return appointmentRepo.ErrNotActive
}

func (r *Appointments) HasVisit(_ context.Context, clientID, masterID string, before time.Time) (bool, error) {
	visits := r.filter(func(a models.Appointment) bool {
		return a.ClientID == clientID && a.MasterID == masterID && a.IsActive() && a.ScheduledAt.Before(before)
	})
	return len(visits) > 0, nil
}

// Schedules is an in-memory scheduleRepo.ScheduleRepository.
type Schedules struct {
	mu        sync.RWMutex
	daysOff   map[string]bool
	templates map[string][]string
	overrides map[string][]string
}

func NewSchedules() *Schedules {
	return &Schedules{
		daysOff:   make(map[string]bool),
		templates: make(map[string][]string),
		overrides: make(map[string][]string),
	}
}

func key(a, b string) string { return a + "|" + b }

func (r *Schedules) IsDayOff(_ context.Context, masterID, date string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.daysOff[key(masterID, date)], nil
}

func (r *Schedules) SetDayOff(_ context.Context, masterID, date string, off bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if off {
		r.daysOff[key(masterID, date)] = true
	} else {
		delete(r.daysOff, key(masterID, date))
	}
	return nil
}

func (r *Schedules) ListDaysOff(_ context.Context, masterID, from, to string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []string{}
	for k := range r.daysOff {
		m, date, _ := strings.Cut(k, "|")
		if m == masterID && date >= from && date <= to {
			out = append(out, date)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *Schedules) GetWeekdaySlots(_ context.Context, masterID, weekday string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.templates[key(masterID, weekday)], nil
}

func (r *Schedules) SetWeekdaySlots(_ context.Context, masterID, weekday string, slots []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(slots) == 0 {
		delete(r.templates, key(masterID, weekday))
		return nil
	}
	r.templates[key(masterID, weekday)] = append([]string(nil), slots...)
	return nil
}

func (r *Schedules) ListWeekdayTemplates(_ context.Context, masterID string) (map[string][]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := map[string][]string{}
	for k, v := range r.templates {
		m, day, _ := strings.Cut(k, "|")
		if m == masterID {
			out[day] = v
		}
	}
	return out, nil
}

func (r *Schedules) GetDateOverride(_ context.Context, masterID, date string) (*[]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	slots, ok := r.overrides[key(masterID, date)]
	if !ok {
		return nil, nil
	}
	cp := append([]string{}, slots...)
	return &cp, nil
}

func (r *Schedules) SetDateOverride(_ context.Context, masterID, date string, slots []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides[key(masterID, date)] = append([]string{}, slots...)
	return nil
}

func (r *Schedules) DeleteDateOverride(_ context.Context, masterID, date string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.overrides, key(masterID, date))
	return nil
}

// Reviews is an in-memory reviewRepo.ReviewRepository.
type Reviews struct {
	mu    sync.Mutex
	items []models.Review
}

func NewReviews() *Reviews {
	return &Reviews{}
}

func (r *Reviews) Create(_ context.Context, rv *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, *rv)
	return nil
}

func (r *Reviews) GetByID(_ context.Context, id string) (*models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rv := range r.items {
		if rv.ID == id {
			rv := rv
			return &rv, nil
		}
	}
	return nil, reviewRepo.ErrNotFound
}

func (r *Reviews) ListByMaster(_ context.Context, masterID string) ([]models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Review{}
	for _, rv := range r.items {
		if rv.MasterID == masterID {
			out = append(out, rv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *Reviews) Update(_ context.Context, id string, rating int, comment string) (*models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].Rating = rating
			r.items[i].Comment = comment
			r.items[i].UpdatedAt = time.Now().UTC()
			rv := r.items[i]
			return &rv, nil
		}
	}
	return nil, reviewRepo.ErrNotFound
}

func (r *Reviews) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return reviewRepo.ErrNotFound
}

func (r *Reviews) AverageRating(_ context.Context, masterID string) (float64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum, n := 0, 0
	for _, rv := range r.items {
		if rv.MasterID == masterID {
			sum += rv.Rating
			n++
		}
	}
	if n == 0 {
		return 0, false, nil
	}
	return float64(sum) / float64(n), true, nil
}

// Works is an in-memory workRepo.WorkRepository.
type Works struct {
	mu    sync.Mutex
	items []models.Work
}

func NewWorks() *Works {
	return &Works{}
}

func (r *Works) Create(_ context.Context, w *models.Work) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, *w)
	return nil
}

func (r *Works) GetByID(_ context.Context, id string) (*models.Work, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.items {
		if w.ID == id {
			w := w
			return &w, nil
		}
	}
	return nil, workRepo.ErrNotFound
}

func (r *Works) ListByUser(_ context.Context, userID string) ([]models.Work, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Work{}
	for _, w := range r.items {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *Works) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return workRepo.ErrNotFound
}

var (
	_ userRepo.UserRepository               = (*Users)(nil)
	_ appointmentRepo.AppointmentRepository = (*Appointments)(nil)
	_ scheduleRepo.ScheduleRepository       = (*Schedules)(nil)
	_ reviewRepo.ReviewRepository           = (*Reviews)(nil)
	_ workRepo.WorkRepository               = (*Works)(nil)
)
