package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"slotbook/database/repository/memrepo"
	"slotbook/models"
	"slotbook/services/availability"
	"slotbook/services/schedule"
	"slotbook/services/tasks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const monday = "2030-06-03"

type fixture struct {
	svc       *DefaultBookingService
	schedule  *schedule.DefaultScheduleService
	publisher *tasks.MemoryPublisher
	appts     *memrepo.Appointments
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	users := memrepo.NewUsers()
	appts := memrepo.NewAppointments()
	sched := &schedule.DefaultScheduleService{Users: users, Schedules: memrepo.NewSchedules(), Appointments: appts}
	pub := &tasks.MemoryPublisher{}

	require.NoError(t, users.Create(ctx, &models.User{ID: "m1", Username: "anna", Email: "a@x.io", Specialization: "barber"}))
	require.NoError(t, users.Create(ctx, &models.User{ID: "m2", Username: "olga", Email: "o@x.io", Specialization: "nails"}))
	require.NoError(t, users.Create(ctx, &models.User{ID: "c1", Username: "bob", Email: "b@x.io", Specialization: models.SpecializationClient}))
	require.NoError(t, users.Create(ctx, &models.User{ID: "c2", Username: "eve", Email: "e@x.io", Specialization: models.SpecializationClient}))

	_, err := sched.SetWeekdaySlots(ctx, "m1", "monday", []string{"09:00", "10:00", "11:00"})
	require.NoError(t, err)

	return &fixture{
		svc: &DefaultBookingService{
			Users:        users,
			Appointments: appts,
			Schedule:     sched,
			Publisher:    pub,
			ReminderLead: time.Hour,
			Now:          func() time.Time { return time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC) },
		},
		schedule:  sched,
		publisher: pub,
		appts:     appts,
	}
}

func req(master, at string) models.CreateAppointmentRequest {
	return models.CreateAppointmentRequest{MasterID: master, Time: at}
}

func TestBook_Success(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt, err := f.svc.Book(ctx, "c1", req("m1", monday+" 10:00"))
	require.NoError(t, err)
	assert.NotEmpty(t, appt.ID)
	assert.Equal(t, models.AppointmentActive, appt.Status)
	assert.Equal(t, "10:00", appt.Time)

	day, err := f.schedule.GetSchedule(ctx, "m1", monday)
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00"}, day.Booked)

	assert.Equal(t, []string{tasks.TypeAppointmentCreated, tasks.TypeAppointmentReminder}, f.publisher.Types())
}

func TestBook_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Book(ctx, "c1", req("m1", monday+" 10:00"))
	require.NoError(t, err)

	var verr availability.ValidationError
	cases := []struct {
		name   string
		client string
		req    models.CreateAppointmentRequest
		check  func(t *testing.T, err error)
	}{
		{"self", "m1", req("m1", monday+" 09:00"), func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrSelfBooking) }},
		{"bad format", "c1", req("m1", "03.06.2030 09:00"), func(t *testing.T, err error) { assert.ErrorAs(t, err, &verr) }},
		{"past", "c1", req("m1", "2030-05-27 09:00"), func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrPastTime) }},
		{"unknown master", "c1", req("ghost", monday+" 09:00"), func(t *testing.T, err error) { assert.ErrorIs(t, err, schedule.ErrMasterNotFound) }},
		{"not a master", "c1", req("c2", monday+" 09:00"), func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrNotAMaster) }},
		{"not offered", "c1", req("m1", monday+" 12:00"), func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrMasterUnavailable) }},
		{"no template", "c1", req("m2", monday+" 09:00"), func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrMasterUnavailable) }},
		{"taken", "c2", req("m1", monday+" 10:00"), func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrSlotTaken) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Book(ctx, tc.client, tc.req)
			require.Error(t, err)
			tc.check(t, err)
		})
	}
}

func TestBook_DayOff(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.schedule.SetDayOff(ctx, "m1", monday, true))

	_, err := f.svc.Book(ctx, "c1", req("m1", monday+" 09:00"))
	assert.ErrorIs(t, err, ErrMasterUnavailable)
}

func TestBook_ConcurrentFirstWriterWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, client := range []string{"c1", "c2"} {
		wg.Add(1)
		go func(i int, client string) {
			defer wg.Done()
			_, errs[i] = f.svc.Book(ctx, client, req("m1", monday+" 09:00"))
		}(i, client)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrSlotTaken)
		}
	}
	assert.Equal(t, 1, succeeded)

	active, err := f.appts.ListActiveByMasterDate(ctx, "m1", monday)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt, err := f.svc.Book(ctx, "c1", req("m1", monday+" 09:00"))
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, "c2", appt.ID)
	assert.ErrorIs(t, err, ErrNotParty)

	cancelled, err := f.svc.Cancel(ctx, "m1", appt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentCancelled, cancelled.Status)
	assert.Equal(t, "m1", cancelled.CancelledBy)
	require.NotNil(t, cancelled.CancelledAt)

	_, err = f.svc.Cancel(ctx, "c1", appt.ID)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)

	_, err = f.svc.Cancel(ctx, "c1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	// The slot is free again and re-booking creates a new appointment.
	again, err := f.svc.Book(ctx, "c2", req("m1", monday+" 09:00"))
	require.NoError(t, err)
	assert.NotEqual(t, appt.ID, again.ID)

	assert.Contains(t, f.publisher.Types(), tasks.TypeAppointmentCancelled)
}

func TestList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Book(ctx, "c1", req("m1", monday+" 11:00"))
	require.NoError(t, err)
	first, err := f.svc.Book(ctx, "c1", req("m1", monday+" 09:00"))
	require.NoError(t, err)
	_, err = f.svc.Book(ctx, "c2", req("m1", monday+" 10:00"))
	require.NoError(t, err)
	_, err = f.svc.Cancel(ctx, "c1", first.ID)
	require.NoError(t, err)

	mine, err := f.svc.List(ctx, "c1", models.AppointmentFilter{})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "09:00", mine[0].Time)
	assert.Equal(t, "11:00", mine[1].Time)

	masters, err := f.svc.List(ctx, "m1", models.AppointmentFilter{Status: models.AppointmentActive})
	require.NoError(t, err)
	assert.Len(t, masters, 2)

	var verr availability.ValidationError
	_, err = f.svc.List(ctx, "c1", models.AppointmentFilter{Status: "done"})
	assert.ErrorAs(t, err, &verr)
}
