package schedule

import (
	"context"
	"testing"
	"time"

	"slotbook/database/repository/memrepo"
	"slotbook/models"
	"slotbook/services/availability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const monday = "2030-06-03"

type fixture struct {
	svc          *DefaultScheduleService
	users        *memrepo.Users
	schedules    *memrepo.Schedules
	appointments *memrepo.Appointments
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:        memrepo.NewUsers(),
		schedules:    memrepo.NewSchedules(),
		appointments: memrepo.NewAppointments(),
	}
	f.svc = &DefaultScheduleService{Users: f.users, Schedules: f.schedules, Appointments: f.appointments}

	ctx := context.Background()
	require.NoError(t, f.users.Create(ctx, &models.User{ID: "m1", Username: "anna", Email: "anna@x.io", Specialization: "barber"}))
	require.NoError(t, f.users.Create(ctx, &models.User{ID: "c1", Username: "bob", Email: "bob@x.io", Specialization: models.SpecializationClient}))
	return f
}

func (f *fixture) book(t *testing.T, date, slot, status string) {
	t.Helper()
	at, err := time.Parse("2006-01-02 15:04", date+" "+slot)
	require.NoError(t, err)
	require.NoError(t, f.appointments.Create(context.Background(), &models.Appointment{
		ID: date + slot, ClientID: "c1", MasterID: "m1", Date: date, Time: slot, ScheduledAt: at, Status: status,
	}))
}

func TestGetSchedule_TemplateAndBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SetWeekdaySlots(ctx, "m1", "Monday", []string{"11:00", "09:00", "10:00"})
	require.NoError(t, err)
	f.book(t, monday, "10:00", models.AppointmentActive)
	f.book(t, monday, "11:00", models.AppointmentCancelled)

	day, err := f.svc.GetSchedule(ctx, "m1", monday)
	require.NoError(t, err)
	assert.False(t, day.IsDayOff)
	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, day.Slots)
	assert.Equal(t, []string{"10:00"}, day.Booked)
}

func TestGetSchedule_OverrideShadowsTemplate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SetWeekdaySlots(ctx, "m1", "monday", []string{"09:00", "10:00"})
	require.NoError(t, err)
	_, err = f.svc.SetDateSlots(ctx, "m1", monday, []string{"15:00"})
	require.NoError(t, err)

	day, err := f.svc.GetSchedule(ctx, "m1", monday)
	require.NoError(t, err)
	assert.Equal(t, []string{"15:00"}, day.Slots)

	// An empty override still shadows.
	_, err = f.svc.SetDateSlots(ctx, "m1", monday, nil)
	require.NoError(t, err)
	day, err = f.svc.GetSchedule(ctx, "m1", monday)
	require.NoError(t, err)
	assert.Empty(t, day.Slots)
	assert.NotNil(t, day.Slots)

	require.NoError(t, f.svc.DeleteDateSlots(ctx, "m1", monday))
	day, err = f.svc.GetSchedule(ctx, "m1", monday)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00"}, day.Slots)
}

func TestGetSchedule_DayOff(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SetWeekdaySlots(ctx, "m1", "monday", []string{"09:00"})
	require.NoError(t, err)
	f.book(t, monday, "09:00", models.AppointmentActive)
	require.NoError(t, f.svc.SetDayOff(ctx, "m1", monday, true))

	day, err := f.svc.GetSchedule(ctx, "m1", monday)
	require.NoError(t, err)
	assert.True(t, day.IsDayOff)
	assert.Empty(t, day.Slots)
	assert.Empty(t, day.Booked)

	require.NoError(t, f.svc.SetDayOff(ctx, "m1", monday, false))
	day, err = f.svc.GetSchedule(ctx, "m1", monday)
	require.NoError(t, err)
	assert.False(t, day.IsDayOff)
	assert.Equal(t, []string{"09:00"}, day.Booked)
}

func TestSetWeekdaySlots_EmptyClears(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SetWeekdaySlots(ctx, "m1", "monday", []string{"09:00"})
	require.NoError(t, err)
	got, err := f.svc.SetWeekdaySlots(ctx, "m1", "monday", []string{})
	require.NoError(t, err)
	assert.Empty(t, got)

	tpl, err := f.svc.WeekTemplates(ctx, "m1")
	require.NoError(t, err)
	assert.NotContains(t, tpl, "monday")
}

func TestSetters_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var verr availability.ValidationError

	_, err := f.svc.SetWeekdaySlots(ctx, "m1", "funday", []string{"09:00"})
	assert.ErrorAs(t, err, &verr)

	_, err = f.svc.SetWeekdaySlots(ctx, "m1", "monday", []string{"9:00"})
	assert.ErrorAs(t, err, &verr)

	_, err = f.svc.SetDateSlots(ctx, "m1", "2030-02-30", []string{"09:00"})
	assert.ErrorAs(t, err, &verr)

	err = f.svc.SetDayOff(ctx, "m1", "03.06.2030", true)
	assert.ErrorAs(t, err, &verr)

	got, err := f.svc.SetDateSlots(ctx, "m1", monday, []string{"10:00", " 09:00", "10:00"})
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00"}, got)
}

func TestSetters_RequireMaster(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SetWeekdaySlots(ctx, "c1", "monday", []string{"09:00"})
	assert.ErrorIs(t, err, ErrNotMaster)
	assert.ErrorIs(t, f.svc.SetDayOff(ctx, "c1", monday, true), ErrNotMaster)
	assert.ErrorIs(t, f.svc.SetDayOff(ctx, "ghost", monday, true), ErrMasterNotFound)
}

func TestGetSchedule_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetSchedule(ctx, "ghost", monday)
	assert.ErrorIs(t, err, ErrMasterNotFound)

	_, err = f.svc.GetSchedule(ctx, "c1", monday)
	assert.ErrorIs(t, err, ErrMasterNotFound)

	var verr availability.ValidationError
	_, err = f.svc.GetSchedule(ctx, "m1", "tomorrow")
	assert.ErrorAs(t, err, &verr)
}
