package availability

import (
	"testing"
	"time"

	"slotbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2025-06-02 is a Monday.
const monday = "2025-06-02"

func appt(date, at, status string) models.Appointment {
	scheduled, _ := time.Parse(DateLayout+" "+SlotLayout, date+" "+at)
	return models.Appointment{
		ID:          date + at + status,
		MasterID:    "m1",
		Date:        date,
		Time:        at,
		ScheduledAt: scheduled,
		Status:      status,
	}
}

func override(slots ...string) *[]string {
	s := append([]string{}, slots...)
	return &s
}

func TestResolve_TemplateOnly(t *testing.T) {
	got := Resolve(DayInput{
		MasterID: "m1",
		Date:     monday,
		Template: []string{"09:00", "10:00"},
	})

	assert.False(t, got.IsDayOff)
	assert.Equal(t, []string{"09:00", "10:00"}, got.Slots)
	assert.Empty(t, got.Booked)
	assert.NotNil(t, got.Booked)
}

func TestResolve_ActiveAppointmentIsBooked(t *testing.T) {
	got := Resolve(DayInput{
		Date:         monday,
		Template:     []string{"09:00", "10:00"},
		Appointments: []models.Appointment{appt(monday, "09:00", models.AppointmentActive)},
	})

	assert.Equal(t, []string{"09:00"}, got.Booked)
	assert.False(t, Bookable(got, "09:00"))
	assert.True(t, Bookable(got, "10:00"))
}

func TestResolve_EmptyOverrideShadowsTemplate(t *testing.T) {
	got := Resolve(DayInput{
		Date:     monday,
		Template: []string{"09:00", "10:00"},
		Override: override(),
	})

	assert.False(t, got.IsDayOff)
	assert.Empty(t, got.Slots)
	assert.NotNil(t, got.Slots)
}

func TestResolve_OverrideReplacesTemplateWithoutMerging(t *testing.T) {
	got := Resolve(DayInput{
		Date:     monday,
		Template: []string{"09:00", "10:00"},
		Override: override("15:00", "11:30"),
	})

	assert.Equal(t, []string{"11:30", "15:00"}, got.Slots)
}

func TestResolve_DayOffWins(t *testing.T) {
	got := Resolve(DayInput{
		Date:         monday,
		DayOff:       true,
		Template:     []string{"09:00"},
		Override:     override("12:00"),
		Appointments: []models.Appointment{appt(monday, "12:00", models.AppointmentActive)},
	})

	assert.True(t, got.IsDayOff)
	assert.Empty(t, got.Slots)
	assert.Empty(t, got.Booked)
}

func TestResolve_CancelledAppointmentFreesSlot(t *testing.T) {
	in := DayInput{
		Date:         monday,
		Template:     []string{"09:00", "10:00"},
		Appointments: []models.Appointment{appt(monday, "09:00", models.AppointmentActive)},
	}
	require.Equal(t, []string{"09:00"}, Resolve(in).Booked)

	in.Appointments[0].Status = models.AppointmentCancelled
	got := Resolve(in)

	assert.Empty(t, got.Booked)
	assert.True(t, Bookable(got, "09:00"))
}

func TestResolve_NoTemplateForWeekday(t *testing.T) {
	got := Resolve(DayInput{Date: monday})

	assert.Empty(t, got.Slots)
	assert.Empty(t, got.Booked)
	assert.False(t, got.IsDayOff)
}

func TestResolve_IgnoresOtherDates(t *testing.T) {
	got := Resolve(DayInput{
		Date:     monday,
		Template: []string{"09:00"},
		Appointments: []models.Appointment{
			appt("2025-06-03", "09:00", models.AppointmentActive),
		},
	})

	assert.Empty(t, got.Booked)
}

func TestResolve_KeepsBookedOutsideSlots(t *testing.T) {
	got := Resolve(DayInput{
		Date:         monday,
		Template:     []string{"10:00"},
		Appointments: []models.Appointment{appt(monday, "08:00", models.AppointmentActive)},
	})

	assert.Equal(t, []string{"08:00"}, got.Booked)

	views, anomalies := Views(got)
	assert.Equal(t, []SlotView{{Time: "10:00", Available: true}}, views)
	assert.Equal(t, []string{"08:00"}, anomalies)
}

func TestResolve_FallsBackToScheduledAt(t *testing.T) {
	a := appt(monday, "09:00", models.AppointmentActive)
	a.Date, a.Time = "", ""

	got := Resolve(DayInput{Date: monday, Template: []string{"09:00"}, Appointments: []models.Appointment{a}})

	assert.Equal(t, []string{"09:00"}, got.Booked)
}

func TestResolve_Idempotent(t *testing.T) {
	in := DayInput{
		MasterID:     "m1",
		Date:         monday,
		Template:     []string{"10:00", "09:00", "09:00"},
		Appointments: []models.Appointment{appt(monday, "10:00", models.AppointmentActive)},
	}

	first := Resolve(in)
	second := Resolve(in)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"09:00", "10:00"}, first.Slots)
	assert.Equal(t, []string{"10:00", "09:00", "09:00"}, in.Template, "input must not be mutated")
}
