package tasks

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"slotbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAppointment(at time.Time) models.Appointment {
	return models.Appointment{
		ID:          "a1",
		ClientID:    "c1",
		MasterID:    "m1",
		Date:        at.Format("2006-01-02"),
		Time:        at.Format("15:04"),
		ScheduledAt: at,
		Status:      models.AppointmentActive,
	}
}

func TestNewAppointmentCreatedTask(t *testing.T) {
	at := time.Date(2030, 6, 3, 10, 0, 0, 0, time.UTC)
	task, err := NewAppointmentCreatedTask(sampleAppointment(at))
	require.NoError(t, err)
	assert.Equal(t, TypeAppointmentCreated, task.Type())

	var p AppointmentPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, "a1", p.AppointmentID)
	assert.Equal(t, "2030-06-03", p.Date)
	assert.Equal(t, "10:00", p.Time)
}

func TestNewReminderTask(t *testing.T) {
	at := time.Date(2030, 6, 3, 10, 0, 0, 0, time.UTC)

	t.Run("scheduled before the appointment", func(t *testing.T) {
		task, opts, err := NewReminderTask(sampleAppointment(at), time.Hour, at.Add(-24*time.Hour))
		require.NoError(t, err)
		require.NotNil(t, task)
		assert.Equal(t, TypeAppointmentReminder, task.Type())
		assert.Len(t, opts, 2)
	})

	t.Run("skipped when the lead already passed", func(t *testing.T) {
		task, opts, err := NewReminderTask(sampleAppointment(at), time.Hour, at.Add(-30*time.Minute))
		require.NoError(t, err)
		assert.Nil(t, task)
		assert.Nil(t, opts)
	})
}

func TestNewVerificationCodeTask(t *testing.T) {
	task, err := NewVerificationCodeTask("a@b.c", "123456")
	require.NoError(t, err)

	var p VerificationCodePayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, VerificationCodePayload{Email: "a@b.c", Code: "123456"}, p)
}

func TestMemoryPublisher(t *testing.T) {
	p := &MemoryPublisher{}
	task, err := NewReviewCreatedTask(models.Review{ID: "r1", MasterID: "m1", Rating: 4})
	require.NoError(t, err)
	require.NoError(t, p.Enqueue(context.Background(), task))
	assert.Equal(t, []string{TypeReviewCreated}, p.Types())

	var payload ReviewPayload
	require.NoError(t, json.Unmarshal(p.Tasks()[0].Payload(), &payload))
	assert.Equal(t, 4, payload.Rating)
}
