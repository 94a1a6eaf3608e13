package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"slotbook/models"

	"github.com/hibiken/asynq"
)

const (
	TypeAppointmentCreated   = "appointment:created"
	TypeAppointmentCancelled = "appointment:cancelled"
	TypeAppointmentReminder  = "appointment:reminder"
	TypeReviewCreated        = "review:created"
	TypeVerificationCode     = "mail:verification_code"
)

// AppointmentPayload is shared by every appointment task.
type AppointmentPayload struct {
	AppointmentID string `json:"appointment_id"`
	MasterID      string `json:"master_id"`
	ClientID      string `json:"client_id"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	CancelledBy   string `json:"cancelled_by,omitempty"`
}

type ReviewPayload struct {
	ReviewID string `json:"review_id"`
	MasterID string `json:"master_id"`
	UserID   string `json:"user_id"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

type VerificationCodePayload struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func appointmentPayload(a models.Appointment) AppointmentPayload {
	return AppointmentPayload{
		AppointmentID: a.ID,
		MasterID:      a.MasterID,
		ClientID:      a.ClientID,
		Date:          a.Date,
		Time:          a.Time,
		CancelledBy:   a.CancelledBy,
	}
}

func newTask(typ string, payload any, opts ...asynq.Option) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", typ, err)
	}
	return asynq.NewTask(typ, b, opts...), nil
}

func NewAppointmentCreatedTask(a models.Appointment) (*asynq.Task, error) {
	return newTask(TypeAppointmentCreated, appointmentPayload(a))
}

func NewAppointmentCancelledTask(a models.Appointment) (*asynq.Task, error) {
	return newTask(TypeAppointmentCancelled, appointmentPayload(a))
}

// NewReminderTask fires lead before the appointment. It returns a nil task
// when that moment has already passed.
func NewReminderTask(a models.Appointment, lead time.Duration, now time.Time) (*asynq.Task, []asynq.Option, error) {
	fireAt := a.ScheduledAt.Add(-lead)
	if !fireAt.After(now) {
		return nil, nil, nil
	}
	task, err := newTask(TypeAppointmentReminder, appointmentPayload(a))
	if err != nil {
		return nil, nil, err
	}
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID("reminder:" + a.ID),
	}
	return task, opts, nil
}

func NewReviewCreatedTask(r models.Review) (*asynq.Task, error) {
	return newTask(TypeReviewCreated, ReviewPayload{
		ReviewID: r.ID,
		MasterID: r.MasterID,
		UserID:   r.UserID,
		Rating:   r.Rating,
		Comment:  r.Comment,
	})
}

func NewVerificationCodeTask(email, code string) (*asynq.Task, error) {
	return newTask(TypeVerificationCode, VerificationCodePayload{Email: email, Code: code}, asynq.MaxRetry(3))
}

// Publisher hands tasks to the background worker.
type Publisher interface {
	Enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) error
}

// AsynqPublisher enqueues onto the Redis-backed asynq queue.
type AsynqPublisher struct {
	client *asynq.Client
}

func NewAsynqPublisher(opt asynq.RedisConnOpt) *AsynqPublisher {
	return &AsynqPublisher{client: asynq.NewClient(opt)}
}

func (p *AsynqPublisher) Enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) error {
	if _, err := p.client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", task.Type(), err)
	}
	return nil
}

func (p *AsynqPublisher) Close() error {
	return p.client.Close()
}
