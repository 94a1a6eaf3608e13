package cron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"slotbook/config"
	appointmentRepo "slotbook/database/repository/appointment"
	"slotbook/services/mail"
	"slotbook/services/notification"
	"slotbook/services/tasks"
	"slotbook/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Handlers processes the background tasks published by the services.
type Handlers struct {
	Notifications notification.NotificationService
	Mailer        mail.Mailer
	Appointments  appointmentRepo.AppointmentRepository
}

// Mux routes every task type to its handler.
func (h *Handlers) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeAppointmentCreated, h.handleAppointmentCreated)
	mux.HandleFunc(tasks.TypeAppointmentCancelled, h.handleAppointmentCancelled)
	mux.HandleFunc(tasks.TypeAppointmentReminder, h.handleReminder)
	mux.HandleFunc(tasks.TypeReviewCreated, h.handleReviewCreated)
	mux.HandleFunc(tasks.TypeVerificationCode, h.handleVerificationCode)
	return mux
}

func decode(task *asynq.Task, v any) error {
	if err := json.Unmarshal(task.Payload(), v); err != nil {
		utils.GetLogger().Error("Invalid task payload", zap.String("type", task.Type()), zap.Error(err))
		return fmt.Errorf("invalid %s payload: %v: %w", task.Type(), err, asynq.SkipRetry)
	}
	return nil
}

func (h *Handlers) handleAppointmentCreated(ctx context.Context, task *asynq.Task) error {
	var p tasks.AppointmentPayload
	if err := decode(task, &p); err != nil {
		return err
	}
	return h.Notifications.AppointmentCreated(ctx, p)
}

func (h *Handlers) handleAppointmentCancelled(ctx context.Context, task *asynq.Task) error {
	var p tasks.AppointmentPayload
	if err := decode(task, &p); err != nil {
		return err
	}
	return h.Notifications.AppointmentCancelled(ctx, p)
}

// handleReminder drops reminders for appointments that are gone or cancelled.
func (h *Handlers) handleReminder(ctx context.Context, task *asynq.Task) error {
	var p tasks.AppointmentPayload
	if err := decode(task, &p); err != nil {
		return err
	}
	logger := utils.GetLogger().With(zap.String("appointmentID", p.AppointmentID))

	a, err := h.Appointments.GetByID(ctx, p.AppointmentID)
	if errors.Is(err, appointmentRepo.ErrNotFound) {
		logger.Info("Reminder for unknown appointment skipped")
		return nil
	}
	if err != nil {
		return err
	}
	if !a.IsActive() {
		logger.Info("Reminder for cancelled appointment skipped")
		return nil
	}
	return h.Notifications.AppointmentReminder(ctx, p)
}

func (h *Handlers) handleReviewCreated(ctx context.Context, task *asynq.Task) error {
	var p tasks.ReviewPayload
	if err := decode(task, &p); err != nil {
		return err
	}
	return h.Notifications.ReviewCreated(ctx, p)
}

func (h *Handlers) handleVerificationCode(ctx context.Context, task *asynq.Task) error {
	var p tasks.VerificationCodePayload
	if err := decode(task, &p); err != nil {
		return err
	}
	subject, body := mail.VerificationCodeMessage(p.Code)
	return h.Mailer.Send(ctx, p.Email, subject, body)
}

// RedisConnOpt points asynq at the queue database.
func RedisConnOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// Worker runs the asynq server in the background.
type Worker struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	cancel context.CancelFunc
}

func NewWorker(h *Handlers) *Worker {
	concurrency := config.AppConfig.WorkerConcurrency
	if concurrency <= 0 {
		concurrency = 10
	}
	srv := asynq.NewServer(
		RedisConnOpt(),
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				"default": 1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				utils.GetLogger().Error("Task failed", zap.String("type", task.Type()), zap.Error(err))
			}),
		},
	)
	return &Worker{srv: srv, mux: h.Mux()}
}

// Start runs the worker with retries and a Redis health monitor.
func (w *Worker) Start() {
	logger := utils.GetLogger()
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel

	go monitorRedisConnection(ctx)

	go func() {
		logger.Info("Starting async worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := w.srv.Start(w.mux)
			if err == nil {
				return
			}
			logger.Error("Failed to start worker",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("Max retry attempts reached, worker disabled")
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Duration(attempts*2) * time.Second):
			}
		}
	}()
}

func (w *Worker) Shutdown() {
	if w.cancel != nil {
		w.cancel()
	}
	w.srv.Shutdown()
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection(ctx context.Context) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil && ctx.Err() == nil {
				utils.GetLogger().Warn("Redis connection lost", zap.Error(err))
			}
		}
	}
}
