package verification

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"slotbook/services/tasks"
	"slotbook/utils"

	"go.uber.org/zap"
)

const codeLength = 6

var ErrInvalidCode = errors.New("invalid or expired verification code")

type VerificationService interface {
	// SendCode stores a fresh code for email and queues the mail that delivers it.
	SendCode(ctx context.Context, email string) error
	// Verify consumes the code; a code can be used once.
	Verify(ctx context.Context, email, code string) error
}

type DefaultVerificationService struct {
	Store     CodeStore
	Publisher tasks.Publisher
	TTL       time.Duration
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *DefaultVerificationService) SendCode(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	code, err := utils.GenerateVerificationCode(codeLength)
	if err != nil {
		return err
	}
	if err := s.Store.Save(ctx, email, code, s.TTL); err != nil {
		return err
	}

	task, err := tasks.NewVerificationCodeTask(email, code)
	if err != nil {
		return err
	}
	if err := s.Publisher.Enqueue(ctx, task); err != nil {
		utils.GetLogger().Error("Failed to queue verification mail", zap.String("email", email), zap.Error(err))
		return err
	}
	return nil
}

func (s *DefaultVerificationService) Verify(ctx context.Context, email, code string) error {
	email = normalizeEmail(email)
	stored, err := s.Store.Get(ctx, email)
	if err != nil {
		if errors.Is(err, ErrCodeNotFound) {
			return ErrInvalidCode
		}
		return err
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(strings.TrimSpace(code))) != 1 {
		return ErrInvalidCode
	}
	return s.Store.Delete(ctx, email)
}
