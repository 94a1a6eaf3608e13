package workRepo

import (
	"context"
	"errors"

	"slotbook/models"
)

var ErrNotFound = errors.New("work not found")

// WorkRepository keeps portfolio metadata; the image bytes live in the media store.
type WorkRepository interface {
	Create(ctx context.Context, work *models.Work) error
	GetByID(ctx context.Context, id string) (*models.Work, error)
	// ListByUser returns the user's works, newest first.
	ListByUser(ctx context.Context, userID string) ([]models.Work, error)
	Delete(ctx context.Context, id string) error
}
