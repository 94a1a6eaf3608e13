package reviewRepo

import (
	"context"
	"errors"

	"slotbook/models"
)

var ErrNotFound = errors.New("review not found")

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id string) (*models.Review, error)
	// ListByMaster returns a master's reviews, newest first.
	ListByMaster(ctx context.Context, masterID string) ([]models.Review, error)
	Update(ctx context.Context, id string, rating int, comment string) (*models.Review, error)
	Delete(ctx context.Context, id string) error
	// AverageRating aggregates the master's reviews. ok is false when there are none.
	AverageRating(ctx context.Context, masterID string) (avg float64, ok bool, err error)
}
