package userRepo

import (
	"context"
	"errors"

	"slotbook/models"

	"go.mongodb.org/mongo-driver/bson"
)

var (
	ErrNotFound  = errors.New("user not found")
	ErrDuplicate = errors.New("username or email already taken")
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// Create inserts a new user record. ErrDuplicate on a taken username or email.
	Create(ctx context.Context, user *models.User) error
	// GetByID retrieves a user by its unique ID.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByUsername retrieves a user by username.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// GetByEmail retrieves a user by its email address.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByTelegramChatID retrieves the master linked to a bot chat.
	GetByTelegramChatID(ctx context.Context, chatID int64) (*models.User, error)
	// UpdateFields applies a $set document to one user.
	UpdateFields(ctx context.Context, id string, fields bson.M) error
	// ListMasters returns masters matching the filter, best rated first.
	ListMasters(ctx context.Context, filter models.MasterFilter) ([]models.User, error)
	// Search does a case-insensitive substring match over username, full name and specialization.
	Search(ctx context.Context, key string, limit int64) ([]models.User, error)
}
