package user

import (
	"context"
	"time"

	userRepo "slotbook/database/repository/user"
	"slotbook/models"
	"slotbook/services/session"
	"slotbook/services/verification"
)

type UserService interface {
	// Registration and credentials
	SendCode(ctx context.Context, email string) error
	Register(ctx context.Context, req models.RegisterRequest) (string, error)
	Login(ctx context.Context, req models.LoginRequest) (string, error)
	Logout(ctx context.Context, token string) error
	Restore(ctx context.Context, req models.RestoreRequest) error
	// Authenticate checks a username and password pair.
	Authenticate(ctx context.Context, username, password string) (*models.User, error)

	// Directory
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetMasterByUsername(ctx context.Context, username string) (*models.User, error)
	ListMasters(ctx context.Context, filter models.MasterFilter) ([]models.User, error)
	Search(ctx context.Context, key string) ([]models.User, error)

	// Profile
	Update(ctx context.Context, id string, req models.UserUpdateRequest) (*models.User, error)
	SetPushToken(ctx context.Context, id, token string) error
	// LinkTelegram binds a bot chat to a master account after checking credentials.
	LinkTelegram(ctx context.Context, username, password string, chatID int64) (*models.User, error)
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo         userRepo.UserRepository
	Verification verification.VerificationService
	Sessions     session.Store
	TokenTTL     time.Duration
}
