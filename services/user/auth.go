package user

import (
	"context"
	"errors"
	"strings"

	"slotbook/models"
	"slotbook/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// initialRating is what a new account shows before its first review.
const initialRating = 5

func (s *DefaultUserService) SendCode(ctx context.Context, email string) error {
	return s.Verification.SendCode(ctx, email)
}

func (s *DefaultUserService) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	spec := strings.TrimSpace(req.Specialization)
	if spec == "" {
		spec = models.SpecializationClient
	}
	for _, err := range []error{
		validateFullName(req.FullName),
		validateUsername(req.Username),
		validatePassword(req.Password),
		validateSpecialization(spec),
	} {
		if err != nil {
			return "", err
		}
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.Verification.Verify(ctx, email, req.Code); err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	u := &models.User{
		ID:             utils.NewID(),
		FullName:       strings.TrimSpace(req.FullName),
		Username:       req.Username,
		Email:          email,
		PasswordHash:   string(hash),
		Specialization: spec,
		AverageRating:  initialRating,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return "", err
	}

	utils.GetLogger().Info("User registered",
		zap.String("userID", u.ID), zap.String("username", u.Username), zap.Bool("master", u.IsMaster()))
	return u.ID, nil
}

func (s *DefaultUserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.Repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *DefaultUserService) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	u, err := s.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return "", err
	}
	token, err := utils.GenerateToken(u.ID, u.Username, s.TokenTTL)
	if err != nil {
		return "", err
	}
	if err := s.Sessions.Remember(ctx, utils.HashToken(token), u.ID, utils.AuthCacheTTL); err != nil {
		// The middleware falls back to a user lookup.
		utils.GetLogger().Warn("Failed to cache token", zap.Error(err))
	}
	return token, nil
}

func (s *DefaultUserService) Logout(ctx context.Context, token string) error {
	_, exp, err := utils.ExtractClaims(token)
	if err != nil {
		return err
	}
	return s.Sessions.Revoke(ctx, utils.HashToken(token), exp)
}

func (s *DefaultUserService) Restore(ctx context.Context, req models.RestoreRequest) error {
	if err := validatePassword(req.Password); err != nil {
		return err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.Verification.Verify(ctx, email, req.Code); err != nil {
		return err
	}

	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdateFields(ctx, u.ID, bson.M{"passwordHash": string(hash)}); err != nil {
		return err
	}
	utils.GetLogger().Info("Password restored", zap.String("userID", u.ID))
	return nil
}

func (s *DefaultUserService) LinkTelegram(ctx context.Context, username, password string, chatID int64) (*models.User, error) {
	u, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if !u.IsMaster() {
		return nil, ErrNotMaster
	}
	if err := s.Repo.UpdateFields(ctx, u.ID, bson.M{"telegramChatId": chatID}); err != nil {
		return nil, err
	}
	u.TelegramChatID = chatID
	return u, nil
}
