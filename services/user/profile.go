package user

import (
	"context"
	"errors"
	"strings"

	"slotbook/models"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
)

const searchLimit = 50

var validate = validator.New()

func (s *DefaultUserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *DefaultUserService) GetMasterByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := s.Repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrMasterNotFound
		}
		return nil, err
	}
	if !u.IsMaster() {
		return nil, ErrMasterNotFound
	}
	return u, nil
}

func (s *DefaultUserService) ListMasters(ctx context.Context, filter models.MasterFilter) ([]models.User, error) {
	if filter.MinRating < 0 || filter.MinRating > 5 {
		return nil, ValidationError{Field: "min_rating", Msg: "must be between 0 and 5"}
	}
	return s.Repo.ListMasters(ctx, filter)
}

func (s *DefaultUserService) Search(ctx context.Context, key string) ([]models.User, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return []models.User{}, nil
	}
	return s.Repo.Search(ctx, key, searchLimit)
}

// Update applies the non-empty fields of req to the user's profile.
func (s *DefaultUserService) Update(ctx context.Context, id string, req models.UserUpdateRequest) (*models.User, error) {
	fields := bson.M{}
	if req.Username != "" {
		if err := validateUsername(req.Username); err != nil {
			return nil, err
		}
		fields["username"] = req.Username
	}
	if req.FullName != "" {
		if err := validateFullName(req.FullName); err != nil {
			return nil, err
		}
		fields["fullName"] = strings.TrimSpace(req.FullName)
	}
	if req.Email != "" {
		email := strings.ToLower(strings.TrimSpace(req.Email))
		if err := validate.Var(email, "email"); err != nil {
			return nil, ValidationError{Field: "email", Msg: "must be a valid address"}
		}
		fields["email"] = email
	}
	if req.Specialization != "" {
		if err := validateSpecialization(req.Specialization); err != nil {
			return nil, err
		}
		fields["specialization"] = req.Specialization
	}
	if req.Bio != "" {
		fields["bio"] = req.Bio
	}

	if len(fields) > 0 {
		if err := s.Repo.UpdateFields(ctx, id, fields); err != nil {
			return nil, err
		}
	}
	return s.Repo.GetByID(ctx, id)
}

func (s *DefaultUserService) SetPushToken(ctx context.Context, id, token string) error {
	return s.Repo.UpdateFields(ctx, id, bson.M{"pushToken": token})
}
