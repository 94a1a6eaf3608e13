package review

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	appointmentRepo "slotbook/database/repository/appointment"
	reviewRepo "slotbook/database/repository/review"
	userRepo "slotbook/database/repository/user"
	"slotbook/models"
	"slotbook/services/tasks"
	"slotbook/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const (
	// defaultRating is shown for a master without reviews.
	defaultRating    = 5
	maxCommentLength = 2000
)

var (
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrCommentTooLong     = errors.New("comment is too long")
	ErrSelfReview         = errors.New("cannot review yourself")
	ErrMasterNotFound     = errors.New("master not found")
	ErrNoPastAppointments = errors.New("you can only review a master after a visit")
	ErrNotAuthor          = errors.New("only the author can change this review")
	ErrReviewNotFound     = reviewRepo.ErrNotFound
)

type ReviewService interface {
	Create(ctx context.Context, userID string, req models.CreateReviewRequest) (*models.Review, error)
	ListByMaster(ctx context.Context, masterID string) ([]models.Review, error)
	Update(ctx context.Context, userID, reviewID string, req models.UpdateReviewRequest) (*models.Review, error)
	Delete(ctx context.Context, userID, reviewID string) error
}

type DefaultReviewService struct {
	Reviews      reviewRepo.ReviewRepository
	Users        userRepo.UserRepository
	Appointments appointmentRepo.AppointmentRepository
	Publisher    tasks.Publisher
	Now          func() time.Time
}

func (s *DefaultReviewService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func validate(rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	if len([]rune(comment)) > maxCommentLength {
		return ErrCommentTooLong
	}
	return nil
}

func (s *DefaultReviewService) Create(ctx context.Context, userID string, req models.CreateReviewRequest) (*models.Review, error) {
	comment := strings.TrimSpace(req.Comment)
	if err := validate(req.Rating, comment); err != nil {
		return nil, err
	}
	if req.MasterID == userID {
		return nil, ErrSelfReview
	}

	master, err := s.Users.GetByID(ctx, req.MasterID)
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return nil, ErrMasterNotFound
		}
		return nil, err
	}
	if !master.IsMaster() {
		return nil, ErrMasterNotFound
	}

	visited, err := s.Appointments.HasVisit(ctx, userID, req.MasterID, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if !visited {
		return nil, ErrNoPastAppointments
	}

	now := s.now().UTC()
	rv := &models.Review{
		ID:        utils.NewID(),
		UserID:    userID,
		MasterID:  req.MasterID,
		Rating:    req.Rating,
		Comment:   comment,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Reviews.Create(ctx, rv); err != nil {
		return nil, err
	}
	s.refreshAverage(ctx, req.MasterID)

	if s.Publisher != nil {
		task, err := tasks.NewReviewCreatedTask(*rv)
		if err == nil {
			err = s.Publisher.Enqueue(ctx, task)
		}
		if err != nil {
			utils.GetLogger().Error("Failed to publish review created", zap.String("reviewID", rv.ID), zap.Error(err))
		}
	}
	return rv, nil
}

func (s *DefaultReviewService) ListByMaster(ctx context.Context, masterID string) ([]models.Review, error) {
	return s.Reviews.ListByMaster(ctx, masterID)
}

func (s *DefaultReviewService) authored(ctx context.Context, userID, reviewID string) (*models.Review, error) {
	rv, err := s.Reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if rv.UserID != userID {
		return nil, ErrNotAuthor
	}
	return rv, nil
}

func (s *DefaultReviewService) Update(ctx context.Context, userID, reviewID string, req models.UpdateReviewRequest) (*models.Review, error) {
	comment := strings.TrimSpace(req.Comment)
	if err := validate(req.Rating, comment); err != nil {
		return nil, err
	}
	if _, err := s.authored(ctx, userID, reviewID); err != nil {
		return nil, err
	}
	rv, err := s.Reviews.Update(ctx, reviewID, req.Rating, comment)
	if err != nil {
		return nil, err
	}
	s.refreshAverage(ctx, rv.MasterID)
	return rv, nil
}

func (s *DefaultReviewService) Delete(ctx context.Context, userID, reviewID string) error {
	rv, err := s.authored(ctx, userID, reviewID)
	if err != nil {
		return err
	}
	if err := s.Reviews.Delete(ctx, reviewID); err != nil {
		return err
	}
	s.refreshAverage(ctx, rv.MasterID)
	return nil
}

// refreshAverage recomputes the master's rating. The review write already
// succeeded, so a failure here is only logged.
func (s *DefaultReviewService) refreshAverage(ctx context.Context, masterID string) {
	logger := utils.GetLogger().With(zap.String("masterID", masterID))

	avg, ok, err := s.Reviews.AverageRating(ctx, masterID)
	if err != nil {
		logger.Error("Failed to aggregate rating", zap.Error(err))
		return
	}
	if !ok {
		avg = defaultRating
	}
	avg = math.Round(avg*100) / 100
	if err := s.Users.UpdateFields(ctx, masterID, bson.M{"averageRating": avg}); err != nil {
		logger.Error("Failed to store average rating", zap.Error(err))
	}
}
