package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"time"

	userRepo "slotbook/database/repository/user"
	workRepo "slotbook/database/repository/work"
	"slotbook/models"
	"slotbook/services/storage"
	"slotbook/utils"

	"github.com/disintegration/imaging"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const (
	AvatarSize   = 512
	MaxWorkSide  = 2048
	jpegQuality  = 85
	jpegMimeType = "image/jpeg"
)

var (
	ErrInvalidImage = errors.New("file is not a supported image")
	ErrNoAvatar     = errors.New("avatar not found")
	ErrWorkNotFound = workRepo.ErrNotFound
	ErrUserNotFound = userRepo.ErrNotFound
	ErrNotMaster    = errors.New("only masters can manage a portfolio")
)

type MediaService interface {
	// SetAvatar crops the image to a 512x512 square JPEG and stores it.
	SetAvatar(ctx context.Context, userID string, r io.Reader) error
	OpenAvatar(ctx context.Context, userID string) (io.ReadCloser, string, error)
	// AddWork stores a portfolio image for a master.
	AddWork(ctx context.Context, userID string, r io.Reader) (*models.Work, error)
	// ListWorks returns work ids, newest first.
	ListWorks(ctx context.Context, userID string) ([]string, error)
	OpenWork(ctx context.Context, userID, workID string) (io.ReadCloser, string, error)
	DeleteWork(ctx context.Context, userID, workID string) error
}

type DefaultMediaService struct {
	Users   userRepo.UserRepository
	Works   workRepo.WorkRepository
	Storage storage.StorageService
}

func avatarKey(userID string) string { return "avatars/" + userID }

func workKey(userID, workID string) string { return "works/" + userID + "/" + workID }

func decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return img, nil
}

func encodeJPEG(img image.Image) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return &buf, nil
}

func (s *DefaultMediaService) SetAvatar(ctx context.Context, userID string, r io.Reader) error {
	if _, err := s.Users.GetByID(ctx, userID); err != nil {
		return err
	}
	img, err := decode(r)
	if err != nil {
		return err
	}
	buf, err := encodeJPEG(imaging.Fill(img, AvatarSize, AvatarSize, imaging.Center, imaging.Lanczos))
	if err != nil {
		return err
	}
	if err := s.Storage.Put(ctx, avatarKey(userID), buf, jpegMimeType); err != nil {
		utils.GetLogger().Error("Failed to store avatar", zap.String("userID", userID), zap.Error(err))
		return err
	}
	return s.Users.UpdateFields(ctx, userID, bson.M{"hasAvatar": true})
}

func (s *DefaultMediaService) OpenAvatar(ctx context.Context, userID string) (io.ReadCloser, string, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if !u.HasAvatar {
		return nil, "", ErrNoAvatar
	}
	rc, ct, err := s.Storage.Open(ctx, avatarKey(userID))
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, "", ErrNoAvatar
	}
	return rc, ct, err
}

func (s *DefaultMediaService) AddWork(ctx context.Context, userID string, r io.Reader) (*models.Work, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.IsMaster() {
		return nil, ErrNotMaster
	}
	img, err := decode(r)
	if err != nil {
		return nil, err
	}
	buf, err := encodeJPEG(imaging.Fit(img, MaxWorkSide, MaxWorkSide, imaging.Lanczos))
	if err != nil {
		return nil, err
	}

	work := &models.Work{
		ID:          utils.NewID(),
		UserID:      userID,
		ContentType: jpegMimeType,
		CreatedAt:   time.Now().UTC(),
	}
	work.ObjectKey = workKey(userID, work.ID)

	if err := s.Storage.Put(ctx, work.ObjectKey, buf, jpegMimeType); err != nil {
		return nil, err
	}
	if err := s.Works.Create(ctx, work); err != nil {
		// Do not leave an orphaned blob behind.
		if delErr := s.Storage.Delete(ctx, work.ObjectKey); delErr != nil {
			utils.GetLogger().Warn("Failed to remove orphaned work", zap.String("key", work.ObjectKey), zap.Error(delErr))
		}
		return nil, err
	}
	utils.GetLogger().Info("Work uploaded", zap.String("userID", userID), zap.String("workID", work.ID))
	return work, nil
}

func (s *DefaultMediaService) ListWorks(ctx context.Context, userID string) ([]string, error) {
	if _, err := s.Users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	works, err := s.Works.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(works))
	for _, w := range works {
		ids = append(ids, w.ID)
	}
	return ids, nil
}

func (s *DefaultMediaService) ownedWork(ctx context.Context, userID, workID string) (*models.Work, error) {
	w, err := s.Works.GetByID(ctx, workID)
	if err != nil {
		return nil, err
	}
	// Someone else's work looks the same as a missing one.
	if w.UserID != userID {
		return nil, ErrWorkNotFound
	}
	return w, nil
}

func (s *DefaultMediaService) OpenWork(ctx context.Context, userID, workID string) (io.ReadCloser, string, error) {
	w, err := s.ownedWork(ctx, userID, workID)
	if err != nil {
		return nil, "", err
	}
	rc, ct, err := s.Storage.Open(ctx, w.ObjectKey)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, "", ErrWorkNotFound
	}
	if ct == "" {
		ct = w.ContentType
	}
	return rc, ct, err
}

func (s *DefaultMediaService) DeleteWork(ctx context.Context, userID, workID string) error {
	w, err := s.ownedWork(ctx, userID, workID)
	if err != nil {
		return err
	}
	if err := s.Works.Delete(ctx, w.ID); err != nil {
		return err
	}
	return s.Storage.Delete(ctx, w.ObjectKey)
}
