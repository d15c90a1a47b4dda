// internal/service/profile_service.go
package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go_eng_voca/internal/middleware"
	"go_eng_voca/internal/model"
	"go_eng_voca/internal/repository"
)

// ProfileService はプロフィール画面の表示と編集を提供します。
type ProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID, now time.Time) (*model.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *model.UpdateProfileRequest) (*model.ProfileResponse, error)
}

type profileService struct {
	db        *gorm.DB
	userRepo  repository.UserRepository
	streakSvc StreakService
}

func NewProfileService(db *gorm.DB, userRepo repository.UserRepository, streakSvc StreakService) ProfileService {
	return &profileService{
		db:        db,
		userRepo:  userRepo,
		streakSvc: streakSvc,
	}
}

func (s *profileService) GetProfile(ctx context.Context, userID uuid.UUID, now time.Time) (*model.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("USER_NOT_FOUND", "ユーザーが見つかりません。", "", model.ErrNotFound)
		}
		return nil, model.ErrInternalServer
	}

	// 今日を末尾とする直近7日分
	weekly, err := s.streakSvc.WeeklyActivity(ctx, userID, now.AddDate(0, 0, -6))
	if err != nil {
		return nil, err
	}

	return buildProfileResponse(user, weekly), nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *model.UpdateProfileRequest) (*model.ProfileResponse, error) {
	logger := middleware.GetLogger(ctx)

	var updated *model.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.userRepo.FindByID(ctx, tx, userID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("USER_NOT_FOUND", "ユーザーが見つかりません。", "", model.ErrNotFound)
			}
			return model.ErrInternalServer
		}

		if req.Name != nil {
			user.Name = *req.Name
		}
		if req.Image != nil {
			user.Image = *req.Image
		}

		if err := s.userRepo.Save(ctx, tx, user); err != nil {
			logger.Error("Failed to update profile", "error", err, "user_id", userID)
			return model.ErrInternalServer
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	weekly, err := s.streakSvc.WeeklyActivity(ctx, userID, time.Now().AddDate(0, 0, -6))
	if err != nil {
		return nil, err
	}
	return buildProfileResponse(updated, weekly), nil
}

func buildProfileResponse(user *model.User, weekly []model.DailyActivity) *model.ProfileResponse {
	return &model.ProfileResponse{
		Profile: model.ProfileInfo{
			Name:        user.Name,
			Email:       user.Email,
			Image:       user.Image,
			GoogleImage: user.GoogleImage,
		},
		Stats: model.ProfileStats{
			JoinDate:      user.CreatedAt,
			ActiveDays:    user.ActiveDays,
			ActiveTime:    int(math.Round(float64(user.ActiveMinutes) / 60.0)),
			CurrentStreak: user.Streak,
		},
		WeeklyActivity: weekly,
	}
}
