// internal/service/streak_service.go
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

// StreakService は連続学習日数 (ストリーク) と学習時間の記録を管理します。
//
// ストリークを変更するのは RecordActivity だけです。ログインは最終ログイン日を
// 更新するだけで、ストリークの値には一切触れません。
type StreakService interface {
	RecordLogin(ctx context.Context, userID uuid.UUID, now time.Time) (*model.StreakStatus, error)
	RecordActivity(ctx context.Context, userID uuid.UUID, req *model.StreakActivityRequest, now time.Time) (*model.StreakAwardResult, error)
	TrackActivity(ctx context.Context, userID uuid.UUID, req *model.TrackActivityRequest) (*model.ActivityTrackResult, error)
	WeeklyActivity(ctx context.Context, userID uuid.UUID, start time.Time) ([]model.DailyActivity, error)
}

type streakService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
}

func NewStreakService(db *gorm.DB, userRepo repository.UserRepository) StreakService {
	return &streakService{
		db:       db,
		userRepo: userRepo,
	}
}

// RecordLogin は最終ログイン日とアクティブ日数を更新し、現在のストリークを返します。
// ストリークの値には触れません。同一暦日の2回目以降は何も変更しません。
func (s *streakService) RecordLogin(ctx context.Context, userID uuid.UUID, now time.Time) (*model.StreakStatus, error) {
	logger := middleware.GetLogger(ctx)

	var status *model.StreakStatus
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.userRepo.FindByID(ctx, tx, userID)
		if err != nil {
			return err
		}

		mutated := false
		switch {
		case user.LastLoginDate == nil:
			// 初回ログイン
			user.ActiveDays = 1
			user.LastLoginDate = &now
			mutated = true
		case dayGap(*user.LastLoginDate, now) >= 1:
			// 何日空いてもアクティブ日数は1日分だけ増える
			user.ActiveDays++
			user.LastLoginDate = &now
			mutated = true
		}

		if mutated {
			if err := s.userRepo.Save(ctx, tx, user); err != nil {
				logger.Error("Failed to update login state", "error", err, "user_id", userID)
				return model.ErrInternalServer
			}
		}

		status = &model.StreakStatus{
			Streak:  user.Streak,
			Updated: mutated,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("USER_NOT_FOUND", "ユーザーが見つかりません。", "", model.ErrNotFound)
		}
		return nil, err
	}
	return status, nil
}

// RecordActivity は活動報告を受けてストリーク付与を判定します。
// 同一暦日の2回目以降の報告は付与済みとして何も変更しません。
func (s *streakService) RecordActivity(ctx context.Context, userID uuid.UUID, req *model.StreakActivityRequest, now time.Time) (*model.StreakAwardResult, error) {
	logger := middleware.GetLogger(ctx)

	switch req.ActivityType {
	case model.ActivityWordSave:
		// 単語保存は無条件で対象
	case model.ActivityGameComplete:
		if req.Score == nil || *req.Score < model.MinGameScoreForStreak {
			return &model.StreakAwardResult{
				StreakAwarded: false,
				NewStreak:     0,
				Message:       "スコアが基準に達していないため、ストリークは付与されません。",
			}, nil
		}
	default:
		return nil, model.NewAppError("VALIDATION_ERROR", "不明な活動種別です。", "activity_type", model.ErrInvalidInput)
	}

	var result *model.StreakAwardResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.userRepo.FindByID(ctx, tx, userID)
		if err != nil {
			return err
		}

		// 同日2回目は冪等
		if user.LastStreakDate != nil && sameDay(*user.LastStreakDate, now) {
			result = &model.StreakAwardResult{
				StreakAwarded: false,
				NewStreak:     user.Streak,
				StreakDates:   user.StreakDates,
				Message:       "本日のストリークは獲得済みです。",
			}
			return nil
		}

		switch {
		case user.LastStreakDate == nil:
			user.Streak = 1
		case dayGap(*user.LastStreakDate, now) == 1:
			user.Streak++
		default:
			// 1日以上空いたらリセット
			user.Streak = 1
		}
		user.LastStreakDate = &now

		today := dateKey(now)
		if !containsDate(user.StreakDates, today) {
			user.StreakDates = append(user.StreakDates, today)
		}

		// 活動自体がその日最初のアクセスだった場合のログイン相当の更新
		if user.LastLoginDate == nil || !sameDay(*user.LastLoginDate, now) {
			user.ActiveDays++
			user.LastLoginDate = &now
		}

		if err := s.userRepo.Save(ctx, tx, user); err != nil {
			logger.Error("Failed to save streak update", "error", err, "user_id", userID)
			return model.ErrInternalServer
		}

		result = &model.StreakAwardResult{
			StreakAwarded: true,
			NewStreak:     user.Streak,
			StreakDates:   user.StreakDates,
			Message:       "ストリークを更新しました!",
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("USER_NOT_FOUND", "ユーザーが見つかりません。", "", model.ErrNotFound)
		}
		return nil, err
	}

	if result.StreakAwarded {
		logger.Info("Streak awarded", "user_id", userID, "streak", result.NewStreak)
	}
	return result, nil
}

// TrackActivity は指定日の学習時間 (分) を加算します。
func (s *streakService) TrackActivity(ctx context.Context, userID uuid.UUID, req *model.TrackActivityRequest) (*model.ActivityTrackResult, error) {
	logger := middleware.GetLogger(ctx)

	var result *model.ActivityTrackResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.userRepo.FindByID(ctx, tx, userID)
		if err != nil {
			return err
		}

		user.ActiveMinutes += req.Minutes

		dateMinutes := req.Minutes
		found := false
		for i := range user.ActivityLog {
			if user.ActivityLog[i].Date == req.Date {
				user.ActivityLog[i].Minutes += req.Minutes
				dateMinutes = user.ActivityLog[i].Minutes
				found = true
				break
			}
		}
		if !found {
			user.ActivityLog = append(user.ActivityLog, model.ActivityLogEntry{
				Date:    req.Date,
				Minutes: req.Minutes,
			})
		}

		if err := s.userRepo.Save(ctx, tx, user); err != nil {
			logger.Error("Failed to save activity minutes", "error", err, "user_id", userID)
			return model.ErrInternalServer
		}

		result = &model.ActivityTrackResult{
			Date:          req.Date,
			Minutes:       dateMinutes,
			ActiveMinutes: user.ActiveMinutes,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("USER_NOT_FOUND", "ユーザーが見つかりません。", "", model.ErrNotFound)
		}
		return nil, err
	}
	return result, nil
}

// WeeklyActivity は start から連続する7日分の学習時間を返します。
// 記録がない日は0時間として必ず7件返します。読み取り専用です。
func (s *streakService) WeeklyActivity(ctx context.Context, userID uuid.UUID, start time.Time) ([]model.DailyActivity, error) {
	user, err := s.userRepo.FindByID(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("USER_NOT_FOUND", "ユーザーが見つかりません。", "", model.ErrNotFound)
		}
		return nil, err
	}

	minutesByDate := make(map[string]int, len(user.ActivityLog))
	for _, entry := range user.ActivityLog {
		minutesByDate[entry.Date] = entry.Minutes
	}

	week := make([]model.DailyActivity, 0, 7)
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		key := dateKey(day)
		hours := math.Round(float64(minutesByDate[key])/60.0*10) / 10
		week = append(week, model.DailyActivity{
			Day:      day.Format("Mon"),
			FullDate: key,
			Hours:    hours,
		})
	}
	return week, nil
}

// --- 暦日ヘルパー ---

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// dayGap は from から to までの暦日差を返します。時刻は無視します。
func dayGap(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	f := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	t := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

func containsDate(dates []string, date string) bool {
	for _, d := range dates {
		if d == date {
			return true
		}
	}
	return false
}
