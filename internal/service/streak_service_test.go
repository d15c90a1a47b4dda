// internal/service/streak_service_test.go
package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go_eng_voca/internal/model"
	"go_eng_voca/internal/repository"
)

// --- テストヘルパー関数 ---
func setupStreakTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to connect database for testing")
	require.NoError(t, db.AutoMigrate(&model.User{}), "failed to migrate database for testing")
	return db
}

func createStreakTestUser(t *testing.T, db *gorm.DB) *model.User {
	t.Helper()
	user := &model.User{
		UserID:   uuid.New(),
		Email:    uuid.NewString() + "@example.com",
		Name:     "streak-user",
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func reloadUser(t *testing.T, db *gorm.DB, userID uuid.UUID) *model.User {
	t.Helper()
	var user model.User
	require.NoError(t, db.First(&user, "user_id = ?", userID).Error)
	return &user
}

func intPtr(v int) *int { return &v }

// --- RecordActivity ---

func Test_streakService_RecordActivity_FirstAward(t *testing.T) {
	ctx := context.Background()
	db := setupStreakTestDB(t)
	user := createStreakTestUser(t, db)
	svc := NewStreakService(db, repository.NewGormUserRepository())

	day1 := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	result, err := svc.RecordActivity(ctx, user.UserID, &model.StreakActivityRequest{ActivityType: model.ActivityWordSave}, day1)
	require.NoError(t, err)

	assert.True(t, result.StreakAwarded)
	assert.Equal(t, 1, result.NewStreak)
	assert.Contains(t, result.StreakDates, "2025-03-10")

	saved := reloadUser(t, db, user.UserID)
	assert.Equal(t, 1, saved.Streak)
	assert.Equal(t, 1, saved.ActiveDays)
	require.NotNil(t, saved.LastStreakDate)
}

func Test_streakService_RecordActivity_SameDayIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := setupStreakTestDB(t)
	user := createStreakTestUser(t, db)
	svc := NewStreakService(db, repository.NewGormUserRepository())

	morning := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 3, 10, 22, 45, 0, 0, time.UTC)

	_, err := svc.RecordActivity(ctx, user.UserID, &model.StreakActivityRequest{ActivityType: model.ActivityWordSave}, morning)
	require.NoError(t, err)

	result, err := svc.RecordActivity(ctx, user.UserID, &model.StreakActivityRequest{ActivityType: model.ActivityWordSave}, evening)
	require.NoError(t, err)

	assert.False(t, result.StreakAwarded)
	assert.Equal(t, 1, result.NewStreak)

	saved := reloadUser(t, db, user.UserID)
	assert.Equal(t, 1, saved.Streak)
	assert.Equal(t, 1, saved.ActiveDays)
	assert.Len(t, saved.StreakDates, 1)
}

func Test_streakService_RecordActivity_ConsecutiveDayIncrements(t *testing.T) {
	ctx := context.Background()
	db := setupStreakTestDB(t)
	user := createStreakTestUser(t, db)
	svc := NewStreakService(db, repository.NewGormUserRepository())

	day1 := time.Date(2025, 3, 10, 23, 50, 0, 0, time.UTC)
	day2 := time.Date(2025, 3, 11, 0, 10, 0, 0, time.UTC) // 暦日が変われば時刻差は無関係

	_, err := svc.RecordActivity(ctx, user.UserID, &model.StreakActivityRequest{ActivityType: model.ActivityWordSave}, day1)
	require.NoError(t, err)

	result, err := svc.RecordActivity(ctx, user.UserID, &model.StreakActivityRequest{ActivityType: model.ActivityWordSave}, day2)
	require.NoError(t, err)

	assert.True(t, result.StreakAwarded)
	assert.Equal(t, 2, result.NewStreak)

	saved := reloadUser(t, db, user.UserID)
	assert.Equal(t, 2, saved.ActiveDays)
	assert.ElementsMatch(t, []string{"2025-03-10", "2025-03-11"}, saved.StreakDates)
}

func Test_streakService_RecordActivity_GapResetsToOne(t *testing.T) {
	ctx := context.Background()
	db := setupStreakTestDB(t)
	user := createStreakTestUser(t, db)
	svc := NewStreakService(db, repository.NewGormUserRepository())

	day1 := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 3, 11, 12, 0, 0, 0, time.UTC)
	day4 := time.Date(2025, 3, 13, 12, 0, 0, 0, time.UTC) // 1日空いた

	_, err := svc.RecordActivity(ctx, user.UserID, &model.StreakActivityRequest{ActivityType: model.ActivityWordSave}, day1)
	require.NoError(t, err)
	_, err = svc.RecordActivity(ctx, user.UserID, &model.StreakActivityRequest{ActivityType: model.ActivityWordSave}, day2)
	require.NoError(t, err)

	result, err := svc.RecordActivity(ctx, user.UserID, &model.StreakActivityRequest{ActivityType: model.ActivityWordSave}, day4)
	require.NoError(t, err)

	assert.True(t, result.StreakAwarded)
	assert.Equal(t, 1, result.NewStreak)

	// 獲得日の集合はリセットされず増え続ける
	saved := reloadUser(t, db, user.UserID)
	assert.Equal(t, 3, saved.ActiveDays)
	assert.Len(t, saved.StreakDates, 3)
}

func Test_streakService_RecordActivity_GameComplete(t *testing.T) {
	ctx := context.Background()
	db := setupStreakTestDB(t)
	user := createStreakTestUser(t, db)
	svc := NewStreakService(db, repository.NewGormUserRepository())

	day1 := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		score       *int
		wantAwarded bool
	}{
		{name: "スコアが基準未満なら付与されない", score: intPtr(3), wantAwarded: false},
		{name: "スコアなしは付与されない", score: nil, wantAwarded: false},
		{name: "スコアが基準以上なら付与される", score: intPtr(model.MinGameScoreForStreak), wantAwarded: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &model.StreakActivityRequest{ActivityType: model.ActivityGameComplete, Score: tt.score}
			result, err := svc.RecordActivity(ctx, user.UserID, req, day1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAwarded, result.StreakAwarded)
		})
	}

	saved := reloadUser(t, db, user.UserID)
	assert.Equal(t, 1, saved.Streak)
}

func Test_streakService_RecordActivity_UnknownType(t *testing.T) {
	ctx := context.Background()
	db := setupStreakTestDB(t)
	user := createStreakTestUser(t, db)
	svc := NewStreakService(db, repository.NewGormUserRepository())

	_, err := svc.RecordActivity(ctx, user.UserID, &model.StreakActivityRequest{ActivityType: "unknown"}, time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
}

func Test_streakService_RecordActivity_UserNotFound(t *testing.T) {
	ctx := context.Background()
	db := setupStreakTestDB(t)
	svc := NewStreakService(db, repository.NewGormUserRepository())

	_, err := svc.RecordActivity(ctx, uuid.New(), &model.StreakActivityRequest{ActivityType: model.ActivityWordSave}, time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

// --- RecordLogin ---

func Test_streakService_RecordLogin_DoesNotTouchStreak(t *testing.T) {
	ctx := context.Background()
	db := setupStreakTestDB(t)
	user := createStreakTestUser(t, db)
	svc := NewStreakService(db, repository.NewGormUserRepository())

	day1 := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	day5 := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

	_, err := svc.RecordActivity(ctx, user.UserID, &model.StreakActivityRequest{ActivityType: model.ActivityWordSave}, day1)
	require.NoError(t, err)

	// 数日空けてログインしてもストリーク値は変わらない
	status, err := svc.RecordLogin(ctx, user.UserID, day5)
	require.NoError(t, err)
	assert.Equal(t, 1, status.Streak)
	assert.True(t, status.Updated)

	saved := reloadUser(t, db, user.UserID)
	assert.Equal(t, 1, saved.Streak)
	// 4日空いてもアクティブ日数は1日分しか増えない
	assert.Equal(t, 2, saved.ActiveDays)
	require.NotNil(t, saved.LastLoginDate)
	assert.Equal(t, day5.Day(), saved.LastLoginDate.Day())
}

func Test_streakService_RecordLogin_FirstLogin(t *testing.T) {
	ctx := context.Background()
	db := setupStreakTestDB(t)
	user := createStreakTestUser(t, db)
	svc := NewStreakService(db, repository.NewGormUserRepository())

	status, err := svc.RecordLogin(ctx, user.UserID, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 0, status.Streak)
	assert.True(t, status.Updated)

	saved := reloadUser(t, db, user.UserID)
	assert.Equal(t, 1, saved.ActiveDays)
	require.NotNil(t, saved.LastLoginDate)
}

func Test_streakService_RecordLogin_SameDayIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := setupStreakTestDB(t)
	user := createStreakTestUser(t, db)
	svc := NewStreakService(db, repository.NewGormUserRepository())

	day1 := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	_, err := svc.RecordLogin(ctx, user.UserID, day1)
	require.NoError(t, err)

	status, err := svc.RecordLogin(ctx, user.UserID, day1.Add(2*time.Hour))
	require.NoError(t, err)
	assert.False(t, status.Updated)

	saved := reloadUser(t, db, user.UserID)
	assert.Equal(t, 1, saved.ActiveDays)
}

func Test_streakService_RecordActivity_CountsActiveDayWithoutLogin(t *testing.T) {
	ctx := context.Background()
	db := setupStreakTestDB(t)
	user := createStreakTestUser(t, db)
	svc := NewStreakService(db, repository.NewGormUserRepository())

	day1 := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	// その日最初のアクセスが活動報告でもアクティブ日数は数えられる
	_, err := svc.RecordActivity(ctx, user.UserID, &model.StreakActivityRequest{ActivityType: model.ActivityWordSave}, day1)
	require.NoError(t, err)

	saved := reloadUser(t, db, user.UserID)
	assert.Equal(t, 1, saved.ActiveDays)
	require.NotNil(t, saved.LastLoginDate)

	// 同日のログインは二重に数えない
	status, err := svc.RecordLogin(ctx, user.UserID, day1.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, status.Updated)

	saved = reloadUser(t, db, user.UserID)
	assert.Equal(t, 1, saved.ActiveDays)
}

// --- TrackActivity ---

func Test_streakService_TrackActivity_AccumulatesPerDate(t *testing.T) {
	ctx := context.Background()
	db := setupStreakTestDB(t)
	user := createStreakTestUser(t, db)
	svc := NewStreakService(db, repository.NewGormUserRepository())

	result, err := svc.TrackActivity(ctx, user.UserID, &model.TrackActivityRequest{Minutes: 10, Date: "2025-03-10"})
	require.NoError(t, err)
	assert.Equal(t, 10, result.Minutes)
	assert.Equal(t, 10, result.ActiveMinutes)

	// 同じ日付への加算はエントリを増やさない
	result, err = svc.TrackActivity(ctx, user.UserID, &model.TrackActivityRequest{Minutes: 5, Date: "2025-03-10"})
	require.NoError(t, err)
	assert.Equal(t, 15, result.Minutes)
	assert.Equal(t, 15, result.ActiveMinutes)

	saved := reloadUser(t, db, user.UserID)
	require.Len(t, saved.ActivityLog, 1)
	assert.Equal(t, 15, saved.ActivityLog[0].Minutes)

	// 別の日付は新しいエントリになる
	result, err = svc.TrackActivity(ctx, user.UserID, &model.TrackActivityRequest{Minutes: 30, Date: "2025-03-11"})
	require.NoError(t, err)
	assert.Equal(t, 30, result.Minutes)
	assert.Equal(t, 45, result.ActiveMinutes)

	saved = reloadUser(t, db, user.UserID)
	assert.Len(t, saved.ActivityLog, 2)
}

// --- WeeklyActivity ---

func Test_streakService_WeeklyActivity_AlwaysSevenDays(t *testing.T) {
	ctx := context.Background()
	db := setupStreakTestDB(t)
	user := createStreakTestUser(t, db)
	svc := NewStreakService(db, repository.NewGormUserRepository())

	_, err := svc.TrackActivity(ctx, user.UserID, &model.TrackActivityRequest{Minutes: 90, Date: "2025-03-10"})
	require.NoError(t, err)
	_, err = svc.TrackActivity(ctx, user.UserID, &model.TrackActivityRequest{Minutes: 45, Date: "2025-03-08"})
	require.NoError(t, err)

	start := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	week, err := svc.WeeklyActivity(ctx, user.UserID, start)
	require.NoError(t, err)

	require.Len(t, week, 7)
	assert.Equal(t, "2025-03-04", week[0].FullDate)
	assert.Equal(t, "2025-03-10", week[6].FullDate)
	assert.Equal(t, "Mon", week[6].Day)
	assert.InDelta(t, 1.5, week[6].Hours, 0.001)

	// 記録のない日は0時間
	assert.InDelta(t, 0.0, week[5].Hours, 0.001)
	// 45分は0.8時間に丸められる
	assert.InDelta(t, 0.8, week[4].Hours, 0.001)

	for _, day := range week {
		assert.GreaterOrEqual(t, day.Hours, 0.0)
	}
}
