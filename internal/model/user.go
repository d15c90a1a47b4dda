// internal/model/user.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityLogEntry は1日分の学習時間の記録です。
// Date は "2006-01-02" 形式の日付キーで、同じ日付のエントリは1つしか存在しません。
type ActivityLogEntry struct {
	Date    string `json:"date"`
	Minutes int    `json:"minutes"`
}

// User はユーザーの基本情報とストリーク・活動状態を保持します
type User struct {
	UserID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	GoogleID     *string   `gorm:"uniqueIndex" json:"-"` // Googleサインインのみ設定される
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Name         string    `gorm:"not null" json:"name"`
	Image        string    `json:"image"`        // 表示用アバター (ユーザー変更可)
	GoogleImage  string    `json:"google_image"` // Google側のアバターの控え
	PasswordHash *string   `gorm:"default:null" json:"-"`
	IsActive     bool      `gorm:"default:false" json:"is_active"`

	// ストリーク・活動トラッキング
	Streak         int                `gorm:"not null;default:0" json:"streak"`
	LastStreakDate *time.Time         `json:"last_streak_date"`
	LastLoginDate  *time.Time         `json:"last_login_date"`
	StreakDates    []string           `gorm:"serializer:json" json:"streak_dates"` // ストリーク獲得日の集合 ("2006-01-02")
	ActiveDays     int                `gorm:"not null;default:0" json:"active_days"`
	ActiveMinutes  int                `gorm:"not null;default:0" json:"active_minutes"`
	ActivityLog    []ActivityLogEntry `gorm:"serializer:json" json:"-"` // 1日1エントリ

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

type ContextKey string

const (
	UserIDKey ContextKey = "userID"
)

// ProfileResponse はプロフィール画面用のレスポンスDTO
type ProfileResponse struct {
	Profile        ProfileInfo     `json:"profile"`
	Stats          ProfileStats    `json:"stats"`
	WeeklyActivity []DailyActivity `json:"weekly_activity"`
}

type ProfileInfo struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Image       string `json:"image"`
	GoogleImage string `json:"google_image"`
}

type ProfileStats struct {
	JoinDate      time.Time `json:"join_date"`
	ActiveDays    int       `json:"active_days"`
	ActiveTime    int       `json:"active_time"` // 累計学習時間 (時間単位, 四捨五入)
	CurrentStreak int       `json:"current_streak"`
}

// UpdateProfileRequest は名前・アバター更新リクエストDTO
type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Image *string `json:"image,omitempty" validate:"omitempty,min=1"`
}
