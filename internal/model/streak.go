// internal/model/streak.go
package model

// 活動種別
const (
	ActivityWordSave     = "word_save"
	ActivityGameComplete = "game_complete"
)

// ゲーム完了でストリークが付与される最低スコア
const MinGameScoreForStreak = 5

// StreakStatus はログイン時のストリーク再計算結果です
type StreakStatus struct {
	Streak  int  `json:"streak"`
	Updated bool `json:"updated"`
}

// StreakActivityRequest はストリーク付与対象の活動報告リクエストDTO
type StreakActivityRequest struct {
	ActivityType string `json:"activity_type" validate:"required"`
	Score        *int   `json:"score,omitempty"`
}

// StreakAwardResult は活動報告に対するストリーク判定結果です
type StreakAwardResult struct {
	StreakAwarded bool     `json:"streak_awarded"`
	NewStreak     int      `json:"new_streak"`
	StreakDates   []string `json:"streak_dates,omitempty"`
	Message       string   `json:"message"`
}

// TrackActivityRequest は学習時間の記録リクエストDTO
type TrackActivityRequest struct {
	Minutes int    `json:"minutes" validate:"required,gt=0"`
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
}

// ActivityTrackResult は学習時間の記録後の累計です
type ActivityTrackResult struct {
	Date          string `json:"date"`
	Minutes       int    `json:"minutes"`        // その日の累計 (分)
	ActiveMinutes int    `json:"active_minutes"` // 全期間の累計 (分)
}

// DailyActivity は週間アクティビティ投影の1日分です
type DailyActivity struct {
	Day      string  `json:"day"`       // 曜日ラベル (Mon, Tue, ...)
	FullDate string  `json:"full_date"` // "2006-01-02"
	Hours    float64 `json:"hours"`     // 分を時間に換算し小数1桁に丸めた値
}
