// internal/model/group.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// VocabGroup は単語グループを表します。(user_id, name) はDBレベルで一意です。
// 既定グループはグループ一覧取得時・単語保存時に遅延生成されます。
type VocabGroup struct {
	GroupID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"group_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_user_group_name,unique" json:"-"`
	Name      string    `gorm:"not null;index:idx_user_group_name,unique" json:"name"`
	IsDefault bool      `gorm:"not null;default:false" json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (VocabGroup) TableName() string {
	return "vocab_groups"
}

// GroupResponse は単語数付きのグループ情報レスポンスDTO
type GroupResponse struct {
	GroupID   uuid.UUID `json:"group_id"`
	Name      string    `json:"name"`
	IsDefault bool      `json:"is_default"`
	WordCount int64     `json:"word_count"`
	CreatedAt time.Time `json:"created_at"`
}

// グループ作成リクエストDTO
type CreateGroupRequest struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
}

// グループ名変更リクエストDTO
type RenameGroupRequest struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
}
