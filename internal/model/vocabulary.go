// internal/model/vocabulary.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Vocabulary はユーザーが保存した単語エントリを表します。
// Word は保存時に小文字化され、(user_id, word) はDBレベルで一意です。
// 明示的な削除操作があるため論理削除は使いません (ユニーク制約と衝突するため)。
type Vocabulary struct {
	VocabID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"vocab_id"`
	UserID             uuid.UUID `gorm:"type:uuid;not null;index:idx_user_word,unique" json:"-"`
	GroupID            uuid.UUID `gorm:"type:uuid;not null;index" json:"group_id"`
	Word               string    `gorm:"not null;index:idx_user_word,unique" json:"word"`
	Meaning            string    `gorm:"not null" json:"meaning"`
	PartOfSpeech       string    `json:"part_of_speech"`
	Level              string    `gorm:"index" json:"level"` // CEFRレベル (A1..C2)
	Phonetic           string    `json:"phonetic"`
	Example            string    `json:"example"`
	ExampleTranslation string    `json:"example_translation"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (Vocabulary) TableName() string {
	return "vocabularies"
}

// 単語保存リクエストDTO
type SaveVocabularyRequest struct {
	Word               string     `json:"word" validate:"required,min=1,max=100"`
	Meaning            string     `json:"meaning" validate:"required"`
	PartOfSpeech       string     `json:"part_of_speech" validate:"omitempty"`
	Level              string     `json:"level" validate:"omitempty,oneof=A1 A2 B1 B2 C1 C2"`
	Phonetic           string     `json:"phonetic"`
	Example            string     `json:"example"`
	ExampleTranslation string     `json:"example_translation"`
	GroupID            *uuid.UUID `json:"group_id,omitempty"`
}

// 単語編集リクエストDTO
type UpdateVocabularyRequest struct {
	Meaning            *string    `json:"meaning,omitempty" validate:"omitempty,min=1"`
	PartOfSpeech       *string    `json:"part_of_speech,omitempty"`
	Level              *string    `json:"level,omitempty" validate:"omitempty,oneof=A1 A2 B1 B2 C1 C2"`
	Phonetic           *string    `json:"phonetic,omitempty"`
	Example            *string    `json:"example,omitempty"`
	ExampleTranslation *string    `json:"example_translation,omitempty"`
	GroupID            *uuid.UUID `json:"group_id,omitempty"`
}

// LearnSetResponse は練習用にシャッフルした単語セットのレスポンスDTO
type LearnSetResponse struct {
	Vocabularies []*Vocabulary `json:"vocabularies"`
	Mode         string        `json:"mode"` // "user" or "guest"
	Total        int           `json:"total"`
}
