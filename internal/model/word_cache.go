// internal/model/word_cache.go
package model

import "time"

// WordCache は直近のAI解析結果のキャッシュです。
// 検索の副作用としてアップサートされるだけで、ユーザー向けの保証には使いません。
type WordCache struct {
	Word               string    `gorm:"primaryKey" json:"word"` // 小文字化した単語テキスト
	Meaning            string    `json:"meaning"`
	PartOfSpeech       string    `json:"part_of_speech"`
	Level              string    `json:"level"`
	Phonetic           string    `json:"phonetic"`
	Example            string    `json:"example"`
	ExampleTranslation string    `json:"example_translation"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (WordCache) TableName() string {
	return "word_caches"
}
