// internal/repository/word_cache_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go_eng_voca/internal/model"
)

// WordCacheRepository はAI解析結果のキャッシュを扱うインターフェース。
// キーは小文字化した単語です。
type WordCacheRepository interface {
	Find(ctx context.Context, db *gorm.DB, word string) (*model.WordCache, error)
	Upsert(ctx context.Context, db *gorm.DB, cache *model.WordCache) error
}

type gormWordCacheRepository struct{}

func NewGormWordCacheRepository() WordCacheRepository {
	return &gormWordCacheRepository{}
}

func (r *gormWordCacheRepository) Find(ctx context.Context, db *gorm.DB, word string) (*model.WordCache, error) {
	var cache model.WordCache
	err := db.WithContext(ctx).First(&cache, "word = ?", strings.ToLower(word)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find word cache: %w", err)
	}
	return &cache, nil
}

// Upsert は同一単語の再解析結果で既存行を上書きします。
func (r *gormWordCacheRepository) Upsert(ctx context.Context, db *gorm.DB, cache *model.WordCache) error {
	cache.Word = strings.ToLower(cache.Word)
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "word"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"meaning", "part_of_speech", "level", "phonetic",
			"example", "example_translation", "updated_at",
		}),
	}).Create(cache).Error
	if err != nil {
		return fmt.Errorf("failed to upsert word cache: %w", err)
	}
	return nil
}
