// internal/repository/vocab_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"go_eng_voca/internal/model"
)

// VocabRepository は単語帳エントリの永続化操作を定義するインターフェース。
type VocabRepository interface {
	Create(ctx context.Context, db *gorm.DB, vocab *model.Vocabulary) error
	FindByID(ctx context.Context, db *gorm.DB, vocabID uuid.UUID) (*model.Vocabulary, error)
	FindByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]model.Vocabulary, error)
	FindByUserAndGroup(ctx context.Context, db *gorm.DB, userID, groupID uuid.UUID) ([]model.Vocabulary, error)
	FindByUserAndLevel(ctx context.Context, db *gorm.DB, userID uuid.UUID, level string) ([]model.Vocabulary, error)
	ExistsByUserAndWord(ctx context.Context, db *gorm.DB, userID uuid.UUID, word string) (bool, error)
	Update(ctx context.Context, db *gorm.DB, vocab *model.Vocabulary) error
	Delete(ctx context.Context, db *gorm.DB, vocabID uuid.UUID) error
	CountByGroup(ctx context.Context, db *gorm.DB, groupID uuid.UUID) (int64, error)
}

type gormVocabRepository struct{}

func NewGormVocabRepository() VocabRepository {
	return &gormVocabRepository{}
}

func (r *gormVocabRepository) Create(ctx context.Context, db *gorm.DB, vocab *model.Vocabulary) error {
	if err := db.WithContext(ctx).Create(vocab).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: word=%s", model.ErrConflict, vocab.Word)
		}
		return fmt.Errorf("failed to create vocabulary: %w", err)
	}
	return nil
}

func (r *gormVocabRepository) FindByID(ctx context.Context, db *gorm.DB, vocabID uuid.UUID) (*model.Vocabulary, error) {
	var vocab model.Vocabulary
	err := db.WithContext(ctx).First(&vocab, "vocab_id = ?", vocabID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find vocabulary by id: %w", err)
	}
	return &vocab, nil
}

func (r *gormVocabRepository) FindByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]model.Vocabulary, error) {
	var vocabs []model.Vocabulary
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&vocabs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find vocabularies: %w", err)
	}
	return vocabs, nil
}

func (r *gormVocabRepository) FindByUserAndGroup(ctx context.Context, db *gorm.DB, userID, groupID uuid.UUID) ([]model.Vocabulary, error) {
	var vocabs []model.Vocabulary
	err := db.WithContext(ctx).
		Where("user_id = ? AND group_id = ?", userID, groupID).
		Order("created_at DESC").
		Find(&vocabs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find vocabularies by group: %w", err)
	}
	return vocabs, nil
}

func (r *gormVocabRepository) FindByUserAndLevel(ctx context.Context, db *gorm.DB, userID uuid.UUID, level string) ([]model.Vocabulary, error) {
	var vocabs []model.Vocabulary
	err := db.WithContext(ctx).
		Where("user_id = ? AND level = ?", userID, level).
		Find(&vocabs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find vocabularies by level: %w", err)
	}
	return vocabs, nil
}

// ExistsByUserAndWord は大文字小文字を無視して重複を判定します。
func (r *gormVocabRepository) ExistsByUserAndWord(ctx context.Context, db *gorm.DB, userID uuid.UUID, word string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&model.Vocabulary{}).
		Where("user_id = ? AND word = ?", userID, strings.ToLower(word)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check word existence: %w", err)
	}
	return count > 0, nil
}

func (r *gormVocabRepository) Update(ctx context.Context, db *gorm.DB, vocab *model.Vocabulary) error {
	if err := db.WithContext(ctx).Save(vocab).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: word=%s", model.ErrConflict, vocab.Word)
		}
		return fmt.Errorf("failed to update vocabulary: %w", err)
	}
	return nil
}

// Delete は物理削除します。ユニークインデックスを再利用可能にするため論理削除は使いません。
func (r *gormVocabRepository) Delete(ctx context.Context, db *gorm.DB, vocabID uuid.UUID) error {
	result := db.WithContext(ctx).Delete(&model.Vocabulary{}, "vocab_id = ?", vocabID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete vocabulary: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormVocabRepository) CountByGroup(ctx context.Context, db *gorm.DB, groupID uuid.UUID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&model.Vocabulary{}).
		Where("group_id = ?", groupID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count vocabularies in group: %w", err)
	}
	return count, nil
}
