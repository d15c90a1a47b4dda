// internal/repository/token_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"go_eng_voca/internal/model"
)

// TokenRepository はメール認証トークンの永続化操作を定義するインターフェース。
type TokenRepository interface {
	Create(ctx context.Context, db *gorm.DB, token *model.UserVerificationToken) error
	FindByToken(ctx context.Context, db *gorm.DB, token string) (*model.UserVerificationToken, error)
	Delete(ctx context.Context, db *gorm.DB, token string) error
}

type gormTokenRepository struct{}

func NewGormTokenRepository() TokenRepository {
	return &gormTokenRepository{}
}

func (r *gormTokenRepository) Create(ctx context.Context, db *gorm.DB, token *model.UserVerificationToken) error {
	if err := db.WithContext(ctx).Create(token).Error; err != nil {
		return fmt.Errorf("failed to create verification token: %w", err)
	}
	return nil
}

func (r *gormTokenRepository) FindByToken(ctx context.Context, db *gorm.DB, token string) (*model.UserVerificationToken, error) {
	var record model.UserVerificationToken
	err := db.WithContext(ctx).First(&record, "token = ?", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find verification token: %w", err)
	}
	return &record, nil
}

func (r *gormTokenRepository) Delete(ctx context.Context, db *gorm.DB, token string) error {
	result := db.WithContext(ctx).Delete(&model.UserVerificationToken{}, "token = ?", token)
	if result.Error != nil {
		return fmt.Errorf("failed to delete verification token: %w", result.Error)
	}
	return nil
}
