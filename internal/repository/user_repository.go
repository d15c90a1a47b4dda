// internal/repository/user_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"go_eng_voca/internal/model"
)

// UserRepository はユーザーの永続化操作を定義するインターフェース。
type UserRepository interface {
	Create(ctx context.Context, db *gorm.DB, user *model.User) error
	FindByID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*model.User, error)
	FindByGoogleID(ctx context.Context, db *gorm.DB, googleID string) (*model.User, error)
	Save(ctx context.Context, db *gorm.DB, user *model.User) error
	Updates(ctx context.Context, db *gorm.DB, userID uuid.UUID, updates map[string]interface{}) error
}

type gormUserRepository struct{}

func NewGormUserRepository() UserRepository {
	return &gormUserRepository{}
}

func (r *gormUserRepository) Create(ctx context.Context, db *gorm.DB, user *model.User) error {
	if err := db.WithContext(ctx).Create(user).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: email=%s", model.ErrConflict, user.Email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *gormUserRepository) FindByID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.User, error) {
	var user model.User
	err := db.WithContext(ctx).First(&user, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by id: %w", err)
	}
	return &user, nil
}

func (r *gormUserRepository) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*model.User, error) {
	var user model.User
	err := db.WithContext(ctx).First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return &user, nil
}

func (r *gormUserRepository) FindByGoogleID(ctx context.Context, db *gorm.DB, googleID string) (*model.User, error) {
	var user model.User
	err := db.WithContext(ctx).First(&user, "google_id = ?", googleID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by google id: %w", err)
	}
	return &user, nil
}

// Save は全フィールドを保存します。ストリーク更新など、読み取り済みの行をまるごと書き戻す用途を想定。
func (r *gormUserRepository) Save(ctx context.Context, db *gorm.DB, user *model.User) error {
	if err := db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// Updates は指定フィールドのみ更新します。
func (r *gormUserRepository) Updates(ctx context.Context, db *gorm.DB, userID uuid.UUID, updates map[string]interface{}) error {
	result := db.WithContext(ctx).Model(&model.User{}).Where("user_id = ?", userID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
