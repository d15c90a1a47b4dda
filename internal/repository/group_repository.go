// internal/repository/group_repository.go
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

// GroupRepository は単語グループの永続化操作を定義するインターフェース。
type GroupRepository interface {
	Create(ctx context.Context, db *gorm.DB, group *model.VocabGroup) error
	FindByID(ctx context.Context, db *gorm.DB, groupID uuid.UUID) (*model.VocabGroup, error)
	FindByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]model.VocabGroup, error)
	FindByName(ctx context.Context, db *gorm.DB, userID uuid.UUID, name string) (*model.VocabGroup, error)
	FindDefault(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.VocabGroup, error)
	Update(ctx context.Context, db *gorm.DB, group *model.VocabGroup) error
	Delete(ctx context.Context, db *gorm.DB, groupID uuid.UUID) error
}

type gormGroupRepository struct{}

func NewGormGroupRepository() GroupRepository {
	return &gormGroupRepository{}
}

func (r *gormGroupRepository) Create(ctx context.Context, db *gorm.DB, group *model.VocabGroup) error {
	if err := db.WithContext(ctx).Create(group).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: group=%s", model.ErrConflict, group.Name)
		}
		return fmt.Errorf("failed to create group: %w", err)
	}
	return nil
}

func (r *gormGroupRepository) FindByID(ctx context.Context, db *gorm.DB, groupID uuid.UUID) (*model.VocabGroup, error) {
	var group model.VocabGroup
	err := db.WithContext(ctx).First(&group, "group_id = ?", groupID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find group by id: %w", err)
	}
	return &group, nil
}

func (r *gormGroupRepository) FindByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]model.VocabGroup, error) {
	var groups []model.VocabGroup
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find groups: %w", err)
	}
	return groups, nil
}

func (r *gormGroupRepository) FindByName(ctx context.Context, db *gorm.DB, userID uuid.UUID, name string) (*model.VocabGroup, error) {
	var group model.VocabGroup
	err := db.WithContext(ctx).First(&group, "user_id = ? AND name = ?", userID, name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find group by name: %w", err)
	}
	return &group, nil
}

func (r *gormGroupRepository) FindDefault(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.VocabGroup, error) {
	var group model.VocabGroup
	err := db.WithContext(ctx).First(&group, "user_id = ? AND is_default = ?", userID, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find default group: %w", err)
	}
	return &group, nil
}

func (r *gormGroupRepository) Update(ctx context.Context, db *gorm.DB, group *model.VocabGroup) error {
	if err := db.WithContext(ctx).Save(group).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: group=%s", model.ErrConflict, group.Name)
		}
		return fmt.Errorf("failed to update group: %w", err)
	}
	return nil
}

func (r *gormGroupRepository) Delete(ctx context.Context, db *gorm.DB, groupID uuid.UUID) error {
	result := db.WithContext(ctx).Delete(&model.VocabGroup{}, "group_id = ?", groupID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete group: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
