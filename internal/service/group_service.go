// internal/service/group_service.go
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go_eng_voca/internal/config"
	"go_eng_voca/internal/middleware"
	"go_eng_voca/internal/model"
	"go_eng_voca/internal/repository"
)

// GroupService は単語グループの管理を提供します。
type GroupService interface {
	ListGroups(ctx context.Context, userID uuid.UUID, minWords int) ([]model.GroupResponse, error)
	CreateGroup(ctx context.Context, userID uuid.UUID, req *model.CreateGroupRequest) (*model.VocabGroup, error)
	RenameGroup(ctx context.Context, userID, groupID uuid.UUID, req *model.RenameGroupRequest) (*model.VocabGroup, error)
	DeleteGroup(ctx context.Context, userID, groupID uuid.UUID) error
}

type groupService struct {
	db        *gorm.DB
	groupRepo repository.GroupRepository
	vocabRepo repository.VocabRepository
	cfg       *config.Config
}

func NewGroupService(db *gorm.DB, groupRepo repository.GroupRepository, vocabRepo repository.VocabRepository, cfg *config.Config) GroupService {
	return &groupService{
		db:        db,
		groupRepo: groupRepo,
		vocabRepo: vocabRepo,
		cfg:       cfg,
	}
}

// ListGroups はユーザーのグループ一覧を単語数付きで返します。
// 既定グループがまだなければこのタイミングで作成します。
// minWords > 0 の場合、単語数がそれ未満のグループを除外します。
func (s *groupService) ListGroups(ctx context.Context, userID uuid.UUID, minWords int) ([]model.GroupResponse, error) {
	logger := middleware.GetLogger(ctx)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := s.groupRepo.FindDefault(ctx, tx, userID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, model.ErrNotFound) {
			return err
		}
		group := &model.VocabGroup{
			GroupID:   uuid.New(),
			UserID:    userID,
			Name:      s.cfg.App.DefaultGroupName,
			IsDefault: true,
		}
		if err := s.groupRepo.Create(ctx, tx, group); err != nil {
			// 並行リクエストが先に作成していた場合はそのまま使う
			if errors.Is(err, model.ErrConflict) {
				return nil
			}
			return err
		}
		logger.Info("Default group created", "user_id", userID, "group_id", group.GroupID)
		return nil
	})
	if err != nil {
		logger.Error("Failed to ensure default group", "error", err)
		return nil, model.ErrInternalServer
	}

	groups, err := s.groupRepo.FindByUser(ctx, s.db, userID)
	if err != nil {
		logger.Error("Failed to list groups", "error", err)
		return nil, model.ErrInternalServer
	}

	responses := make([]model.GroupResponse, 0, len(groups))
	for _, g := range groups {
		count, err := s.vocabRepo.CountByGroup(ctx, s.db, g.GroupID)
		if err != nil {
			logger.Error("Failed to count group words", "error", err, "group_id", g.GroupID)
			return nil, model.ErrInternalServer
		}
		if minWords > 0 && count < int64(minWords) {
			continue
		}
		responses = append(responses, model.GroupResponse{
			GroupID:   g.GroupID,
			Name:      g.Name,
			IsDefault: g.IsDefault,
			WordCount: count,
			CreatedAt: g.CreatedAt,
		})
	}
	return responses, nil
}

func (s *groupService) CreateGroup(ctx context.Context, userID uuid.UUID, req *model.CreateGroupRequest) (*model.VocabGroup, error) {
	logger := middleware.GetLogger(ctx)

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, model.NewAppError("VALIDATION_ERROR", "グループ名を入力してください。", "name", model.ErrInvalidInput)
	}

	var created *model.VocabGroup
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 同名チェック
		_, err := s.groupRepo.FindByName(ctx, tx, userID, name)
		if err == nil {
			return model.NewAppError("DUPLICATE_GROUP", "同じ名前のグループが既にあります。", "name", model.ErrConflict)
		}
		if !errors.Is(err, model.ErrNotFound) {
			logger.Error("Failed to check group name", "error", err)
			return model.ErrInternalServer
		}

		group := &model.VocabGroup{
			GroupID:   uuid.New(),
			UserID:    userID,
			Name:      name,
			IsDefault: false,
		}
		if err := s.groupRepo.Create(ctx, tx, group); err != nil {
			if errors.Is(err, model.ErrConflict) {
				return model.NewAppError("DUPLICATE_GROUP", "同じ名前のグループが既にあります。", "name", model.ErrConflict)
			}
			logger.Error("Failed to create group", "error", err)
			return model.ErrInternalServer
		}
		created = group
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Group created", "user_id", userID, "group_id", created.GroupID, "name", created.Name)
	return created, nil
}

func (s *groupService) RenameGroup(ctx context.Context, userID, groupID uuid.UUID, req *model.RenameGroupRequest) (*model.VocabGroup, error) {
	logger := middleware.GetLogger(ctx)

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, model.NewAppError("VALIDATION_ERROR", "グループ名を入力してください。", "name", model.ErrInvalidInput)
	}

	var renamed *model.VocabGroup
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		group, err := s.groupRepo.FindByID(ctx, tx, groupID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("GROUP_NOT_FOUND", "グループが見つかりません。", "", model.ErrNotFound)
			}
			return model.ErrInternalServer
		}
		if group.UserID != userID {
			return model.NewAppError("FORBIDDEN", "このグループにはアクセスできません。", "", model.ErrForbidden)
		}

		if group.Name == name {
			renamed = group
			return nil
		}

		// 改名先の同名チェック
		_, err = s.groupRepo.FindByName(ctx, tx, userID, name)
		if err == nil {
			return model.NewAppError("DUPLICATE_GROUP", "同じ名前のグループが既にあります。", "name", model.ErrConflict)
		}
		if !errors.Is(err, model.ErrNotFound) {
			logger.Error("Failed to check group name for rename", "error", err)
			return model.ErrInternalServer
		}

		group.Name = name
		if err := s.groupRepo.Update(ctx, tx, group); err != nil {
			if errors.Is(err, model.ErrConflict) {
				return model.NewAppError("DUPLICATE_GROUP", "同じ名前のグループが既にあります。", "name", model.ErrConflict)
			}
			logger.Error("Failed to rename group", "error", err)
			return model.ErrInternalServer
		}
		renamed = group
		return nil
	})
	if err != nil {
		return nil, err
	}
	return renamed, nil
}

// DeleteGroup はグループを削除します。既定グループと単語が残っている
// グループは削除できません。
func (s *groupService) DeleteGroup(ctx context.Context, userID, groupID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		group, err := s.groupRepo.FindByID(ctx, tx, groupID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("GROUP_NOT_FOUND", "グループが見つかりません。", "", model.ErrNotFound)
			}
			return model.ErrInternalServer
		}
		if group.UserID != userID {
			return model.NewAppError("FORBIDDEN", "このグループにはアクセスできません。", "", model.ErrForbidden)
		}
		if group.IsDefault {
			return model.NewAppError("DEFAULT_GROUP", "既定グループは削除できません。", "", model.ErrInvalidInput)
		}

		count, err := s.vocabRepo.CountByGroup(ctx, tx, groupID)
		if err != nil {
			logger.Error("Failed to count group words before delete", "error", err)
			return model.ErrInternalServer
		}
		if count > 0 {
			return model.NewAppError("GROUP_NOT_EMPTY", "単語が残っているグループは削除できません。", "", model.ErrConflict)
		}

		if err := s.groupRepo.Delete(ctx, tx, groupID); err != nil {
			logger.Error("Failed to delete group", "error", err, "group_id", groupID)
			return model.ErrInternalServer
		}
		logger.Info("Group deleted", "user_id", userID, "group_id", groupID)
		return nil
	})
}
