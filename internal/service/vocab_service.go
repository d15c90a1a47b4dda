// internal/service/vocab_service.go
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

// VocabService は単語帳エントリのCRUDを提供します。
type VocabService interface {
	SaveVocabulary(ctx context.Context, userID uuid.UUID, req *model.SaveVocabularyRequest) (*model.Vocabulary, error)
	ListVocabularies(ctx context.Context, userID uuid.UUID, groupID *uuid.UUID) ([]model.Vocabulary, error)
	UpdateVocabulary(ctx context.Context, userID, vocabID uuid.UUID, req *model.UpdateVocabularyRequest) (*model.Vocabulary, error)
	DeleteVocabulary(ctx context.Context, userID, vocabID uuid.UUID) error
}

type vocabService struct {
	db        *gorm.DB
	vocabRepo repository.VocabRepository
	groupRepo repository.GroupRepository
	cfg       *config.Config
}

func NewVocabService(db *gorm.DB, vocabRepo repository.VocabRepository, groupRepo repository.GroupRepository, cfg *config.Config) VocabService {
	return &vocabService{
		db:        db,
		vocabRepo: vocabRepo,
		groupRepo: groupRepo,
		cfg:       cfg,
	}
}

// SaveVocabulary は単語を保存します。グループ未指定の場合は既定グループ
// (なければこのタイミングで作成) に入れます。同一ユーザー内で単語は
// 大文字小文字を区別せず一意です。
func (s *vocabService) SaveVocabulary(ctx context.Context, userID uuid.UUID, req *model.SaveVocabularyRequest) (*model.Vocabulary, error) {
	logger := middleware.GetLogger(ctx)

	var created *model.Vocabulary
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		word := strings.ToLower(strings.TrimSpace(req.Word))
		if word == "" {
			return model.NewAppError("VALIDATION_ERROR", "単語を入力してください。", "word", model.ErrInvalidInput)
		}

		// 1. 重複チェック
		exists, err := s.vocabRepo.ExistsByUserAndWord(ctx, tx, userID, word)
		if err != nil {
			logger.Error("Failed to check word existence", "error", err)
			return model.ErrInternalServer
		}
		if exists {
			return model.NewAppError("DUPLICATE_WORD", "この単語は既に保存されています。", "word", model.ErrConflict)
		}

		// 2. 保存先グループを決定
		groupID, err := s.resolveGroup(ctx, tx, userID, req.GroupID)
		if err != nil {
			return err
		}

		// 3. 単語を作成
		vocab := &model.Vocabulary{
			VocabID:            uuid.New(),
			UserID:             userID,
			GroupID:            groupID,
			Word:               word,
			Meaning:            req.Meaning,
			PartOfSpeech:       req.PartOfSpeech,
			Level:              req.Level,
			Phonetic:           req.Phonetic,
			Example:            req.Example,
			ExampleTranslation: req.ExampleTranslation,
		}
		if err := s.vocabRepo.Create(ctx, tx, vocab); err != nil {
			// レースコンディションでユニーク制約に当たった場合
			if errors.Is(err, model.ErrConflict) {
				return model.NewAppError("DUPLICATE_WORD", "この単語は既に保存されています。", "word", model.ErrConflict)
			}
			logger.Error("Failed to create vocabulary", "error", err)
			return model.ErrInternalServer
		}

		created = vocab
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Vocabulary saved", "user_id", userID, "word", created.Word)
	return created, nil
}

func (s *vocabService) ListVocabularies(ctx context.Context, userID uuid.UUID, groupID *uuid.UUID) ([]model.Vocabulary, error) {
	logger := middleware.GetLogger(ctx)

	if groupID != nil {
		// グループ指定時は所有チェックも兼ねてグループを引く
		group, err := s.groupRepo.FindByID(ctx, s.db, *groupID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return nil, model.NewAppError("GROUP_NOT_FOUND", "グループが見つかりません。", "group_id", model.ErrNotFound)
			}
			return nil, model.ErrInternalServer
		}
		if group.UserID != userID {
			return nil, model.NewAppError("FORBIDDEN", "このグループにはアクセスできません。", "group_id", model.ErrForbidden)
		}
		vocabs, err := s.vocabRepo.FindByUserAndGroup(ctx, s.db, userID, *groupID)
		if err != nil {
			logger.Error("Failed to list vocabularies by group", "error", err)
			return nil, model.ErrInternalServer
		}
		return vocabs, nil
	}

	vocabs, err := s.vocabRepo.FindByUser(ctx, s.db, userID)
	if err != nil {
		logger.Error("Failed to list vocabularies", "error", err)
		return nil, model.ErrInternalServer
	}
	return vocabs, nil
}

func (s *vocabService) UpdateVocabulary(ctx context.Context, userID, vocabID uuid.UUID, req *model.UpdateVocabularyRequest) (*model.Vocabulary, error) {
	logger := middleware.GetLogger(ctx)

	var updated *model.Vocabulary
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		vocab, err := s.vocabRepo.FindByID(ctx, tx, vocabID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("VOCAB_NOT_FOUND", "単語が見つかりません。", "", model.ErrNotFound)
			}
			return model.ErrInternalServer
		}
		if vocab.UserID != userID {
			return model.NewAppError("FORBIDDEN", "この単語にはアクセスできません。", "", model.ErrForbidden)
		}

		if req.Meaning != nil {
			vocab.Meaning = *req.Meaning
		}
		if req.PartOfSpeech != nil {
			vocab.PartOfSpeech = *req.PartOfSpeech
		}
		if req.Level != nil {
			vocab.Level = *req.Level
		}
		if req.Phonetic != nil {
			vocab.Phonetic = *req.Phonetic
		}
		if req.Example != nil {
			vocab.Example = *req.Example
		}
		if req.ExampleTranslation != nil {
			vocab.ExampleTranslation = *req.ExampleTranslation
		}
		if req.GroupID != nil {
			groupID, err := s.resolveGroup(ctx, tx, userID, req.GroupID)
			if err != nil {
				return err
			}
			vocab.GroupID = groupID
		}

		if err := s.vocabRepo.Update(ctx, tx, vocab); err != nil {
			logger.Error("Failed to update vocabulary", "error", err)
			return model.ErrInternalServer
		}
		updated = vocab
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *vocabService) DeleteVocabulary(ctx context.Context, userID, vocabID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		vocab, err := s.vocabRepo.FindByID(ctx, tx, vocabID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("VOCAB_NOT_FOUND", "単語が見つかりません。", "", model.ErrNotFound)
			}
			return model.ErrInternalServer
		}
		if vocab.UserID != userID {
			return model.NewAppError("FORBIDDEN", "この単語にはアクセスできません。", "", model.ErrForbidden)
		}

		if err := s.vocabRepo.Delete(ctx, tx, vocabID); err != nil {
			logger.Error("Failed to delete vocabulary", "error", err, "vocab_id", vocabID)
			return model.ErrInternalServer
		}
		return nil
	})
}

// resolveGroup は保存先グループIDを決定します。指定があれば所有チェック、
// なければ既定グループを返し、存在しなければ作成します。
func (s *vocabService) resolveGroup(ctx context.Context, tx *gorm.DB, userID uuid.UUID, groupID *uuid.UUID) (uuid.UUID, error) {
	logger := middleware.GetLogger(ctx)

	if groupID != nil {
		group, err := s.groupRepo.FindByID(ctx, tx, *groupID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return uuid.Nil, model.NewAppError("GROUP_NOT_FOUND", "グループが見つかりません。", "group_id", model.ErrNotFound)
			}
			return uuid.Nil, model.ErrInternalServer
		}
		if group.UserID != userID {
			return uuid.Nil, model.NewAppError("FORBIDDEN", "このグループにはアクセスできません。", "group_id", model.ErrForbidden)
		}
		return group.GroupID, nil
	}

	group, err := s.groupRepo.FindDefault(ctx, tx, userID)
	if err == nil {
		return group.GroupID, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return uuid.Nil, model.ErrInternalServer
	}

	// 既定グループがまだない場合はここで作成する
	newGroup := &model.VocabGroup{
		GroupID:   uuid.New(),
		UserID:    userID,
		Name:      s.cfg.App.DefaultGroupName,
		IsDefault: true,
	}
	if err := s.groupRepo.Create(ctx, tx, newGroup); err != nil {
		logger.Error("Failed to create default group", "error", err, "user_id", userID)
		return uuid.Nil, model.ErrInternalServer
	}
	logger.Info("Default group created", "user_id", userID, "group_id", newGroup.GroupID)
	return newGroup.GroupID, nil
}
