// internal/service/learn_service.go
package service

import (
	"context"
	"math/rand"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go_eng_voca/internal/config"
	"go_eng_voca/internal/middleware"
	"go_eng_voca/internal/model"
	"go_eng_voca/internal/repository"
)

// LearnService は練習用の単語セットを組み立てます。
// 未ログインのゲストには管理者アカウントの単語から出題します。
type LearnService interface {
	BuildLearnSet(ctx context.Context, userID, groupID *uuid.UUID) (*model.LearnSetResponse, error)
}

type learnService struct {
	db        *gorm.DB
	vocabRepo repository.VocabRepository
	cfg       *config.Config
}

func NewLearnService(db *gorm.DB, vocabRepo repository.VocabRepository, cfg *config.Config) LearnService {
	return &learnService{
		db:        db,
		vocabRepo: vocabRepo,
		cfg:       cfg,
	}
}

func (s *learnService) BuildLearnSet(ctx context.Context, userID, groupID *uuid.UUID) (*model.LearnSetResponse, error) {
	logger := middleware.GetLogger(ctx)

	if userID != nil {
		var vocabs []model.Vocabulary
		var err error
		if groupID != nil {
			// グループ指定付き。ユーザー所有の単語だけが対象になる
			vocabs, err = s.vocabRepo.FindByUserAndGroup(ctx, s.db, *userID, *groupID)
		} else {
			vocabs, err = s.vocabRepo.FindByUser(ctx, s.db, *userID)
		}
		if err != nil {
			logger.Error("Failed to load user learn set", "error", err)
			return nil, model.ErrInternalServer
		}
		return shuffledLearnSet(vocabs, "user"), nil
	}

	// ゲストモード: 管理者アカウントの単語を規定レベルで出題する
	if s.cfg.App.GuestUserID == "" {
		logger.Warn("Guest learn set requested but guest_user_id is not configured")
		return &model.LearnSetResponse{Vocabularies: []*model.Vocabulary{}, Mode: "guest", Total: 0}, nil
	}
	guestOwner, err := uuid.Parse(s.cfg.App.GuestUserID)
	if err != nil {
		logger.Error("Invalid guest_user_id in config", "error", err, "guest_user_id", s.cfg.App.GuestUserID)
		return nil, model.ErrInternalServer
	}

	vocabs, err := s.vocabRepo.FindByUserAndLevel(ctx, s.db, guestOwner, s.cfg.App.GuestLevel)
	if err != nil {
		logger.Error("Failed to load guest learn set", "error", err)
		return nil, model.ErrInternalServer
	}
	return shuffledLearnSet(vocabs, "guest"), nil
}

func shuffledLearnSet(vocabs []model.Vocabulary, mode string) *model.LearnSetResponse {
	set := make([]*model.Vocabulary, len(vocabs))
	for i := range vocabs {
		set[i] = &vocabs[i]
	}
	rand.Shuffle(len(set), func(i, j int) {
		set[i], set[j] = set[j], set[i]
	})
	return &model.LearnSetResponse{
		Vocabularies: set,
		Mode:         mode,
		Total:        len(set),
	}
}
