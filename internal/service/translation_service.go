// internal/service/translation_service.go
package service

import (
	"context"
	"errors"
	"strings"

	"go_eng_voca/internal/middleware"
	"go_eng_voca/internal/model"
	"go_eng_voca/internal/repository"

	"gorm.io/gorm"
)

// TranslationService はテキスト解析 (/translate) と文法チェック (/grammar) を提供します。
type TranslationService interface {
	Analyze(ctx context.Context, text string) (*model.TranslationResult, error)
	CheckGrammar(ctx context.Context, text string) (*model.GrammarResult, error)
}

type translationService struct {
	db        *gorm.DB
	gemini    GeminiClient
	cacheRepo repository.WordCacheRepository
}

func NewTranslationService(db *gorm.DB, gemini GeminiClient, cacheRepo repository.WordCacheRepository) TranslationService {
	return &translationService{
		db:        db,
		gemini:    gemini,
		cacheRepo: cacheRepo,
	}
}

// Analyze は入力が単語なら辞書解析 (キャッシュ優先)、文章なら翻訳を行います。
func (s *translationService) Analyze(ctx context.Context, text string) (*model.TranslationResult, error) {
	logger := middleware.GetLogger(ctx)

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, model.NewAppError("VALIDATION_ERROR", "テキストを入力してください。", "text", model.ErrInvalidInput)
	}

	if !IsWord(trimmed) {
		result, err := s.gemini.AnalyzeSentence(ctx, trimmed)
		if err != nil {
			return nil, s.mapGeminiError(ctx, err)
		}
		return result, nil
	}

	word := strings.ToLower(trimmed)

	// キャッシュヒットならAPIを呼ばずに返す
	cached, err := s.cacheRepo.Find(ctx, s.db, word)
	if err == nil {
		logger.Debug("Word cache hit", "word", word)
		return &model.TranslationResult{
			Type:               model.ResultTypeWord,
			Word:               cached.Word,
			Meaning:            cached.Meaning,
			PartOfSpeech:       cached.PartOfSpeech,
			Level:              cached.Level,
			Phonetic:           cached.Phonetic,
			Example:            cached.Example,
			ExampleTranslation: cached.ExampleTranslation,
		}, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		logger.Error("Failed to look up word cache", "error", err, "word", word)
		// キャッシュ障害でも解析自体は続行する
	}

	result, err := s.gemini.AnalyzeWord(ctx, trimmed)
	if err != nil {
		return nil, s.mapGeminiError(ctx, err)
	}

	// 有効な単語だった場合のみキャッシュを更新する。失敗しても応答は返す。
	if result.Type == model.ResultTypeWord {
		cache := &model.WordCache{
			Word:               word,
			Meaning:            result.Meaning,
			PartOfSpeech:       result.PartOfSpeech,
			Level:              result.Level,
			Phonetic:           result.Phonetic,
			Example:            result.Example,
			ExampleTranslation: result.ExampleTranslation,
		}
		if err := s.cacheRepo.Upsert(ctx, s.db, cache); err != nil {
			logger.Error("Failed to upsert word cache", "error", err, "word", word)
		}
	}

	return result, nil
}

func (s *translationService) CheckGrammar(ctx context.Context, text string) (*model.GrammarResult, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, model.NewAppError("VALIDATION_ERROR", "テキストを入力してください。", "text", model.ErrInvalidInput)
	}

	result, err := s.gemini.CheckGrammar(ctx, trimmed)
	if err != nil {
		return nil, s.mapGeminiError(ctx, err)
	}
	return result, nil
}

func (s *translationService) mapGeminiError(ctx context.Context, err error) error {
	logger := middleware.GetLogger(ctx)
	if errors.Is(err, model.ErrRateLimited) {
		return model.NewAppError("RATE_LIMITED", "AIの利用上限に達しました。しばらく待ってから再度お試しください。", "", model.ErrRateLimited)
	}
	logger.Error("Gemini analysis failed", "error", err)
	return model.NewAppError("INTERNAL_SERVER_ERROR", "テキストの解析に失敗しました。", "", err)
}
