// internal/service/translation_service_test.go
package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go_eng_voca/internal/model"
	"go_eng_voca/internal/repository"
)

// stubGemini は呼び出し回数を数えるテスト用のGeminiClient実装
type stubGemini struct {
	wordCalls     int
	sentenceCalls int
	grammarCalls  int
	wordResult    *model.TranslationResult
	wordErr       error
}

func (s *stubGemini) AnalyzeWord(ctx context.Context, word string) (*model.TranslationResult, error) {
	s.wordCalls++
	return s.wordResult, s.wordErr
}

func (s *stubGemini) AnalyzeSentence(ctx context.Context, text string) (*model.TranslationResult, error) {
	s.sentenceCalls++
	return &model.TranslationResult{Type: model.ResultTypeSentence, Original: text, Translation: "訳"}, nil
}

func (s *stubGemini) CheckGrammar(ctx context.Context, text string) (*model.GrammarResult, error) {
	s.grammarCalls++
	return &model.GrammarResult{IsCorrect: true, Correction: text}, nil
}

func setupCacheTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.WordCache{}))
	return db
}

func Test_translationService_Analyze_WordCachesResult(t *testing.T) {
	ctx := context.Background()
	db := setupCacheTestDB(t)
	gemini := &stubGemini{
		wordResult: &model.TranslationResult{
			Type:    model.ResultTypeWord,
			Word:    "apple",
			Meaning: "りんご",
			Level:   "A1",
		},
	}
	svc := NewTranslationService(db, gemini, repository.NewGormWordCacheRepository())

	// 1回目はAPIを呼び、結果がキャッシュされる
	result, err := svc.Analyze(ctx, "Apple")
	require.NoError(t, err)
	assert.Equal(t, model.ResultTypeWord, result.Type)
	assert.Equal(t, 1, gemini.wordCalls)

	var cache model.WordCache
	require.NoError(t, db.First(&cache, "word = ?", "apple").Error)
	assert.Equal(t, "りんご", cache.Meaning)

	// 2回目はキャッシュヒットでAPIを呼ばない
	result, err = svc.Analyze(ctx, "apple")
	require.NoError(t, err)
	assert.Equal(t, "りんご", result.Meaning)
	assert.Equal(t, 1, gemini.wordCalls)
}

func Test_translationService_Analyze_InvalidWordNotCached(t *testing.T) {
	ctx := context.Background()
	db := setupCacheTestDB(t)
	gemini := &stubGemini{
		wordResult: &model.TranslationResult{
			Type:        model.ResultTypeInvalidWord,
			Word:        "aple",
			Suggestions: []string{"apple"},
		},
	}
	svc := NewTranslationService(db, gemini, repository.NewGormWordCacheRepository())

	result, err := svc.Analyze(ctx, "aple")
	require.NoError(t, err)
	assert.Equal(t, model.ResultTypeInvalidWord, result.Type)

	var count int64
	require.NoError(t, db.Model(&model.WordCache{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func Test_translationService_Analyze_SentenceSkipsCache(t *testing.T) {
	ctx := context.Background()
	db := setupCacheTestDB(t)
	gemini := &stubGemini{}
	svc := NewTranslationService(db, gemini, repository.NewGormWordCacheRepository())

	result, err := svc.Analyze(ctx, "I ate an apple.")
	require.NoError(t, err)
	assert.Equal(t, model.ResultTypeSentence, result.Type)
	assert.Equal(t, 1, gemini.sentenceCalls)
	assert.Equal(t, 0, gemini.wordCalls)
}

func Test_translationService_Analyze_RateLimitMapsTo429(t *testing.T) {
	ctx := context.Background()
	db := setupCacheTestDB(t)
	gemini := &stubGemini{wordErr: model.ErrRateLimited}
	svc := NewTranslationService(db, gemini, repository.NewGormWordCacheRepository())

	_, err := svc.Analyze(ctx, "apple")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrRateLimited))

	var appErr *model.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "RATE_LIMITED", appErr.Detail.Code)
}

func Test_translationService_Analyze_EmptyText(t *testing.T) {
	ctx := context.Background()
	db := setupCacheTestDB(t)
	svc := NewTranslationService(db, &stubGemini{}, repository.NewGormWordCacheRepository())

	_, err := svc.Analyze(ctx, "   ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
}

func Test_translationService_CheckGrammar(t *testing.T) {
	ctx := context.Background()
	db := setupCacheTestDB(t)
	gemini := &stubGemini{}
	svc := NewTranslationService(db, gemini, repository.NewGormWordCacheRepository())

	result, err := svc.CheckGrammar(ctx, "I am a student.")
	require.NoError(t, err)
	assert.True(t, result.IsCorrect)
	assert.Equal(t, 1, gemini.grammarCalls)
}
