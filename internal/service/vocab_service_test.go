// internal/service/vocab_service_test.go
package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go_eng_voca/internal/config"
	"go_eng_voca/internal/model"
	"go_eng_voca/internal/repository"
)

// --- テストヘルパー関数 ---
func setupVocabTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to connect database for testing")
	require.NoError(t, db.AutoMigrate(&model.VocabGroup{}, &model.Vocabulary{}), "failed to migrate database for testing")
	return db
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.DefaultGroupName = "General"
	cfg.App.GuestLevel = "B2"
	return cfg
}

func newVocabServiceForTest(db *gorm.DB) VocabService {
	return NewVocabService(db, repository.NewGormVocabRepository(), repository.NewGormGroupRepository(), testConfig())
}

// --- SaveVocabulary ---

func Test_vocabService_SaveVocabulary_CreatesDefaultGroupLazily(t *testing.T) {
	ctx := context.Background()
	db := setupVocabTestDB(t)
	svc := newVocabServiceForTest(db)
	userID := uuid.New()

	vocab, err := svc.SaveVocabulary(ctx, userID, &model.SaveVocabularyRequest{
		Word:    "Serendipity",
		Meaning: "思いがけない幸運",
		Level:   "C1",
	})
	require.NoError(t, err)

	// 単語は小文字で保存される
	assert.Equal(t, "serendipity", vocab.Word)
	assert.NotEqual(t, uuid.Nil, vocab.GroupID)

	var group model.VocabGroup
	require.NoError(t, db.First(&group, "group_id = ?", vocab.GroupID).Error)
	assert.Equal(t, "General", group.Name)
	assert.True(t, group.IsDefault)
	assert.Equal(t, userID, group.UserID)

	// 2語目は同じ既定グループに入り、グループは増えない
	vocab2, err := svc.SaveVocabulary(ctx, userID, &model.SaveVocabularyRequest{
		Word:    "ephemeral",
		Meaning: "つかの間の",
	})
	require.NoError(t, err)
	assert.Equal(t, vocab.GroupID, vocab2.GroupID)

	var count int64
	require.NoError(t, db.Model(&model.VocabGroup{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func Test_vocabService_SaveVocabulary_DuplicateIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	db := setupVocabTestDB(t)
	svc := newVocabServiceForTest(db)
	userID := uuid.New()

	_, err := svc.SaveVocabulary(ctx, userID, &model.SaveVocabularyRequest{Word: "Apple", Meaning: "りんご"})
	require.NoError(t, err)

	_, err = svc.SaveVocabulary(ctx, userID, &model.SaveVocabularyRequest{Word: "apple", Meaning: "りんご"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrConflict))

	// 別ユーザーなら同じ単語を保存できる
	_, err = svc.SaveVocabulary(ctx, uuid.New(), &model.SaveVocabularyRequest{Word: "apple", Meaning: "りんご"})
	assert.NoError(t, err)
}

func Test_vocabService_SaveVocabulary_IntoSpecifiedGroup(t *testing.T) {
	ctx := context.Background()
	db := setupVocabTestDB(t)
	svc := newVocabServiceForTest(db)
	userID := uuid.New()

	group := &model.VocabGroup{GroupID: uuid.New(), UserID: userID, Name: "TOEIC"}
	require.NoError(t, db.Create(group).Error)

	vocab, err := svc.SaveVocabulary(ctx, userID, &model.SaveVocabularyRequest{
		Word:    "ledger",
		Meaning: "台帳",
		GroupID: &group.GroupID,
	})
	require.NoError(t, err)
	assert.Equal(t, group.GroupID, vocab.GroupID)
}

func Test_vocabService_SaveVocabulary_RejectsForeignGroup(t *testing.T) {
	ctx := context.Background()
	db := setupVocabTestDB(t)
	svc := newVocabServiceForTest(db)

	otherGroup := &model.VocabGroup{GroupID: uuid.New(), UserID: uuid.New(), Name: "theirs"}
	require.NoError(t, db.Create(otherGroup).Error)

	_, err := svc.SaveVocabulary(ctx, uuid.New(), &model.SaveVocabularyRequest{
		Word:    "apple",
		Meaning: "りんご",
		GroupID: &otherGroup.GroupID,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrForbidden))
}

// --- ListVocabularies ---

func Test_vocabService_ListVocabularies(t *testing.T) {
	ctx := context.Background()
	db := setupVocabTestDB(t)
	svc := newVocabServiceForTest(db)
	userID := uuid.New()

	v1, err := svc.SaveVocabulary(ctx, userID, &model.SaveVocabularyRequest{Word: "alpha", Meaning: "a"})
	require.NoError(t, err)

	group := &model.VocabGroup{GroupID: uuid.New(), UserID: userID, Name: "Business"}
	require.NoError(t, db.Create(group).Error)
	_, err = svc.SaveVocabulary(ctx, userID, &model.SaveVocabularyRequest{Word: "beta", Meaning: "b", GroupID: &group.GroupID})
	require.NoError(t, err)

	all, err := svc.ListVocabularies(ctx, userID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	inGroup, err := svc.ListVocabularies(ctx, userID, &group.GroupID)
	require.NoError(t, err)
	require.Len(t, inGroup, 1)
	assert.Equal(t, "beta", inGroup[0].Word)

	// 他人のグループIDを指定した場合は拒否される
	_, err = svc.ListVocabularies(ctx, uuid.New(), &v1.GroupID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrForbidden))
}

// --- UpdateVocabulary / DeleteVocabulary ---

func Test_vocabService_UpdateVocabulary(t *testing.T) {
	ctx := context.Background()
	db := setupVocabTestDB(t)
	svc := newVocabServiceForTest(db)
	userID := uuid.New()

	vocab, err := svc.SaveVocabulary(ctx, userID, &model.SaveVocabularyRequest{Word: "apple", Meaning: "りんご", Level: "A1"})
	require.NoError(t, err)

	newMeaning := "りんご (果物)"
	newLevel := "A2"
	updated, err := svc.UpdateVocabulary(ctx, userID, vocab.VocabID, &model.UpdateVocabularyRequest{
		Meaning: &newMeaning,
		Level:   &newLevel,
	})
	require.NoError(t, err)
	assert.Equal(t, newMeaning, updated.Meaning)
	assert.Equal(t, "A2", updated.Level)
	assert.Equal(t, "apple", updated.Word) // Wordは変わらない

	// 他人の単語は更新できない
	_, err = svc.UpdateVocabulary(ctx, uuid.New(), vocab.VocabID, &model.UpdateVocabularyRequest{Meaning: &newMeaning})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrForbidden))

	// 存在しない単語
	_, err = svc.UpdateVocabulary(ctx, userID, uuid.New(), &model.UpdateVocabularyRequest{Meaning: &newMeaning})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func Test_vocabService_DeleteVocabulary_AllowsReinsert(t *testing.T) {
	ctx := context.Background()
	db := setupVocabTestDB(t)
	svc := newVocabServiceForTest(db)
	userID := uuid.New()

	vocab, err := svc.SaveVocabulary(ctx, userID, &model.SaveVocabularyRequest{Word: "apple", Meaning: "りんご"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteVocabulary(ctx, userID, vocab.VocabID))

	// 物理削除なので同じ単語を再保存できる
	_, err = svc.SaveVocabulary(ctx, userID, &model.SaveVocabularyRequest{Word: "apple", Meaning: "りんご"})
	assert.NoError(t, err)
}

func Test_vocabService_DeleteVocabulary_Forbidden(t *testing.T) {
	ctx := context.Background()
	db := setupVocabTestDB(t)
	svc := newVocabServiceForTest(db)
	userID := uuid.New()

	vocab, err := svc.SaveVocabulary(ctx, userID, &model.SaveVocabularyRequest{Word: "apple", Meaning: "りんご"})
	require.NoError(t, err)

	err = svc.DeleteVocabulary(ctx, uuid.New(), vocab.VocabID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrForbidden))
}
