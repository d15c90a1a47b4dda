// internal/service/learn_service_test.go
package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go_eng_voca/internal/config"
	"go_eng_voca/internal/model"
	"go_eng_voca/internal/repository"
)

func newLearnServiceForTest(db *gorm.DB, cfg *config.Config) LearnService {
	return NewLearnService(db, repository.NewGormVocabRepository(), cfg)
}

func Test_learnService_BuildLearnSet_UserMode(t *testing.T) {
	ctx := context.Background()
	db := setupVocabTestDB(t)
	vocabSvc := newVocabServiceForTest(db)
	svc := newLearnServiceForTest(db, testConfig())
	userID := uuid.New()

	for _, word := range []string{"apple", "banana", "cherry"} {
		_, err := vocabSvc.SaveVocabulary(ctx, userID, &model.SaveVocabularyRequest{Word: word, Meaning: "テスト"})
		require.NoError(t, err)
	}

	set, err := svc.BuildLearnSet(ctx, &userID, nil)
	require.NoError(t, err)
	assert.Equal(t, "user", set.Mode)
	assert.Equal(t, 3, set.Total)
	require.Len(t, set.Vocabularies, 3)

	words := make([]string, 0, len(set.Vocabularies))
	for _, v := range set.Vocabularies {
		words = append(words, v.Word)
	}
	assert.ElementsMatch(t, []string{"apple", "banana", "cherry"}, words)
}

func Test_learnService_BuildLearnSet_GroupFilter(t *testing.T) {
	ctx := context.Background()
	db := setupVocabTestDB(t)
	vocabSvc := newVocabServiceForTest(db)
	groupSvc := newGroupServiceForTest(db)
	svc := newLearnServiceForTest(db, testConfig())
	userID := uuid.New()

	group, err := groupSvc.CreateGroup(ctx, userID, &model.CreateGroupRequest{Name: "TOEIC"})
	require.NoError(t, err)

	_, err = vocabSvc.SaveVocabulary(ctx, userID, &model.SaveVocabularyRequest{Word: "ledger", Meaning: "台帳", GroupID: &group.GroupID})
	require.NoError(t, err)
	_, err = vocabSvc.SaveVocabulary(ctx, userID, &model.SaveVocabularyRequest{Word: "apple", Meaning: "りんご"})
	require.NoError(t, err)

	set, err := svc.BuildLearnSet(ctx, &userID, &group.GroupID)
	require.NoError(t, err)
	assert.Equal(t, 1, set.Total)
	assert.Equal(t, "ledger", set.Vocabularies[0].Word)
}

func Test_learnService_BuildLearnSet_GuestMode(t *testing.T) {
	ctx := context.Background()
	db := setupVocabTestDB(t)
	vocabSvc := newVocabServiceForTest(db)

	adminID := uuid.New()
	cfg := testConfig()
	cfg.App.GuestUserID = adminID.String()
	svc := newLearnServiceForTest(db, cfg)

	// ゲスト向けレベルの単語だけが出題される
	_, err := vocabSvc.SaveVocabulary(ctx, adminID, &model.SaveVocabularyRequest{Word: "meticulous", Meaning: "几帳面な", Level: "B2"})
	require.NoError(t, err)
	_, err = vocabSvc.SaveVocabulary(ctx, adminID, &model.SaveVocabularyRequest{Word: "cat", Meaning: "猫", Level: "A1"})
	require.NoError(t, err)

	set, err := svc.BuildLearnSet(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "guest", set.Mode)
	require.Equal(t, 1, set.Total)
	assert.Equal(t, "meticulous", set.Vocabularies[0].Word)
}

func Test_learnService_BuildLearnSet_GuestUnconfigured(t *testing.T) {
	ctx := context.Background()
	db := setupVocabTestDB(t)
	svc := newLearnServiceForTest(db, testConfig())

	set, err := svc.BuildLearnSet(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "guest", set.Mode)
	assert.Equal(t, 0, set.Total)
	assert.NotNil(t, set.Vocabularies)
}
