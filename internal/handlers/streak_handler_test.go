// internal/handlers/streak_handler_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go_eng_voca/internal/handlers"
	"go_eng_voca/internal/middleware"
	"go_eng_voca/internal/model"
	"go_eng_voca/internal/service/mocks"
)

func setupStreakRouter(mockService *mocks.StreakService) *chi.Mux {
	streakHandler := handlers.NewStreakHandler(mockService, nil)
	router := chi.NewRouter()
	router.Use(middleware.DevUserContextMiddleware) // X-User-ID ヘッダーによる開発用認証
	router.Get("/api/v1/streak", streakHandler.GetStreak)
	router.Post("/api/v1/streak/activity", streakHandler.PostActivity)
	return router
}

func TestStreakHandler_GetStreak(t *testing.T) {
	userID := uuid.New()
	mockService := mocks.NewStreakService(t)
	router := setupStreakRouter(mockService)

	mockService.On("RecordLogin", mock.Anything, userID, mock.AnythingOfType("time.Time")).
		Return(&model.StreakStatus{Streak: 5, Updated: true}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/streak", nil)
	req.Header.Set("X-User-ID", userID.String())
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var status model.StreakStatus
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
	assert.Equal(t, 5, status.Streak)
	assert.True(t, status.Updated)
}

func TestStreakHandler_GetStreak_Unauthorized(t *testing.T) {
	mockService := mocks.NewStreakService(t)
	router := setupStreakRouter(mockService)

	// X-User-ID ヘッダーなし
	req := httptest.NewRequest(http.MethodGet, "/api/v1/streak", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	mockService.AssertNotCalled(t, "RecordLogin")
}

func TestStreakHandler_PostActivity(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		body           interface{}
		setupMock      func(m *mocks.StreakService)
		expectedStatus int
	}{
		{
			name: "正常系: 単語保存でストリーク付与",
			body: model.StreakActivityRequest{ActivityType: model.ActivityWordSave},
			setupMock: func(m *mocks.StreakService) {
				m.On("RecordActivity", mock.Anything, userID, mock.AnythingOfType("*model.StreakActivityRequest"), mock.AnythingOfType("time.Time")).
					Return(&model.StreakAwardResult{StreakAwarded: true, NewStreak: 3}, nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "異常系: activity_type がない",
			body:           map[string]interface{}{"score": 5},
			setupMock:      func(m *mocks.StreakService) { /* Serviceは呼ばれない */ },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "異常系: 不正なJSON",
			body:           "not-json",
			setupMock:      func(m *mocks.StreakService) { /* Serviceは呼ばれない */ },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "異常系: 不明な活動種別はサービスで弾かれる",
			body: model.StreakActivityRequest{ActivityType: "unknown"},
			setupMock: func(m *mocks.StreakService) {
				m.On("RecordActivity", mock.Anything, userID, mock.AnythingOfType("*model.StreakActivityRequest"), mock.AnythingOfType("time.Time")).
					Return(nil, model.NewAppError("VALIDATION_ERROR", "不明な活動種別です。", "activity_type", model.ErrInvalidInput)).Once()
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := mocks.NewStreakService(t)
			router := setupStreakRouter(mockService)
			tt.setupMock(mockService)

			var bodyBytes []byte
			if s, ok := tt.body.(string); ok {
				bodyBytes = []byte(s)
			} else {
				var err error
				bodyBytes, err = json.Marshal(tt.body)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/streak/activity", bytes.NewReader(bodyBytes))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-User-ID", userID.String())
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)

			if tt.expectedStatus >= 400 {
				var errResp model.APIErrorResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errResp))
				assert.NotEmpty(t, errResp.Error.Code)
			}
		})
	}
}
