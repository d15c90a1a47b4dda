// internal/handlers/learn_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"go_eng_voca/internal/middleware"
	"go_eng_voca/internal/model"
	"go_eng_voca/internal/service"
	"go_eng_voca/internal/webutil"

	"github.com/google/uuid"
)

type LearnHandler struct {
	service service.LearnService
	logger  *slog.Logger
}

func NewLearnHandler(s service.LearnService, logger *slog.Logger) *LearnHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LearnHandler{
		service: s,
		logger:  logger,
	}
}

// GetLearnSet は練習用の単語セットを返すハンドラ。group_id クエリで絞り込めます。
// 認証は任意で、未ログインの場合はゲスト用セットを返します。
func (h *LearnHandler) GetLearnSet(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetLearnSet"))

	var userID *uuid.UUID
	if id, err := middleware.GetUserIDFromContext(r.Context()); err == nil {
		userID = &id
		logger = logger.With(slog.String("user_id", id.String()))
	}

	var groupID *uuid.UUID
	if raw := r.URL.Query().Get("group_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			appErr := model.NewAppError("INVALID_URL_PARAM", "group_idの形式が正しくありません。", "group_id", model.ErrInvalidInput)
			webutil.HandleError(w, logger, appErr)
			return
		}
		groupID = &parsed
	}

	set, err := h.service.BuildLearnSet(r.Context(), userID, groupID)
	if err != nil {
		logger.Error("Error building learn set in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Learn set built successfully", slog.String("mode", set.Mode), slog.Int("total", set.Total))
	webutil.RespondWithJSON(w, http.StatusOK, set, logger)
}
