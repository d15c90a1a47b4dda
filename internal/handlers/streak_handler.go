// internal/handlers/streak_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"go_eng_voca/internal/middleware"
	"go_eng_voca/internal/model"
	"go_eng_voca/internal/service"
	"go_eng_voca/internal/webutil"

	"github.com/go-playground/validator/v10"
)

type StreakHandler struct {
	service service.StreakService
	logger  *slog.Logger
}

func NewStreakHandler(s service.StreakService, logger *slog.Logger) *StreakHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreakHandler{
		service: s,
		logger:  logger,
	}
}

// GetStreak は最終ログイン日を記録し、現在のストリーク状態を返すハンドラ
func (h *StreakHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetStreak"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	status, err := h.service.RecordLogin(r.Context(), userID, time.Now())
	if err != nil {
		logger.Error("Error recording login in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, status, logger)
}

// PostActivity は活動報告を受けてストリーク付与を判定するハンドラ
func (h *StreakHandler) PostActivity(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostActivity"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	var req model.StreakActivityRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := webutil.Validator.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			firstErr := validationErrors[0]
			appErr := model.NewAppError(
				"VALIDATION_ERROR",
				firstErr.Translate(webutil.Trans),
				firstErr.Field(),
				model.ErrInvalidInput,
			)
			webutil.HandleError(w, logger, appErr)
		} else {
			logger.Error("Unexpected error during validation", slog.Any("error", err))
			webutil.HandleError(w, logger, err)
		}
		return
	}

	result, err := h.service.RecordActivity(r.Context(), userID, &req, time.Now())
	if err != nil {
		logger.Error("Error recording activity in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Activity recorded",
		slog.String("activity_type", req.ActivityType),
		slog.Bool("streak_awarded", result.StreakAwarded),
	)
	webutil.RespondWithJSON(w, http.StatusOK, result, logger)
}
