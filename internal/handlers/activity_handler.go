// internal/handlers/activity_handler.go
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

type ActivityHandler struct {
	service service.StreakService
	logger  *slog.Logger
}

func NewActivityHandler(s service.StreakService, logger *slog.Logger) *ActivityHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivityHandler{
		service: s,
		logger:  logger,
	}
}

// PostActivity は学習時間 (分) を記録するハンドラ
func (h *ActivityHandler) PostActivity(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostActivity"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	var req model.TrackActivityRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := webutil.Validator.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			logger.Warn("Validation failed", slog.Any("errors", validationErrors.Error()))
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

	result, err := h.service.TrackActivity(r.Context(), userID, &req)
	if err != nil {
		logger.Error("Error tracking activity in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Activity minutes tracked", slog.String("date", result.Date), slog.Int("minutes", result.Minutes))
	webutil.RespondWithJSON(w, http.StatusOK, result, logger)
}

// GetWeeklyActivity は start から7日間の学習時間を返すハンドラ。
// ?start=YYYY-MM-DD 未指定時は今日を末尾とする直近7日間を返します。
func (h *ActivityHandler) GetWeeklyActivity(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetWeeklyActivity"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	start := time.Now().AddDate(0, 0, -6)
	if startStr := r.URL.Query().Get("start"); startStr != "" {
		parsed, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			logger.Warn("Invalid start date in query", slog.String("start", startStr))
			appErr := model.NewAppError("INVALID_URL_PARAM", "startはYYYY-MM-DD形式で指定してください。", "start", model.ErrInvalidInput)
			webutil.HandleError(w, logger, appErr)
			return
		}
		start = parsed
	}

	weekly, err := h.service.WeeklyActivity(r.Context(), userID, start)
	if err != nil {
		logger.Error("Error building weekly activity in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, weekly, logger)
}
