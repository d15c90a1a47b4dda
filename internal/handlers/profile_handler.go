// internal/handlers/profile_handler.go
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

type ProfileHandler struct {
	service service.ProfileService
	logger  *slog.Logger
}

func NewProfileHandler(s service.ProfileService, logger *slog.Logger) *ProfileHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileHandler{
		service: s,
		logger:  logger,
	}
}

// GetProfile はプロフィールと統計情報を取得するハンドラ
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetProfile"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	profile, err := h.service.GetProfile(r.Context(), userID, time.Now())
	if err != nil {
		logger.Error("Error getting profile in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, profile, logger)
}

// PutProfile は名前・アバターを更新するハンドラ
func (h *ProfileHandler) PutProfile(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PutProfile"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	var req model.UpdateProfileRequest
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

	profile, err := h.service.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		logger.Error("Error updating profile in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Profile updated successfully")
	webutil.RespondWithJSON(w, http.StatusOK, profile, logger)
}
