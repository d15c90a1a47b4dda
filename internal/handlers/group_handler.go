// internal/handlers/group_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"go_eng_voca/internal/middleware"
	"go_eng_voca/internal/model"
	"go_eng_voca/internal/service"
	"go_eng_voca/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type GroupHandler struct {
	service service.GroupService
	logger  *slog.Logger
}

func NewGroupHandler(s service.GroupService, logger *slog.Logger) *GroupHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GroupHandler{
		service: s,
		logger:  logger,
	}
}

// GetGroups はグループ一覧を単語数付きで取得するハンドラ
func (h *GroupHandler) GetGroups(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetGroups"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	minWords := 0
	if minWordsStr := r.URL.Query().Get("min_words"); minWordsStr != "" {
		parsed, err := strconv.Atoi(minWordsStr)
		if err != nil || parsed < 0 {
			logger.Warn("Invalid min_words in query", slog.String("min_words", minWordsStr))
			appErr := model.NewAppError("INVALID_URL_PARAM", "min_wordsは0以上の整数で指定してください。", "min_words", model.ErrInvalidInput)
			webutil.HandleError(w, logger, appErr)
			return
		}
		minWords = parsed
	}

	groups, err := h.service.ListGroups(r.Context(), userID, minWords)
	if err != nil {
		logger.Error("Error listing groups in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if groups == nil {
		groups = []model.GroupResponse{}
	}
	logger.Info("Groups listed successfully", slog.Int("count", len(groups)))
	webutil.RespondWithJSON(w, http.StatusOK, groups, logger)
}

// PostGroup は新しいグループを作成するハンドラ
func (h *GroupHandler) PostGroup(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostGroup"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	var req model.CreateGroupRequest
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

	group, err := h.service.CreateGroup(r.Context(), userID, &req)
	if err != nil {
		logger.Error("Error creating group in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Group created successfully", slog.String("group_id", group.GroupID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, group, logger)
}

// PutGroup はグループ名を変更するハンドラ
func (h *GroupHandler) PutGroup(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PutGroup"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	groupIDStr := chi.URLParam(r, "group_id")
	groupID, err := uuid.Parse(groupIDStr)
	if err != nil {
		logger.Warn("Invalid group ID format in URL", slog.String("group_id_str", groupIDStr))
		appErr := model.NewAppError("INVALID_URL_PARAM", "group_idの形式が正しくありません。", "group_id", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("group_id", groupID.String()))

	var req model.RenameGroupRequest
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

	group, err := h.service.RenameGroup(r.Context(), userID, groupID, &req)
	if err != nil {
		logger.Error("Error renaming group in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Group renamed successfully")
	webutil.RespondWithJSON(w, http.StatusOK, group, logger)
}

// DeleteGroup はグループを削除するハンドラ
func (h *GroupHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeleteGroup"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	groupIDStr := chi.URLParam(r, "group_id")
	groupID, err := uuid.Parse(groupIDStr)
	if err != nil {
		logger.Warn("Invalid group ID format in URL", slog.String("group_id_str", groupIDStr))
		appErr := model.NewAppError("INVALID_URL_PARAM", "group_idの形式が正しくありません。", "group_id", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := h.service.DeleteGroup(r.Context(), userID, groupID); err != nil {
		logger.Error("Error deleting group in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Group deleted successfully", slog.String("group_id", groupID.String()))
	w.WriteHeader(http.StatusNoContent)
}
