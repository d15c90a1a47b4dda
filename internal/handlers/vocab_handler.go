// internal/handlers/vocab_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"go_eng_voca/internal/middleware"
	"go_eng_voca/internal/model"
	"go_eng_voca/internal/service"
	"go_eng_voca/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type VocabHandler struct {
	service service.VocabService
	logger  *slog.Logger
}

func NewVocabHandler(s service.VocabService, logger *slog.Logger) *VocabHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &VocabHandler{
		service: s,
		logger:  logger,
	}
}

// PostVocabulary は単語を保存するハンドラ
func (h *VocabHandler) PostVocabulary(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostVocabulary"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	var req model.SaveVocabularyRequest
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

	vocab, err := h.service.SaveVocabulary(r.Context(), userID, &req)
	if err != nil {
		logger.Error("Error saving vocabulary in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Vocabulary saved successfully", slog.String("vocab_id", vocab.VocabID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, vocab, logger)
}

// GetVocabularies は単語一覧を取得するハンドラ。group_id クエリで絞り込めます。
func (h *VocabHandler) GetVocabularies(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetVocabularies"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

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

	vocabs, err := h.service.ListVocabularies(r.Context(), userID, groupID)
	if err != nil {
		logger.Error("Error listing vocabularies in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if vocabs == nil {
		vocabs = []model.Vocabulary{}
	}
	logger.Info("Vocabularies listed successfully", slog.Int("count", len(vocabs)))
	webutil.RespondWithJSON(w, http.StatusOK, vocabs, logger)
}

// PutVocabulary は単語を更新するハンドラ。指定されたフィールドだけ上書きします。
func (h *VocabHandler) PutVocabulary(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PutVocabulary"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	vocabIDStr := chi.URLParam(r, "vocab_id")
	vocabID, err := uuid.Parse(vocabIDStr)
	if err != nil {
		logger.Warn("Invalid vocab ID format in URL", slog.String("vocab_id_str", vocabIDStr))
		appErr := model.NewAppError("INVALID_URL_PARAM", "vocab_idの形式が正しくありません。", "vocab_id", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("vocab_id", vocabID.String()))

	var req model.UpdateVocabularyRequest
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

	vocab, err := h.service.UpdateVocabulary(r.Context(), userID, vocabID, &req)
	if err != nil {
		logger.Error("Error updating vocabulary in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Vocabulary updated successfully")
	webutil.RespondWithJSON(w, http.StatusOK, vocab, logger)
}

// DeleteVocabulary は単語を削除するハンドラ
func (h *VocabHandler) DeleteVocabulary(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeleteVocabulary"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	vocabIDStr := chi.URLParam(r, "vocab_id")
	vocabID, err := uuid.Parse(vocabIDStr)
	if err != nil {
		logger.Warn("Invalid vocab ID format in URL", slog.String("vocab_id_str", vocabIDStr))
		appErr := model.NewAppError("INVALID_URL_PARAM", "vocab_idの形式が正しくありません。", "vocab_id", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := h.service.DeleteVocabulary(r.Context(), userID, vocabID); err != nil {
		logger.Error("Error deleting vocabulary in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Vocabulary deleted successfully", slog.String("vocab_id", vocabID.String()))
	w.WriteHeader(http.StatusNoContent)
}
