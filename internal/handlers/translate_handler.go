// internal/handlers/translate_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"go_eng_voca/internal/model"
	"go_eng_voca/internal/service"
	"go_eng_voca/internal/webutil"

	"github.com/go-playground/validator/v10"
)

type TranslateHandler struct {
	service service.TranslationService
	logger  *slog.Logger
}

func NewTranslateHandler(s service.TranslationService, logger *slog.Logger) *TranslateHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TranslateHandler{
		service: s,
		logger:  logger,
	}
}

// Translate はテキスト解析 (単語辞書引き / 文章翻訳) のハンドラ
func (h *TranslateHandler) Translate(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "Translate"))

	req, ok := h.decodeAnalyzeRequest(w, r, logger)
	if !ok {
		return
	}

	result, err := h.service.Analyze(r.Context(), req.Text)
	if err != nil {
		logger.Error("Error analyzing text in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Text analyzed successfully", slog.String("type", result.Type))
	webutil.RespondWithJSON(w, http.StatusOK, result, logger)
}

// Grammar は文法チェックのハンドラ
func (h *TranslateHandler) Grammar(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "Grammar"))

	req, ok := h.decodeAnalyzeRequest(w, r, logger)
	if !ok {
		return
	}

	result, err := h.service.CheckGrammar(r.Context(), req.Text)
	if err != nil {
		logger.Error("Error checking grammar in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Grammar checked successfully", slog.Bool("is_correct", result.IsCorrect))
	webutil.RespondWithJSON(w, http.StatusOK, result, logger)
}

// decodeAnalyzeRequest は /translate と /grammar 共通のデコード・バリデーション処理
func (h *TranslateHandler) decodeAnalyzeRequest(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*model.AnalyzeRequest, bool) {
	var req model.AnalyzeRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return nil, false
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
		return nil, false
	}
	return &req, true
}
