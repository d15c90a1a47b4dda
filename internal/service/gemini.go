// internal/service/gemini.go
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go_eng_voca/internal/config"
	"go_eng_voca/internal/middleware"
	"go_eng_voca/internal/model"
)

const (
	geminiMaxRetries = 3
	geminiRetryBase  = 2 * time.Second
	maxWordLength    = 30
)

// GeminiClient は生成AI APIへの問い合わせを抽象化するインターフェース。
type GeminiClient interface {
	AnalyzeWord(ctx context.Context, word string) (*model.TranslationResult, error)
	AnalyzeSentence(ctx context.Context, text string) (*model.TranslationResult, error)
	CheckGrammar(ctx context.Context, text string) (*model.GrammarResult, error)
}

type geminiClient struct {
	cfg        *config.GeminiConfig
	httpClient *http.Client
	retryBase  time.Duration
}

func NewGeminiClient(cfg *config.GeminiConfig) GeminiClient {
	return &geminiClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		retryBase: geminiRetryBase,
	}
}

// IsWord は入力を単語として扱うか文章として扱うかを判定します。
// 空白を含まず30文字以下なら単語とみなします。
func IsWord(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	if strings.ContainsAny(trimmed, " \t\n") {
		return false
	}
	return utf8.RuneCountInString(trimmed) <= maxWordLength
}

// --- Gemini REST APIのリクエスト/レスポンス構造 ---

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string `json:"responseMimeType"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (c *geminiClient) AnalyzeWord(ctx context.Context, word string) (*model.TranslationResult, error) {
	prompt := fmt.Sprintf(`あなたは英語学習アプリの辞書エンジンです。次の英単語を解析し、JSONのみを返してください。

単語: %q

実在する英単語の場合:
{"type": "word", "word": "(小文字の原形)", "meaning": "(日本語の意味)", "part_of_speech": "(品詞。名詞/動詞/形容詞など日本語で)", "level": "(CEFRレベル: A1/A2/B1/B2/C1/C2)", "phonetic": "(発音記号)", "example": "(その単語を使った英語の例文)", "example_translation": "(例文の日本語訳)"}

実在しない・綴りが誤っている場合:
{"type": "invalid_word", "word": %q, "suggestions": ["(正しい綴りの候補を最大3つ)"]}`, word, word)

	var result model.TranslationResult
	if err := c.generate(ctx, prompt, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *geminiClient) AnalyzeSentence(ctx context.Context, text string) (*model.TranslationResult, error) {
	prompt := fmt.Sprintf(`あなたは英語学習アプリの翻訳エンジンです。次の英文を自然な日本語に翻訳し、JSONのみを返してください。

英文: %q

出力形式:
{"type": "sentence", "original": %q, "translation": "(日本語訳)"}`, text, text)

	var result model.TranslationResult
	if err := c.generate(ctx, prompt, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *geminiClient) CheckGrammar(ctx context.Context, text string) (*model.GrammarResult, error) {
	prompt := fmt.Sprintf(`あなたは英語学習アプリの文法チェッカーです。次の英文を添削し、JSONのみを返してください。

英文: %q

出力形式:
{"is_correct": (文法的に正しければtrue), "correction": "(修正後の英文。正しい場合は原文のまま)", "explanation": "(日本語での解説)", "variations": {"formal": "(フォーマルな言い換え)", "friendly": "(カジュアルな言い換え)"}}`, text)

	var result model.GrammarResult
	if err := c.generate(ctx, prompt, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// generate はプロンプトを送信し、返ってきたJSONをoutへデコードします。
// レート制限 (429 / quota超過) はリトライし、それでも失敗したら ErrRateLimited を返します。
func (c *geminiClient) generate(ctx context.Context, prompt string, out interface{}) error {
	text, err := c.generateWithRetry(ctx, prompt)
	if err != nil {
		return err
	}

	cleaned := stripJSONFence(text)
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return fmt.Errorf("failed to parse gemini response as JSON: %w", err)
	}
	return nil
}

func (c *geminiClient) generateWithRetry(ctx context.Context, prompt string) (string, error) {
	logger := middleware.GetLogger(ctx)

	var lastErr error
	delay := c.retryBase

	for attempt := 1; attempt <= geminiMaxRetries; attempt++ {
		text, err := c.generateContent(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if !isRateLimitError(err) {
			return "", err
		}

		if attempt < geminiMaxRetries {
			logger.Warn("Gemini rate limited, retrying",
				"attempt", attempt,
				"delay", delay.String(),
			)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
	}

	logger.Error("Gemini rate limit retries exhausted", "error", lastErr)
	return "", fmt.Errorf("%w: %v", model.ErrRateLimited, lastErr)
}

func (c *geminiClient) generateContent(ctx context.Context, prompt string) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: geminiGenerationConfig{
			ResponseMimeType: "application/json",
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.cfg.BaseURL, c.cfg.Model, c.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read gemini response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("gemini rate limited (status 429): %s", string(body))
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, string(body))
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", fmt.Errorf("failed to decode gemini response: %w", err)
	}
	if geminiResp.Error != nil {
		return "", fmt.Errorf("gemini api error (%s): %s", geminiResp.Error.Status, geminiResp.Error.Message)
	}
	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini returned no candidates")
	}

	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}

func isRateLimitError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "resource_exhausted")
}

// stripJSONFence はモデルが付けがちなMarkdownコードフェンスを取り除きます。
func stripJSONFence(text string) string {
	trimmed := strings.TrimSpace(text)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}
