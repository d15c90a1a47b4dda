// internal/service/gemini_test.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go_eng_voca/internal/config"
	"go_eng_voca/internal/model"
)

func Test_IsWord(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "単語", text: "apple", want: true},
		{name: "前後の空白は無視", text: "  apple  ", want: true},
		{name: "ハイフン付き単語", text: "well-being", want: true},
		{name: "空文字", text: "", want: false},
		{name: "空白のみ", text: "   ", want: false},
		{name: "スペースを含むと文章", text: "an apple", want: false},
		{name: "改行を含むと文章", text: "apple\npie", want: false},
		{name: "30文字ちょうどは単語", text: "abcdefghijklmnopqrstuvwxyzabcd", want: true},
		{name: "31文字は文章扱い", text: "abcdefghijklmnopqrstuvwxyzabcde", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWord(tt.text))
		})
	}
}

func Test_stripJSONFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "フェンスなし", in: `{"a":1}`, want: `{"a":1}`},
		{name: "jsonフェンス", in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "言語指定なしフェンス", in: "```\n{\"a\":1}\n```", want: `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripJSONFence(tt.in))
		})
	}
}

// geminiStubResponse はGemini APIの generateContent レスポンスを組み立てます
func geminiStubResponse(t *testing.T, payload string) []byte {
	t.Helper()
	resp := map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"parts": []map[string]string{{"text": payload}},
				},
			},
		},
	}
	body, err := json.Marshal(resp)
	require.NoError(t, err)
	return body
}

func newTestGeminiClient(baseURL string) GeminiClient {
	client := NewGeminiClient(&config.GeminiConfig{
		APIKey:  "test-key",
		Model:   "gemini-flash-latest",
		BaseURL: baseURL,
	}).(*geminiClient)
	// テストではバックオフを待たない
	client.retryBase = time.Millisecond
	return client
}

func Test_geminiClient_AnalyzeWord(t *testing.T) {
	payload := `{"type":"word","word":"apple","meaning":"りんご","part_of_speech":"名詞","level":"A1","phonetic":"ˈæpl","example":"I ate an apple.","example_translation":"私はりんごを食べた。"}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write(geminiStubResponse(t, payload))
	}))
	defer server.Close()

	client := newTestGeminiClient(server.URL)
	result, err := client.AnalyzeWord(context.Background(), "apple")
	require.NoError(t, err)

	assert.Equal(t, model.ResultTypeWord, result.Type)
	assert.Equal(t, "apple", result.Word)
	assert.Equal(t, "りんご", result.Meaning)
	assert.Equal(t, "A1", result.Level)
}

func Test_geminiClient_AnalyzeWord_StripsMarkdownFence(t *testing.T) {
	payload := "```json\n{\"type\":\"invalid_word\",\"word\":\"aple\",\"suggestions\":[\"apple\",\"ample\"]}\n```"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(geminiStubResponse(t, payload))
	}))
	defer server.Close()

	client := newTestGeminiClient(server.URL)
	result, err := client.AnalyzeWord(context.Background(), "aple")
	require.NoError(t, err)

	assert.Equal(t, model.ResultTypeInvalidWord, result.Type)
	assert.Equal(t, []string{"apple", "ample"}, result.Suggestions)
}

func Test_geminiClient_RetriesOnRateLimit(t *testing.T) {
	payload := `{"type":"sentence","original":"Hello.","translation":"こんにちは。"}`
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
			return
		}
		w.Write(geminiStubResponse(t, payload))
	}))
	defer server.Close()

	client := newTestGeminiClient(server.URL)
	result, err := client.AnalyzeSentence(context.Background(), "Hello.")
	require.NoError(t, err)

	assert.Equal(t, 3, calls)
	assert.Equal(t, "こんにちは。", result.Translation)
}

func Test_geminiClient_RateLimitExhausted(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer server.Close()

	client := newTestGeminiClient(server.URL)
	_, err := client.AnalyzeSentence(context.Background(), "Hello.")
	require.Error(t, err)

	assert.Equal(t, geminiMaxRetries, calls)
	assert.True(t, errors.Is(err, model.ErrRateLimited))
}

func Test_geminiClient_NonRetryableErrorFailsFast(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"invalid request","status":"INVALID_ARGUMENT"}}`))
	}))
	defer server.Close()

	client := newTestGeminiClient(server.URL)
	_, err := client.AnalyzeSentence(context.Background(), "Hello.")
	require.Error(t, err)

	assert.Equal(t, 1, calls)
	assert.False(t, errors.Is(err, model.ErrRateLimited))
}
