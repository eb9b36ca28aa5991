package adapters

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testParams = ModelParams{ModelName: "test-model", Temperature: 0.7, MaxTokens: 1024}

func TestNewAnthropicAdapter_MissingKey(t *testing.T) {
	t.Setenv(AnthropicAPIKeyEnv, "")

	_, err := NewAnthropicAdapter(testParams)

	require.ErrorIs(t, err, ErrMissingCredential)
	assert.Contains(t, err.Error(), AnthropicAPIKeyEnv)
}

func TestAnthropicAdapter_GenerateContent(t *testing.T) {
	t.Setenv(AnthropicAPIKeyEnv, "sk-test")

	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/messages"))
		assert.Equal(t, "sk-test", r.Header.Get("X-Api-Key"))
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "msg_1", "type": "message", "role": "assistant", "model": "test-model",
			"content": [{"type": "text", "text": "feat(auth): add login\n\n- add form"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 5}
		}`)
	}))
	defer srv.Close()

	ai, err := NewAnthropicAdapter(testParams, option.WithBaseURL(srv.URL))
	require.NoError(t, err)

	text, err := ai.GenerateContent(context.Background(), "PROMPT")

	require.NoError(t, err)
	assert.Equal(t, "feat(auth): add login\n\n- add form", text)
	assert.Equal(t, "test-model", gotBody["model"])
	assert.EqualValues(t, 1024, gotBody["max_tokens"])
	assert.InDelta(t, 0.7, gotBody["temperature"], 0.0001)
}

func TestAnthropicAdapter_RateLimited(t *testing.T) {
	t.Setenv(AnthropicAPIKeyEnv, "sk-test")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`)
	}))
	defer srv.Close()

	ai, err := NewAnthropicAdapter(testParams, option.WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = ai.GenerateContent(context.Background(), "PROMPT")

	require.ErrorIs(t, err, ErrRateLimited)
}

func TestAnthropicAdapter_OtherAPIError(t *testing.T) {
	t.Setenv(AnthropicAPIKeyEnv, "sk-test")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`)
	}))
	defer srv.Close()

	ai, err := NewAnthropicAdapter(testParams, option.WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = ai.GenerateContent(context.Background(), "PROMPT")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRateLimited)
}

func TestNewGeminiAdapter_MissingKey(t *testing.T) {
	t.Setenv(GeminiAPIKeyEnv, "")
	t.Setenv(GoogleAPIKeyEnv, "")

	_, err := NewGeminiAdapter(context.Background(), testParams, "")

	require.ErrorIs(t, err, ErrMissingCredential)
}

func TestGeminiAdapter_GenerateContent(t *testing.T) {
	t.Setenv(GeminiAPIKeyEnv, "")
	t.Setenv(GoogleAPIKeyEnv, "g-test")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "models/test-model:generateContent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"fix: handle nil"}]}}]}`)
	}))
	defer srv.Close()

	ai, err := NewGeminiAdapter(context.Background(), testParams, srv.URL)
	require.NoError(t, err)

	text, err := ai.GenerateContent(context.Background(), "PROMPT")

	require.NoError(t, err)
	assert.Equal(t, "fix: handle nil", text)
}

func TestGeminiAdapter_RateLimited(t *testing.T) {
	t.Setenv(GeminiAPIKeyEnv, "g-test")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"code":429,"message":"quota","status":"RESOURCE_EXHAUSTED"}}`)
	}))
	defer srv.Close()

	ai, err := NewGeminiAdapter(context.Background(), testParams, srv.URL)
	require.NoError(t, err)

	_, err = ai.GenerateContent(context.Background(), "PROMPT")

	require.ErrorIs(t, err, ErrRateLimited)
}
