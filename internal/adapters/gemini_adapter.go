package adapters

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"google.golang.org/genai"
)

// Gemini の API キーを読み取る環境変数名です。GEMINI_API_KEY を優先します。
const (
	GeminiAPIKeyEnv = "GEMINI_API_KEY"
	GoogleAPIKeyEnv = "GOOGLE_API_KEY"
)

// GeminiAdapter は genai のクライアントをラップし、
// CommitMessageAI インターフェースを実装する具体的な構造体です。
type GeminiAdapter struct {
	client *genai.Client
	params ModelParams
}

// NewGeminiAdapter はGeminiAdapterを初期化し、CommitMessageAIインターフェースとして返します。
// APIキーは環境変数から取得します。baseURL はテスト用で、通常は空です。
func NewGeminiAdapter(ctx context.Context, params ModelParams, baseURL string) (CommitMessageAI, error) {
	// 1. APIキーを環境変数から取得
	apiKey := os.Getenv(GeminiAPIKeyEnv)
	if apiKey == "" {
		apiKey = os.Getenv(GoogleAPIKeyEnv)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: %s or %s environment variable is not set", ErrMissingCredential, GeminiAPIKeyEnv, GoogleAPIKeyEnv)
	}

	// 2. クライアントを生成
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gemini client: %w", err)
	}

	return &GeminiAdapter{
		client: client,
		params: params,
	}, nil
}

// GenerateContent は CommitMessageAI インターフェースを満たします。
func (ga *GeminiAdapter) GenerateContent(ctx context.Context, finalPrompt string) (string, error) {
	temperature := float32(ga.params.Temperature)
	resp, err := ga.client.Models.GenerateContent(ctx, ga.params.ModelName, genai.Text(finalPrompt), &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: int32(ga.params.MaxTokens),
	})
	if err != nil {
		if isGeminiRateLimit(err) {
			return "", fmt.Errorf("%w: %w", ErrRateLimited, err)
		}
		return "", fmt.Errorf("Gemini API call failed (Model: %s): %w", ga.params.ModelName, err)
	}

	return resp.Text(), nil
}

// isGeminiRateLimit は 429 / RESOURCE_EXHAUSTED を判定します。
func isGeminiRateLimit(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED"
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code == http.StatusTooManyRequests || apiErrPtr.Status == "RESOURCE_EXHAUSTED"
	}
	return false
}
