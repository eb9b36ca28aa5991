package adapters

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicAPIKeyEnv は Anthropic の API キーを読み取る環境変数名です。
const AnthropicAPIKeyEnv = "ANTHROPIC_API_KEY"

// AnthropicAdapter は anthropic-sdk-go のクライアントをラップし、
// CommitMessageAI インターフェースを実装する具体的な構造体です。
type AnthropicAdapter struct {
	client anthropic.Client
	params ModelParams
}

// NewAnthropicAdapter はAnthropicAdapterを初期化し、CommitMessageAIインターフェースとして返します。
// APIキーは環境変数から取得します。リトライは Generator 側で制御するため、SDK のリトライは無効にします。
func NewAnthropicAdapter(params ModelParams, opts ...option.RequestOption) (CommitMessageAI, error) {
	apiKey := os.Getenv(AnthropicAPIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: %s environment variable is not set", ErrMissingCredential, AnthropicAPIKeyEnv)
	}

	reqOpts := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)

	return &AnthropicAdapter{
		client: anthropic.NewClient(reqOpts...),
		params: params,
	}, nil
}

// GenerateContent は CommitMessageAI インターフェースを満たします。
func (a *AnthropicAdapter) GenerateContent(ctx context.Context, finalPrompt string) (string, error) {
	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.params.ModelName),
		MaxTokens:   int64(a.params.MaxTokens),
		Temperature: anthropic.Float(a.params.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(finalPrompt)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
			return "", fmt.Errorf("%w: %w", ErrRateLimited, err)
		}
		return "", fmt.Errorf("Anthropic API call failed (Model: %s): %w", a.params.ModelName, err)
	}

	// 最初のテキストブロックを返す
	for _, block := range message.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}
	return "", nil
}
