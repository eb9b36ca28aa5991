package adapters

import (
	"context"
	"errors"
)

var (
	// ErrMissingCredential は API キーが環境変数に設定されていない場合のエラーです。
	// ネットワーク呼び出しの前に検出される設定エラーであり、API エラーではありません。
	ErrMissingCredential = errors.New("API key is not set")
	// ErrRateLimited は生成 API がレート制限を返したことを示します。
	ErrRateLimited = errors.New("rate limited by generation API")
)

// CommitMessageAI は、テキスト生成 AI との通信機能の抽象化を提供し、DIで使用されます。
type CommitMessageAI interface {
	// GenerateContent は完成されたプロンプトを基に AI にコミットメッセージの生成を依頼します。
	// レート制限の場合は ErrRateLimited をラップしたエラーを返します。
	GenerateContent(ctx context.Context, finalPrompt string) (string, error)
}

// ModelParams は各アダプタに共通するモデルパラメータです。
type ModelParams struct {
	ModelName   string
	Temperature float64
	MaxTokens   int
}
