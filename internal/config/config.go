package config

import (
	"fmt"
	"slices"
)

// プロバイダ名
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// 既定値
const (
	DefaultMaxDiffChars = 50000
	DefaultModel        = "claude-sonnet-4-5-20250929"
	DefaultGeminiModel  = "gemini-2.5-flash"
	DefaultTemperature  = 0.7
	DefaultMaxRetries   = 3
	DefaultMaxTokens    = 1024
	DefaultProvider     = ProviderAnthropic
)

// DefaultCommitTypes は既定で許可するコミット種別です。
var DefaultCommitTypes = []string{
	"feat", "fix", "docs", "style", "refactor",
	"test", "chore", "perf", "ci", "build",
}

// Config はコミットメッセージ生成に必要なすべての設定を含みます。
// 起動時に一度だけ構築され、以降は変更しません。
type Config struct {
	MaxDiffChars int      `yaml:"max_diff_chars"`
	Model        string   `yaml:"model"`
	Temperature  float64  `yaml:"temperature"`
	MaxRetries   int      `yaml:"max_retries"`
	CommitTypes  []string `yaml:"commit_types"`
	Provider     string   `yaml:"provider"`
	MaxTokens    int      `yaml:"max_tokens"`
}

// Default は既定値で埋めた Config を返します。
func Default() Config {
	return Config{
		MaxDiffChars: DefaultMaxDiffChars,
		Model:        DefaultModel,
		Temperature:  DefaultTemperature,
		MaxRetries:   DefaultMaxRetries,
		CommitTypes:  slices.Clone(DefaultCommitTypes),
		Provider:     DefaultProvider,
		MaxTokens:    DefaultMaxTokens,
	}
}

// DefaultModelFor はプロバイダごとの既定モデル名を返します。
func DefaultModelFor(provider string) string {
	if provider == ProviderGemini {
		return DefaultGeminiModel
	}
	return DefaultModel
}

// Validate は設定値の範囲をチェックします。
func (c Config) Validate() error {
	if c.MaxDiffChars <= 0 {
		return fmt.Errorf("max_diff_chars は正の値である必要があります: %d", c.MaxDiffChars)
	}
	if c.Model == "" {
		return fmt.Errorf("model が空です")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature は 0 から 2 の範囲で指定してください: %v", c.Temperature)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries に負の値は指定できません: %d", c.MaxRetries)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens は正の値である必要があります: %d", c.MaxTokens)
	}
	if len(c.CommitTypes) == 0 {
		return fmt.Errorf("commit_types が空です")
	}
	switch c.Provider {
	case ProviderAnthropic, ProviderGemini:
	default:
		return fmt.Errorf("無効なプロバイダが指定されました: '%s'。'%s' または '%s' を選択してください", c.Provider, ProviderAnthropic, ProviderGemini)
	}
	return nil
}
