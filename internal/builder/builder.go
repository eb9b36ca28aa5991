package builder

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"git-commit-agent-go/internal/adapters"
	"git-commit-agent-go/internal/config"
	"git-commit-agent-go/internal/generator"
	"git-commit-agent-go/internal/gitclient"
	"git-commit-agent-go/internal/presenter"
	"git-commit-agent-go/internal/runner"
	"git-commit-agent-go/prompts"
)

// IO は Runner が使用する入出力です。
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
}

// BuildCommitRunner は、必要な依存関係をすべて構築し、
// 実行可能な CommitRunner のインスタンスを返します。
func BuildCommitRunner(repoRoot string, cfg config.Config, stdio IO) (*runner.CommitRunner, error) {
	// 1. GitService の構築
	gitService := gitclient.NewCollector(
		gitclient.NewRunner(repoRoot),
		gitclient.WithMaxDiffChars(cfg.MaxDiffChars),
	)
	slog.Debug("GitService を構築しました。",
		slog.String("repo_root", repoRoot),
		slog.Int("max_diff_chars", cfg.MaxDiffChars),
	)

	// 2. Prompt Builder の構築
	promptBuilder, err := prompts.NewDefaultCommitPromptBuilder()
	if err != nil {
		return nil, fmt.Errorf("Prompt Builder の構築に失敗しました: %w", err)
	}
	slog.Debug("PromptBuilderを構築しました。")

	// 3. Generator は生成が必要になった時点で構築する（認証情報の確認を含む）
	newGenerator := func(ctx context.Context) (runner.MessageGenerator, error) {
		ai, err := BuildAI(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return generator.NewGenerator(ai, promptBuilder, cfg), nil
	}

	// 4. 依存関係を注入して Runner を組み立てる
	commitRunner := runner.NewCommitRunner(
		gitService,
		newGenerator,
		presenter.New(stdio.Stdout),
		stdio.Stdout,
		stdio.Stdin,
	)

	slog.Debug("CommitRunner の構築が完了しました。")
	return commitRunner, nil
}

// BuildAI は設定されたプロバイダの CommitMessageAI を構築します。
func BuildAI(ctx context.Context, cfg config.Config) (adapters.CommitMessageAI, error) {
	params := adapters.ModelParams{
		ModelName:   cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}

	var (
		ai  adapters.CommitMessageAI
		err error
	)
	switch cfg.Provider {
	case config.ProviderAnthropic:
		ai, err = adapters.NewAnthropicAdapter(params)
	case config.ProviderGemini:
		ai, err = adapters.NewGeminiAdapter(ctx, params, "")
	default:
		return nil, fmt.Errorf("未対応のプロバイダです: '%s'", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("%s Service の構築に失敗しました: %w", cfg.Provider, err)
	}

	slog.Debug("AI Service (Adapter) を構築しました。", "provider", cfg.Provider, "model", cfg.Model)
	return ai, nil
}
