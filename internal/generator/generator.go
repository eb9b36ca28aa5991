package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"git-commit-agent-go/internal/adapters"
	"git-commit-agent-go/internal/changeset"
	"git-commit-agent-go/internal/commitmsg"
	"git-commit-agent-go/internal/config"
	"git-commit-agent-go/prompts"
)

var (
	// ErrRetriesExhausted はレート制限が続き、リトライ上限に達したことを示します。
	ErrRetriesExhausted = errors.New("rate limit retries exhausted")
	// ErrEmptyResponse は AI が空のテキストを返したことを示します。
	ErrEmptyResponse = errors.New("generation API returned an empty message")
)

// SleepFunc はリトライ間の待機を行います。ctx がキャンセルされた場合は待機を中断します。
type SleepFunc func(ctx context.Context, d time.Duration) error

// Generator は変更セットからコミットメッセージを生成します。
type Generator struct {
	ai            adapters.CommitMessageAI
	promptBuilder *prompts.CommitPromptBuilder
	cfg           config.Config
	sleep         SleepFunc
}

// Option は Generator の設定を変更するための関数です。
type Option func(*Generator)

// WithSleep はリトライ待機関数を差し替えます。テストで実際の待機を避けるために使います。
func WithSleep(fn SleepFunc) Option {
	return func(g *Generator) {
		g.sleep = fn
	}
}

// NewGenerator は Generator の新しいインスタンスを生成します。
func NewGenerator(ai adapters.CommitMessageAI, pb *prompts.CommitPromptBuilder, cfg config.Config, opts ...Option) *Generator {
	g := &Generator{
		ai:            ai,
		promptBuilder: pb,
		cfg:           cfg,
		sleep:         sleepContext,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate はプロンプトを組み立て、AI にコミットメッセージを生成させます。
// レート制限の場合のみ 1s, 2s, 4s... と待機してリトライします。それ以外のエラーは即座に返します。
func (g *Generator) Generate(ctx context.Context, change changeset.Change) (string, error) {
	finalPrompt, err := g.promptBuilder.Build(prompts.NewTemplateData(change, g.cfg.CommitTypes))
	if err != nil {
		return "", fmt.Errorf("プロンプトの組み立てに失敗しました: %w", err)
	}
	slog.Debug("プロンプトを生成しました。", "branch", change.BranchName(), "size_bytes", len(finalPrompt))

	attempts := max(1, g.cfg.MaxRetries)
	delays := newBackOff()

	for attempt := 1; ; attempt++ {
		raw, err := g.ai.GenerateContent(ctx, finalPrompt)
		if err == nil {
			return g.finish(raw)
		}
		if !errors.Is(err, adapters.ErrRateLimited) {
			return "", fmt.Errorf("コミットメッセージの生成に失敗しました: %w", err)
		}
		if attempt >= attempts {
			return "", fmt.Errorf("%w (%d attempts): %w", ErrRetriesExhausted, attempts, err)
		}

		wait := delays.NextBackOff()
		slog.Warn("⏳ レート制限のため待機してからリトライします。", "wait", wait, "attempt", attempt, "max_attempts", attempts)
		if err := g.sleep(ctx, wait); err != nil {
			return "", err
		}
	}
}

func (g *Generator) finish(raw string) (string, error) {
	msg := commitmsg.Clean(raw)
	if msg == "" {
		return "", ErrEmptyResponse
	}
	if err := commitmsg.Validate(msg, g.cfg.CommitTypes); err != nil {
		slog.Warn("生成されたメッセージが形式要件を満たしていません。", "reason", err)
	}
	return msg, nil
}

// newBackOff は 1s から始まり 2 倍ずつ伸びる、揺らぎのない待機スケジュールを返します。
func newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = time.Minute
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
