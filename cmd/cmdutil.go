package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"git-commit-agent-go/internal/config"
	"git-commit-agent-go/internal/gitclient"
)

// DebugEnv が "1" の場合は --debug と同じくデバッグログを有効にします。
const DebugEnv = "GIT_COMMIT_AGENT_DEBUG"

var (
	errJSONWithAutoCommit   = errors.New("--auto-commit cannot be used with --json")
	errAutoCommitNeedsStage = errors.New("--auto-commit requires --staged")
)

// validateFlags は両立しないフラグの組み合わせを拒否します。
func validateFlags(f AppFlags) error {
	if f.AutoCommit && f.JSON {
		return errJSONWithAutoCommit
	}
	if f.AutoCommit && !f.Staged {
		return errAutoCommitNeedsStage
	}
	if f.NoConfig && f.ConfigPath != "" {
		return errors.New("--config cannot be used with --no-config")
	}
	return nil
}

// logLevel はフラグと環境変数からログレベルを決定します。
// JSON 出力時は標準出力を汚さないよう警告以上に絞ります（ログ自体は stderr）。
func logLevel(f AppFlags) slog.Level {
	switch {
	case f.Debug || os.Getenv(DebugEnv) == "1":
		return slog.LevelDebug
	case f.JSON:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// setupLogger は w に出力するテキストハンドラをデフォルトロガーに設定します。
func setupLogger(w io.Writer, level slog.Level) {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// resolveRepoRoot はカレントディレクトリを含むリポジトリのルートを返します。
func resolveRepoRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("カレントディレクトリを取得できませんでした: %w", err)
	}
	root, err := gitclient.FindRepoRoot(wd)
	if errors.Is(err, gitclient.ErrNotRepository) {
		return "", fmt.Errorf("%w. Run this command from within a git repository", err)
	}
	return root, err
}

// loadConfig は .env と設定ファイルを読み込み、フラグによる上書きを適用して検証します。
func loadConfig(repoRoot string, f AppFlags) (config.Config, error) {
	if err := config.LoadDotEnv(repoRoot); err != nil {
		slog.Warn(".env を無視します。", "error", err)
	}

	loader := config.NewLoader(repoRoot)
	loader.ExplicitPath = f.ConfigPath
	loader.YAMLEnabled = !f.NoConfig

	cfg, path, err := loader.Load()
	if err != nil {
		return config.Config{}, err
	}
	if path != "" {
		slog.Info("📝 設定ファイルを読み込みました。", "path", path)
	}

	if f.Model != "" {
		cfg.Model = f.Model
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("設定が不正です: %w", err)
	}
	return cfg, nil
}
