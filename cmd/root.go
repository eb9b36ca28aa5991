package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"git-commit-agent-go/internal/builder"
	"git-commit-agent-go/internal/presenter"
	"git-commit-agent-go/internal/runner"
)

// AppFlags はコマンドライン引数を保持する構造体です。
type AppFlags struct {
	Staged     bool
	Branch     string
	AutoCommit bool
	JSON       bool
	Model      string
	ConfigPath string
	NoConfig   bool
	Debug      bool
}

// Flags は RootCmd にバインドされたフラグの値です。
var Flags AppFlags

// RootCmd はアプリケーションのベースコマンドです。
var RootCmd = &cobra.Command{
	Use:   "git-commit-agent",
	Short: "AIを使ってGitの差分からコミットメッセージを生成するCLIツール",
	Long: `このツールは、ローカルブランチと upstream の差分、またはステージ済みの変更を取得し、
生成APIに渡して Conventional Commits 形式のコミットメッセージを提案します。

フラグを指定しない場合は、未プッシュのコミットを持つブランチを一覧表示して選択します。`,
	Example: `  git-commit-agent                          # 全ブランチを走査
  git-commit-agent --staged                 # ステージ済みの変更から生成
  git-commit-agent --branch feature/auth    # 特定のブランチを処理
  git-commit-agent --staged --auto-commit   # 生成してそのままコミット
  git-commit-agent --json                   # JSON で出力`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initAppPreRunE,
	RunE:              runCommitAgent,
}

func init() {
	f := RootCmd.Flags()
	f.BoolVar(&Flags.Staged, "staged", false, "ステージ済みの変更からメッセージを生成します")
	f.StringVar(&Flags.Branch, "branch", "", "指定したブランチのみを処理します")
	f.BoolVar(&Flags.AutoCommit, "auto-commit", false, "確認後、生成したメッセージでコミットします (--staged が必要)")
	f.BoolVar(&Flags.JSON, "json", false, "結果を JSON で出力します")
	f.StringVar(&Flags.Model, "model", "", "使用するモデル名 (設定ファイルの値を上書き)")
	f.StringVar(&Flags.ConfigPath, "config", "", "読み込む設定ファイルのパス")
	f.BoolVar(&Flags.NoConfig, "no-config", false, "設定ファイルを読み込まず既定値を使用します")
	f.BoolVar(&Flags.Debug, "debug", false, "デバッグログを出力します")
}

// initAppPreRunE はフラグの組み合わせを検証し、ロガーを初期化します。
func initAppPreRunE(cmd *cobra.Command, args []string) error {
	setupLogger(cmd.ErrOrStderr(), logLevel(Flags))
	return validateFlags(Flags)
}

func runCommitAgent(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	repoRoot, err := resolveRepoRoot()
	if err != nil {
		return err
	}

	cfg, err := loadConfig(repoRoot, Flags)
	if err != nil {
		return err
	}

	commitRunner, err := builder.BuildCommitRunner(repoRoot, cfg, builder.IO{
		Stdin:  cmd.InOrStdin(),
		Stdout: cmd.OutOrStdout(),
	})
	if err != nil {
		return err
	}

	return commitRunner.Run(ctx, runner.Options{
		Staged:     Flags.Staged,
		Branch:     Flags.Branch,
		AutoCommit: Flags.AutoCommit,
		JSON:       Flags.JSON,
		// 選択メニューは標準入力が端末の場合のみ
		Interactive: presenter.IsTerminal(cmd.InOrStdin()),
	})
}

// Execute はルートコマンドを実行し、アプリケーションを起動します。
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := RootCmd.ExecuteContext(ctx)
	stop()

	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "\n👋 Cancelled.")
		return
	}
	if err != nil {
		// エラー発生時にエラーメッセージを出力し、終了コード1で終了
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)
		os.Exit(1)
	}
}
