package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"git-commit-agent-go/internal/changeset"
	"git-commit-agent-go/internal/gitclient"
	"git-commit-agent-go/internal/presenter"
)

// MessageGenerator は変更セットからコミットメッセージを生成します。
type MessageGenerator interface {
	Generate(ctx context.Context, change changeset.Change) (string, error)
}

// GeneratorFactory は MessageGenerator を構築します。
// 認証情報の確認は生成が必要になった時点まで遅延させます。
type GeneratorFactory func(ctx context.Context) (MessageGenerator, error)

// ErrNotInteractive は端末が無いためブランチ選択メニューを表示できないことを示します。
var ErrNotInteractive = errors.New("branch selection requires an interactive terminal; use --branch <name> or --json")

// Options は 1 回の実行モードを表します。
type Options struct {
	Staged     bool
	Branch     string
	AutoCommit bool
	JSON       bool
	// Interactive は標準入力が端末かどうかです。false の場合、選択メニューは表示しません。
	Interactive bool
}

// CommitRunner は差分収集 → 生成 → 表示のパイプラインを実行します。
type CommitRunner struct {
	gitService   gitclient.Service
	newGenerator GeneratorFactory
	generator    MessageGenerator
	presenter    *presenter.Presenter
	stdout       io.Writer
	stdin        io.Reader
}

// NewCommitRunner は CommitRunner の新しいインスタンスを生成します。
// 依存関係はコンストラクタ経由で注入されます。
func NewCommitRunner(
	git gitclient.Service,
	newGenerator GeneratorFactory,
	p *presenter.Presenter,
	stdout io.Writer,
	stdin io.Reader,
) *CommitRunner {
	return &CommitRunner{
		gitService:   git,
		newGenerator: newGenerator,
		presenter:    p,
		stdout:       stdout,
		stdin:        stdin,
	}
}

// Run は opts に応じてステージ済み・ブランチ指定・全ブランチ走査のいずれかを実行します。
func (r *CommitRunner) Run(ctx context.Context, opts Options) error {
	switch {
	case opts.Staged:
		return r.runStaged(ctx, opts)
	case opts.Branch != "":
		return r.runBranch(ctx, opts)
	default:
		return r.runScan(ctx, opts)
	}
}

func (r *CommitRunner) generate(ctx context.Context, change changeset.Change) (string, error) {
	if r.generator == nil {
		g, err := r.newGenerator(ctx)
		if err != nil {
			return "", err
		}
		r.generator = g
	}
	return r.generator.Generate(ctx, change)
}

func (r *CommitRunner) runStaged(ctx context.Context, opts Options) error {
	if !opts.JSON {
		r.presenter.Analyzing("staged changes")
	}

	change, err := r.gitService.CollectStaged(ctx)
	if err != nil {
		return fmt.Errorf("ステージ済み変更の取得に失敗しました: %w", err)
	}
	if change == nil {
		if opts.JSON {
			slog.Warn("ステージ済みの変更がありません。")
			return nil
		}
		r.presenter.Info("No staged changes found.")
		r.presenter.Hint("Stage changes with: git add <files>")
		return nil
	}

	message, err := r.generate(ctx, change)
	if err != nil {
		return err
	}

	if opts.JSON {
		return presenter.WriteJSON(r.stdout, presenter.NewStagedResult(change, message))
	}
	r.presenter.RenderStaged(change, message)

	if !opts.AutoCommit {
		return nil
	}
	return r.autoCommit(ctx, message)
}

func (r *CommitRunner) autoCommit(ctx context.Context, message string) error {
	r.presenter.Separator()
	ok, err := r.presenter.Confirm(ctx, r.stdin, "Commit with this message?")
	if err != nil {
		return err
	}
	if !ok {
		r.presenter.Failure("Commit cancelled.")
		return nil
	}

	if err := r.gitService.Commit(ctx, message); err != nil {
		return err
	}
	r.presenter.Success("Committed successfully!")
	return nil
}

func (r *CommitRunner) runBranch(ctx context.Context, opts Options) error {
	if !opts.JSON {
		r.presenter.Analyzing("branch: " + opts.Branch)
	}

	status, err := r.gitService.LookupBranch(ctx, opts.Branch)
	if err != nil {
		return err
	}
	if status.Ahead == 0 {
		if opts.JSON {
			slog.Warn("未プッシュのコミットがありません。", "branch", opts.Branch)
			return nil
		}
		r.presenter.Info(fmt.Sprintf("Branch '%s' has no unpushed commits.", opts.Branch))
		return nil
	}

	change, err := r.gitService.CollectBranch(ctx, opts.Branch, status.Upstream)
	if err != nil {
		return fmt.Errorf("ブランチ '%s' の差分を取得できませんでした: %w", opts.Branch, err)
	}

	message, err := r.generate(ctx, change)
	if err != nil {
		return err
	}

	if opts.JSON {
		return presenter.WriteJSON(r.stdout, presenter.NewBranchResult(change, message))
	}
	r.presenter.RenderBranch(change, message)
	return nil
}

func (r *CommitRunner) runScan(ctx context.Context, opts Options) error {
	if !opts.JSON {
		r.presenter.Scanning()
	}

	branches, err := r.gitService.ListUnpushedBranches(ctx)
	if err != nil {
		return err
	}
	if len(branches) == 0 {
		if opts.JSON {
			return presenter.WriteJSON(r.stdout, presenter.ScanResult{})
		}
		r.presenter.Info("No branches with unpushed commits found.")
		return nil
	}

	if opts.JSON {
		return r.scanAll(ctx, branches)
	}
	if !opts.Interactive {
		return ErrNotInteractive
	}
	return r.scanInteractive(ctx, branches)
}

func (r *CommitRunner) scanInteractive(ctx context.Context, branches []gitclient.BranchStatus) error {
	name, err := r.presenter.SelectBranch(ctx, r.stdin, branches)
	if errors.Is(err, presenter.ErrCancelled) {
		r.presenter.Goodbye()
		return nil
	}
	if err != nil {
		return err
	}

	var selected gitclient.BranchStatus
	for _, b := range branches {
		if b.Name == name {
			selected = b
			break
		}
	}

	r.presenter.Analyzing("branch: " + name)
	change, err := r.gitService.CollectBranch(ctx, selected.Name, selected.Upstream)
	if err != nil {
		return fmt.Errorf("ブランチ '%s' の差分を取得できませんでした: %w", name, err)
	}

	message, err := r.generate(ctx, change)
	if err != nil {
		return err
	}

	r.presenter.RenderBranch(change, message)
	r.presenter.Tip(name)
	return nil
}

// scanAll は全ブランチを順に処理します。失敗したブランチは結果から除外し、処理を続けます。
func (r *CommitRunner) scanAll(ctx context.Context, branches []gitclient.BranchStatus) error {
	result := presenter.ScanResult{Branches: []presenter.BranchResult{}}

	for _, b := range branches {
		change, err := r.gitService.CollectBranch(ctx, b.Name, b.Upstream)
		if err != nil {
			if errors.Is(err, gitclient.ErrGitNotFound) || errors.Is(err, context.Canceled) {
				return err
			}
			if errors.Is(err, gitclient.ErrNoUpstream) {
				slog.Warn("upstream が見つからないためスキップします。", "branch", b.Name)
			} else {
				slog.Warn("差分を取得できないためスキップします。", "branch", b.Name, "error", err)
			}
			continue
		}

		message, err := r.generate(ctx, change)
		if err != nil {
			// 認証情報の欠如や中断はブランチ単位の失敗ではない
			if errors.Is(err, context.Canceled) || r.generator == nil {
				return err
			}
			slog.Warn("メッセージを生成できないためスキップします。", "branch", b.Name, "error", err)
			continue
		}
		result.Branches = append(result.Branches, presenter.NewBranchResult(change, message))
	}

	return presenter.WriteJSON(r.stdout, result)
}
