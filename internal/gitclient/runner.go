package gitclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// ErrGitNotFound は git コマンドが PATH 上に見つからない場合のエラーです。
// 回復不能な環境エラーとして、呼び出し側はそのまま終了させます。
var ErrGitNotFound = errors.New("git command not found. Please install git")

// Executor は git サブプロセスの実行を抽象化します。テストではフェイクに差し替えます。
type Executor interface {
	// Run は git を args で実行し、成功可否とトリム済みの出力を返します。
	// check が true の場合、失敗時の出力は stderr、false の場合は stdout です。
	// err は git が存在しない・コンテキストが取り消された等の環境エラーのみです。
	Run(ctx context.Context, check bool, args ...string) (ok bool, out string, err error)
}

// Runner は os/exec で git コマンドを実行する Executor の実装です。
type Runner struct {
	// Dir はコマンドを実行するディレクトリです。空の場合はカレントディレクトリです。
	Dir string
	// Binary は実行する git バイナリ名です。空の場合は "git" を使用します。
	Binary string
}

// NewRunner は dir で git を実行する Runner を返します。
func NewRunner(dir string) *Runner {
	return &Runner{Dir: dir, Binary: "git"}
}

// Run は Executor インターフェースを満たします。
func (r *Runner) Run(ctx context.Context, check bool, args ...string) (bool, string, error) {
	binary := r.Binary
	if binary == "" {
		binary = "git"
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = r.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("git コマンドを実行します。", "args", args, "dir", r.Dir)
	err := cmd.Run()
	if err == nil {
		return true, strings.TrimSpace(stdout.String()), nil
	}

	if errors.Is(err, exec.ErrNotFound) {
		return false, "", ErrGitNotFound
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, "", fmt.Errorf("git %s が中断されました: %w", strings.Join(args, " "), ctxErr)
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		// 起動自体に失敗した（権限不足など）場合
		return false, "", fmt.Errorf("git の起動に失敗しました: %w", err)
	}

	slog.Debug("git コマンドが非ゼロで終了しました。", "args", args, "exit_code", exitErr.ExitCode())
	if check {
		return false, strings.TrimSpace(stderr.String()), nil
	}
	return false, strings.TrimSpace(stdout.String()), nil
}
