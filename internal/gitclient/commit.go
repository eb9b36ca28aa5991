package gitclient

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// Commit は message を一時ファイルに書き出し、`git commit -F` でコミットします。
// 一時ファイルは成功・失敗に関わらず必ず削除されます。
func (c *Collector) Commit(ctx context.Context, message string) error {
	f, err := os.CreateTemp("", "git-commit-agent-*.txt")
	if err != nil {
		return fmt.Errorf("コミットメッセージ用一時ファイルの作成に失敗しました: %w", err)
	}
	path := f.Name()
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			slog.Warn("一時ファイルの削除に失敗しました。", "path", path, "error", rmErr)
		}
	}()

	if _, err := f.WriteString(message); err != nil {
		f.Close()
		return fmt.Errorf("コミットメッセージの書き込みに失敗しました: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("一時ファイルのクローズに失敗しました: %w", err)
	}

	ok, out, err := c.git.Run(ctx, true, "commit", "-F", path)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("commit failed: %s", out)
	}
	slog.Debug("コミットを作成しました。", "output", out)
	return nil
}
