package gitclient

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-git/go-git/v5"
)

// ErrNotRepository は作業ディレクトリが git リポジトリ配下に無い場合のエラーです。
var ErrNotRepository = errors.New("not a git repository")

// FindRepoRoot は dir から親方向に .git を探し、ワークツリーのルートを返します。
func FindRepoRoot(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return "", fmt.Errorf("%s: %w", dir, ErrNotRepository)
	}
	if err != nil {
		return "", fmt.Errorf("リポジトリのオープンに失敗しました: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		// ベアリポジトリにはワークツリーもステージもない
		return "", fmt.Errorf("ワークツリーの取得に失敗しました: %w", err)
	}

	root := wt.Filesystem.Root()
	slog.Debug("リポジトリを検出しました。", "root", root)
	return root, nil
}
