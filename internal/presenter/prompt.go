package presenter

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"git-commit-agent-go/internal/gitclient"
)

// ErrCancelled はユーザーが対話操作を中断したことを示します。終了コードは 0 として扱います。
var ErrCancelled = errors.New("cancelled by user")

type lineResult struct {
	line string
	err  error
}

// readLine は 1 行を読み取ります。ctx がキャンセルされた場合（割り込み）は ErrCancelled を返します。
func readLine(ctx context.Context, r *bufio.Reader) (string, error) {
	ch := make(chan lineResult, 1)
	go func() {
		line, err := r.ReadString('\n')
		ch <- lineResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ErrCancelled
	case res := <-ch:
		if res.err != nil {
			if errors.Is(res.err, io.EOF) && res.line != "" {
				return strings.TrimSpace(res.line), nil
			}
			if errors.Is(res.err, io.EOF) {
				return "", ErrCancelled
			}
			return "", fmt.Errorf("入力の読み取りに失敗しました: %w", res.err)
		}
		return strings.TrimSpace(res.line), nil
	}
}

// SelectBranch は未プッシュのブランチを番号付きで表示し、選択されたブランチ名を返します。
// 0 の入力、EOF、割り込みでは ErrCancelled を返します。
func (p *Presenter) SelectBranch(ctx context.Context, in io.Reader, branches []gitclient.BranchStatus) (string, error) {
	if len(branches) == 0 {
		return "", ErrCancelled
	}

	p.println("\n🔍 Found branches with unpushed commits:\n")
	for i, b := range branches {
		p.println(fmt.Sprintf("  %d. %s (%d commits ahead of %s)", i+1, b.Name, b.Ahead, b.Upstream))
	}
	p.println("  0. Exit")

	reader := bufio.NewReader(in)
	for {
		fmt.Fprint(p.out, "\nSelect a branch (0 to exit): ")
		line, err := readLine(ctx, reader)
		if err != nil {
			if errors.Is(err, ErrCancelled) {
				p.println("\n\n👋 Cancelled.")
			}
			return "", err
		}

		choice, err := strconv.Atoi(line)
		if err != nil {
			p.Failure("Please enter a number.")
			continue
		}
		if choice == 0 {
			return "", ErrCancelled
		}
		if choice < 1 || choice > len(branches) {
			p.Failure("Invalid selection. Please try again.")
			continue
		}
		return branches[choice-1].Name, nil
	}
}

// Confirm は y/N の確認を行います。y または Y のみを承認として扱います。
func (p *Presenter) Confirm(ctx context.Context, in io.Reader, question string) (bool, error) {
	fmt.Fprintf(p.out, "%s [y/N]: ", question)
	line, err := readLine(ctx, bufio.NewReader(in))
	if err != nil {
		if errors.Is(err, ErrCancelled) {
			return false, nil
		}
		return false, err
	}
	return strings.EqualFold(line, "y"), nil
}
