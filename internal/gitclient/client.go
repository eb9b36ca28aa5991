package gitclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"git-commit-agent-go/internal/changeset"
)

// DefaultMaxDiffChars は WithMaxDiffChars が指定されなかった場合の差分本文の上限です。
const DefaultMaxDiffChars = 50000

// detachedBranchLabel は detached HEAD の場合に使用するブランチ表示名です。
const detachedBranchLabel = "HEAD"

var (
	// ErrNoUpstream は比較対象となる upstream を解決できなかった場合のエラーです。
	ErrNoUpstream = errors.New("no upstream found")
	// ErrBranchNotFound は指定されたローカルブランチが存在しない場合のエラーです。
	ErrBranchNotFound = errors.New("branch not found")
)

// defaultUpstreamCandidates は origin/HEAD が無い場合に順に試す比較先です。
var defaultUpstreamCandidates = []string{"origin/main", "origin/master", "main", "master"}

// Service は差分収集に必要な git 操作の抽象化を提供します。
type Service interface {
	// ListUnpushedBranches は未プッシュのコミットを持つローカルブランチを列挙します。
	ListUnpushedBranches(ctx context.Context) ([]BranchStatus, error)
	// LookupBranch は指定ブランチの upstream と追跡情報を返します。
	LookupBranch(ctx context.Context, name string) (BranchStatus, error)
	// CollectBranch はブランチと upstream の差分情報を収集します。
	CollectBranch(ctx context.Context, name, upstream string) (*changeset.BranchChange, error)
	// CollectStaged はステージ済み変更の差分情報を収集します。変更が無ければ nil を返します。
	CollectStaged(ctx context.Context) (*changeset.StagedChange, error)
	// Commit は message をコミットメッセージ全文としてコミットを作成します。
	Commit(ctx context.Context, message string) error
}

// BranchStatus は for-each-ref から得たブランチの追跡状態です。
type BranchStatus struct {
	Name     string
	Upstream string // upstream が設定されていない場合は空
	Ahead    int
	Behind   int
}

// Collector は Service インターフェースを実装する具体的な構造体です。
type Collector struct {
	git          Executor
	maxDiffChars int
}

// Option はCollectorの初期化オプションを設定するための関数です。
type Option func(*Collector)

// WithMaxDiffChars は差分本文の切り詰め上限を設定します。
func WithMaxDiffChars(n int) Option {
	return func(c *Collector) {
		c.maxDiffChars = n
	}
}

// NewCollector はCollectorを初期化します。
func NewCollector(git Executor, opts ...Option) *Collector {
	c := &Collector{
		git:          git,
		maxDiffChars: DefaultMaxDiffChars,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListUnpushedBranches は ahead が 1 以上のローカルブランチを for-each-ref の順序で返します。
func (c *Collector) ListUnpushedBranches(ctx context.Context) ([]BranchStatus, error) {
	ok, out, err := c.git.Run(ctx, true,
		"for-each-ref",
		"--format=%(refname:short)|%(upstream:short)|%(upstream:track)",
		"refs/heads",
	)
	if err != nil {
		return nil, err
	}
	if !ok {
		slog.Warn("ブランチ一覧の取得に失敗しました。", "output", out)
		return nil, nil
	}

	var branches []BranchStatus
	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		status := parseRefLine(line)
		if status.Ahead > 0 {
			branches = append(branches, status)
		}
	}
	return branches, nil
}

// LookupBranch は refs/heads/<name> の upstream と追跡情報を返します。
// ブランチが存在しない場合は ErrBranchNotFound です。
func (c *Collector) LookupBranch(ctx context.Context, name string) (BranchStatus, error) {
	fields, found, err := c.branchRef(ctx, name, "%(upstream:short)|%(upstream:track)")
	if err != nil {
		return BranchStatus{}, err
	}
	if !found {
		return BranchStatus{}, fmt.Errorf("'%s': %w", name, ErrBranchNotFound)
	}

	return parseRefLine(name + "|" + fields), nil
}

// branchRef は refs/heads/<name> に完全一致する行について、format で指定したフィールドを返します。
// for-each-ref のパターンは "feature" で refs/heads/feature/x にも一致するため、refname で絞り込みます。
func (c *Collector) branchRef(ctx context.Context, name, format string) (string, bool, error) {
	ref := "refs/heads/" + name
	ok, out, err := c.git.Run(ctx, true, "for-each-ref", "--format=%(refname)|"+format, ref)
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", false, nil
	}
	for _, line := range strings.Split(out, "\n") {
		if fields, found := strings.CutPrefix(line, ref+"|"); found {
			return fields, true, nil
		}
	}
	return "", false, nil
}

// ResolveUpstream は比較先を決定します。upstream が指定されていればそれを使い、
// 無ければ origin/HEAD、続いて既定の候補を順に試します。
func (c *Collector) ResolveUpstream(ctx context.Context, upstream string) (string, error) {
	if upstream != "" {
		return upstream, nil
	}

	ok, ref, err := c.git.Run(ctx, false, "symbolic-ref", "refs/remotes/origin/HEAD")
	if err != nil {
		return "", err
	}
	if ok && ref != "" {
		return strings.TrimPrefix(ref, "refs/remotes/"), nil
	}

	for _, candidate := range defaultUpstreamCandidates {
		ok, _, err := c.git.Run(ctx, false, "rev-parse", "--verify", candidate)
		if err != nil {
			return "", err
		}
		if ok {
			slog.Debug("既定の比較先を使用します。", "upstream", candidate)
			return candidate, nil
		}
	}
	return "", ErrNoUpstream
}

// CollectBranch は upstream..branch の差分情報を収集します。
// upstream が解決できない場合は ErrNoUpstream を返します。
func (c *Collector) CollectBranch(ctx context.Context, name, upstream string) (*changeset.BranchChange, error) {
	resolved, err := c.ResolveUpstream(ctx, upstream)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	rangeSpec := resolved + ".." + name

	ok, diffStat, err := c.git.Run(ctx, true, "diff", "--stat", rangeSpec)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("git diff --stat %s に失敗しました: %s", rangeSpec, diffStat)
	}

	ok, diffContent, err := c.git.Run(ctx, true, "diff", rangeSpec)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("git diff %s に失敗しました: %s", rangeSpec, diffContent)
	}

	ok, commitLog, err := c.git.Run(ctx, true, "log", "--oneline", rangeSpec)
	if err != nil {
		return nil, err
	}
	if !ok {
		slog.Warn("コミットログの取得に失敗しました。", "range", rangeSpec, "output", commitLog)
		commitLog = ""
	}

	track, _, err := c.branchRef(ctx, name, "%(upstream:track)")
	if err != nil {
		return nil, err
	}
	ahead, behind := ParseTracking(track)

	slog.Debug("ブランチの差分を収集しました。", "branch", name, "upstream", resolved, "size_bytes", len(diffContent))
	return &changeset.BranchChange{
		Branch:      name,
		Upstream:    resolved,
		Ahead:       ahead,
		Behind:      behind,
		DiffSummary: c.summarize(diffStat, diffContent, commitLog),
	}, nil
}

// CollectStaged はステージ済み変更の差分情報を収集します。
// ステージ済みの変更が無い場合は nil, nil を返します。
func (c *Collector) CollectStaged(ctx context.Context) (*changeset.StagedChange, error) {
	ok, names, err := c.git.Run(ctx, true, "diff", "--cached", "--name-only")
	if err != nil {
		return nil, err
	}
	if !ok || names == "" {
		return nil, nil
	}

	ok, diffStat, err := c.git.Run(ctx, true, "diff", "--cached", "--stat")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("git diff --cached --stat に失敗しました: %s", diffStat)
	}

	ok, diffContent, err := c.git.Run(ctx, true, "diff", "--cached")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("git diff --cached に失敗しました: %s", diffContent)
	}

	branch := detachedBranchLabel
	ok, current, err := c.git.Run(ctx, true, "branch", "--show-current")
	if err != nil {
		return nil, err
	}
	if ok && current != "" {
		branch = current
	}

	return &changeset.StagedChange{
		Branch:      branch,
		DiffSummary: c.summarize(diffStat, diffContent, ""),
	}, nil
}

func (c *Collector) summarize(diffStat, diffContent, commitLog string) changeset.DiffSummary {
	truncated := Truncate(diffContent, c.maxDiffChars)
	if c.maxDiffChars > 0 && len(diffContent) > c.maxDiffChars {
		slog.Info("差分が上限を超えたため切り詰めました。", "original_size", len(diffContent), "max_diff_chars", c.maxDiffChars)
	}
	return changeset.DiffSummary{
		Stat:    diffStat,
		Content: truncated,
		Log:     commitLog,
		Stats:   ParseStats(diffStat),
	}
}

// parseRefLine は "name|upstream|track" 形式の 1 行を解析します。
func parseRefLine(line string) BranchStatus {
	parts := strings.Split(line, "|")
	status := BranchStatus{Name: parts[0]}
	if len(parts) > 1 {
		status.Upstream = parts[1]
	}
	if len(parts) > 2 {
		status.Ahead, status.Behind = ParseTracking(parts[2])
	}
	return status
}
