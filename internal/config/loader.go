package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// FileName はリポジトリ直下およびホームディレクトリで探す設定ファイル名です。
const FileName = ".git-commit-agent.yaml"

var knownKeys = map[string]bool{
	"max_diff_chars": true,
	"model":          true,
	"temperature":    true,
	"max_retries":    true,
	"commit_types":   true,
	"provider":       true,
	"max_tokens":     true,
}

// Loader は既定値に設定ファイルの内容を重ねて Config を構築します。
type Loader struct {
	// RepoRoot はリポジトリのルートです。空の場合はリポジトリ側の候補を探しません。
	RepoRoot string
	// HomeDir はホームディレクトリです。空の場合はホーム側の候補を探しません。
	HomeDir string
	// ExplicitPath が指定された場合、候補探索を行わずこのファイルのみを読み込みます。
	ExplicitPath string
	// YAMLEnabled が false の場合、設定ファイルは読まずに既定値を返します。
	YAMLEnabled bool
}

// NewLoader はリポジトリルートとユーザーのホームディレクトリを候補とする Loader を返します。
func NewLoader(repoRoot string) Loader {
	home, err := os.UserHomeDir()
	if err != nil {
		slog.Debug("ホームディレクトリを取得できませんでした。", "error", err)
		home = ""
	}
	return Loader{
		RepoRoot:    repoRoot,
		HomeDir:     home,
		YAMLEnabled: true,
	}
}

// Candidates は探索順に並べた設定ファイルのパスを返します。
func (l Loader) Candidates() []string {
	var paths []string
	if l.RepoRoot != "" {
		paths = append(paths, filepath.Join(l.RepoRoot, FileName))
	}
	if l.HomeDir != "" {
		paths = append(paths, filepath.Join(l.HomeDir, FileName))
	}
	return paths
}

// Load は設定を読み込み、採用したファイルのパス（無ければ空）とともに返します。
// 候補ファイルの解析に失敗した場合は警告を出して次の候補へ進みます。
// ExplicitPath の読み込み・解析の失敗はエラーになります。
func (l Loader) Load() (Config, string, error) {
	cfg := Default()
	if !l.YAMLEnabled {
		return cfg, "", nil
	}

	if l.ExplicitPath != "" {
		data, err := os.ReadFile(l.ExplicitPath)
		if err != nil {
			return cfg, "", fmt.Errorf("設定ファイル %s の読み込みに失敗しました: %w", l.ExplicitPath, err)
		}
		merged, _, err := overlay(cfg, data)
		if err != nil {
			return cfg, "", fmt.Errorf("設定ファイル %s の解析に失敗しました: %w", l.ExplicitPath, err)
		}
		return merged, l.ExplicitPath, nil
	}

	for _, path := range l.Candidates() {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			slog.Warn("設定ファイルを読み込めませんでした。", "path", path, "error", err)
			continue
		}

		merged, empty, err := overlay(cfg, data)
		if err != nil {
			slog.Warn("設定ファイルを解析できませんでした。無視します。", "path", path, "error", err)
			continue
		}
		if empty {
			continue
		}
		return merged, path, nil
	}
	return cfg, "", nil
}

// overlay は data のトップレベルのキーを base に上書きした Config を返します。
// リストは要素単位ではなく丸ごと置き換えます。
func overlay(base Config, data []byte) (Config, bool, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return base, false, err
	}
	if len(raw) == 0 {
		return base, true, nil
	}

	var unknown []string
	for k := range raw {
		if !knownKeys[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		slog.Warn("設定ファイルに未知のキーがあります。無視します。", "keys", unknown)
	}

	merged := base
	if err := yaml.Unmarshal(data, &merged); err != nil {
		return base, false, err
	}
	// provider だけを切り替えた場合は、そのプロバイダの既定モデルを使う
	if _, ok := raw["model"]; !ok {
		merged.Model = DefaultModelFor(merged.Provider)
	}
	return merged, false, nil
}
