package presenter

import (
	"encoding/json"
	"fmt"
	"io"

	"git-commit-agent-go/internal/changeset"
)

// StagedResult はステージ済み変更の JSON 出力です。
type StagedResult struct {
	Branch           string `json:"branch"`
	Staged           bool   `json:"staged"`
	SuggestedMessage string `json:"suggested_message"`
	FilesChanged     int    `json:"files_changed"`
	Insertions       int    `json:"insertions"`
	Deletions        int    `json:"deletions"`
}

// BranchResult はブランチ単位の JSON 出力です。
type BranchResult struct {
	Branch           string `json:"branch"`
	Upstream         string `json:"upstream"`
	Ahead            int    `json:"ahead"`
	Behind           int    `json:"behind"`
	SuggestedMessage string `json:"suggested_message"`
	FilesChanged     int    `json:"files_changed"`
	Insertions       int    `json:"insertions"`
	Deletions        int    `json:"deletions"`
}

// ScanResult は全ブランチ走査の JSON 出力です。
type ScanResult struct {
	Branches []BranchResult `json:"branches"`
}

// NewStagedResult は StagedChange と生成メッセージから StagedResult を作成します。
func NewStagedResult(change *changeset.StagedChange, message string) StagedResult {
	return StagedResult{
		Branch:           change.Branch,
		Staged:           true,
		SuggestedMessage: message,
		FilesChanged:     change.Stats.FilesChanged,
		Insertions:       change.Stats.Insertions,
		Deletions:        change.Stats.Deletions,
	}
}

// NewBranchResult は BranchChange と生成メッセージから BranchResult を作成します。
func NewBranchResult(change *changeset.BranchChange, message string) BranchResult {
	return BranchResult{
		Branch:           change.Branch,
		Upstream:         change.Upstream,
		Ahead:            change.Ahead,
		Behind:           change.Behind,
		SuggestedMessage: message,
		FilesChanged:     change.Stats.FilesChanged,
		Insertions:       change.Stats.Insertions,
		Deletions:        change.Stats.Deletions,
	}
}

// WriteJSON は v を 2 スペースインデントの JSON として w に書き出します。
func WriteJSON(w io.Writer, v any) error {
	if scan, ok := v.(ScanResult); ok && scan.Branches == nil {
		v = ScanResult{Branches: []BranchResult{}}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("JSONの出力に失敗しました: %w", err)
	}
	return nil
}
