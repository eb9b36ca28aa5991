package prompts

import (
	"fmt"
	"strings"
	"text/template"

	"git-commit-agent-go/internal/changeset"
)

// ----------------------------------------------------------------
// テンプレート構造体
// ----------------------------------------------------------------

// TemplateData はコミットメッセージ用プロンプトのテンプレートに渡すデータ構造です。
type TemplateData struct {
	Branch      string
	Staged      bool
	Upstream    string
	Ahead       int
	CommitLog   string
	DiffStat    string
	DiffContent string
	// CommitTypes は許可するコミット種別をカンマ区切りで連結したものです。
	CommitTypes string
}

// NewTemplateData は変更セットと許可するコミット種別からテンプレートデータを組み立てます。
func NewTemplateData(change changeset.Change, commitTypes []string) TemplateData {
	summary := change.Summary()
	data := TemplateData{
		Branch:      change.BranchName(),
		CommitLog:   summary.Log,
		DiffStat:    summary.Stat,
		DiffContent: summary.Content,
		CommitTypes: strings.Join(commitTypes, ", "),
	}

	switch c := change.(type) {
	case *changeset.StagedChange:
		data.Staged = true
	case *changeset.BranchChange:
		data.Upstream = c.Upstream
		data.Ahead = c.Ahead
	}
	return data
}

// ----------------------------------------------------------------
// ビルダー実装
// ----------------------------------------------------------------

// CommitPromptBuilder はコミットメッセージ生成用プロンプトの構成を管理します。
type CommitPromptBuilder struct {
	tmpl *template.Template
}

// NewCommitPromptBuilder は CommitPromptBuilder を初期化します。
// テンプレート文字列を受け取り、それをパースして *template.Template を保持します。
func NewCommitPromptBuilder(name string, templateContent string) (*CommitPromptBuilder, error) {
	if templateContent == "" {
		return nil, fmt.Errorf("プロンプトテンプレートの内容が空です")
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(templateContent)
	if err != nil {
		return nil, fmt.Errorf("プロンプトテンプレートの解析に失敗しました: %w", err)
	}
	return &CommitPromptBuilder{tmpl: tmpl}, nil
}

// NewDefaultCommitPromptBuilder は埋め込みテンプレートを使用するビルダーを返します。
func NewDefaultCommitPromptBuilder() (*CommitPromptBuilder, error) {
	name, content, err := GetCommitTemplate()
	if err != nil {
		return nil, err
	}
	return NewCommitPromptBuilder(name, content)
}

// Build は TemplateData を埋め込み、AI へ送るための最終的なプロンプト文字列を完成させます。
func (b *CommitPromptBuilder) Build(data TemplateData) (string, error) {
	if b == nil || b.tmpl == nil {
		return "", fmt.Errorf("プロンプトテンプレートが適切に初期化されていません。NewCommitPromptBuilderが正しく呼び出されたか確認してください")
	}

	var sb strings.Builder
	if err := b.tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("プロンプトの実行に失敗しました: %w", err)
	}

	return sb.String(), nil
}
