package prompts

import (
	_ "embed"
	"fmt"
)

// --- テンプレートのリソース定義 (go:embed) ---

//go:embed commit_prompt.md
var CommitPromptTemplate string

// commitTemplateName はテンプレートの名前です。主にエラーメッセージの識別に利用されます。
const commitTemplateName = "commit_message"

// GetCommitTemplate は、コミットメッセージ生成用のテンプレート名とその内容を返します。
func GetCommitTemplate() (name string, content string, err error) {
	// go:embed が失敗していないかの基本的なチェック
	if CommitPromptTemplate == "" {
		return "", "", fmt.Errorf("コミットメッセージ用のプロンプトテンプレートの内容が空です")
	}
	return commitTemplateName, CommitPromptTemplate, nil
}
