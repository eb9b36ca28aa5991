package commitmsg

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

// MaxSubjectLength はヘッダ行（1行目）の最大文字数です。
const MaxSubjectLength = 72

// headerPattern は `type(scope): subject` 形式のヘッダ行に一致します。
var headerPattern = regexp.MustCompile(`^([a-z]+)\(([^()\s][^()]*)\): (\S.*)$`)

// Clean は AI が返したテキストから前後の空白と Markdown のコードフェンスを取り除きます。
func Clean(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	lines := strings.Split(text, "\n")
	// 開始フェンス（言語指定付きも含む）
	lines = lines[1:]
	if n := len(lines); n > 0 && strings.TrimSpace(lines[n-1]) == "```" {
		lines = lines[:n-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Validate はコミットメッセージが Conventional Commits 形式の要件を満たしているか検査します。
// 要件: 許可された type、括弧付きの scope、コロン区切りの subject、1行目が MaxSubjectLength 文字以内、
// 本文に `-` で始まる箇条書きが1行以上。
func Validate(msg string, commitTypes []string) error {
	if strings.TrimSpace(msg) == "" {
		return fmt.Errorf("コミットメッセージが空です")
	}

	lines := strings.Split(msg, "\n")
	header := lines[0]

	if n := utf8.RuneCountInString(header); n > MaxSubjectLength {
		return fmt.Errorf("1行目が長すぎます (%d > %d 文字)", n, MaxSubjectLength)
	}

	m := headerPattern.FindStringSubmatch(header)
	if m == nil {
		return fmt.Errorf("1行目が 'type(scope): subject' 形式ではありません: %q", header)
	}
	if !slices.Contains(commitTypes, m[1]) {
		return fmt.Errorf("type '%s' は許可されていません (許可: %s)", m[1], strings.Join(commitTypes, ", "))
	}

	for _, line := range lines[1:] {
		if strings.HasPrefix(strings.TrimSpace(line), "-") {
			return nil
		}
	}
	return fmt.Errorf("本文に '-' で始まる箇条書きがありません")
}
