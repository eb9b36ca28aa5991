package gitclient

import (
	"fmt"
	"regexp"
	"strconv"
	"unicode/utf8"

	"git-commit-agent-go/internal/changeset"
)

var (
	aheadPattern     = regexp.MustCompile(`ahead (\d+)`)
	behindPattern    = regexp.MustCompile(`behind (\d+)`)
	filesPattern     = regexp.MustCompile(`(\d+) files? changed`)
	insertionPattern = regexp.MustCompile(`(\d+) insertions?`)
	deletionPattern  = regexp.MustCompile(`(\d+) deletions?`)
)

// ParseTracking は "[ahead 2, behind 1]" のような追跡情報から ahead/behind を取り出します。
// 順序は問わず、見つからない値は 0 です。エラーにはなりません。
func ParseTracking(trackInfo string) (ahead, behind int) {
	return firstInt(aheadPattern, trackInfo), firstInt(behindPattern, trackInfo)
}

// ParseStats は diff --stat のサマリ行から統計値を読み取ります。
// 3 つのパターンは互いに独立しており、一致しない項目は 0 になります。
func ParseStats(diffStat string) changeset.Stats {
	return changeset.Stats{
		FilesChanged: firstInt(filesPattern, diffStat),
		Insertions:   firstInt(insertionPattern, diffStat),
		Deletions:    firstInt(deletionPattern, diffStat),
	}
}

// Truncate は content が maxChars バイトを超える場合に先頭から切り詰め、
// 元のサイズを含む注記を末尾に付け加えます。注記の長さは上限に含めません。
// 切り詰め位置がマルチバイト文字の途中にかかる場合は、その文字の手前まで戻します。
func Truncate(content string, maxChars int) string {
	if maxChars <= 0 || len(content) <= maxChars {
		return content
	}
	cut := maxChars
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut] + fmt.Sprintf(
		"\n\n... [Truncated: showing first %d of %d bytes]", cut, len(content))
}

func firstInt(re *regexp.Regexp, s string) int {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		// 桁あふれ
		return 0
	}
	return n
}
