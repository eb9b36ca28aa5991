package gitclient

import (
	"strconv"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"git-commit-agent-go/internal/changeset"
)

func TestParseTracking(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantAhead  int
		wantBehind int
	}{
		{"ahead only", "[ahead 3]", 3, 0},
		{"behind only", "[behind 2]", 0, 2},
		{"ahead and behind", "[ahead 5, behind 2]", 5, 2},
		{"different order", "[behind 1, ahead 4]", 4, 1},
		{"empty string", "", 0, 0},
		{"brackets only", "[]", 0, 0},
		{"gone upstream", "[gone]", 0, 0},
		{"malformed", "ahead x, behind", 0, 0},
		{"overflow", "[ahead 99999999999999999999999]", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ahead, behind := ParseTracking(tt.input)
			assert.Equal(t, tt.wantAhead, ahead)
			assert.Equal(t, tt.wantBehind, behind)
		})
	}
}

func TestParseStats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  changeset.Stats
	}{
		{
			name:  "all fields",
			input: "3 files changed, 42 insertions(+), 15 deletions(-)",
			want:  changeset.Stats{FilesChanged: 3, Insertions: 42, Deletions: 15},
		},
		{
			name:  "single file without deletions",
			input: "1 file changed, 5 insertions(+)",
			want:  changeset.Stats{FilesChanged: 1, Insertions: 5},
		},
		{
			name:  "no deletions",
			input: "2 files changed, 20 insertions(+)",
			want:  changeset.Stats{FilesChanged: 2, Insertions: 20},
		},
		{
			name:  "single deletion",
			input: "1 file changed, 1 deletion(-)",
			want:  changeset.Stats{FilesChanged: 1, Deletions: 1},
		},
		{
			name:  "full stat output",
			input: " main.go   | 10 +++++++---\n README.md |  2 +-\n 2 files changed, 8 insertions(+), 4 deletions(-)",
			want:  changeset.Stats{FilesChanged: 2, Insertions: 8, Deletions: 4},
		},
		{
			name:  "empty",
			input: "",
			want:  changeset.Stats{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseStats(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, ParseStats(tt.input))
		})
	}
}

func TestTruncate_LongContent(t *testing.T) {
	original := strings.Repeat("x", 100000)

	got := Truncate(original, 50000)

	assert.Greater(t, len(got), 50000)
	assert.Equal(t, original[:50000], got[:50000])
	assert.Contains(t, got[50000:], "Truncated")
	assert.Contains(t, got[50000:], strconv.Itoa(len(original)))
}

func TestTruncate_ShortContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"under cap", strings.Repeat("x", 1000)},
		{"exactly cap", strings.Repeat("y", 2000)},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.content, 2000)
			assert.Equal(t, tt.content, got)
			assert.NotContains(t, got, "Truncated")
		})
	}
}

func TestTruncate_NonPositiveCapDisablesTruncation(t *testing.T) {
	content := strings.Repeat("z", 10)
	assert.Equal(t, content, Truncate(content, 0))
}

func TestTruncate_KeepsRuneBoundary(t *testing.T) {
	// "あ" は 3 バイト。4 バイト目で切ると 2 文字目の途中になる
	content := strings.Repeat("あ", 10)

	got := Truncate(content, 4)

	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasPrefix(got, "あ\n\n... [Truncated: showing first 3 of 30 bytes]"))
}

func TestTruncate_AnnotationReportsBytes(t *testing.T) {
	got := Truncate(strings.Repeat("x", 10), 4)

	assert.Equal(t, "xxxx\n\n... [Truncated: showing first 4 of 10 bytes]", got)
}
