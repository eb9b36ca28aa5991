package presenter

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"git-commit-agent-go/internal/changeset"
)

const bannerWidth = 80

// Presenter は人間向けのテキスト出力を担当します。
// 端末に接続されている場合のみ lipgloss で装飾します。
type Presenter struct {
	out    io.Writer
	styled bool

	bannerStyle  lipgloss.Style
	titleStyle   lipgloss.Style
	successStyle lipgloss.Style
	errorStyle   lipgloss.Style
	hintStyle    lipgloss.Style
}

// New は出力先に応じて装飾の有無を決めた Presenter を返します。
func New(out io.Writer) *Presenter {
	return newPresenter(out, IsTerminal(out))
}

// NewPlain は装飾なしの Presenter を返します。
func NewPlain(out io.Writer) *Presenter {
	return newPresenter(out, false)
}

func newPresenter(out io.Writer, styled bool) *Presenter {
	return &Presenter{
		out:          out,
		styled:       styled,
		bannerStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		titleStyle:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		successStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		errorStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		hintStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	}
}

// IsTerminal は w が端末に接続された *os.File かどうかを返します。
func IsTerminal(w any) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *Presenter) paint(style lipgloss.Style, s string) string {
	if !p.styled {
		return s
	}
	return style.Render(s)
}

func (p *Presenter) println(s string) {
	fmt.Fprintln(p.out, s)
}

func (p *Presenter) banner() string {
	return p.paint(p.bannerStyle, strings.Repeat("━", bannerWidth))
}

// Analyzing は解析開始の行を表示します。
func (p *Presenter) Analyzing(target string) {
	p.println(fmt.Sprintf("📝 Analyzing %s...", target))
}

// Scanning はブランチ走査開始の行を表示します。
func (p *Presenter) Scanning() {
	p.println("🔍 Scanning repository for unpushed changes...")
}

// Info は情報メッセージを表示します。
func (p *Presenter) Info(msg string) {
	p.println("ℹ️  " + msg)
}

// Hint は補足の案内を表示します。
func (p *Presenter) Hint(msg string) {
	p.println(p.paint(p.hintStyle, msg))
}

// Success は成功メッセージを表示します。
func (p *Presenter) Success(msg string) {
	p.println(p.paint(p.successStyle, "✅ "+msg))
}

// Failure はエラーメッセージを表示します。
func (p *Presenter) Failure(msg string) {
	p.println(p.paint(p.errorStyle, "❌ "+msg))
}

// Goodbye は対話モードの終了メッセージを表示します。
func (p *Presenter) Goodbye() {
	p.println("\n👋 Exiting.")
}

// Tip は選択したブランチを直接処理するためのヒントを表示します。
func (p *Presenter) Tip(branch string) {
	p.println(fmt.Sprintf("\n💡 Tip: Use --branch %s to process this branch directly", branch))
}

// Separator は確認プロンプト前の区切り線を表示します。
func (p *Presenter) Separator() {
	p.println("\n" + p.banner())
}

// RenderBranch はブランチの提案メッセージをバナー付きで表示します。
func (p *Presenter) RenderBranch(change *changeset.BranchChange, message string) {
	title := fmt.Sprintf("📌 %s (%d commits ahead of %s)", change.Branch, change.Ahead, change.Upstream)

	p.println("\n" + p.banner())
	p.println(p.paint(p.titleStyle, title))
	p.println(p.banner())
	p.renderMessage(change.Stats, message)
	p.println(p.banner())
}

// RenderStaged はステージ済み変更の提案メッセージを表示します。
func (p *Presenter) RenderStaged(change *changeset.StagedChange, message string) {
	p.renderMessage(change.Stats, message)
}

func (p *Presenter) renderMessage(stats changeset.Stats, message string) {
	p.println("\nSuggested commit message:\n")
	p.println(message)
	p.println(fmt.Sprintf("\nFiles changed: %d files (+%d, -%d)", stats.FilesChanged, stats.Insertions, stats.Deletions))
}
