package changeset

// Stats は diff --stat のサマリ行から読み取った統計値です。
// パターンに一致しなかった項目は 0 のままです。
type Stats struct {
	FilesChanged int
	Insertions   int
	Deletions    int
}

// DiffSummary はステージ済み変更・ブランチ比較の双方に共通する差分情報です。
type DiffSummary struct {
	// Stat は `git diff --stat` の出力です。
	Stat string
	// Content は差分本文です。上限を超えた場合は切り詰め注記付きです。
	Content string
	// Log は `git log --oneline` の出力です。ステージ済み変更では空です。
	Log   string
	Stats Stats
}

// Summary は埋め込み先の型から共通の差分情報を取り出すためのアクセサです。
func (d DiffSummary) Summary() DiffSummary {
	return d
}

// Change は生成対象となる変更セットです。
// 実体は *StagedChange か *BranchChange のどちらかです。
type Change interface {
	// BranchName は表示用のブランチ名を返します。
	BranchName() string
	// Summary は共通の差分情報を返します。
	Summary() DiffSummary
	isChange()
}

// StagedChange はインデックス上の（ステージ済みの）変更です。
// upstream / ahead / behind はこのモードでは意味を持たないため保持しません。
type StagedChange struct {
	Branch string
	DiffSummary
}

func (s *StagedChange) BranchName() string { return s.Branch }
func (*StagedChange) isChange()            {}

// BranchChange はローカルブランチとその upstream の比較結果です。
type BranchChange struct {
	Branch   string
	Upstream string
	Ahead    int
	Behind   int
	DiffSummary
}

func (b *BranchChange) BranchName() string { return b.Branch }
func (*BranchChange) isChange()            {}
