package main

import "git-commit-agent-go/cmd" // 🚀 CLIのエントリポイント

// main はプログラムのエントリポイントです。
func main() {
	// 全ての CLI ロジックを cmd パッケージに委譲します。
	cmd.Execute()
}
