package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadDotEnv はリポジトリ直下の .env を読み込みます。
// 既に設定済みの環境変数は上書きしません。ファイルが無い場合は何もしません。
func LoadDotEnv(repoRoot string) error {
	if repoRoot == "" {
		return nil
	}
	envPath := filepath.Join(repoRoot, ".env")
	err := godotenv.Load(envPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf(".env の読み込みに失敗しました (%s): %w", envPath, err)
	}
	slog.Debug(".env を読み込みました。", "path", envPath)
	return nil
}
