// Package cli は promptcraft コマンドの実装です。
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shouni/gemini-promptcraft/internal/config"
	"github.com/shouni/gemini-promptcraft/internal/logging"
)

var (
	configFile     string
	envFile        string
	historyBackend string

	// cfg は PersistentPreRunE で読み込まれます。
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "promptcraft",
	Short: "Turn images into prompts and prompts into images with Gemini",
	Long: `promptcraft asks Gemini to describe an image as a text-to-image prompt,
lets you edit it and add an artistic style, then renders a new image from it.

Examples:
  promptcraft session
  promptcraft describe photo.jpg
  promptcraft render "a lighthouse at dusk, in the style of oil painting" -o out.png
  promptcraft serve --addr :8080`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", ".env file to load before reading the environment")
	rootCmd.PersistentFlags().StringVar(&historyBackend, "history", "", "History backend: file, redis, memory (overrides PROMPTCRAFT_HISTORY)")
}

// Execute はルートコマンドを実行します。
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(cmd.Context(), config.Options{
		ConfigFile: configFile,
		EnvFile:    envFile,
	})
	if err != nil {
		return err
	}
	if historyBackend != "" {
		loaded.History.Backend = historyBackend
		if err := loaded.Validate(); err != nil {
			return err
		}
	}
	if _, err := logging.Setup(loaded.Log.Level, loaded.Log.Format, os.Stderr); err != nil {
		return fmt.Errorf("ロガーの初期化に失敗しました: %w", err)
	}
	cfg = loaded
	return nil
}
