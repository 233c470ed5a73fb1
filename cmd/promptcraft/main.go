// promptcraft は画像からプロンプトを作り、プロンプトから画像を生成する CLI です。
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/shouni/gemini-promptcraft/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
