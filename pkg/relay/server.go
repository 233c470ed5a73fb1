package relay

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

const (
	readTimeout     = 30 * time.Second
	writeTimeout    = 3 * time.Minute
	shutdownTimeout = 10 * time.Second
)

// NewServer はタイムアウトを設定した http.Server を返します。
// 画像生成は時間がかかるため、書き込みタイムアウトは長めです。
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       2 * time.Minute,
	}
}

// Serve は ctx がキャンセルされるまでサーバーを動かし、その後グレースフルに停止します。
func Serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("リレーサーバーを起動します", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("リレーサーバーを停止します")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
