package commands

// Command to run the web page and JSON API
// Optionally runs the Telegram bot in the same process on the same values
// Implements graceful shutdown for proper termination

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	logging "line-chart/internal/infra/log"
	"line-chart/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveWithBot bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the chart web page and JSON API",
	Long:  `Run the HTTP server with the live chart page, the values panel and the JSON API. Use --with-bot to also answer Telegram commands.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveWithBot, "with-bot", false, "Also run the Telegram command handler")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	var wg sync.WaitGroup

	if serveWithBot {
		if err := startBot(ctx, &wg, a); err != nil {
			return err
		}
	}

	gin.SetMode(gin.ReleaseMode)
	srv := server.New(a.control, a.view)

	logging.LogSuccess("Server is running", zap.String("addr", cfg.Server.Addr))
	if err := srv.Run(ctx, cfg.Server.Addr); err != nil {
		logging.LogError("HTTP server failed", zap.Error(err))
		cancel()
		wg.Wait()
		return fmt.Errorf("failed to run server: %w", err)
	}

	cancel()
	waitStopped(&wg)
	return nil
}

func waitStopped(wg *sync.WaitGroup) {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.LogSuccess("All workers stopped gracefully")
	case <-time.After(10 * time.Second):
		logging.LogWarn("Timeout waiting for workers to stop, forcing shutdown")
	}
}
