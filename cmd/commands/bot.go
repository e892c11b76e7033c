package commands

// Command to run the Telegram bot
// Answers /add, /remove, /list, /chart and /log in the configured chat
// Implements graceful shutdown for proper termination

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	bot "line-chart/bots_monitor"
	logging "line-chart/internal/infra/log"
	"line-chart/internal/infra/retry"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot",
	Long:  `Run the Telegram command handler. Values added or removed in chat are stored in the same data directory as the web page uses.`,
	RunE:  runBot,
}

func runBot(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	var wg sync.WaitGroup
	if err := startBot(ctx, &wg, a); err != nil {
		return err
	}

	logging.LogSuccess("Bot is running", zap.String("status", "active"))

	<-ctx.Done()
	logging.LogInfo("Shutdown signal received, gracefully stopping bot...")

	waitStopped(&wg)
	return nil
}

func startBot(ctx context.Context, wg *sync.WaitGroup, a *app) error {
	if err := cfg.ValidateTelegram(); err != nil {
		return err
	}

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logging.LogError("Failed to create bot", zap.Error(err))
		return fmt.Errorf("failed to create bot: %w", err)
	}
	logging.LogInfo("Authorized on account", zap.String("username", api.Self.UserName))

	handler := bot.NewHandler(bot.HandlerOptions{
		Control:   a.control,
		View:      a.view,
		Sender:    bot.NewSender(api, retry.DefaultOptions()),
		Surface:   a.surface,
		ChartsDir: cfg.Chart.ChartsDir,
		ChatID:    cfg.ChatID(),
	})

	wg.Add(1)
	go func() {
		defer wg.Done()
		bot.RunCommandHandler(ctx, api, handler)
	}()
	return nil
}
