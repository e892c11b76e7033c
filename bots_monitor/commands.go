package bot

// Package bot contains the Telegram command surface of the chart

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"line-chart/internal/features/chart"
	"line-chart/internal/features/render"
	"line-chart/internal/features/values"
	log "line-chart/internal/infra/log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const helpText = "" +
	"Commands:\n" +
	"• <code>/add {value}</code> - add a value stamped with the current time\n" +
	"• <code>/remove {n}</code> - remove value number n from /list\n" +
	"• <code>/list</code> - show the values\n" +
	"• <code>/chart</code> - draw the line chart\n" +
	"• <code>/log on|off</code> - toggle the logarithmic value axis\n" +
	"• <code>/help</code> - this message"

type HandlerOptions struct {
	Control *values.Control
	View    *chart.View
	Sender  *Sender
	// Surface is the PNG size for /chart.
	Surface   chart.Surface
	ChartsDir string
	// ChatID limits commands to one chat; 0 accepts any chat.
	ChatID int64
}

// Handler answers chat commands against the shared values control.
type Handler struct {
	control   *values.Control
	view      *chart.View
	sender    *Sender
	surface   chart.Surface
	chartsDir string
	chatID    int64
}

func NewHandler(opts HandlerOptions) *Handler {
	chartsDir := opts.ChartsDir
	if chartsDir == "" {
		chartsDir = render.DefaultChartsDir
	}
	return &Handler{
		control:   opts.Control,
		view:      opts.View,
		sender:    opts.Sender,
		surface:   opts.Surface,
		chartsDir: chartsDir,
		chatID:    opts.ChatID,
	}
}

// RunCommandHandler reads updates until ctx is done.
func RunCommandHandler(ctx context.Context, api *tgbotapi.BotAPI, h *Handler) {
	if api == nil {
		log.LogWarn("Bot is nil, command handler not started")
		return
	}

	log.LogInfo("Starting command handler",
		zap.String("bot", api.Self.UserName),
		zap.Int64("chatID", h.chatID))

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := api.GetUpdatesChan(u)
	defer api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			log.LogInfo("Command handler stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			h.Handle(ctx, update.Message)
		}
	}
}

// Handle executes one message. Non-commands, unknown commands and other
// chats are ignored.
func (h *Handler) Handle(ctx context.Context, message *tgbotapi.Message) {
	if message == nil || message.Chat == nil || !message.IsCommand() {
		return
	}
	if h.chatID != 0 && message.Chat.ID != h.chatID {
		return
	}

	command := message.Command()
	args := strings.TrimSpace(message.CommandArguments())

	log.LogDebug("Received command",
		zap.String("command", command),
		zap.String("args", args),
		zap.Int64("chatID", message.Chat.ID),
		zap.String("username", username(message)))

	switch command {
	case "add":
		h.handleAdd(ctx, message, args)
	case "remove":
		h.handleRemove(ctx, message, args)
	case "list":
		h.handleList(ctx, message)
	case "chart":
		h.handleChart(ctx, message)
	case "log":
		h.handleLog(ctx, message, args)
	case "help", "start":
		h.reply(ctx, message, helpText)
	}
}

// handleAdd /add {value}
func (h *Handler) handleAdd(ctx context.Context, message *tgbotapi.Message, args string) {
	if args == "" {
		h.reply(ctx, message, "Usage: /add {value}\n\nExample: /add 12.5")
		return
	}

	_, point, err := h.control.Submit(args)
	if err != nil {
		log.LogError("Failed to add value", zap.String("input", args), zap.Error(err))
		h.reply(ctx, message, "An error occurred, please try again later")
		return
	}

	h.reply(ctx, message, fmt.Sprintf("Added <b>%s</b> at %s",
		formatValue(point.Value), values.TimeLabel(point.Date)))
}

// handleRemove /remove {n}, n as shown by /list
func (h *Handler) handleRemove(ctx context.Context, message *tgbotapi.Message, args string) {
	n, err := strconv.Atoi(args)
	if err != nil {
		h.reply(ctx, message, "Usage: /remove {n}\n\nExample: /remove 2")
		return
	}

	err = h.control.RemoveStrict(n - 1)
	switch {
	case errors.Is(err, values.ErrIndexOutOfRange):
		h.reply(ctx, message, fmt.Sprintf("There is no value number %d", n))
		return
	case err != nil:
		log.LogError("Failed to remove value", zap.Int("n", n), zap.Error(err))
		h.reply(ctx, message, "An error occurred, please try again later")
		return
	}

	h.reply(ctx, message, fmt.Sprintf("Value number %d removed", n))
}

// handleList /list
func (h *Handler) handleList(ctx context.Context, message *tgbotapi.Message) {
	h.reply(ctx, message, listText(h.control.Points()))
}

// handleChart /chart
func (h *Handler) handleChart(ctx context.Context, message *tgbotapi.Message) {
	g := h.view.GeometryFor(h.surface)
	if g == nil {
		h.reply(ctx, message, "No values yet, add one with /add {value}")
		return
	}

	filename := filepath.Join(h.chartsDir, fmt.Sprintf("line_chart_%d.png", message.Chat.ID))
	path, err := render.PNG(g, h.surface, filename)
	if err != nil {
		log.LogError("Failed to generate chart", zap.Error(err))
		h.reply(ctx, message, "Failed to generate chart, please try again later")
		return
	}

	photo := tgbotapi.NewPhoto(message.Chat.ID, tgbotapi.FilePath(path))
	photo.Caption = fmt.Sprintf("%d values, %s axis", len(g.Points), g.Scale)
	photo.ReplyToMessageID = message.MessageID
	if _, err := h.sender.Send(ctx, photo); err != nil {
		log.LogError("Failed to send chart photo", zap.String("path", path), zap.Error(err))
		return
	}

	log.LogInfo("Chart sent",
		zap.Int64("chatID", message.Chat.ID),
		zap.String("username", username(message)),
		zap.Int("pointsCount", len(g.Points)))
}

// handleLog /log on|off
func (h *Handler) handleLog(ctx context.Context, message *tgbotapi.Message, args string) {
	switch strings.ToLower(args) {
	case "on":
		h.control.SetLogAxis(true)
	case "off":
		h.control.SetLogAxis(false)
	case "":
	default:
		h.reply(ctx, message, "Usage: /log on|off")
		return
	}

	state := "off"
	if h.control.LogAxis() {
		state = "on"
	}
	h.reply(ctx, message, "Log axis is "+state)
}

func (h *Handler) reply(ctx context.Context, message *tgbotapi.Message, text string) {
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyToMessageID = message.MessageID
	if _, err := h.sender.Send(ctx, msg); err != nil {
		log.LogError("Failed to send message",
			zap.Int64("chatID", message.Chat.ID),
			zap.Error(err))
	}
}

func listText(points []chart.DataPoint) string {
	if len(points) == 0 {
		return "No values yet"
	}
	var b strings.Builder
	b.WriteString("Values:\n")
	for i, p := range points {
		fmt.Fprintf(&b, "%d. <code>%s</code>  %s\n", i+1, values.TimeLabel(p.Date), formatValue(p.Value))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func username(message *tgbotapi.Message) string {
	if message.From == nil {
		return ""
	}
	return message.From.UserName
}
