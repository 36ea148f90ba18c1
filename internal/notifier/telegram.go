package notifier

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/selivandex/stock-insight/internal/adapters/config"
	"github.com/selivandex/stock-insight/internal/sentiment"
	"github.com/selivandex/stock-insight/pkg/logger"
)

// Notifier sends aggregation run summaries via Telegram. Without a bot
// token it is a silent no-op so callers never have to branch.
type Notifier struct {
	api     *tgbotapi.BotAPI
	chatID  int64
	enabled bool
}

// NewNotifier creates new Telegram notifier
func NewNotifier(cfg *config.TelegramConfig) (*Notifier, error) {
	if cfg.BotToken == "" {
		return &Notifier{}, nil
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	bot.Debug = false

	logger.Info("telegram notifier initialized",
		zap.String("bot_username", bot.Self.UserName),
	)

	return &Notifier{
		api:     bot,
		chatID:  cfg.ChatID,
		enabled: cfg.AlertOnEvents,
	}, nil
}

// SendRunSummary sends a sentiment aggregation summary to the configured chat
func (n *Notifier) SendRunSummary(symbol string, threshold float64, result *sentiment.Result, trend string) error {
	if n.api == nil || !n.enabled {
		return nil
	}

	msg := tgbotapi.NewMessage(n.chatID, FormatRunSummary(symbol, threshold, result, trend))
	msg.ParseMode = tgbotapi.ModeHTML

	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}

	return nil
}
