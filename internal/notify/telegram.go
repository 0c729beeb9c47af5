package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier pushes the due list to a single operator chat.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

func (n *TelegramNotifier) Send(ctx context.Context, due []DueReminder) error {
	if len(due) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("🔔 <b>Reminders</b>\n")
	for _, d := range due {
		sb.WriteString("• ")
		sb.WriteString(html.EscapeString(d.Summary()))
		sb.WriteByte('\n')
	}

	msg := tgbotapi.NewMessage(n.chatID, strings.TrimSpace(sb.String()))
	msg.ParseMode = tgbotapi.ModeHTML
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
