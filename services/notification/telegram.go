package notification

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

// TelegramSender is the part of *bot.Bot used for notifications.
type TelegramSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*tgmodels.Message, error)
}

func sendTelegram(ctx context.Context, tg TelegramSender, chatID int64, text string) error {
	_, err := tg.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("failed to send telegram message to %d: %w", chatID, err)
	}
	return nil
}
