package masterbot

import (
	"context"
	"fmt"
	"strings"

	"slotbook/utils"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// NewBot connects to Telegram and routes every text message to the controller.
func NewBot(token string, c *Controller) (*bot.Bot, error) {
	b, err := bot.New(token, bot.WithDefaultHandler(c.handleUpdate))
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return b, nil
}

func (c *Controller) handleUpdate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}
	msg := update.Message
	chatID := msg.Chat.ID

	reply := c.Reply(ctx, chatID, msg.Text)

	// Credentials should not stay in the chat history.
	if strings.HasPrefix(strings.ToLower(msg.Text), "/login") {
		if _, err := b.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: chatID, MessageID: msg.ID}); err != nil {
			utils.GetLogger().Warn("Failed to delete login message", zap.Int64("chatID", chatID), zap.Error(err))
		}
	}

	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: reply}); err != nil {
		utils.GetLogger().Error("Failed to send bot reply", zap.Int64("chatID", chatID), zap.Error(err))
	}
}

// SetCommands publishes the command menu.
func SetCommands(ctx context.Context, b *bot.Bot) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "Start"},
		{Command: "help", Description: "List commands"},
		{Command: "login", Description: "Link your master account"},
		{Command: "today", Description: "Today's schedule"},
		{Command: "schedule", Description: "Schedule of a date"},
		{Command: "dayoff", Description: "Mark days off"},
		{Command: "workday", Description: "Unmark days off"},
		{Command: "hours", Description: "Set weekly hours"},
		{Command: "datehours", Description: "Set hours for a date"},
		{Command: "cleardate", Description: "Reset hours for a date"},
		{Command: "cancel", Description: "Stop the current dialog"},
	}
	if _, err := b.SetMyCommands(ctx, &bot.SetMyCommandsParams{Commands: commands}); err != nil {
		utils.GetLogger().Error("Failed to set bot commands", zap.Error(err))
		return err
	}
	return nil
}
