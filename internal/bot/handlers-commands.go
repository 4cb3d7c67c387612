package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch cmd := msg.Command(); cmd {
	case "start":
		b.handleStart(ctx, chatID)
	case "help":
		b.handleHelp(chatID, b.isAdmin(senderID(msg)))
	case "cancel":
		b.handleCancel(ctx, chatID)
	case "stats", "export", "offer":
		if !b.isAdmin(senderID(msg)) {
			b.handleUnknownCommand(chatID)
			return
		}
		b.handleAdminCommand(ctx, chatID, cmd, strings.Fields(msg.CommandArguments()))
	default:
		b.handleUnknownCommand(chatID)
	}
}

func (b *Bot) handleStart(ctx context.Context, chatID int64) {
	b.sendText(chatID, `Dzień dobry! 👋

Przygotuję dla Ciebie wycenę sauny ogrodowej: model, piec, malowanie i dostawę.
W każdej chwili możesz przerwać komendą /cancel.`, nil)

	state := UserState{Step: StepLine}
	if !b.saveState(ctx, chatID, state) {
		return
	}
	b.ask(chatID, state)
}

func (b *Bot) handleHelp(chatID int64, admin bool) {
	text := `Dostępne komendy:
/start - nowa wycena
/cancel - przerwij bieżącą wycenę
/help - pokaż tę pomoc`
	if admin {
		text += `

Komendy administratora:
/stats - statystyki ofert
/export - eksport wszystkich ofert do Excela
/export <ID> - eksport jednej oferty
/offer <ID> - szczegóły oferty`
	}
	b.sendText(chatID, text, nil)
}

func (b *Bot) handleCancel(ctx context.Context, chatID int64) {
	if err := b.state.Clear(ctx, chatID); err != nil {
		b.logger.Error("Failed to clear state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
	b.sendText(chatID, "Wycena przerwana. Aby zacząć od nowa, wybierz /start.", b.createStartKeyboard())
}

func (b *Bot) handleDefault(ctx context.Context, chatID int64) {
	b.sendText(chatID, "Aby przygotować wycenę, użyj /start.", b.createStartKeyboard())
}

func (b *Bot) handleUnknownCommand(chatID int64) {
	b.sendError(chatID, "Nieznana komenda. Użyj /help, aby zobaczyć listę komend.")
}

func senderID(msg *tgbotapi.Message) int64 {
	if msg.From != nil {
		return msg.From.ID
	}
	return msg.Chat.ID
}

func senderName(msg *tgbotapi.Message) string {
	if msg.From == nil {
		return ""
	}
	if msg.From.UserName != "" {
		return msg.From.UserName
	}
	return strings.TrimSpace(msg.From.FirstName + " " + msg.From.LastName)
}
