package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BOT KEYBOARDS

func cancelRow() []tgbotapi.KeyboardButton {
	return tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnCancel))
}

func navigationRow() []tgbotapi.KeyboardButton {
	return tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(BtnBack),
		tgbotapi.NewKeyboardButton(BtnCancel),
	)
}

// optionsKeyboard lays the options out two per row.
func optionsKeyboard(options []string, last []tgbotapi.KeyboardButton) tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	for i := 0; i < len(options); i += 2 {
		row := tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(options[i]))
		if i+1 < len(options) {
			row = append(row, tgbotapi.NewKeyboardButton(options[i+1]))
		}
		rows = append(rows, row)
	}
	rows = append(rows, last)
	return tgbotapi.NewReplyKeyboard(rows...)
}

func (b *Bot) createLineKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return optionsKeyboard(b.catalog.Lines(), cancelRow())
}

func (b *Bot) createModelKeyboard(line string) tgbotapi.ReplyKeyboardMarkup {
	models := b.catalog.Models(line)
	names := make([]string, 0, len(models))
	for _, m := range models {
		names = append(names, m.Name)
	}
	return optionsKeyboard(names, navigationRow())
}

// Furnace names are long, so one per row.
func (b *Bot) createFurnaceKeyboard() tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	for _, f := range b.catalog.Furnaces() {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(f)))
	}
	rows = append(rows,
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnNoFurnace)),
		navigationRow(),
	)
	return tgbotapi.NewReplyKeyboard(rows...)
}

func (b *Bot) createPaintKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnNoPaint),
			tgbotapi.NewKeyboardButton("1"),
			tgbotapi.NewKeyboardButton("2"),
		),
		navigationRow(),
	)
}

func (b *Bot) createSkipKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnSkip)),
		navigationRow(),
	)
}

func (b *Bot) createConfirmationKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnConfirm)),
		navigationRow(),
	)
}

func (b *Bot) createStartKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnNewOffer)),
	)
}
