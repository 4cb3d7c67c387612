package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"sauna-offer-bot/internal/quotation"
	"sauna-offer-bot/internal/storage"
)

var previousStep = map[string]string{
	StepModel:          StepLine,
	StepFurnace:        StepModel,
	StepPaint:          StepFurnace,
	StepLocation:       StepPaint,
	StepCustomDelivery: StepLocation,
	StepConfirmation:   StepCustomDelivery,
}

// ask sends the question of the current step.
func (b *Bot) ask(chatID int64, state UserState) {
	switch state.Step {
	case StepLine:
		b.sendText(chatID, "Wybierz typ sauny:", b.createLineKeyboard())
	case StepModel:
		b.sendText(chatID, fmt.Sprintf("Wybierz model (%s):", state.Request.Line), b.createModelKeyboard(state.Request.Line))
	case StepFurnace:
		b.sendText(chatID, "Wybierz piec:", b.createFurnaceKeyboard())
	case StepPaint:
		b.sendText(chatID, "Ile razy malować saunę? Wybierz z klawiatury lub wpisz liczbę:", b.createPaintKeyboard())
	case StepLocation:
		b.sendText(chatID, "Podaj miejsce dostawy (miejscowość lub adres w Polsce) albo pomiń:", b.createSkipKeyboard())
	case StepCustomDelivery:
		b.sendText(chatID, "Dodatkowa dopłata za dostawę, np. \"1000 zł\", albo pomiń:", b.createSkipKeyboard())
	case StepConfirmation:
		res := b.quoter.Price(state.Request, state.Delivery)
		b.sendText(chatID, FormatSummary(state.Request, res), b.createConfirmationKeyboard())
	}
}

func (b *Bot) handleBack(ctx context.Context, chatID int64, state UserState) {
	prev, ok := previousStep[state.Step]
	if !ok {
		b.handleDefault(ctx, chatID)
		return
	}
	state.Step = prev
	if !b.saveState(ctx, chatID, state) {
		return
	}
	b.ask(chatID, state)
}

func (b *Bot) advance(ctx context.Context, chatID int64, state UserState, next string) {
	state.Step = next
	if !b.saveState(ctx, chatID, state) {
		return
	}
	b.ask(chatID, state)
}

func (b *Bot) handleLine(ctx context.Context, msg *tgbotapi.Message, state UserState) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	if !contains(b.catalog.Lines(), text) {
		b.sendError(chatID, "Wybierz typ sauny z klawiatury")
		b.ask(chatID, state)
		return
	}

	if state.Request.Line != text {
		state.Request.Model = ""
	}
	state.Request.Line = text
	b.advance(ctx, chatID, state, StepModel)
}

func (b *Bot) handleModel(ctx context.Context, msg *tgbotapi.Message, state UserState) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	model, ok := b.catalog.Model(text)
	if !ok || model.Line != state.Request.Line {
		b.sendError(chatID, "Wybierz model z klawiatury")
		b.ask(chatID, state)
		return
	}

	state.Request.Model = model.Name
	b.advance(ctx, chatID, state, StepFurnace)
}

func (b *Bot) handleFurnace(ctx context.Context, msg *tgbotapi.Message, state UserState) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	switch {
	case text == BtnNoFurnace:
		state.Request.Furnace = ""
	case b.catalog.HasFurnace(text):
		state.Request.Furnace = text
	default:
		b.sendError(chatID, "Wybierz piec z klawiatury")
		b.ask(chatID, state)
		return
	}

	b.advance(ctx, chatID, state, StepPaint)
}

func (b *Bot) handlePaint(ctx context.Context, msg *tgbotapi.Message, state UserState) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	n := 0
	if text != BtnNoPaint {
		n = quotation.ParseMultiplier(text)
		if n == 0 && text != "0" {
			b.sendError(chatID, fmt.Sprintf("Podaj liczbę malowań od 0 do %d, np. 1 lub 2", quotation.MaxPaintMultiplier))
			return
		}
	}

	state.Request.Paint = strconv.Itoa(n)
	b.advance(ctx, chatID, state, StepLocation)
}

func (b *Bot) handleLocation(ctx context.Context, msg *tgbotapi.Message, state UserState) {
	chatID := msg.Chat.ID
	address := strings.TrimSpace(msg.Text)
	if address == BtnSkip {
		address = ""
	}

	if address != "" && !b.allowQuote(ctx, msg) {
		b.sendError(chatID, "Zbyt wiele zapytań o lokalizację. Spróbuj ponownie za chwilę.")
		return
	}

	delivery := b.quoter.Delivery(ctx, address)
	state.Request.Address = address
	state.Delivery = delivery

	b.sendText(chatID, FormatDeliveryPreview(b.quoter.Origin().Label, delivery), nil)
	b.advance(ctx, chatID, state, StepCustomDelivery)
}

// allowQuote applies the per-user geocoding quota. Limiter failures let
// the request through.
func (b *Bot) allowQuote(ctx context.Context, msg *tgbotapi.Message) bool {
	if b.limiter == nil {
		return true
	}
	userID := senderID(msg)
	allowed, err := b.limiter.CheckRateLimit(ctx, userID, b.opts.RateLimit, b.opts.RateWindow)
	if err != nil {
		b.logger.Warn("Rate limit check failed",
			zap.Int64("user_id", userID),
			zap.Error(err))
		return true
	}
	if !allowed {
		b.logger.Info("Rate limit exceeded", zap.Int64("user_id", userID))
	}
	return allowed
}

func (b *Bot) handleCustomDelivery(ctx context.Context, msg *tgbotapi.Message, state UserState) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)
	if text == BtnSkip {
		text = ""
	}

	if _, err := quotation.ParseAmount(text); err != nil {
		b.sendError(chatID, fmt.Sprintf("Nie rozumiem kwoty. Podaj np. \"1000 zł\" (maks. %s %s) albo pomiń.",
			quotation.FormatAmount(quotation.MaxAmount), currency))
		return
	}

	state.Request.CustomDelivery = text
	b.advance(ctx, chatID, state, StepConfirmation)
}

func (b *Bot) handleConfirmation(ctx context.Context, msg *tgbotapi.Message, state UserState) {
	chatID := msg.Chat.ID
	if strings.TrimSpace(msg.Text) != BtnConfirm {
		b.sendError(chatID, fmt.Sprintf("Naciśnij \"%s\" lub \"%s\"", BtnConfirm, BtnCancel))
		return
	}

	res := b.quoter.Price(state.Request, state.Delivery)
	offer := storage.NewOffer(state.Request, res, senderID(msg), senderName(msg), b.now())

	if _, err := b.storage.SaveOffer(ctx, &offer); err != nil {
		b.logger.Error("Failed to save offer",
			zap.Int64("chat_id", chatID),
			zap.String("model", offer.Model),
			zap.Error(err))
		b.sendError(chatID, "Nie udało się zapisać oferty, spróbuj ponownie")
		return
	}

	if err := b.state.Clear(ctx, chatID); err != nil {
		b.logger.Error("Failed to clear state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}

	b.sendText(chatID, fmt.Sprintf(
		"✅ Oferta %s (nr %d) została zapisana.\nRazem: %s %s\n\nSkontaktujemy się z Tobą wkrótce.",
		offer.OfferNumber, offer.ID, quotation.FormatAmount(offer.TotalPrice), currency,
	), b.createStartKeyboard())

	b.NotifyAdmins(ctx, offer)
}
