package bot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"sauna-offer-bot/internal/catalog"
)

type Options struct {
	AdminIDs   []int64
	RateLimit  int
	RateWindow time.Duration
	ReportsDir string
}

type Deps struct {
	State   StateStore
	Limiter RateLimiter
	Storage OfferStorage
	Quoter  Quoter
	Catalog *catalog.Catalog
}

type Bot struct {
	api      TelegramAPI
	logger   *zap.Logger
	state    *StateStorage
	limiter  RateLimiter
	storage  OfferStorage
	quoter   Quoter
	catalog  *catalog.Catalog
	opts     Options
	now      func() time.Time
	mu       sync.Mutex
	handlers map[string]func(context.Context, *tgbotapi.Message, UserState)
}

func New(token string, deps Deps, opts Options, logger *zap.Logger) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	logger.Info("Bot authorized",
		zap.String("username", botAPI.Self.UserName),
		zap.Int64("id", botAPI.Self.ID))

	return NewWithAPI(botAPI, deps, opts, logger), nil
}

func NewWithAPI(api TelegramAPI, deps Deps, opts Options, logger *zap.Logger) *Bot {
	if opts.ReportsDir == "" {
		opts.ReportsDir = "reports"
	}

	b := &Bot{
		api:     api,
		logger:  logger,
		state:   NewStateStorage(deps.State),
		limiter: deps.Limiter,
		storage: deps.Storage,
		quoter:  deps.Quoter,
		catalog: deps.Catalog,
		opts:    opts,
		now:     time.Now,
	}

	b.registerHandlers()
	return b
}

func (b *Bot) registerHandlers() {
	b.handlers = map[string]func(context.Context, *tgbotapi.Message, UserState){
		StepLine:           b.handleLine,
		StepModel:          b.handleModel,
		StepFurnace:        b.handleFurnace,
		StepPaint:          b.handlePaint,
		StepLocation:       b.handleLocation,
		StepCustomDelivery: b.handleCustomDelivery,
		StepConfirmation:   b.handleConfirmation,
	}
}

// Start consumes updates until ctx is cancelled. Updates are handled one
// at a time.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Starting bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Shutting down bot")
			b.api.StopReceivingUpdates()
			return nil

		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.mu.Lock()
			if update.Message != nil {
				b.processMessage(ctx, update.Message)
			}
			b.mu.Unlock()
		}
	}
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	b.logger.Debug("Processing message",
		zap.Int64("chat_id", chatID),
		zap.String("text", msg.Text))

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	state, err := b.state.Get(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get user state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Błąd podczas przetwarzania zapytania")
		return
	}

	text := strings.TrimSpace(msg.Text)
	switch text {
	case BtnCancel:
		b.handleCancel(ctx, chatID)
		return
	case BtnNewOffer:
		b.handleStart(ctx, chatID)
		return
	case BtnBack:
		b.handleBack(ctx, chatID, state)
		return
	}

	if handler, exists := b.handlers[state.Step]; exists {
		handler(ctx, msg, state)
	} else {
		b.handleDefault(ctx, chatID)
	}
}

func (b *Bot) isAdmin(userID int64) bool {
	for _, id := range b.opts.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func (b *Bot) saveState(ctx context.Context, chatID int64, state UserState) bool {
	if err := b.state.Save(ctx, chatID, state); err != nil {
		b.logger.Error("Failed to save user state",
			zap.Int64("chat_id", chatID),
			zap.String("step", state.Step),
			zap.Error(err))
		b.sendError(chatID, "Nie udało się zapisać odpowiedzi, spróbuj ponownie")
		return false
	}
	return true
}

func (b *Bot) sendMessage(msg tgbotapi.MessageConfig) {
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Int64("chat_id", msg.ChatID),
			zap.Error(err))
	}
}

func (b *Bot) sendText(chatID int64, text string, markup any) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	b.sendMessage(msg)
}

func (b *Bot) sendError(chatID int64, text string) {
	b.sendMessage(tgbotapi.NewMessage(chatID, "❌ "+text))
}

func (b *Bot) sendDocument(chatID int64, path, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = caption
	if _, err := b.api.Send(doc); err != nil {
		b.logger.Error("Failed to send document",
			zap.Int64("chat_id", chatID),
			zap.String("path", path),
			zap.Error(err))
		return err
	}
	return nil
}

// removeReport deletes a generated xlsx once it has been sent.
func (b *Bot) removeReport(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		b.logger.Warn("Failed to remove report file",
			zap.String("path", path),
			zap.Error(err))
	}
}
