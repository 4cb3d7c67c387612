package bot

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"sauna-offer-bot/internal/geo"
	"sauna-offer-bot/internal/quotation"
	"sauna-offer-bot/internal/storage"
)

// TelegramAPI is the part of *tgbotapi.BotAPI the bot uses.
type TelegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// StateStore persists dialog state per chat. GetState must return
// redis.ErrNotFound for chats without state.
type StateStore interface {
	SaveState(ctx context.Context, chatID int64, state any) error
	GetState(ctx context.Context, chatID int64, state any) error
	ClearState(ctx context.Context, chatID int64) error
}

type RateLimiter interface {
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

type OfferStorage interface {
	SaveOffer(ctx context.Context, offer *storage.Offer) (int64, error)
	GetOfferByID(ctx context.Context, id int64) (*storage.Offer, error)
	GetOfferStatistics(ctx context.Context) (*storage.OfferStatistics, error)
	ExportAllOffersToExcel(ctx context.Context, dir string) (string, error)
}

// Quoter is the quotation engine as seen by the dialog: the delivery is
// previewed once when the address is entered and reused for the offer.
type Quoter interface {
	Delivery(ctx context.Context, address string) quotation.DeliveryInfo
	Price(req quotation.Request, delivery quotation.DeliveryInfo) quotation.Result
	Origin() geo.Location
}
