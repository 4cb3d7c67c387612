package bot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"sauna-offer-bot/internal/storage"
)

func (b *Bot) handleAdminCommand(ctx context.Context, chatID int64, cmd string, args []string) {
	switch cmd {
	case "export":
		if len(args) == 0 {
			b.handleExportAllOffers(ctx, chatID)
			return
		}
		offerID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			b.sendError(chatID, "Nieprawidłowy numer oferty")
			return
		}
		b.handleExportSingleOffer(ctx, chatID, offerID)
	case "offer":
		if len(args) == 0 {
			b.sendError(chatID, "Użycie: /offer <ID>")
			return
		}
		offerID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			b.sendError(chatID, "Nieprawidłowy numer oferty")
			return
		}
		b.handleShowOffer(ctx, chatID, offerID)
	case "stats":
		b.handleOfferStats(ctx, chatID)
	default:
		b.sendError(chatID, "Nieznana komenda administratora")
	}
}

func (b *Bot) handleOfferStats(ctx context.Context, chatID int64) {
	stats, err := b.storage.GetOfferStatistics(ctx)
	if err != nil {
		b.logger.Error("Failed to get offer statistics", zap.Error(err))
		b.sendError(chatID, "Błąd podczas pobierania statystyk")
		return
	}
	b.sendText(chatID, FormatStatistics(stats), nil)
}

func (b *Bot) loadOffer(ctx context.Context, chatID, offerID int64) (*storage.Offer, bool) {
	offer, err := b.storage.GetOfferByID(ctx, offerID)
	if errors.Is(err, storage.ErrOfferNotFound) {
		b.sendError(chatID, fmt.Sprintf("Nie znaleziono oferty nr %d", offerID))
		return nil, false
	}
	if err != nil {
		b.logger.Error("Failed to get offer",
			zap.Int64("offer_id", offerID),
			zap.Error(err))
		b.sendError(chatID, "Błąd podczas pobierania oferty")
		return nil, false
	}
	return offer, true
}

func (b *Bot) handleShowOffer(ctx context.Context, chatID, offerID int64) {
	offer, ok := b.loadOffer(ctx, chatID, offerID)
	if !ok {
		return
	}
	b.sendText(chatID, FormatOfferNotification(*offer), nil)
}

func (b *Bot) handleExportAllOffers(ctx context.Context, chatID int64) {
	path, err := b.storage.ExportAllOffersToExcel(ctx, b.opts.ReportsDir)
	if err != nil {
		b.logger.Error("Failed to export all offers", zap.Error(err))
		b.sendError(chatID, "Nie udało się wyeksportować ofert")
		return
	}
	defer b.removeReport(path)

	if err := b.sendDocument(chatID, path, "📊 Eksport wszystkich ofert"); err != nil {
		b.sendError(chatID, "Nie udało się wysłać pliku")
	}
}

func (b *Bot) handleExportSingleOffer(ctx context.Context, chatID, offerID int64) {
	offer, ok := b.loadOffer(ctx, chatID, offerID)
	if !ok {
		return
	}

	path, err := storage.ExportOfferToExcel(*offer, b.opts.ReportsDir)
	if err != nil {
		b.logger.Error("Failed to export offer",
			zap.Int64("offer_id", offerID),
			zap.Error(err))
		b.sendError(chatID, "Nie udało się wyeksportować oferty")
		return
	}
	defer b.removeReport(path)

	if err := b.sendDocument(chatID, path, fmt.Sprintf("📊 Oferta %s (nr %d)", offer.OfferNumber, offer.ID)); err != nil {
		b.sendError(chatID, "Nie udało się wysłać pliku")
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
