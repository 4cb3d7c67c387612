package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"sauna-offer-bot/internal/storage"
)

// NotifyAdmins sends every admin the offer summary and its xlsx sheet.
// Failures are logged; the customer flow does not depend on them.
func (b *Bot) NotifyAdmins(ctx context.Context, offer storage.Offer) {
	if len(b.opts.AdminIDs) == 0 {
		b.logger.Warn("Admin notifications disabled - no admin IDs configured")
		return
	}

	path, err := storage.ExportOfferToExcel(offer, b.opts.ReportsDir)
	if err != nil {
		b.logger.Error("Failed to create Excel file for offer",
			zap.Int64("offer_id", offer.ID),
			zap.Error(err))
	}
	defer b.removeReport(path)

	text := FormatOfferNotification(offer)
	for _, adminID := range b.opts.AdminIDs {
		if adminID == 0 {
			continue
		}
		if ctx.Err() != nil {
			return
		}

		if _, err := b.api.Send(tgbotapi.NewMessage(adminID, text)); err != nil {
			b.logger.Error("Failed to send admin notification",
				zap.Int64("chat_id", adminID),
				zap.Int64("offer_id", offer.ID),
				zap.Error(err))
			continue
		}

		if path != "" {
			_ = b.sendDocument(adminID, path, fmt.Sprintf("📊 Oferta %s (nr %d)", offer.OfferNumber, offer.ID))
		}
	}
}
