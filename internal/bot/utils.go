package bot

import (
	"fmt"
	"strings"

	"sauna-offer-bot/internal/quotation"
	"sauna-offer-bot/internal/storage"
)

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func money(v float64) string {
	return quotation.FormatAmount(v) + " " + currency
}

// FormatDeliveryPreview describes the delivery right after the address
// is entered.
func FormatDeliveryPreview(origin string, info quotation.DeliveryInfo) string {
	switch info.State {
	case quotation.Resolved:
		return fmt.Sprintf("📍 Odległość z %s: %.2f km\n🚚 Koszt dostawy: %s",
			origin, info.DistanceKm, money(info.DeliveryCost))
	case quotation.Unresolved:
		return "⚠️ Nie udało się ustalić lokalizacji. Koszt dostawy przyjęto jako 0 zł, możesz dodać dopłatę w następnym kroku."
	default:
		return "📍 Bez adresu: koszt dostawy nie jest liczony."
	}
}

// FormatSummary renders the configuration with its price breakdown.
func FormatSummary(req quotation.Request, res quotation.Result) string {
	var sb strings.Builder

	sb.WriteString("🧾 Podsumowanie oferty\n\n")
	fmt.Fprintf(&sb, "Typ: %s\n", orDash(req.Line))
	fmt.Fprintf(&sb, "Model: %s\n", orDash(req.Model))
	fmt.Fprintf(&sb, "Piec: %s\n", orDash(req.Furnace))
	fmt.Fprintf(&sb, "Malowanie: %dx\n", res.PaintMultiplier)
	fmt.Fprintf(&sb, "Lokalizacja: %s\n", orDash(req.Address))
	fmt.Fprintf(&sb, "Dopłata (podana): %s\n\n", orDash(req.CustomDelivery))

	fmt.Fprintf(&sb, "💰 Cena modelu: %s\n", money(res.ModelPrice))
	fmt.Fprintf(&sb, "🔥 Piec: %s\n", money(res.FurnacePrice))
	fmt.Fprintf(&sb, "🎨 Malowanie: %s\n", money(res.PaintCost))
	if res.State == quotation.Resolved {
		fmt.Fprintf(&sb, "🚚 Dostawa (%.2f km): %s\n", res.DistanceKm, money(res.DeliveryCost))
	} else {
		fmt.Fprintf(&sb, "🚚 Dostawa: %s\n", money(res.DeliveryCost))
	}
	fmt.Fprintf(&sb, "➕ Dopłata za dostawę: %s\n", money(res.CustomDeliveryCost))
	fmt.Fprintf(&sb, "\nRazem: %s", money(res.TotalPrice))

	return sb.String()
}

// FormatOfferNotification is the admin view of an archived offer.
func FormatOfferNotification(o storage.Offer) string {
	user := fmt.Sprintf("%d", o.UserID)
	if o.Username != "" {
		user = fmt.Sprintf("@%s (%d)", o.Username, o.UserID)
	}

	return fmt.Sprintf(
		"📦 Nowa oferta %s (nr %d)\n"+
			"Klient: %s\n"+
			"Typ: %s\n"+
			"Model: %s\n"+
			"Piec: %s\n"+
			"Malowanie: %dx\n"+
			"Lokalizacja: %s (%.2f km)\n"+
			"Dopłata za dostawę: %s\n\n"+
			"Model: %s\nPiec: %s\nMalowanie: %s\nDostawa: %s\nDopłata: %s\n"+
			"Razem: %s\n\n"+
			"ℹ️ %s",
		o.OfferNumber, o.ID,
		user,
		orDash(o.Line),
		orDash(o.Model),
		orDash(o.Furnace),
		o.PaintMultiplier,
		orDash(o.Location), o.DistanceKm,
		orDash(o.CustomDeliveryText),
		money(o.ModelPrice), money(o.FurnacePrice), money(o.PaintCost),
		money(o.DeliveryCost), money(o.CustomDeliveryCost),
		money(o.TotalPrice),
		orDash(o.Diagnostic),
	)
}

func FormatStatistics(s *storage.OfferStatistics) string {
	var sb strings.Builder

	sb.WriteString("📊 Statystyki ofert\n\n")
	fmt.Fprintf(&sb, "📌 Wszystkie: %d (%s)\n", s.TotalOffers, money(s.TotalRevenue))
	fmt.Fprintf(&sb, "📅 Dzisiaj: %d (%s)\n", s.TodayOffers, money(s.TodayRevenue))
	fmt.Fprintf(&sb, "📅 Ostatnie 30 dni: %d (%s)\n", s.MonthOffers, money(s.MonthRevenue))

	if len(s.ModelCounts) > 0 {
		sb.WriteString("\nWedług modelu:\n")
		for _, name := range sortedKeys(s.ModelCounts) {
			fmt.Fprintf(&sb, "• %s: %d\n", name, s.ModelCounts[name])
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}
