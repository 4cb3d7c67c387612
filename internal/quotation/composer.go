package quotation

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// PriceList is the read-only catalog view the composer needs.
type PriceList interface {
	ModelPrice(model string) int
	PaintPrice(model string) int
	FurnacePrice(furnace string) int
}

type Composer struct {
	prices PriceList
	logger *zap.Logger
}

func NewComposer(prices PriceList, logger *zap.Logger) *Composer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Composer{prices: prices, logger: logger}
}

// Compose prices the request with the given delivery information.
// It never fails: unknown catalog keys price at 0 and an unreadable
// custom delivery text counts as 0 with a diagnostic.
func (c *Composer) Compose(req Request, delivery DeliveryInfo) Result {
	res := Result{
		ModelPrice:   float64(c.prices.ModelPrice(req.Model)),
		FurnacePrice: float64(c.prices.FurnacePrice(req.Furnace)),
		DeliveryCost: delivery.DeliveryCost,
		DistanceKm:   delivery.DistanceKm,
		State:        delivery.State,
	}
	if delivery.Message != "" {
		res.Diagnostics = append(res.Diagnostics, delivery.Message)
	}

	if n := ParseMultiplier(req.Paint); n > 0 {
		res.PaintMultiplier = n
		res.PaintCost = float64(c.prices.PaintPrice(req.Model)) * float64(n)
	}

	custom, err := ParseAmount(req.CustomDelivery)
	var amountErr *AmountError
	if errors.As(err, &amountErr) {
		c.logger.Warn("Custom delivery text ignored",
			zap.String("text", req.CustomDelivery),
			zap.String("reason", amountErr.Reason))
		res.Diagnostics = append(res.Diagnostics,
			fmt.Sprintf("custom delivery %q not understood; counted as 0", req.CustomDelivery))
		custom = 0
	}
	res.CustomDeliveryCost = custom

	res.TotalPrice = res.ModelPrice + res.FurnacePrice + res.PaintCost + res.DeliveryCost + res.CustomDeliveryCost

	return res
}
