package storage

import (
	"time"

	"github.com/google/uuid"

	"sauna-offer-bot/internal/quotation"
)

// Offer is an issued quotation as archived in the offers table.
type Offer struct {
	ID          int64     `db:"id"`
	Reference   uuid.UUID `db:"reference"`
	OfferNumber string    `db:"offer_number"`
	UserID      int64     `db:"user_id"`
	Username    string    `db:"username"`

	Line               string  `db:"line"`
	Model              string  `db:"model"`
	Furnace            string  `db:"furnace"`
	PaintMultiplier    int     `db:"paint_multiplier"`
	Location           string  `db:"location"`
	CustomDeliveryText string  `db:"custom_delivery_text"`
	DistanceKm         float64 `db:"distance_km"`

	ModelPrice         float64 `db:"model_price"`
	FurnacePrice       float64 `db:"furnace_price"`
	PaintCost          float64 `db:"paint_cost"`
	DeliveryCost       float64 `db:"delivery_cost"`
	CustomDeliveryCost float64 `db:"custom_delivery_cost"`
	TotalPrice         float64 `db:"total_price"`

	Resolution string    `db:"resolution"`
	Diagnostic string    `db:"diagnostic"`
	CreatedAt  time.Time `db:"created_at"`
}

// NewOffer snapshots a computed quotation for archiving.
func NewOffer(req quotation.Request, res quotation.Result, userID int64, username string, at time.Time) Offer {
	return Offer{
		OfferNumber:        quotation.OfferNumber(at),
		UserID:             userID,
		Username:           username,
		Line:               req.Line,
		Model:              req.Model,
		Furnace:            req.Furnace,
		PaintMultiplier:    res.PaintMultiplier,
		Location:           req.Address,
		CustomDeliveryText: req.CustomDelivery,
		DistanceKm:         res.DistanceKm,
		ModelPrice:         res.ModelPrice,
		FurnacePrice:       res.FurnacePrice,
		PaintCost:          res.PaintCost,
		DeliveryCost:       res.DeliveryCost,
		CustomDeliveryCost: res.CustomDeliveryCost,
		TotalPrice:         res.TotalPrice,
		Resolution:         res.State.String(),
		Diagnostic:         res.Message(),
		CreatedAt:          at,
	}
}
