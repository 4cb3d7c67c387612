package quotation

import "strings"

// Request is one sauna configuration to be priced. The engine only reads it.
type Request struct {
	Line           string `json:"type,omitempty"`
	Model          string `json:"model"`
	Furnace        string `json:"furnace"`
	Paint          string `json:"paint"`
	Address        string `json:"location"`
	CustomDelivery string `json:"custom_delivery"`
}

// Result is the priced breakdown of a Request.
// TotalPrice is always the sum of the five price components.
type Result struct {
	ModelPrice         float64
	FurnacePrice       float64
	PaintMultiplier    int
	PaintCost          float64
	DeliveryCost       float64
	CustomDeliveryCost float64
	TotalPrice         float64

	DistanceKm float64
	State      Resolution

	Diagnostics []string
}

// Message joins the diagnostics into one human readable line.
func (r Result) Message() string {
	return strings.Join(r.Diagnostics, "; ")
}

// Output is the pre-formatted view handed to whatever renders the offer.
// Nothing downstream does arithmetic on it.
type Output struct {
	ModelPrice         string  `json:"model_price"`
	FurnacePrice       string  `json:"furnace_price"`
	DeliveryCost       string  `json:"delivery_cost"`
	BasePaintPrice     string  `json:"base_paint_price"`
	CustomDeliveryCost string  `json:"custom_delivery_cost"`
	BasePrice          string  `json:"base_price"`
	DistanceKm         float64 `json:"distance_km"`
	Message            string  `json:"message"`
}

func (r Result) Output() Output {
	return Output{
		ModelPrice:         FormatAmount(r.ModelPrice),
		FurnacePrice:       FormatAmount(r.FurnacePrice),
		DeliveryCost:       FormatAmount(r.DeliveryCost),
		BasePaintPrice:     FormatAmount(r.PaintCost),
		CustomDeliveryCost: FormatAmount(r.CustomDeliveryCost),
		BasePrice:          FormatAmount(r.TotalPrice),
		DistanceKm:         r.DistanceKm,
		Message:            r.Message(),
	}
}
