package quotation

const (
	// RoundTripFactor accounts for the truck driving back to the workshop.
	RoundTripFactor = 2
	// RatePerKm is the transport rate in PLN per kilometre.
	RatePerKm = 2.5
)

// Resolution is the outcome of the delivery address lookup.
type Resolution int

const (
	NoAddress Resolution = iota
	Resolved
	Unresolved
)

func (r Resolution) String() string {
	switch r {
	case NoAddress:
		return "no_address"
	case Resolved:
		return "resolved"
	case Unresolved:
		return "unresolved"
	default:
		return "unknown"
	}
}

// DeliveryInfo is the delivery part of a quotation.
type DeliveryInfo struct {
	State        Resolution `json:"state"`
	DistanceKm   float64    `json:"distance_km"`
	DeliveryCost float64    `json:"delivery_cost"`
	Message      string     `json:"message"`
}

// DeliveryCost converts a one-way distance into the delivery fee.
func DeliveryCost(distanceKm float64) float64 {
	if distanceKm <= 0 {
		return 0
	}
	return distanceKm * RoundTripFactor * RatePerKm
}
