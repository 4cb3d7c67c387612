package quotation

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"sauna-offer-bot/internal/geo"
	"sauna-offer-bot/pkg/nominatim"
)

// Geocoder resolves a free-text address to a coordinate.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (geo.Coordinate, error)
}

// Service turns a Request into a Result. It holds no per-request state
// and may be shared by concurrent callers.
type Service struct {
	geocoder Geocoder
	origin   geo.Location
	composer *Composer
	logger   *zap.Logger
}

func NewService(geocoder Geocoder, prices PriceList, origin geo.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		geocoder: geocoder,
		origin:   origin,
		composer: NewComposer(prices, logger),
		logger:   logger,
	}
}

// Quote always returns a complete result. Address problems degrade to a
// zero delivery cost with an explanation in the diagnostics.
func (s *Service) Quote(ctx context.Context, req Request) Result {
	return s.Price(req, s.Delivery(ctx, req.Address))
}

// Price composes the result for a delivery that was already resolved,
// e.g. one previewed earlier in a dialog.
func (s *Service) Price(req Request, delivery DeliveryInfo) Result {
	res := s.composer.Compose(req, delivery)

	s.logger.Debug("Quotation computed",
		zap.String("model", req.Model),
		zap.String("furnace", req.Furnace),
		zap.Stringer("state", res.State),
		zap.Float64("distance_km", res.DistanceKm),
		zap.Float64("total", res.TotalPrice))

	return res
}

// Delivery resolves the address and prices the transport.
func (s *Service) Delivery(ctx context.Context, address string) DeliveryInfo {
	address = strings.TrimSpace(address)
	if address == "" {
		return DeliveryInfo{
			State:   NoAddress,
			Message: "no address supplied",
		}
	}

	dest, err := s.geocoder.Resolve(ctx, address)
	if err != nil {
		kind := nominatim.KindOf(err)
		s.logger.Warn("Delivery address unresolved",
			zap.String("address", address),
			zap.Stringer("kind", kind),
			zap.Error(err))

		return DeliveryInfo{
			State:   Unresolved,
			Message: fmt.Sprintf("could not resolve address %q: %s; delivery cost defaulted to 0", address, kind),
		}
	}

	distance := geo.Distance(s.origin.Coordinate, dest)
	return DeliveryInfo{
		State:        Resolved,
		DistanceKm:   distance,
		DeliveryCost: DeliveryCost(distance),
		Message:      fmt.Sprintf("distance from %s to %s: %.2f km", s.origin.Label, address, distance),
	}
}

// Origin returns the configured delivery origin.
func (s *Service) Origin() geo.Location {
	return s.origin
}
