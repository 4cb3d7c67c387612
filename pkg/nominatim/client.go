package nominatim

// NOMINATIM (OpenStreetMap) GEOCODING CLIENT

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"sauna-offer-bot/internal/geo"
)

const (
	DefaultBaseURL   = "https://nominatim.openstreetmap.org"
	DefaultUserAgent = "SaunaOffersApp/1.0"
	DefaultCountry   = "pl"
	DefaultTimeout   = 10 * time.Second
)

// maxBodySize caps how much of a response is read; one candidate is a few hundred bytes.
const maxBodySize = 1 << 20

type Config struct {
	BaseURL     string
	UserAgent   string
	CountryCode string
	Timeout     time.Duration
}

type Client struct {
	baseURL     string
	userAgent   string
	countryCode string
	timeout     time.Duration
	httpClient  *http.Client
	logger      *zap.Logger
}

// place is one element of the /search response array.
type place struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.CountryCode == "" {
		cfg.CountryCode = DefaultCountry
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:   cfg.UserAgent,
		countryCode: cfg.CountryCode,
		timeout:     cfg.Timeout,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// Resolve looks up a free-text address and returns the coordinate of the
// first candidate. It performs exactly one request and never retries;
// every failure is a *GeocodeError.
func (c *Client) Resolve(ctx context.Context, address string) (geo.Coordinate, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return geo.Coordinate{}, c.fail(NetworkFailure, address, 0, fmt.Errorf("bad base url: %w", err))
	}

	q := u.Query()
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("countrycodes", c.countryCode)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return geo.Coordinate{}, c.fail(NetworkFailure, address, 0, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return geo.Coordinate{}, c.fail(NetworkFailure, address, 0, fmt.Errorf("do request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return geo.Coordinate{}, c.fail(NetworkFailure, address, resp.StatusCode, errors.New("unexpected status"))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		// a body cut short by the deadline is a transport problem, not a bad payload
		return geo.Coordinate{}, c.fail(NetworkFailure, address, resp.StatusCode, fmt.Errorf("read response: %w", err))
	}

	var places []place
	if err := json.Unmarshal(body, &places); err != nil {
		return geo.Coordinate{}, c.fail(ResponseParseFailure, address, resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	if len(places) == 0 {
		return geo.Coordinate{}, c.fail(NotFound, address, 0, nil)
	}

	coord, err := places[0].coordinate()
	if err != nil {
		return geo.Coordinate{}, c.fail(ResponseParseFailure, address, resp.StatusCode, err)
	}

	c.logger.Debug("Address resolved",
		zap.String("address", address),
		zap.String("display_name", places[0].DisplayName),
		zap.Stringer("coordinate", coord))

	return coord, nil
}

func (p place) coordinate() (geo.Coordinate, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(p.Lat), 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("parse lat: %w", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(p.Lon), 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("parse lon: %w", err)
	}

	coord := geo.Coordinate{Lat: lat, Lon: lon}
	if err := coord.Validate(); err != nil {
		return geo.Coordinate{}, err
	}
	return coord, nil
}

func (c *Client) fail(kind Kind, address string, status int, err error) error {
	gerr := &GeocodeError{
		Kind:       kind,
		Address:    address,
		StatusCode: status,
		Err:        err,
	}
	c.logger.Warn("Geocoding failed",
		zap.String("address", address),
		zap.Stringer("kind", kind),
		zap.Int("status", status),
		zap.Error(err))
	return gerr
}
