package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"sauna-offer-bot/internal/config"
)

var ErrOfferNotFound = errors.New("offer not found")

type PostgresStorage struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewPostgresStorage(ctx context.Context, cfg config.DBConfig, logger *zap.Logger) (*PostgresStorage, error) {
	const operation = "storage.NewPostgresStorage"

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	var db *sqlx.DB

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = 2 * time.Minute
	retryPolicy.MaxInterval = 15 * time.Second

	logger.Info("Connecting to PostgreSQL...",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Name))

	err := backoff.RetryNotify(
		func() error {
			conn, err := sqlx.ConnectContext(ctx, "postgres", connStr)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			if err := conn.PingContext(ctx); err != nil {
				_ = conn.Close()
				return fmt.Errorf("ping: %w", err)
			}
			db = conn
			return nil
		},
		backoff.WithContext(retryPolicy, ctx),
		func(err error, next time.Duration) {
			logger.Warn("PostgreSQL connection failed, retrying...",
				zap.Error(err),
				zap.Duration("next_attempt_in", next))
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect after retries: %w", operation, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	logger.Info("Successfully connected to PostgreSQL")
	return NewWithDB(db, logger), nil
}

// NewWithDB wraps an already opened connection.
func NewWithDB(db *sqlx.DB, logger *zap.Logger) *PostgresStorage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresStorage{db: db, logger: logger}
}

// DB exposes the raw handle for migrations.
func (s *PostgresStorage) DB() *sql.DB {
	return s.db.DB
}

func (s *PostgresStorage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

const offerColumns = `id, reference, offer_number, user_id, username, line, model, furnace,
	paint_multiplier, location, custom_delivery_text, distance_km, model_price,
	furnace_price, paint_cost, delivery_cost, custom_delivery_cost, total_price,
	resolution, diagnostic, created_at`

// SaveOffer inserts the offer and fills in its ID. A missing reference
// or creation time is generated.
func (s *PostgresStorage) SaveOffer(ctx context.Context, offer *Offer) (int64, error) {
	const operation = "storage.SaveOffer"

	if offer.Reference == uuid.Nil {
		ref, err := uuid.NewV7()
		if err != nil {
			return 0, fmt.Errorf("%s: generate reference: %w", operation, err)
		}
		offer.Reference = ref
	}
	if offer.CreatedAt.IsZero() {
		offer.CreatedAt = time.Now()
	}

	const query = `
		INSERT INTO offers (
			reference, offer_number, user_id, username, line, model, furnace,
			paint_multiplier, location, custom_delivery_text, distance_km,
			model_price, furnace_price, paint_cost, delivery_cost,
			custom_delivery_cost, total_price, resolution, diagnostic, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING id
	`

	var id int64
	err := s.db.QueryRowContext(ctx, query,
		offer.Reference,
		offer.OfferNumber,
		offer.UserID,
		offer.Username,
		offer.Line,
		offer.Model,
		offer.Furnace,
		offer.PaintMultiplier,
		offer.Location,
		offer.CustomDeliveryText,
		offer.DistanceKm,
		offer.ModelPrice,
		offer.FurnacePrice,
		offer.PaintCost,
		offer.DeliveryCost,
		offer.CustomDeliveryCost,
		offer.TotalPrice,
		offer.Resolution,
		offer.Diagnostic,
		offer.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", operation, err)
	}

	offer.ID = id
	s.logger.Info("Offer saved",
		zap.Int64("offer_id", id),
		zap.Int64("user_id", offer.UserID),
		zap.String("model", offer.Model),
		zap.Float64("total", offer.TotalPrice))

	return id, nil
}

func (s *PostgresStorage) GetOfferByID(ctx context.Context, id int64) (*Offer, error) {
	const operation = "storage.GetOfferByID"

	var offer Offer
	err := s.db.GetContext(ctx, &offer, `SELECT `+offerColumns+` FROM offers WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", operation, ErrOfferNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return &offer, nil
}

// ListOffers returns the newest offers first. limit <= 0 means all.
func (s *PostgresStorage) ListOffers(ctx context.Context, limit int) ([]Offer, error) {
	const operation = "storage.ListOffers"

	query := `SELECT ` + offerColumns + ` FROM offers ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	var offers []Offer
	if err := s.db.SelectContext(ctx, &offers, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return offers, nil
}

type OfferStatistics struct {
	TotalOffers  int     `db:"total_offers"`
	TotalRevenue float64 `db:"total_revenue"`
	TodayOffers  int     `db:"today_offers"`
	TodayRevenue float64 `db:"today_revenue"`
	MonthOffers  int     `db:"month_offers"`
	MonthRevenue float64 `db:"month_revenue"`

	ModelCounts map[string]int `db:"-"`
}

func (s *PostgresStorage) GetOfferStatistics(ctx context.Context) (*OfferStatistics, error) {
	const operation = "storage.GetOfferStatistics"

	stats := &OfferStatistics{ModelCounts: make(map[string]int)}

	err := s.db.GetContext(ctx, stats, `
		SELECT
			COUNT(*) AS total_offers,
			COALESCE(SUM(total_price), 0) AS total_revenue,
			COUNT(*) FILTER (WHERE created_at >= CURRENT_DATE) AS today_offers,
			COALESCE(SUM(total_price) FILTER (WHERE created_at >= CURRENT_DATE), 0) AS today_revenue,
			COUNT(*) FILTER (WHERE created_at >= CURRENT_DATE - INTERVAL '30 days') AS month_offers,
			COALESCE(SUM(total_price) FILTER (WHERE created_at >= CURRENT_DATE - INTERVAL '30 days'), 0) AS month_revenue
		FROM offers
	`)
	if err != nil {
		return nil, fmt.Errorf("%s: totals: %w", operation, err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT model, COUNT(*) AS count FROM offers GROUP BY model`)
	if err != nil {
		return nil, fmt.Errorf("%s: model counts: %w", operation, err)
	}
	defer rows.Close()

	for rows.Next() {
		var model string
		var count int
		if err := rows.Scan(&model, &count); err != nil {
			return nil, fmt.Errorf("%s: scan model count: %w", operation, err)
		}
		stats.ModelCounts[model] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}

	return stats, nil
}
