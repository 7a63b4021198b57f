package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gadgetbot/internal/model"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// PriceTolerance widens a stated budget into a soft ceiling
const PriceTolerance = 1.2

// ListingFilter selects rows from the market listings table.
// Zero values mean "no filter".
type ListingFilter struct {
	Text     string // substring of listing title or store name, case-insensitive
	MaxPrice int64  // budget before tolerance is applied
	Cap      uint64 // row cap used only when both filters are empty
}

// Unfiltered reports whether neither the text nor the price filter is set
func (f ListingFilter) Unfiltered() bool {
	return strings.TrimSpace(f.Text) == "" && f.MaxPrice <= 0
}

// PostgresRepository reads market listings
type PostgresRepository struct {
	db    *sqlx.DB
	table string
}

// NewPostgresRepository opens a lazily connected PostgreSQL pool.
// A failed ping is logged, not returned: market data is best effort and
// the server must come up without it.
func NewPostgresRepository(dsn, table string, maxConn, maxIdleConn int, logger *zap.Logger) (*PostgresRepository, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(30 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		logger.Warn("market database not reachable, listings will be empty until it is", zap.Error(err))
	}

	return &PostgresRepository{db: db, table: table}, nil
}

// NewPostgresRepositoryFromDB wraps an existing handle
func NewPostgresRepositoryFromDB(db *sqlx.DB, table string) *PostgresRepository {
	return &PostgresRepository{db: db, table: table}
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// Ping checks connectivity
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// QueryListings returns listings matching the filter, cheapest first
func (r *PostgresRepository) QueryListings(ctx context.Context, filter ListingFilter) ([]model.ListingRecord, error) {
	query, args, err := BuildListingQuery(r.table, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to build listing query: %w", err)
	}

	var listings []model.ListingRecord
	if err := r.db.SelectContext(ctx, &listings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch listings: %w", err)
	}
	return listings, nil
}

// BuildListingQuery renders the listings SELECT with bound parameters only
func BuildListingQuery(table string, filter ListingFilter) (string, []interface{}, error) {
	if table == "" {
		table = "tb_market_listings"
	}

	builder := sq.Select(
		"store_name",
		"listing_title",
		"price_idr AS price",
		"COALESCE(stock, 0) AS stock",
		"COALESCE(item_condition, '') AS condition",
	).
		From(table).
		PlaceholderFormat(sq.Dollar).
		OrderBy("price_idr ASC", "id ASC")

	if text := strings.TrimSpace(filter.Text); text != "" {
		pattern := "%" + escapeLike(text) + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"listing_title": pattern},
			sq.ILike{"store_name": pattern},
		})
	}

	if filter.MaxPrice > 0 {
		builder = builder.Where(sq.LtOrEq{"price_idr": float64(filter.MaxPrice) * PriceTolerance})
	}

	if filter.Unfiltered() && filter.Cap > 0 {
		builder = builder.Limit(filter.Cap)
	}

	return builder.ToSql()
}

// escapeLike makes user text match literally inside a LIKE pattern
func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}
