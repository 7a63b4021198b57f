package service

import (
	"context"

	"gadgetbot/internal/model"
	"gadgetbot/internal/observability"
	"gadgetbot/internal/repository"

	"go.uber.org/zap"
)

// DefaultMarketRowCap bounds an unfiltered market query
const DefaultMarketRowCap = 50

// ListingQuerier is the read side of the listings store
type ListingQuerier interface {
	QueryListings(ctx context.Context, filter repository.ListingFilter) ([]model.ListingRecord, error)
}

// MarketIndex fetches live listings. Market data is best effort: any store
// failure yields an empty result.
type MarketIndex struct {
	querier ListingQuerier
	rowCap  int
	logger  *zap.Logger
	metrics *observability.Collector
}

// NewMarketIndex creates a market index. A nil querier behaves like an
// unreachable store.
func NewMarketIndex(querier ListingQuerier, rowCap int, logger *zap.Logger, metrics *observability.Collector) *MarketIndex {
	if rowCap <= 0 {
		rowCap = DefaultMarketRowCap
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MarketIndex{querier: querier, rowCap: rowCap, logger: logger, metrics: metrics}
}

// Query returns listings whose title or store contains textFilter and whose
// price is within the tolerance band of maxPrice, cheapest first.
func (m *MarketIndex) Query(ctx context.Context, textFilter string, maxPrice int64) []model.ListingRecord {
	if m.querier == nil {
		m.degrade(ErrMarketUnavailable)
		return []model.ListingRecord{}
	}

	filter := repository.ListingFilter{
		Text:     textFilter,
		MaxPrice: maxPrice,
		Cap:      uint64(m.rowCap),
	}

	listings, err := m.querier.QueryListings(ctx, filter)
	if err != nil {
		m.degrade(err)
		return []model.ListingRecord{}
	}
	if listings == nil {
		listings = []model.ListingRecord{}
	}
	return listings
}

func (m *MarketIndex) degrade(err error) {
	m.logger.Warn("market query failed, continuing without listings", zap.Error(err))
	m.metrics.IncMarketDegraded()
}
