package catalog

import (
	"context"

	"github.com/ducminhle1904/portfolio-ga/pkg/types"
)

// Provider produces the asset records for one optimization run
type Provider interface {
	// Load returns the assets in catalog order
	Load(ctx context.Context) ([]types.Asset, error)

	// GetName returns the name of the provider
	GetName() string
}

// SeriesCache stores downloaded candle series keyed by symbol and interval
type SeriesCache interface {
	Get(key string) ([]types.OHLCV, bool)
	Set(key string, data []types.OHLCV)
	Clear()
	Size() int
}
