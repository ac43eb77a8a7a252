package catalog

import (
	"context"
	"fmt"
	"log"

	opterrors "github.com/ducminhle1904/portfolio-ga/internal/errors"
	"github.com/ducminhle1904/portfolio-ga/internal/exchange/bybit"
	"github.com/ducminhle1904/portfolio-ga/pkg/types"
)

// KlineClient is the part of the Bybit client the market catalog uses
type KlineClient interface {
	GetKlines(ctx context.Context, params bybit.KlineParams) ([]bybit.Kline, error)
}

// BybitConfig selects the symbols and candle window for a market catalog
type BybitConfig struct {
	Symbols   []string
	Benchmark string
	Category  string
	Interval  bybit.KlineInterval
	Limit     int
}

// BybitProvider builds assets from Bybit kline history, measuring beta against a benchmark symbol
type BybitProvider struct {
	client KlineClient
	config BybitConfig
	cache  SeriesCache
}

// NewBybitProvider creates a market catalog provider
func NewBybitProvider(client KlineClient, config BybitConfig) *BybitProvider {
	if config.Category == "" {
		config.Category = "spot"
	}
	if config.Interval == "" {
		config.Interval = bybit.Interval1d
	}
	if config.Limit == 0 {
		config.Limit = 365
	}
	return &BybitProvider{
		client: client,
		config: config,
		cache:  NewMemoryCache(),
	}
}

// WithCache replaces the series cache
func (p *BybitProvider) WithCache(cache SeriesCache) *BybitProvider {
	p.cache = cache
	return p
}

func (p *BybitProvider) GetName() string {
	return fmt.Sprintf("Bybit %s (%s x%d, benchmark %s)", p.config.Category, p.config.Interval, p.config.Limit, p.config.Benchmark)
}

// Load downloads the benchmark and every symbol, then derives the assets
func (p *BybitProvider) Load(ctx context.Context) ([]types.Asset, error) {
	if len(p.config.Symbols) == 0 {
		return nil, opterrors.NewConfigurationError("catalog", "BybitProvider.Load", "no symbols configured")
	}
	if p.config.Benchmark == "" {
		return nil, opterrors.NewConfigurationError("catalog", "BybitProvider.Load", "no benchmark symbol configured")
	}

	benchmark, err := p.series(ctx, p.config.Benchmark)
	if err != nil {
		return nil, err
	}

	all := make(map[string][]types.OHLCV, len(p.config.Symbols))
	for _, symbol := range p.config.Symbols {
		data, err := p.series(ctx, symbol)
		if err != nil {
			return nil, err
		}
		all[symbol] = data
	}

	assets, err := AssetsFromMarketData(p.config.Symbols, all, benchmark)
	if err != nil {
		return nil, opterrors.NewDataError("catalog", "BybitProvider.Load", err)
	}
	return assets, nil
}

func (p *BybitProvider) series(ctx context.Context, symbol string) ([]types.OHLCV, error) {
	key := fmt.Sprintf("%s:%s:%s:%d", p.config.Category, symbol, p.config.Interval, p.config.Limit)
	if cached, ok := p.cache.Get(key); ok {
		return cached, nil
	}

	log.Printf("🔄 Fetching %s klines for %s", p.config.Interval, symbol)
	klines, err := p.client.GetKlines(ctx, bybit.KlineParams{
		Category: p.config.Category,
		Symbol:   symbol,
		Interval: p.config.Interval,
		Limit:    p.config.Limit,
	})
	if err != nil {
		return nil, opterrors.NewNetworkError("catalog", "fetchKlines", err).
			WithContext("symbol", symbol)
	}

	data := make([]types.OHLCV, len(klines))
	for i, k := range klines {
		data[i] = types.OHLCV{
			Timestamp: k.StartTime,
			Open:      k.OpenPrice,
			High:      k.HighPrice,
			Low:       k.LowPrice,
			Close:     k.ClosePrice,
			Volume:    k.Volume,
		}
	}
	p.cache.Set(key, data)
	log.Printf("✅ Loaded %d candles for %s", len(data), symbol)
	return data, nil
}
