package catalog

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	opterrors "github.com/ducminhle1904/portfolio-ga/internal/errors"
	"github.com/ducminhle1904/portfolio-ga/internal/exchange/bybit"
	"github.com/ducminhle1904/portfolio-ga/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Load(context.Background(), NewDefaultProvider())
	require.NoError(t, err)

	assert.Equal(t, 13, c.Len())
	assert.Equal(t, "Default Catalog", c.Source())

	names, variations, betas, risks := c.Vectors()
	assert.Equal(t, "ITUB", names[0])
	assert.Equal(t, "PETR", names[12])
	assert.Equal(t, 290.64, variations[11])
	assert.Equal(t, 0.52, betas[6])
	assert.Equal(t, 17.0, risks[12])

	u, err := c.Universe()
	require.NoError(t, err)
	assert.Equal(t, 13, u.Size())
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name   string
		assets []types.Asset
	}{
		{"empty", nil},
		{"blank name", []types.Asset{{Name: " ", Risk: 1}}},
		{"duplicate", []types.Asset{{Name: "A", Risk: 1}, {Name: "A", Risk: 2}}},
		{"negative risk", []types.Asset{{Name: "A", Risk: -1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("test", tt.assets)
			require.Error(t, err)

			var optErr *opterrors.OptimizerError
			require.True(t, errors.As(err, &optErr))
			assert.Equal(t, opterrors.ErrorCategoryData, optErr.Category)
		})
	}
}

func TestCatalog_SelectAndCopies(t *testing.T) {
	c, err := New("test", []types.Asset{
		{Name: "A", Variation: 1, Beta: 1, Risk: 1},
		{Name: "B", Variation: 2, Beta: 1, Risk: 1},
		{Name: "C", Variation: 3, Beta: 1, Risk: 1},
	})
	require.NoError(t, err)

	selected := c.Select([]bool{true, false, true, true})
	require.Len(t, selected, 2)
	assert.Equal(t, "A", selected[0].Name)
	assert.Equal(t, "C", selected[1].Name)

	assets := c.Assets()
	assets[0].Name = "changed"
	assert.Equal(t, "A", c.Assets()[0].Name)
}

func TestParseAssetsCSV(t *testing.T) {
	input := strings.Join([]string{
		"risk,name,beta,variation,sector",
		"1.4,ITUB,1.06,2.8,banks",
		"oops,BAD,1,1,x",
		"2,,1,1,x",
		"-1,NEG,1,1,x",
		"0.75, WEGE ,0.52,1.5,industry",
		"short",
	}, "\n")

	assets, err := ParseAssetsCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, assets, 2)

	assert.Equal(t, types.Asset{Name: "ITUB", Variation: 2.8, Beta: 1.06, Risk: 1.4}, assets[0])
	assert.Equal(t, "WEGE", assets[1].Name)
}

func TestParseAssetsCSV_Errors(t *testing.T) {
	_, err := ParseAssetsCSV(strings.NewReader(""))
	assert.Error(t, err)

	_, err = ParseAssetsCSV(strings.NewReader("name,variation,beta\nA,1,1\n"))
	assert.ErrorContains(t, err, "risk")

	_, err = ParseAssetsCSV(strings.NewReader("name,variation,beta,risk\nA,x,1,1\n"))
	assert.ErrorContains(t, err, "no valid rows")
}

func TestCSVProvider_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assets.csv")

	var buf bytes.Buffer
	require.NoError(t, WriteAssetsCSV(&buf, DefaultAssets()))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	provider := NewCSVProvider(path)
	assert.Equal(t, "CSV assets.csv", provider.GetName())

	c, err := Load(context.Background(), provider)
	require.NoError(t, err)
	assert.Equal(t, DefaultAssets(), c.Assets())
}

func TestCSVProvider_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), NewCSVProvider(filepath.Join(t.TempDir(), "missing.csv")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func candles(start time.Time, closes ...float64) []types.OHLCV {
	out := make([]types.OHLCV, len(closes))
	for i, c := range closes {
		out[i] = types.OHLCV{Timestamp: start.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c}
	}
	return out
}

func TestAssetFromSeries(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bench := candles(start, 100, 110, 99, 108.9)

	self, err := AssetFromSeries("BENCH", bench, bench)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, self.Beta, 1e-12)
	assert.InDelta(t, 8.9, self.Variation, 1e-9)
	assert.Greater(t, self.Risk, 0.0)

	// Twice the benchmark's moves: returns 20%, -20%, 20%
	double := candles(start, 50, 60, 48, 57.6)
	asset, err := AssetFromSeries("DOUBLE", double, bench)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, asset.Beta, 1e-9)
	assert.InDelta(t, 15.2, asset.Variation, 1e-9)
	assert.InDelta(t, 2*self.Risk, asset.Risk, 1e-9)
}

func TestAssetFromSeries_AlignsTimestamps(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bench := candles(start, 100, 110, 99, 108.9)

	// Extra leading candle and reversed order: only the shared dates count
	series := append(candles(start.AddDate(0, 0, -1), 1), candles(start, 100, 110, 99, 108.9)...)
	for i, j := 0, len(series)-1; i < j; i, j = i+1, j-1 {
		series[i], series[j] = series[j], series[i]
	}

	asset, err := AssetFromSeries("X", series, bench)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, asset.Beta, 1e-12)
	assert.InDelta(t, 8.9, asset.Variation, 1e-9)
}

func TestAssetFromSeries_Errors(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := AssetFromSeries("X", candles(start, 1, 2), candles(start, 1, 2))
	assert.ErrorContains(t, err, "overlap")

	_, err = AssetFromSeries("X", candles(start, 1, 2, 3), candles(start, 5, 5, 5))
	assert.ErrorContains(t, err, "zero variance")

	_, err = AssetsFromMarketData([]string{"MISSING"}, map[string][]types.OHLCV{}, candles(start, 1, 2, 3))
	assert.ErrorContains(t, err, "MISSING")
}

type stubKlineClient struct {
	series map[string][]float64
	start  time.Time
	calls  map[string]int
	err    error
}

func (s *stubKlineClient) GetKlines(ctx context.Context, params bybit.KlineParams) ([]bybit.Kline, error) {
	s.calls[params.Symbol]++
	if s.err != nil {
		return nil, s.err
	}
	closes := s.series[params.Symbol]
	out := make([]bybit.Kline, len(closes))
	for i, c := range closes {
		out[i] = bybit.Kline{StartTime: s.start.AddDate(0, 0, i), OpenPrice: c, HighPrice: c, LowPrice: c, ClosePrice: c}
	}
	return out, nil
}

func TestBybitProvider_Load(t *testing.T) {
	client := &stubKlineClient{
		start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		calls: map[string]int{},
		series: map[string][]float64{
			"BTCUSDT": {100, 110, 99, 108.9},
			"ETHUSDT": {50, 60, 48, 57.6},
		},
	}

	provider := NewBybitProvider(client, BybitConfig{
		Symbols:   []string{"ETHUSDT", "BTCUSDT"},
		Benchmark: "BTCUSDT",
	})

	c, err := Load(context.Background(), provider)
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())

	assets := c.Assets()
	assert.Equal(t, "ETHUSDT", assets[0].Name)
	assert.InDelta(t, 2.0, assets[0].Beta, 1e-9)
	assert.InDelta(t, 1.0, assets[1].Beta, 1e-12)

	// The benchmark is fetched once even though it is also a listed symbol
	assert.Equal(t, 1, client.calls["BTCUSDT"])
	assert.Equal(t, 1, client.calls["ETHUSDT"])
}

func TestBybitProvider_Errors(t *testing.T) {
	client := &stubKlineClient{calls: map[string]int{}, err: errors.New("dial tcp: connection refused")}

	_, err := NewBybitProvider(client, BybitConfig{Benchmark: "BTCUSDT"}).Load(context.Background())
	assert.True(t, opterrors.IsConfigurationError(err))

	_, err = NewBybitProvider(client, BybitConfig{Symbols: []string{"ETHUSDT"}, Benchmark: "BTCUSDT"}).Load(context.Background())
	var optErr *opterrors.OptimizerError
	require.True(t, errors.As(err, &optErr))
	assert.Equal(t, opterrors.ErrorCategoryNetwork, optErr.Category)
	assert.True(t, optErr.IsRetryable())
}

func TestMemoryCache(t *testing.T) {
	cache := NewMemoryCache()
	data := candles(time.Now(), 1, 2, 3)

	cache.Set("k", data)
	data[0].Close = 99

	got, ok := cache.Get("k")
	require.True(t, ok)
	assert.Equal(t, 1.0, got[0].Close)
	assert.Equal(t, 1, cache.Size())

	cache.Clear()
	_, ok = cache.Get("k")
	assert.False(t, ok)
}
