package catalog

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ducminhle1904/portfolio-ga/pkg/types"
)

// MinAlignedCandles is the fewest candles shared with the benchmark needed to derive an asset
const MinAlignedCandles = 3

// AssetFromSeries derives variation, beta and risk for one series against a benchmark.
// Only candles whose timestamps appear in both series are used.
//
//	variation = (lastClose/firstClose - 1) * 100
//	risk      = stdev(returns) * sqrt(len(returns)) * 100
//	beta      = cov(returns, benchmarkReturns) / var(benchmarkReturns)
func AssetFromSeries(name string, series, benchmark []types.OHLCV) (types.Asset, error) {
	closes, benchCloses := alignCloses(series, benchmark)
	if len(closes) < MinAlignedCandles {
		return types.Asset{}, fmt.Errorf("%s: only %d candles overlap the benchmark, need %d",
			name, len(closes), MinAlignedCandles)
	}
	for i := range closes {
		if closes[i] <= 0 || benchCloses[i] <= 0 {
			return types.Asset{}, fmt.Errorf("%s: non-positive close price", name)
		}
	}

	returns := simpleReturns(closes)
	benchReturns := simpleReturns(benchCloses)

	benchVar := covariance(benchReturns, benchReturns)
	if benchVar == 0 {
		return types.Asset{}, fmt.Errorf("%s: benchmark returns have zero variance", name)
	}

	return types.Asset{
		Name:      name,
		Variation: (closes[len(closes)-1]/closes[0] - 1) * 100,
		Beta:      covariance(returns, benchReturns) / benchVar,
		Risk:      math.Sqrt(covariance(returns, returns)) * math.Sqrt(float64(len(returns))) * 100,
	}, nil
}

// AssetsFromMarketData derives one asset per symbol, in the order given
func AssetsFromMarketData(symbols []string, series map[string][]types.OHLCV, benchmark []types.OHLCV) ([]types.Asset, error) {
	assets := make([]types.Asset, 0, len(symbols))
	for _, symbol := range symbols {
		data, ok := series[symbol]
		if !ok {
			return nil, fmt.Errorf("no market data for %s", symbol)
		}
		asset, err := AssetFromSeries(symbol, data, benchmark)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, nil
}

func alignCloses(series, benchmark []types.OHLCV) ([]float64, []float64) {
	bench := make(map[time.Time]float64, len(benchmark))
	for _, c := range benchmark {
		bench[c.Timestamp.UTC()] = c.Close
	}

	sorted := make([]types.OHLCV, len(series))
	copy(sorted, series)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var closes, benchCloses []float64
	for _, c := range sorted {
		if b, ok := bench[c.Timestamp.UTC()]; ok {
			closes = append(closes, c.Close)
			benchCloses = append(benchCloses, b)
		}
	}
	return closes, benchCloses
}

func simpleReturns(closes []float64) []float64 {
	out := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		out[i-1] = closes[i]/closes[i-1] - 1
	}
	return out
}

// covariance is the population covariance of two equal-length samples
func covariance(a, b []float64) float64 {
	n := float64(len(a))
	var meanA, meanB float64
	for i := range a {
		meanA += a[i]
		meanB += b[i]
	}
	meanA /= n
	meanB /= n

	var sum float64
	for i := range a {
		sum += (a[i] - meanA) * (b[i] - meanB)
	}
	return sum / n
}
