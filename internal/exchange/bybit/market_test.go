package bybit

import (
	"context"
	"errors"
	"testing"
	"time"

	bybit_api "github.com/bybit-exchange/bybit.go.api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func klineResponse(rows ...[]string) *bybit_api.ServerResponse {
	list := make([]interface{}, 0, len(rows))
	for _, r := range rows {
		row := make([]interface{}, len(r))
		for i, v := range r {
			row[i] = v
		}
		list = append(list, row)
	}
	return &bybit_api.ServerResponse{
		RetCode: 0,
		RetMsg:  "OK",
		Result: map[string]interface{}{
			"symbol":   "BTCUSDT",
			"category": "spot",
			"list":     list,
		},
	}
}

func fastRetry() *RetryConfig {
	cfg := DefaultRetryConfig()
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = 2 * time.Millisecond
	cfg.JitterEnabled = false
	return &cfg
}

func TestParseKlineResponse(t *testing.T) {
	resp := klineResponse(
		[]string{"1700086400000", "101", "110", "99", "105", "12.5", "1300"},
		[]string{"1700000000000", "100", "102", "98", "101", "10", "1000"},
		[]string{"1700172800000", "105"}, // incomplete
	)

	klines, err := parseKlineResponse(resp)
	require.NoError(t, err)
	require.Len(t, klines, 2)

	assert.True(t, klines[0].StartTime.Before(klines[1].StartTime), "klines should be oldest first")
	assert.Equal(t, 101.0, klines[0].ClosePrice)
	assert.Equal(t, 105.0, klines[1].ClosePrice)
	assert.Equal(t, 12.5, klines[1].Volume)
}

func TestParseKlineResponse_Errors(t *testing.T) {
	_, err := parseKlineResponse("not a response")
	assert.Error(t, err)

	_, err = parseKlineResponse(&bybit_api.ServerResponse{RetCode: ErrCodeSymbolNotFound, RetMsg: "symbol invalid"})
	require.Error(t, err)
	assert.True(t, IsSymbolNotFoundError(err))
}

func TestGetKlines_RetriesRateLimit(t *testing.T) {
	c := NewClient(Config{Retry: fastRetry()})

	calls := 0
	var seen map[string]interface{}
	c.fetchKlines = func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		calls++
		seen = params
		if calls == 1 {
			return &bybit_api.ServerResponse{RetCode: ErrCodeRateLimitExceeded, RetMsg: "too many visits"}, nil
		}
		return klineResponse([]string{"1700000000000", "100", "102", "98", "101", "10", "1000"}), nil
	}

	klines, err := c.GetKlines(context.Background(), KlineParams{Symbol: "BTCUSDT", Interval: Interval1d, Limit: 5000})
	require.NoError(t, err)
	assert.Len(t, klines, 1)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "spot", seen["category"])
	assert.Equal(t, 1000, seen["limit"])
	assert.Equal(t, "D", seen["interval"])
}

func TestGetKlines_DoesNotRetryPermanentErrors(t *testing.T) {
	c := NewClient(Config{Retry: fastRetry()})

	calls := 0
	c.fetchKlines = func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		calls++
		return &bybit_api.ServerResponse{RetCode: ErrCodeInvalidParameter, RetMsg: "params error"}, nil
	}

	_, err := c.GetKlines(context.Background(), KlineParams{Symbol: "NOPE", Interval: Interval1h})
	require.Error(t, err)
	assert.Equal(t, 1, calls)

	var bybitErr *BybitError
	require.True(t, errors.As(err, &bybitErr))
	assert.Equal(t, ErrCodeInvalidParameter, bybitErr.Code)
}

func TestGetKlines_ContextCancelled(t *testing.T) {
	c := NewClient(Config{Retry: fastRetry()})
	c.fetchKlines = func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		t.Fatal("request should not be sent after cancellation")
		return nil, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetKlines(ctx, KlineParams{Symbol: "BTCUSDT", Interval: Interval1d})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseInterval(t *testing.T) {
	tests := []struct {
		label   string
		want    KlineInterval
		wantErr bool
	}{
		{"1h", Interval1h, false},
		{"1D", Interval1d, false},
		{"240", Interval4h, false},
		{"W", Interval1w, false},
		{"3h", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := ParseInterval(tt.label)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculateDelay(t *testing.T) {
	cfg := DefaultRetryConfig()
	cfg.JitterEnabled = false

	assert.Equal(t, time.Second, calculateDelay(0, cfg))
	assert.Equal(t, 4*time.Second, calculateDelay(2, cfg))
	assert.Equal(t, cfg.MaxDelay, calculateDelay(10, cfg))

	cfg.JitterEnabled = true
	d := calculateDelay(1, cfg)
	assert.InDelta(t, float64(2*time.Second), float64(d), float64(200*time.Millisecond))
}

func TestEnvironment(t *testing.T) {
	assert.Equal(t, "mainnet", NewClient(Config{}).GetEnvironment())
	c := NewClient(Config{Testnet: true})
	assert.Equal(t, "testnet", c.GetEnvironment())
	assert.True(t, c.IsTestnet())
}
