package bybit

import (
	"context"

	bybit_api "github.com/bybit-exchange/bybit.go.api"
)

// Client wraps the Bybit API client with the market-data calls the optimizer needs
type Client struct {
	httpClient *bybit_api.Client
	testnet    bool
	retry      RetryConfig

	// fetchKlines performs the raw kline request; replaced in tests
	fetchKlines func(ctx context.Context, params map[string]interface{}) (interface{}, error)
}

// Config holds the configuration for the Bybit client.
// Market data is public, so the key pair may be left empty.
type Config struct {
	APIKey    string
	APISecret string
	Testnet   bool
	Retry     *RetryConfig
}

// NewClient creates a new Bybit client
func NewClient(config Config) *Client {
	baseURL := bybit_api.MAINNET
	if config.Testnet {
		baseURL = bybit_api.TESTNET
	}

	httpClient := bybit_api.NewBybitHttpClient(
		config.APIKey,
		config.APISecret,
		bybit_api.WithBaseURL(baseURL),
	)

	retry := DefaultRetryConfig()
	if config.Retry != nil {
		retry = *config.Retry
	}

	c := &Client{
		httpClient: httpClient,
		testnet:    config.Testnet,
		retry:      retry,
	}
	c.fetchKlines = func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		return c.httpClient.NewUtaBybitServiceWithParams(params).GetMarketKline(ctx)
	}
	return c
}

// IsTestnet returns whether the client is configured for testnet
func (c *Client) IsTestnet() bool {
	return c.testnet
}

// GetEnvironment returns a string describing the current environment
func (c *Client) GetEnvironment() string {
	if c.testnet {
		return "testnet"
	}
	return "mainnet"
}
