package config

// Package config provides configuration management for the portfolio optimizer

// ConfigManager handles loading, validation and persistence of optimizer configurations
type ConfigManager interface {
	// LoadConfig builds a configuration from defaults, an optional JSON file and the environment
	LoadConfig(configFile string) (*OptimizerConfig, error)

	// ValidateConfig validates a configuration
	ValidateConfig(cfg *OptimizerConfig) error

	// SaveConfig saves configuration to file
	SaveConfig(cfg *OptimizerConfig, path string) error
}

// Validator interface for configuration validation
type Validator interface {
	Validate(cfg *OptimizerConfig) error
}

const (
	// Market catalog defaults
	DefaultCategory  = "spot"
	DefaultInterval  = "1d"
	DefaultLimit     = 365
	DefaultBenchmark = "BTCUSDT"
	MaxKlineLimit    = 1000

	// File and directory constants
	ResultsDir      = "results"
	ResultFile      = "result.json"
	GenerationsFile = "generations.csv"
	WorkbookFile    = "portfolio.xlsx"
	RunLogFile      = "optimizer.log"
)

// Environment variable names
const (
	EnvPopulationSize = "PGA_POPULATION_SIZE"
	EnvGenerations    = "PGA_GENERATIONS"
	EnvMutationRate   = "PGA_MUTATION_RATE"
	EnvPortfolioSize  = "PGA_PORTFOLIO_SIZE"
	EnvMaxRisk        = "PGA_MAX_RISK"
	EnvMaxAvgBeta     = "PGA_MAX_AVG_BETA"
	EnvSeed           = "PGA_SEED"
	EnvBybitAPIKey    = "BYBIT_API_KEY"
	EnvBybitAPISecret = "BYBIT_API_SECRET"
	EnvBybitTestnet   = "BYBIT_TESTNET"
)
