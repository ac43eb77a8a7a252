package config

import (
	"github.com/ducminhle1904/portfolio-ga/pkg/optimization"
)

// OptimizerConfig is the full configuration of one optimizer run
type OptimizerConfig struct {
	Algorithm   AlgorithmConfig   `json:"algorithm"`
	Constraints ConstraintsConfig `json:"constraints"`
	Data        DataConfig        `json:"data"`
	Exchange    ExchangeConfig    `json:"exchange"`
	Output      OutputConfig      `json:"output"`
	Metrics     MetricsConfig     `json:"metrics"`
}

type AlgorithmConfig struct {
	PopulationSize int     `json:"population_size"`
	Generations    int     `json:"generations"`
	MutationRate   float64 `json:"mutation_rate"`
	Seed           int64   `json:"seed"` // 0 picks a time-based seed
}

type ConstraintsConfig struct {
	PortfolioSizeLimit int     `json:"portfolio_size_limit"`
	MaxRisk            float64 `json:"max_risk"`
	MaxAvgBeta         float64 `json:"max_avg_beta"`
}

// DataConfig selects the asset catalog: a CSV file, Bybit symbols, or the built-in list
type DataConfig struct {
	AssetsFile string   `json:"assets_file,omitempty"`
	Symbols    []string `json:"symbols,omitempty"`
	Benchmark  string   `json:"benchmark"`
	Category   string   `json:"category"`
	Interval   string   `json:"interval"`
	Limit      int      `json:"limit"`
}

type ExchangeConfig struct {
	Name  string      `json:"name"`
	Bybit BybitConfig `json:"bybit"`
}

type BybitConfig struct {
	APIKey    string `json:"api_key"`
	APISecret string `json:"api_secret"`
	Testnet   bool   `json:"testnet"`
}

type OutputConfig struct {
	Dir     string `json:"dir"`
	JSON    bool   `json:"json"`
	CSV     bool   `json:"csv"`
	XLSX    bool   `json:"xlsx"`
	LogFile bool   `json:"log_file"`
}

type MetricsConfig struct {
	Addr string `json:"addr,omitempty"`
}

// NewDefaultConfig returns the reference parameters:
// population 250, 250 generations, mutation 0.10, at most 7 assets, risk 25, beta 1.9.
func NewDefaultConfig() *OptimizerConfig {
	return &OptimizerConfig{
		Algorithm: AlgorithmConfig{
			PopulationSize: optimization.DefaultPopulationSize,
			Generations:    optimization.DefaultGenerations,
			MutationRate:   optimization.DefaultMutationRate,
		},
		Constraints: ConstraintsConfig{
			PortfolioSizeLimit: optimization.DefaultPortfolioSizeLimit,
			MaxRisk:            optimization.DefaultMaxRisk,
			MaxAvgBeta:         optimization.DefaultMaxAvgBeta,
		},
		Data: DataConfig{
			Benchmark: DefaultBenchmark,
			Category:  DefaultCategory,
			Interval:  DefaultInterval,
			Limit:     DefaultLimit,
		},
		Exchange: ExchangeConfig{
			Name: "bybit",
		},
		Output: OutputConfig{
			Dir:     ResultsDir,
			JSON:    true,
			CSV:     true,
			XLSX:    true,
			LogFile: true,
		},
	}
}

// UsesMarketData reports whether the catalog is built from exchange klines
func (c *OptimizerConfig) UsesMarketData() bool {
	return c.Data.AssetsFile == "" && len(c.Data.Symbols) > 0
}

// ToOptimizationConfig converts to the optimizer's parameter set
func (c *OptimizerConfig) ToOptimizationConfig() optimization.OptimizationConfig {
	return optimization.OptimizationConfig{
		PopulationSize: c.Algorithm.PopulationSize,
		Generations:    c.Algorithm.Generations,
		MutationRate:   c.Algorithm.MutationRate,
		Seed:           c.Algorithm.Seed,
		Constraints: optimization.Constraints{
			PortfolioSizeLimit: c.Constraints.PortfolioSizeLimit,
			MaxRisk:            c.Constraints.MaxRisk,
			MaxAvgBeta:         c.Constraints.MaxAvgBeta,
		},
	}
}

// Redacted returns a copy with the exchange credentials replaced by env placeholders
func (c *OptimizerConfig) Redacted() *OptimizerConfig {
	cp := *c
	cp.Data.Symbols = append([]string(nil), c.Data.Symbols...)
	cp.Exchange.Bybit.APIKey = "${" + EnvBybitAPIKey + "}"
	cp.Exchange.Bybit.APISecret = "${" + EnvBybitAPISecret + "}"
	return &cp
}
