package main

import (
	"flag"
	"strings"

	"github.com/ducminhle1904/portfolio-ga/cmd/common"
	"github.com/ducminhle1904/portfolio-ga/pkg/config"
)

// OptimizerFlags holds all command line flags for the optimizer command
type OptimizerFlags struct {
	*common.CommonFlags

	// Configuration
	ConfigFile *string

	// Catalog
	AssetsFile *string
	Symbols    *string
	Benchmark  *string
	Category   *string
	Interval   *string
	Limit      *int
	Testnet    *bool

	// Genetic algorithm
	Population  *int
	Generations *int
	Mutation    *float64
	Seed        *int64

	// Constraints
	PortfolioSize *int
	MaxRisk       *float64
	MaxBeta       *float64

	// Output
	OutputDir   *string
	JSON        *bool
	CSV         *bool
	XLSX        *bool
	LogFile     *bool
	History     *int
	MetricsAddr *string
}

// NewOptimizerFlags registers the optimizer flags on fs
func NewOptimizerFlags(fs *flag.FlagSet) *OptimizerFlags {
	defaults := config.NewDefaultConfig()

	return &OptimizerFlags{
		CommonFlags: common.RegisterCommonFlags(fs),

		ConfigFile: fs.String("config", "", "Path to JSON config file"),

		AssetsFile: fs.String("assets", "", "CSV file with name,variation,beta,risk columns"),
		Symbols:    fs.String("symbols", "", "Comma-separated Bybit symbols to build the catalog from (e.g., ETHUSDT,SOLUSDT)"),
		Benchmark:  fs.String("benchmark", defaults.Data.Benchmark, "Benchmark symbol used for beta"),
		Category:   fs.String("category", defaults.Data.Category, "Bybit category: spot, linear or inverse"),
		Interval:   fs.String("interval", defaults.Data.Interval, "Kline interval (e.g., 1h, 4h, 1d, 1w)"),
		Limit:      fs.Int("limit", defaults.Data.Limit, "Number of candles per symbol"),
		Testnet:    fs.Bool("testnet", defaults.Exchange.Bybit.Testnet, "Use the Bybit testnet"),

		Population:  fs.Int("population", defaults.Algorithm.PopulationSize, "Population size"),
		Generations: fs.Int("generations", defaults.Algorithm.Generations, "Number of generations"),
		Mutation:    fs.Float64("mutation", defaults.Algorithm.MutationRate, "Per-gene mutation probability (0-1)"),
		Seed:        fs.Int64("seed", defaults.Algorithm.Seed, "Random seed (0 = time based)"),

		PortfolioSize: fs.Int("portfolio-size", defaults.Constraints.PortfolioSizeLimit, "Maximum number of selected assets"),
		MaxRisk:       fs.Float64("max-risk", defaults.Constraints.MaxRisk, "Maximum summed risk"),
		MaxBeta:       fs.Float64("max-beta", defaults.Constraints.MaxAvgBeta, "Maximum average beta"),

		OutputDir:   fs.String("output", defaults.Output.Dir, "Directory for run results"),
		JSON:        fs.Bool("json", defaults.Output.JSON, "Write result.json"),
		CSV:         fs.Bool("csv", defaults.Output.CSV, "Write generations.csv"),
		XLSX:        fs.Bool("xlsx", defaults.Output.XLSX, "Write portfolio.xlsx"),
		LogFile:     fs.Bool("log-file", defaults.Output.LogFile, "Write a session log into the output directory"),
		History:     fs.Int("history", 0, "Print every Nth generation after the report (0 = off)"),
		MetricsAddr: fs.String("metrics-addr", defaults.Metrics.Addr, "Serve /metrics and /health on this address (e.g., :9090)"),
	}
}

// ValidateFlags checks flag values that do not depend on the config file
func ValidateFlags(flags *OptimizerFlags) error {
	v := common.NewFlagValidator()

	v.ValidateInt("population", *flags.Population, 1, 1_000_000)
	v.ValidateInt("generations", *flags.Generations, 0, 1_000_000)
	v.ValidateFloat("mutation", *flags.Mutation, 0, 1)
	v.ValidateInt("portfolio-size", *flags.PortfolioSize, 0, 1_000_000)
	v.ValidateInt("history", *flags.History, 0, 1_000_000)
	v.ValidateFile("config", *flags.ConfigFile, false)
	v.ValidateFile("assets", *flags.AssetsFile, false)

	if *flags.AssetsFile != "" && strings.TrimSpace(*flags.Symbols) != "" {
		v.AddError("assets and symbols cannot be used together")
	}

	return v.GetError()
}

// applyFlags copies the explicitly set flags over cfg, so a config file value
// survives unless the flag was given on the command line
func applyFlags(fs *flag.FlagSet, flags *OptimizerFlags, cfg *config.OptimizerConfig) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "assets":
			cfg.Data.AssetsFile = *flags.AssetsFile
			cfg.Data.Symbols = nil
		case "symbols":
			cfg.Data.Symbols = parseSymbols(*flags.Symbols)
			cfg.Data.AssetsFile = ""
		case "benchmark":
			cfg.Data.Benchmark = strings.ToUpper(strings.TrimSpace(*flags.Benchmark))
		case "category":
			cfg.Data.Category = *flags.Category
		case "interval":
			cfg.Data.Interval = *flags.Interval
		case "limit":
			cfg.Data.Limit = *flags.Limit
		case "testnet":
			cfg.Exchange.Bybit.Testnet = *flags.Testnet
		case "population":
			cfg.Algorithm.PopulationSize = *flags.Population
		case "generations":
			cfg.Algorithm.Generations = *flags.Generations
		case "mutation":
			cfg.Algorithm.MutationRate = *flags.Mutation
		case "seed":
			cfg.Algorithm.Seed = *flags.Seed
		case "portfolio-size":
			cfg.Constraints.PortfolioSizeLimit = *flags.PortfolioSize
		case "max-risk":
			cfg.Constraints.MaxRisk = *flags.MaxRisk
		case "max-beta":
			cfg.Constraints.MaxAvgBeta = *flags.MaxBeta
		case "output":
			cfg.Output.Dir = *flags.OutputDir
		case "json":
			cfg.Output.JSON = *flags.JSON
		case "csv":
			cfg.Output.CSV = *flags.CSV
		case "xlsx":
			cfg.Output.XLSX = *flags.XLSX
		case "log-file":
			cfg.Output.LogFile = *flags.LogFile
		case "metrics-addr":
			cfg.Metrics.Addr = *flags.MetricsAddr
		}
	})
}

func parseSymbols(s string) []string {
	var symbols []string
	for _, part := range strings.Split(s, ",") {
		symbol := strings.ToUpper(strings.TrimSpace(part))
		if symbol != "" {
			symbols = append(symbols, symbol)
		}
	}
	return symbols
}

func newUsage() *common.UsageFormatter {
	return common.NewUsageFormatter(AppName, "Selects a portfolio with a genetic algorithm under size, risk and beta limits.").
		AddExample(binaryName, "Optimize the built-in 13-asset catalog").
		AddExample(binaryName+" -assets assets.csv -seed 42", "Optimize a CSV catalog reproducibly").
		AddExample(binaryName+" -symbols ETHUSDT,SOLUSDT,XRPUSDT -benchmark BTCUSDT -interval 1d -limit 365",
			"Build the catalog from Bybit daily klines").
		AddExample(binaryName+" -config configs/optimizer.json -metrics-addr :9090", "Run from a config file with metrics")
}
