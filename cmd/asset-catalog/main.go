package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/ducminhle1904/portfolio-ga/cmd/common"
	"github.com/ducminhle1904/portfolio-ga/internal/exchange/bybit"
	"github.com/ducminhle1904/portfolio-ga/pkg/catalog"
	"github.com/ducminhle1904/portfolio-ga/pkg/config"
	"github.com/ducminhle1904/portfolio-ga/pkg/types"
)

const (
	AppName    = "Asset Catalog Builder"
	binaryName = "asset-catalog"
)

// newKlineClient builds the market data client; tests replace it
var newKlineClient = func(cfg bybit.Config) catalog.KlineClient {
	return bybit.NewClient(cfg)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run downloads klines for the requested symbols, derives variation, beta and risk
// against the benchmark and writes an assets CSV the optimizer can load with -assets
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(binaryName, flag.ContinueOnError)
	fs.SetOutput(stderr)

	commonFlags := common.RegisterCommonFlags(fs)
	var (
		symbols   = fs.String("symbols", "", "Comma-separated list of symbols (required)")
		benchmark = fs.String("benchmark", config.DefaultBenchmark, "Benchmark symbol used for beta")
		category  = fs.String("category", config.DefaultCategory, "Market category (spot, linear, inverse)")
		interval  = fs.String("interval", config.DefaultInterval, "Kline interval (1h, 4h, 1d, 1w or a raw Bybit code)")
		limit     = fs.Int("limit", config.DefaultLimit, "Number of klines per symbol (max 1000)")
		testnet   = fs.Bool("testnet", false, "Use the Bybit testnet")
		output    = fs.String("output", "assets.csv", "Output CSV path")
	)
	fs.Usage = common.NewUsageFormatter(AppName, "Builds an asset CSV from Bybit kline history.").
		AddExample(binaryName+" -symbols ETHUSDT,SOLUSDT,XRPUSDT,ADAUSDT -output data/assets.csv",
			"Daily candles for one year against BTCUSDT").
		AddExample(binaryName+" -symbols ETHUSDT,SOLUSDT -interval 4h -limit 1000 -category linear",
			"Four-hour perpetual candles").
		Usage(fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *commonFlags.Version {
		common.PrintVersion(AppName)
		return 0
	}

	console := common.NewLogger()
	console.Out = stdout
	common.SetupLogger(console, commonFlags)

	symList := parseSymbols(*symbols)
	v := common.NewFlagValidator()
	if len(symList) == 0 {
		v.AddError("symbols is required")
	}
	v.ValidateInt("limit", *limit, 3, config.MaxKlineLimit)
	iv, err := bybit.ParseInterval(*interval)
	if err != nil {
		v.AddError(err.Error())
	}
	if err := v.GetError(); err != nil {
		console.Error("Flag validation error: %v", err)
		return 2
	}

	lookup, err := config.EnvLookup(*commonFlags.EnvFile)
	if err != nil {
		console.Error("%v", err)
		return 1
	}
	apiKey, _ := lookup(config.EnvBybitAPIKey)
	apiSecret, _ := lookup(config.EnvBybitAPISecret)

	console.Header(AppName)
	console.Info("🎯 Symbols: %s", strings.Join(symList, ", "))
	console.Info("📈 Benchmark: %s | %s %s x%d", strings.ToUpper(*benchmark), *category, iv, *limit)

	provider := catalog.NewBybitProvider(
		newKlineClient(bybit.Config{APIKey: apiKey, APISecret: apiSecret, Testnet: *testnet}),
		catalog.BybitConfig{
			Symbols:   symList,
			Benchmark: strings.ToUpper(strings.TrimSpace(*benchmark)),
			Category:  *category,
			Interval:  iv,
			Limit:     *limit,
		},
	)

	cat, err := catalog.Load(ctx, provider)
	if err != nil {
		console.Error("%v", err)
		return 1
	}

	if err := writeCatalog(*output, cat.Assets()); err != nil {
		console.Error("Failed to save %s: %v", *output, err)
		return 1
	}

	printSummary(stdout, cat.Assets())
	console.Success("💾 %d assets saved to %s", cat.Len(), *output)
	return 0
}

func writeCatalog(path string, assets []types.Asset) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := common.EnsureDir(dir); err != nil {
			return err
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := catalog.WriteAssetsCSV(file, assets); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func printSummary(w io.Writer, assets []types.Asset) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("ASSETS")
	t.AppendHeader(table.Row{"Name", "Variation %", "Beta", "Risk"})
	for _, a := range assets {
		t.AppendRow(table.Row{a.Name, fmt.Sprintf("%.2f", a.Variation), fmt.Sprintf("%.3f", a.Beta), fmt.Sprintf("%.2f", a.Risk)})
	}
	t.Render()
}

func parseSymbols(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if sym := strings.ToUpper(strings.TrimSpace(part)); sym != "" {
			out = append(out, sym)
		}
	}
	return out
}
