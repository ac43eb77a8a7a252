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
	"syscall"
	"time"

	"github.com/ducminhle1904/portfolio-ga/cmd/common"
	opterrors "github.com/ducminhle1904/portfolio-ga/internal/errors"
	"github.com/ducminhle1904/portfolio-ga/internal/exchange/bybit"
	"github.com/ducminhle1904/portfolio-ga/internal/logger"
	"github.com/ducminhle1904/portfolio-ga/internal/monitoring"
	"github.com/ducminhle1904/portfolio-ga/pkg/catalog"
	"github.com/ducminhle1904/portfolio-ga/pkg/config"
	"github.com/ducminhle1904/portfolio-ga/pkg/optimization"
	"github.com/ducminhle1904/portfolio-ga/pkg/reporting"
)

const (
	AppName    = "Portfolio Optimizer"
	binaryName = "portfolio-optimizer"

	// Upper bound for downloading the market catalog
	loadTimeout = 2 * time.Minute

	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one optimizer invocation and returns the process exit code.
// A run that ends without a valid portfolio still exits 0: it is a result, not a failure.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(binaryName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	flags := NewOptimizerFlags(fs)
	fs.Usage = newUsage().Usage(fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if *flags.Version {
		common.PrintVersion(AppName)
		return exitOK
	}

	console := common.NewLogger()
	console.Out = stdout
	common.SetupLogger(console, flags.CommonFlags)

	if err := ValidateFlags(flags); err != nil {
		console.Error("Flag validation error: %v", err)
		return exitUsage
	}

	console.Header(fmt.Sprintf("%s v%s", AppName, common.ProjectVersion))

	cfg, err := loadConfiguration(fs, flags)
	if err != nil {
		return fail(console, err)
	}

	if err := execute(ctx, cfg, flags, console, stdout); err != nil {
		return fail(console, err)
	}
	return exitOK
}

// loadConfiguration layers defaults, the config file, the environment (.env included)
// and the explicitly set flags, then validates the result
func loadConfiguration(fs *flag.FlagSet, flags *OptimizerFlags) (*config.OptimizerConfig, error) {
	lookup, err := config.EnvLookup(*flags.EnvFile)
	if err != nil {
		return nil, err
	}

	manager := config.NewManager().WithLookup(lookup)
	cfg, err := manager.LoadUnvalidated(*flags.ConfigFile)
	if err != nil {
		return nil, err
	}

	applyFlags(fs, flags, cfg)

	if err := manager.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// newProvider picks the catalog source: CSV file, Bybit market data, or the built-in list
func newProvider(cfg *config.OptimizerConfig) (catalog.Provider, error) {
	switch {
	case cfg.Data.AssetsFile != "":
		return catalog.NewCSVProvider(cfg.Data.AssetsFile), nil
	case cfg.UsesMarketData():
		interval, err := bybit.ParseInterval(cfg.Data.Interval)
		if err != nil {
			return nil, opterrors.WrapError(err, opterrors.ErrorCategoryConfiguration, "main", "newProvider")
		}
		client := bybit.NewClient(bybit.Config{
			APIKey:    cfg.Exchange.Bybit.APIKey,
			APISecret: cfg.Exchange.Bybit.APISecret,
			Testnet:   cfg.Exchange.Bybit.Testnet,
		})
		return catalog.NewBybitProvider(client, catalog.BybitConfig{
			Symbols:   cfg.Data.Symbols,
			Benchmark: cfg.Data.Benchmark,
			Category:  cfg.Data.Category,
			Interval:  interval,
			Limit:     cfg.Data.Limit,
		}), nil
	default:
		return catalog.NewDefaultProvider(), nil
	}
}

func execute(ctx context.Context, cfg *config.OptimizerConfig, flags *OptimizerFlags, console *common.Logger, stdout io.Writer) error {
	health := monitoring.NewHealthChecker()
	if cfg.Metrics.Addr != "" {
		server := monitoring.NewServer(cfg.Metrics.Addr, health)
		server.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()
		console.Info("Metrics on http://%s/metrics", cfg.Metrics.Addr)
	}

	// Catalog
	console.Section("📂 Asset catalog")
	provider, err := newProvider(cfg)
	if err != nil {
		health.Fail(err)
		return err
	}
	console.Progress("Loading %s", provider.GetName())

	loadCtx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()
	cat, err := catalog.Load(loadCtx, provider)
	if err != nil {
		health.Fail(err)
		return err
	}
	universe, err := cat.Universe()
	if err != nil {
		health.Fail(err)
		return err
	}
	console.Success("Loaded %d assets from %s", cat.Len(), cat.Source())

	// Optimizer
	console.Section("🧬 Evolution")
	optimizer, err := optimization.NewOptimizer(cfg.ToOptimizationConfig(), nil)
	if err != nil {
		health.Fail(err)
		return err
	}

	var runLog *logger.Logger
	if cfg.Output.LogFile {
		name := fmt.Sprintf("optimizer_%s", time.Now().Format("20060102_150405"))
		runLog, err = logger.NewLogger(cfg.Output.Dir, name)
		if err != nil {
			err = opterrors.NewOutputError("main", "execute", err)
			health.Fail(err)
			return err
		}
		defer runLog.Close()

		effective := cfg.ToOptimizationConfig()
		effective.Seed = optimizer.Seed()
		runLog.LogConfig(effective, cat.Source(), cat.Len())
		optimizer.SetLogger(multiLogger{console, runLog})
		optimizer.AddObserver(runLog)
	} else {
		optimizer.SetLogger(console)
	}
	optimizer.AddObserver(monitoring.NewMetricsObserver())
	optimizer.AddObserver(health)

	result, err := optimizer.Solve(universe)
	if err != nil {
		health.Fail(err)
		return err
	}
	health.Finish(result)
	monitoring.RecordRun(result.Outcome, result.Duration)

	// Report
	report := reporting.NewReport(result, cat.Source(), cat.Assets())
	if runLog != nil {
		runLog.LogResult(result, report.SelectedNames())
	}

	reporter := reporting.NewDefaultReporter()
	runDir := reporter.GetRunOutputDir(cfg.Output.Dir, result.RunID)
	writesFiles := cfg.Output.JSON || cfg.Output.CSV || cfg.Output.XLSX
	if writesFiles {
		if err := reporter.EnsureDirectoryExists(filepath.Join(runDir, reporting.ResultFileName)); err != nil {
			return opterrors.NewOutputError("main", "execute", err).WithContext("dir", runDir)
		}
	}

	written, err := reporter.Generate(stdout, report, reporting.ReportingConfig{
		EnableConsole:   true,
		OutputDirectory: runDir,
		JSONEnabled:     cfg.Output.JSON,
		CSVEnabled:      cfg.Output.CSV,
		ExcelEnabled:    cfg.Output.XLSX,
	})
	if err != nil {
		return err
	}

	if *flags.History > 0 {
		reporter.PrintHistory(stdout, report, *flags.History)
	}

	if writesFiles {
		configPath := filepath.Join(runDir, "config.json")
		if err := config.NewManager().SaveConfig(cfg, configPath); err != nil {
			return opterrors.NewOutputError("main", "execute", err).WithContext("file", configPath)
		}
		written = append(written, configPath)
	}

	for _, path := range written {
		console.Info("📄 %s", path)
	}
	if runLog != nil {
		console.Info("📝 %s", runLog.GetLogPath())
	}

	if result.Solved() {
		console.Success("Optimization completed in %s", result.Duration.Round(time.Millisecond))
	} else {
		console.Warn("Optimization completed in %s without a valid solution", result.Duration.Round(time.Millisecond))
	}
	return nil
}

// fail reports err, counts it and maps it to the exit code
func fail(console *common.Logger, err error) int {
	categorized := opterrors.CategorizeError(err, "main", "run")
	monitoring.RecordError(string(categorized.Category))
	console.Error("%v", err)
	if categorized.Category == opterrors.ErrorCategoryConfiguration ||
		categorized.Category == opterrors.ErrorCategoryValidation {
		return exitUsage
	}
	return exitError
}

// multiLogger fans optimizer messages out to several loggers
type multiLogger []optimization.Logger

func (m multiLogger) Info(format string, args ...interface{}) {
	for _, l := range m {
		l.Info(format, args...)
	}
}

func (m multiLogger) Warning(format string, args ...interface{}) {
	for _, l := range m {
		l.Warning(format, args...)
	}
}

func (m multiLogger) Error(format string, args ...interface{}) {
	for _, l := range m {
		l.Error(format, args...)
	}
}
