package config

import (
	"fmt"
	"strings"

	opterrors "github.com/ducminhle1904/portfolio-ga/internal/errors"
	"github.com/ducminhle1904/portfolio-ga/internal/exchange/bybit"
	"github.com/ducminhle1904/portfolio-ga/pkg/optimization"
)

// OptimizerValidator implements Validator
type OptimizerValidator struct{}

// NewOptimizerValidator creates a new validator
func NewOptimizerValidator() *OptimizerValidator {
	return &OptimizerValidator{}
}

// Validate checks the algorithm parameters, then the data source and output sections
func (v *OptimizerValidator) Validate(cfg *OptimizerConfig) error {
	if cfg == nil {
		return opterrors.NewConfigurationError("config", "Validate", "configuration is nil")
	}

	if err := optimization.ValidateConfig(cfg.ToOptimizationConfig()); err != nil {
		return err
	}

	if err := v.validateData(&cfg.Data); err != nil {
		return err
	}

	if strings.TrimSpace(cfg.Output.Dir) == "" && (cfg.Output.JSON || cfg.Output.CSV || cfg.Output.XLSX || cfg.Output.LogFile) {
		return invalid("output directory is required when file output is enabled", "output.dir", cfg.Output.Dir)
	}

	return nil
}

func (v *OptimizerValidator) validateData(d *DataConfig) error {
	if d.AssetsFile != "" && len(d.Symbols) > 0 {
		return invalid("choose either an assets file or market symbols, not both", "data.assets_file", d.AssetsFile)
	}
	if len(d.Symbols) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(d.Symbols))
	for _, s := range d.Symbols {
		if strings.TrimSpace(s) == "" {
			return invalid("symbol list contains an empty entry", "data.symbols", strings.Join(d.Symbols, ","))
		}
		if seen[s] {
			return invalid("duplicate symbol", "data.symbols", s)
		}
		seen[s] = true
	}

	if strings.TrimSpace(d.Benchmark) == "" {
		return invalid("benchmark symbol is required for market data", "data.benchmark", d.Benchmark)
	}
	switch d.Category {
	case "spot", "linear", "inverse":
	default:
		return invalid("category must be spot, linear or inverse", "data.category", d.Category)
	}
	if _, err := bybit.ParseInterval(d.Interval); err != nil {
		return invalid(err.Error(), "data.interval", d.Interval)
	}
	if d.Limit < 3 || d.Limit > MaxKlineLimit {
		return invalid(fmt.Sprintf("limit must be within [3, %d]", MaxKlineLimit), "data.limit", d.Limit)
	}
	return nil
}

func invalid(message, field string, value interface{}) error {
	return opterrors.NewConfigurationError("config", "Validate", message).
		WithContext("field", field).
		WithContext("value", value)
}
