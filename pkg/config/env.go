package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	opterrors "github.com/ducminhle1904/portfolio-ga/internal/errors"
)

// LookupFunc resolves an environment variable
type LookupFunc func(key string) (string, bool)

// EnvLookup resolves keys from the process environment first, then from a .env file.
// A missing file is not an error.
func EnvLookup(envFile string) (LookupFunc, error) {
	fileValues := map[string]string{}
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			values, err := godotenv.Read(envFile)
			if err != nil {
				return nil, opterrors.WrapError(err, opterrors.ErrorCategoryConfiguration, "config", "EnvLookup").
					WithContext("file", envFile)
			}
			fileValues = values
		}
	}

	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileValues[key]
		return v, ok
	}, nil
}

// MapLookup resolves keys from a fixed map
func MapLookup(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

// ApplyEnv overrides configuration fields from PGA_* and BYBIT_* variables.
// Empty values are ignored; unparsable values are configuration errors.
func ApplyEnv(cfg *OptimizerConfig, lookup LookupFunc) error {
	if lookup == nil {
		return nil
	}

	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	intVars := []struct {
		key    string
		target *int
	}{
		{EnvPopulationSize, &cfg.Algorithm.PopulationSize},
		{EnvGenerations, &cfg.Algorithm.Generations},
		{EnvPortfolioSize, &cfg.Constraints.PortfolioSizeLimit},
	}
	for _, iv := range intVars {
		if v, ok := get(iv.key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return envError(iv.key, v, err)
			}
			*iv.target = n
		}
	}

	floatVars := []struct {
		key    string
		target *float64
	}{
		{EnvMutationRate, &cfg.Algorithm.MutationRate},
		{EnvMaxRisk, &cfg.Constraints.MaxRisk},
		{EnvMaxAvgBeta, &cfg.Constraints.MaxAvgBeta},
	}
	for _, fv := range floatVars {
		if v, ok := get(fv.key); ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return envError(fv.key, v, err)
			}
			*fv.target = f
		}
	}

	if v, ok := get(EnvSeed); ok {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return envError(EnvSeed, v, err)
		}
		cfg.Algorithm.Seed = seed
	}

	if v, ok := get(EnvBybitAPIKey); ok {
		cfg.Exchange.Bybit.APIKey = v
	}
	if v, ok := get(EnvBybitAPISecret); ok {
		cfg.Exchange.Bybit.APISecret = v
	}
	if v, ok := get(EnvBybitTestnet); ok {
		testnet, err := strconv.ParseBool(v)
		if err != nil {
			return envError(EnvBybitTestnet, v, err)
		}
		cfg.Exchange.Bybit.Testnet = testnet
	}

	return nil
}

// expandPlaceholders replaces ${VAR} references in credential fields
func expandPlaceholders(cfg *OptimizerConfig, lookup LookupFunc) {
	mapping := func(key string) string {
		if lookup == nil {
			return ""
		}
		v, _ := lookup(key)
		return v
	}
	cfg.Exchange.Bybit.APIKey = os.Expand(cfg.Exchange.Bybit.APIKey, mapping)
	cfg.Exchange.Bybit.APISecret = os.Expand(cfg.Exchange.Bybit.APISecret, mapping)
}

func envError(key, value string, err error) error {
	return opterrors.WrapError(err, opterrors.ErrorCategoryConfiguration, "config", "ApplyEnv").
		WithContext("var", key).
		WithContext("value", value)
}
