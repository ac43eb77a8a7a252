package catalog

import (
	"context"
	"strings"

	opterrors "github.com/ducminhle1904/portfolio-ga/internal/errors"
	"github.com/ducminhle1904/portfolio-ga/pkg/optimization"
	"github.com/ducminhle1904/portfolio-ga/pkg/types"
)

// Catalog is an ordered, validated list of assets. Chromosome bit i refers to asset i.
type Catalog struct {
	source string
	assets []types.Asset
}

// New validates the assets and builds a catalog.
// Names must be non-empty and unique; risk must be non-negative.
func New(source string, assets []types.Asset) (*Catalog, error) {
	if len(assets) == 0 {
		return nil, opterrors.NewOptimizerError(opterrors.ErrorCategoryData, "catalog", "New", "no assets supplied").
			WithContext("source", source)
	}

	seen := make(map[string]int, len(assets))
	for i, a := range assets {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			return nil, opterrors.NewOptimizerError(opterrors.ErrorCategoryData, "catalog", "New", "asset name is empty").
				WithContext("index", i)
		}
		if prev, dup := seen[name]; dup {
			return nil, opterrors.NewOptimizerError(opterrors.ErrorCategoryData, "catalog", "New", "duplicate asset name").
				WithContext("name", name).
				WithContext("first", prev).
				WithContext("index", i)
		}
		if a.Risk < 0 {
			return nil, opterrors.NewOptimizerError(opterrors.ErrorCategoryData, "catalog", "New", "asset risk must be non-negative").
				WithContext("name", name)
		}
		seen[name] = i
	}

	cp := make([]types.Asset, len(assets))
	copy(cp, assets)
	return &Catalog{source: source, assets: cp}, nil
}

// Load reads the provider and validates what it returns
func Load(ctx context.Context, provider Provider) (*Catalog, error) {
	assets, err := provider.Load(ctx)
	if err != nil {
		return nil, opterrors.NewDataError("catalog", "Load", err).
			WithContext("provider", provider.GetName())
	}
	return New(provider.GetName(), assets)
}

// Source names the provider the catalog came from
func (c *Catalog) Source() string {
	return c.source
}

// Len returns the number of assets
func (c *Catalog) Len() int {
	return len(c.assets)
}

// Assets returns a copy of the asset list
func (c *Catalog) Assets() []types.Asset {
	out := make([]types.Asset, len(c.assets))
	copy(out, c.assets)
	return out
}

// Vectors splits the catalog into the parallel slices the optimizer consumes
func (c *Catalog) Vectors() (names []string, variations, betas, risks []float64) {
	n := len(c.assets)
	names = make([]string, n)
	variations = make([]float64, n)
	betas = make([]float64, n)
	risks = make([]float64, n)
	for i, a := range c.assets {
		names[i] = a.Name
		variations[i] = a.Variation
		betas[i] = a.Beta
		risks[i] = a.Risk
	}
	return names, variations, betas, risks
}

// Universe builds the optimizer universe for this catalog
func (c *Catalog) Universe() (*optimization.Universe, error) {
	return optimization.UniverseFromAssets(c.assets)
}

// Select returns the assets whose bit is set. Bits beyond the catalog are ignored.
func (c *Catalog) Select(chromosome []bool) []types.Asset {
	var out []types.Asset
	for i, included := range chromosome {
		if included && i < len(c.assets) {
			out = append(out, c.assets[i])
		}
	}
	return out
}
