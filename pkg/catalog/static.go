package catalog

import (
	"context"

	"github.com/ducminhle1904/portfolio-ga/pkg/types"
)

// DefaultAssets is the thirteen-asset B3 study list: twelve-month variation (%), beta and risk.
func DefaultAssets() []types.Asset {
	return []types.Asset{
		{Name: "ITUB", Variation: 2.8, Beta: 1.06, Risk: 1.4},
		{Name: "ITSA", Variation: 2.019, Beta: 1.09, Risk: 1.009},
		{Name: "CSAN", Variation: 39.28, Beta: 0.94, Risk: 19.14},
		{Name: "CSNA", Variation: 58.33, Beta: 1.3, Risk: 29.165},
		{Name: "GGBR", Variation: 25.3, Beta: 1.6, Risk: 12.65},
		{Name: "EMBR", Variation: 288.04, Beta: 0.73, Risk: 144.02},
		{Name: "WEGE", Variation: 1.5, Beta: 0.52, Risk: 0.75},
		{Name: "TAEE", Variation: 31.84, Beta: 0.51, Risk: 15.92},
		{Name: "VALE", Variation: 32.5, Beta: 0.51, Risk: 16.25},
		{Name: "LAME", Variation: -8.146, Beta: 1.19, Risk: 4.073},
		{Name: "MGLU", Variation: -41.33, Beta: 0.99, Risk: 20.665},
		{Name: "PRIO", Variation: 290.64, Beta: 1.64, Risk: 145.32},
		{Name: "PETR", Variation: 48.08, Beta: 1.56, Risk: 17},
	}
}

// StaticProvider serves a fixed asset list
type StaticProvider struct {
	name   string
	assets []types.Asset
}

// NewStaticProvider wraps a fixed asset list
func NewStaticProvider(name string, assets []types.Asset) *StaticProvider {
	return &StaticProvider{name: name, assets: assets}
}

// NewDefaultProvider serves DefaultAssets
func NewDefaultProvider() *StaticProvider {
	return NewStaticProvider("Default Catalog", DefaultAssets())
}

func (p *StaticProvider) GetName() string {
	return p.name
}

func (p *StaticProvider) Load(ctx context.Context) ([]types.Asset, error) {
	out := make([]types.Asset, len(p.assets))
	copy(out, p.assets)
	return out, nil
}
