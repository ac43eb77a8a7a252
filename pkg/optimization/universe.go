package optimization

import (
	"math"
	"strconv"

	opterrors "github.com/ducminhle1904/portfolio-ga/internal/errors"
	"github.com/ducminhle1904/portfolio-ga/pkg/types"
)

// Universe holds the read-only asset vectors shared by every candidate of a run
type Universe struct {
	Names      []string
	Variations []float64
	Betas      []float64
	Risks      []float64
}

// NewUniverse validates the input vectors and wraps them.
// names may be nil; the numeric vectors must be non-empty and of equal length.
func NewUniverse(names []string, variations, betas, risks []float64) (*Universe, error) {
	n := len(variations)
	if n == 0 {
		return nil, opterrors.NewConfigurationError("optimization", "NewUniverse", "asset universe is empty")
	}
	if len(betas) != n || len(risks) != n || (names != nil && len(names) != n) {
		return nil, opterrors.NewConfigurationError("optimization", "NewUniverse", "input vectors differ in length").
			WithContext("names", len(names)).
			WithContext("variations", n).
			WithContext("betas", len(betas)).
			WithContext("risks", len(risks))
	}
	for i := 0; i < n; i++ {
		if !isFinite(variations[i]) || !isFinite(betas[i]) || !isFinite(risks[i]) {
			return nil, opterrors.NewConfigurationError("optimization", "NewUniverse", "asset values must be finite").
				WithContext("index", i)
		}
		if risks[i] < 0 {
			return nil, opterrors.NewConfigurationError("optimization", "NewUniverse", "asset risk must be non-negative").
				WithContext("index", i).
				WithContext("risk", risks[i])
		}
	}

	return &Universe{
		Names:      names,
		Variations: variations,
		Betas:      betas,
		Risks:      risks,
	}, nil
}

// UniverseFromAssets splits asset records into the parallel vectors the GA works on
func UniverseFromAssets(assets []types.Asset) (*Universe, error) {
	names := make([]string, len(assets))
	variations := make([]float64, len(assets))
	betas := make([]float64, len(assets))
	risks := make([]float64, len(assets))
	for i, a := range assets {
		names[i] = a.Name
		variations[i] = a.Variation
		betas[i] = a.Beta
		risks[i] = a.Risk
	}
	return NewUniverse(names, variations, betas, risks)
}

// Size returns the chromosome length for this universe
func (u *Universe) Size() int {
	return len(u.Variations)
}

// Name returns the asset name at index i, or a positional label when names are absent
func (u *Universe) Name(i int) string {
	if i < len(u.Names) {
		return u.Names[i]
	}
	return "asset-" + strconv.Itoa(i)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
