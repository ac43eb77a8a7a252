package reporting

import (
	"time"

	"github.com/ducminhle1904/portfolio-ga/pkg/optimization"
	"github.com/ducminhle1904/portfolio-ga/pkg/types"
)

// Report is a finished run together with the catalog it searched
type Report struct {
	Result   *optimization.Result
	Source   string
	Assets   []types.Asset
	Selected []types.Asset
}

// NewReport resolves the selected asset records of result against the catalog assets.
// An unsolved run selects nothing.
func NewReport(result *optimization.Result, source string, assets []types.Asset) *Report {
	r := &Report{
		Result: result,
		Source: source,
		Assets: assets,
	}
	if !result.Solved() {
		return r
	}
	for _, idx := range result.Selected {
		if idx >= 0 && idx < len(assets) {
			r.Selected = append(r.Selected, assets[idx])
		}
	}
	return r
}

// SelectedNames lists the names of the chosen assets in catalog order
func (r *Report) SelectedNames() []string {
	names := make([]string, len(r.Selected))
	for i, a := range r.Selected {
		names[i] = a.Name
	}
	return names
}

// ChromosomeString renders the best chromosome as 0/1 text
func (r *Report) ChromosomeString() string {
	return optimization.FormatChromosome(r.Result.Chromosome)
}

// Document is the JSON representation of a report
type Document struct {
	RunID       string                         `json:"run_id"`
	Outcome     optimization.Outcome           `json:"outcome"`
	Source      string                         `json:"source"`
	Seed        int64                          `json:"seed"`
	StartedAt   time.Time                      `json:"started_at"`
	DurationMS  int64                          `json:"duration_ms"`
	Generations int                            `json:"generations"`
	Config      ConfigDocument                 `json:"config"`
	Best        *optimization.Candidate        `json:"best"`
	Chromosome  string                         `json:"chromosome"`
	Selected    []types.Asset                  `json:"selected"`
	History     []optimization.GenerationStats `json:"history,omitempty"`
}

// ConfigDocument mirrors optimization.OptimizationConfig with JSON names
type ConfigDocument struct {
	PopulationSize     int     `json:"population_size"`
	Generations        int     `json:"generations"`
	MutationRate       float64 `json:"mutation_rate"`
	PortfolioSizeLimit int     `json:"portfolio_size_limit"`
	MaxRisk            float64 `json:"max_risk"`
	MaxAvgBeta         float64 `json:"max_avg_beta"`
}

// Document builds the JSON form of the report
func (r *Report) Document(includeHistory bool) Document {
	res := r.Result
	doc := Document{
		RunID:       res.RunID,
		Outcome:     res.Outcome,
		Source:      r.Source,
		Seed:        res.Seed,
		StartedAt:   res.StartedAt,
		DurationMS:  res.Duration.Milliseconds(),
		Generations: res.Generations,
		Config: ConfigDocument{
			PopulationSize:     res.Config.PopulationSize,
			Generations:        res.Config.Generations,
			MutationRate:       res.Config.MutationRate,
			PortfolioSizeLimit: res.Config.Constraints.PortfolioSizeLimit,
			MaxRisk:            res.Config.Constraints.MaxRisk,
			MaxAvgBeta:         res.Config.Constraints.MaxAvgBeta,
		},
		Best:       res.Best,
		Chromosome: r.ChromosomeString(),
		Selected:   r.Selected,
	}
	if doc.Selected == nil {
		doc.Selected = []types.Asset{}
	}
	if includeHistory {
		doc.History = res.History
	}
	return doc
}
