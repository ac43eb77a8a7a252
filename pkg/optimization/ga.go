package optimization

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	opterrors "github.com/ducminhle1904/portfolio-ga/internal/errors"
)

// State is the phase the optimizer is in
type State int

const (
	StateInit State = iota
	StateEvaluate
	StateSelectReproduce
	StateTerminal
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateEvaluate:
		return "evaluate"
	case StateSelectReproduce:
		return "select-reproduce"
	case StateTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// Outcome tells whether a run produced a portfolio that satisfies the constraints
type Outcome string

const (
	OutcomeSolved          Outcome = "solved"
	OutcomeNoValidSolution Outcome = "no_valid_solution"
)

// GenerationStats summarizes one evaluated generation
type GenerationStats struct {
	Generation      int     `json:"generation"`
	BestFitness     float64 `json:"best_fitness"`
	BestEverFitness float64 `json:"best_ever_fitness"`
	AverageFitness  float64 `json:"average_fitness"`
	WorstFitness    float64 `json:"worst_fitness"`
	EvaluationSum   float64 `json:"evaluation_sum"`
	FeasibleCount   int     `json:"feasible_count"`
	PopulationSize  int     `json:"population_size"`
	Improved        bool    `json:"improved"`
	BestChromosome  string  `json:"best_chromosome"`
}

// Result is the outcome of a full run
type Result struct {
	RunID       string             `json:"run_id"`
	Outcome     Outcome            `json:"outcome"`
	Best        *Candidate         `json:"best"`
	Chromosome  []bool             `json:"-"`
	Selected    []int              `json:"selected"`
	Generations int                `json:"generations"`
	History     []GenerationStats  `json:"history"`
	Seed        int64              `json:"seed"`
	Config      OptimizationConfig `json:"config"`
	StartedAt   time.Time          `json:"started_at"`
	Duration    time.Duration      `json:"duration"`
}

// Solved reports whether the best candidate satisfies every constraint
func (r *Result) Solved() bool {
	return r.Outcome == OutcomeSolved
}

// Optimizer drives the generation loop over a Population
type Optimizer struct {
	config    OptimizationConfig
	rng       Source
	seed      int64
	state     State
	logger    Logger
	observers []GenerationObserver
}

// NewOptimizer creates an optimizer. When rng is nil a source seeded from cfg.Seed
// (or the clock when the seed is 0) is created.
func NewOptimizer(cfg OptimizationConfig, rng Source) (*Optimizer, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if rng == nil {
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}

	return &Optimizer{
		config: cfg,
		rng:    rng,
		seed:   seed,
		state:  StateInit,
		logger: nopLogger{},
	}, nil
}

// ValidateConfig checks the parameters the generation loop relies on
func ValidateConfig(cfg OptimizationConfig) error {
	const component, operation = "optimization", "ValidateConfig"

	if cfg.PopulationSize <= 0 || cfg.PopulationSize%2 != 0 {
		return opterrors.NewConfigurationError(component, operation, "population size must be positive and even").
			WithContext("population_size", cfg.PopulationSize)
	}
	if cfg.Generations < 0 {
		return opterrors.NewConfigurationError(component, operation, "generations must be non-negative").
			WithContext("generations", cfg.Generations)
	}
	if !(cfg.MutationRate >= 0 && cfg.MutationRate <= 1) {
		return opterrors.NewConfigurationError(component, operation, "mutation rate must be within [0, 1]").
			WithContext("mutation_rate", cfg.MutationRate)
	}
	if cfg.Constraints.PortfolioSizeLimit <= 0 {
		return opterrors.NewConfigurationError(component, operation, "portfolio size limit must be positive").
			WithContext("portfolio_size_limit", cfg.Constraints.PortfolioSizeLimit)
	}
	if !(cfg.Constraints.MaxRisk >= 0) {
		return opterrors.NewConfigurationError(component, operation, "max risk must be non-negative").
			WithContext("max_risk", cfg.Constraints.MaxRisk)
	}
	if !(cfg.Constraints.MaxAvgBeta > 0) {
		return opterrors.NewConfigurationError(component, operation, "max average beta must be positive").
			WithContext("max_avg_beta", cfg.Constraints.MaxAvgBeta)
	}
	return nil
}

// SetLogger routes progress messages to l
func (o *Optimizer) SetLogger(l Logger) {
	if l == nil {
		l = nopLogger{}
	}
	o.logger = l
}

// AddObserver registers an observer for per-generation statistics
func (o *Optimizer) AddObserver(obs GenerationObserver) {
	o.observers = append(o.observers, obs)
}

// State returns the phase of the most recent Solve call
func (o *Optimizer) State() State {
	return o.state
}

// Seed returns the seed of the internally created source, or cfg.Seed when a source was injected
func (o *Optimizer) Seed() int64 {
	return o.seed
}

// Solve runs the genetic algorithm over universe and returns the best portfolio found
func (o *Optimizer) Solve(universe *Universe) (*Result, error) {
	if universe == nil || universe.Size() == 0 {
		return nil, opterrors.NewConfigurationError("optimization", "Solve", "asset universe is empty")
	}

	started := time.Now()
	result := &Result{
		RunID:     uuid.NewString(),
		Seed:      o.seed,
		Config:    o.config,
		StartedAt: started,
	}

	o.state = StateInit
	population, err := NewPopulation(o.config.PopulationSize, o.rng)
	if err != nil {
		return nil, err
	}
	population.Initialize(universe, o.config.Constraints)
	o.logger.Info("🧬 Run %s: %d assets, population %d, %d generations, mutation %.2f",
		result.RunID, universe.Size(), o.config.PopulationSize, o.config.Generations, o.config.MutationRate)

	o.state = StateEvaluate
	population.EvaluateAll()
	improved := population.TrackBestOf()
	result.History = append(result.History, o.record(population, improved))

	for gen := 0; gen < o.config.Generations; gen++ {
		o.state = StateSelectReproduce
		population.AdvanceGeneration(o.config.MutationRate)

		o.state = StateEvaluate
		population.EvaluateAll()
		improved = population.TrackBestOf()
		result.History = append(result.History, o.record(population, improved))
	}

	o.state = StateTerminal
	best := population.Best()
	result.Best = best.Clone()
	result.Chromosome = result.Best.Chromosome
	result.Selected = result.Best.Included()
	result.Generations = population.Generation()
	result.Duration = time.Since(started)

	if best.Fitness == PenaltyFitness && !best.Feasible {
		result.Outcome = OutcomeNoValidSolution
		o.logger.Warning("⚠️ A valid solution was not found after %d generations", result.Generations)
	} else {
		result.Outcome = OutcomeSolved
		o.logger.Info("✅ Best solution: generation=%d score=%.4f variation=%.4f beta=%.4f risk=%.4f chromosome=%s",
			best.Generation, best.Fitness, best.AvgVariation, best.AvgBeta, best.AvgRisk, best.String())
	}

	return result, nil
}

// record builds the statistics of the current generation and notifies observers
func (o *Optimizer) record(p *Population, improved bool) GenerationStats {
	genBest := p.GenerationBest()
	stats := GenerationStats{
		Generation:      p.Generation(),
		BestFitness:     genBest.Fitness,
		BestEverFitness: p.Best().Fitness,
		AverageFitness:  p.AverageFitness(),
		WorstFitness:    p.GetWorst().Fitness,
		EvaluationSum:   p.EvaluationSum(),
		FeasibleCount:   p.FeasibleCount(),
		PopulationSize:  p.Size(),
		Improved:        improved,
		BestChromosome:  genBest.String(),
	}

	o.logger.Info("Generation = %d Score = %.4f Chromosome = %s", stats.Generation, stats.BestFitness, stats.BestChromosome)
	for _, obs := range o.observers {
		obs.OnGeneration(stats)
	}
	return stats
}

// Solve mirrors the call shape of the B3 study: explicit vectors and constraint
// parameters in, best chromosome out. maxAvgBeta is the average-beta ceiling.
func Solve(mutationRate float64, numGenerations int, variations, betas, risks []float64,
	maxAvgBeta float64, portfolioSizeLimit int, maxRisk float64, populationSize int, rng Source) ([]bool, error) {

	universe, err := NewUniverse(nil, variations, betas, risks)
	if err != nil {
		return nil, err
	}

	opt, err := NewOptimizer(OptimizationConfig{
		PopulationSize: populationSize,
		Generations:    numGenerations,
		MutationRate:   mutationRate,
		Constraints: Constraints{
			PortfolioSizeLimit: portfolioSizeLimit,
			MaxRisk:            maxRisk,
			MaxAvgBeta:         maxAvgBeta,
		},
	}, rng)
	if err != nil {
		return nil, err
	}

	result, err := opt.Solve(universe)
	if err != nil {
		return nil, err
	}
	return result.Chromosome, nil
}
