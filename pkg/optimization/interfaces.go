package optimization

// Package optimization provides the genetic algorithm that picks a portfolio out of an
// asset universe

// Source is the random stream every stochastic step draws from.
// *math/rand.Rand satisfies it; tests substitute scripted sources.
type Source interface {
	Float64() float64
	Intn(n int) int
}

// Logger receives progress messages from the optimizer
type Logger interface {
	Info(format string, args ...interface{})
	Warning(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// GenerationObserver is notified after every evaluated generation, including generation 0
type GenerationObserver interface {
	OnGeneration(stats GenerationStats)
}

// GA defaults taken from the B3 portfolio study
const (
	DefaultPopulationSize     = 250
	DefaultGenerations        = 250
	DefaultMutationRate       = 0.10
	DefaultPortfolioSizeLimit = 7
	DefaultMaxRisk            = 25.0
	DefaultMaxAvgBeta         = 1.9

	// PenaltyFitness is assigned to every candidate that breaks a constraint
	PenaltyFitness = 1.0
)

// Constraints bounds what a feasible portfolio may look like
type Constraints struct {
	PortfolioSizeLimit int     `json:"portfolio_size_limit"`
	MaxRisk            float64 `json:"max_risk"`
	MaxAvgBeta         float64 `json:"max_avg_beta"`
}

// DefaultConstraints returns the constraint set of the B3 study
func DefaultConstraints() Constraints {
	return Constraints{
		PortfolioSizeLimit: DefaultPortfolioSizeLimit,
		MaxRisk:            DefaultMaxRisk,
		MaxAvgBeta:         DefaultMaxAvgBeta,
	}
}

// OptimizationConfig holds the configuration for the genetic algorithm
type OptimizationConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	Seed           int64
	Constraints    Constraints
}

// DefaultOptimizationConfig returns the parameters of the B3 study
func DefaultOptimizationConfig() OptimizationConfig {
	return OptimizationConfig{
		PopulationSize: DefaultPopulationSize,
		Generations:    DefaultGenerations,
		MutationRate:   DefaultMutationRate,
		Constraints:    DefaultConstraints(),
	}
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})    {}
func (nopLogger) Warning(string, ...interface{}) {}
func (nopLogger) Error(string, ...interface{})   {}
