package optimization

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	opterrors "github.com/ducminhle1904/portfolio-ga/internal/errors"
)

type recordingObserver struct {
	stats []GenerationStats
}

func (r *recordingObserver) OnGeneration(s GenerationStats) {
	r.stats = append(r.stats, s)
}

func studyConfig(seed int64) OptimizationConfig {
	cfg := DefaultOptimizationConfig()
	cfg.PopulationSize = 100
	cfg.Generations = 60
	cfg.Seed = seed
	return cfg
}

func TestOptimizer_SolveStudyUniverse(t *testing.T) {
	opt, err := NewOptimizer(studyConfig(7), nil)
	require.NoError(t, err)
	obs := &recordingObserver{}
	opt.AddObserver(obs)

	result, err := opt.Solve(studyUniverse(t))
	require.NoError(t, err)

	assert.Equal(t, OutcomeSolved, result.Outcome)
	assert.True(t, result.Solved())
	assert.Equal(t, StateTerminal, opt.State())
	assert.Equal(t, 60, result.Generations)
	assert.Len(t, result.History, 61)
	assert.Len(t, obs.stats, 61)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, int64(7), result.Seed)

	best := result.Best
	require.NotNil(t, best)
	assert.True(t, best.Feasible)
	assert.Greater(t, best.Fitness, PenaltyFitness)
	assert.LessOrEqual(t, best.Count, DefaultPortfolioSizeLimit)
	assert.LessOrEqual(t, best.AvgRisk, DefaultMaxRisk)
	assert.LessOrEqual(t, best.AvgBeta, DefaultMaxAvgBeta)
	assert.Equal(t, best.Included(), result.Selected)
	assert.Len(t, result.Chromosome, 13)
}

func TestOptimizer_BestEverNeverDecreases(t *testing.T) {
	opt, err := NewOptimizer(studyConfig(21), nil)
	require.NoError(t, err)

	result, err := opt.Solve(studyUniverse(t))
	require.NoError(t, err)

	for i := 1; i < len(result.History); i++ {
		assert.GreaterOrEqual(t, result.History[i].BestEverFitness, result.History[i-1].BestEverFitness)
		assert.Equal(t, i, result.History[i].Generation)
	}
	last := result.History[len(result.History)-1]
	assert.Equal(t, result.Best.Fitness, last.BestEverFitness)
}

func TestOptimizer_ZeroGenerationsReturnsInitialBest(t *testing.T) {
	cfg := studyConfig(3)
	cfg.Generations = 0
	opt, err := NewOptimizer(cfg, nil)
	require.NoError(t, err)

	result, err := opt.Solve(studyUniverse(t))
	require.NoError(t, err)

	assert.Equal(t, 0, result.Generations)
	assert.Equal(t, 0, result.Best.Generation)
	require.Len(t, result.History, 1)
	assert.Equal(t, result.History[0].BestFitness, result.Best.Fitness)
}

func TestOptimizer_DeterministicForSeed(t *testing.T) {
	run := func() *Result {
		opt, err := NewOptimizer(studyConfig(99), nil)
		require.NoError(t, err)
		result, err := opt.Solve(studyUniverse(t))
		require.NoError(t, err)
		return result
	}

	a, b := run(), run()

	assert.Equal(t, a.Best.String(), b.Best.String())
	assert.Equal(t, a.Best.Fitness, b.Best.Fitness)
	assert.Equal(t, a.Best.Generation, b.Best.Generation)
	assert.Equal(t, a.History, b.History)
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestOptimizer_InjectedSourceIsUsed(t *testing.T) {
	cfg := studyConfig(0)
	cfg.Generations = 5

	solve := func(seed int64) *Result {
		opt, err := NewOptimizer(cfg, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		result, err := opt.Solve(studyUniverse(t))
		require.NoError(t, err)
		return result
	}

	assert.Equal(t, solve(5).History, solve(5).History)
}

func TestOptimizer_NoValidSolution(t *testing.T) {
	u, err := NewUniverse(nil,
		[]float64{4, 8, 15, 16, 23, 42},
		[]float64{2.0, 2.2, 2.4, 2.6, 2.8, 3.0},
		[]float64{1, 1, 1, 1, 1, 1},
	)
	require.NoError(t, err)

	cfg := studyConfig(17)
	cfg.PopulationSize = 20
	cfg.Generations = 10
	opt, err := NewOptimizer(cfg, nil)
	require.NoError(t, err)

	result, err := opt.Solve(u)
	require.NoError(t, err)

	assert.Equal(t, OutcomeNoValidSolution, result.Outcome)
	assert.Equal(t, PenaltyFitness, result.Best.Fitness)
	assert.False(t, result.Best.Feasible)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*OptimizationConfig)
	}{
		{"odd population", func(c *OptimizationConfig) { c.PopulationSize = 11 }},
		{"empty population", func(c *OptimizationConfig) { c.PopulationSize = 0 }},
		{"negative generations", func(c *OptimizationConfig) { c.Generations = -1 }},
		{"mutation above one", func(c *OptimizationConfig) { c.MutationRate = 1.5 }},
		{"negative mutation", func(c *OptimizationConfig) { c.MutationRate = -0.1 }},
		{"zero portfolio limit", func(c *OptimizationConfig) { c.Constraints.PortfolioSizeLimit = 0 }},
		{"negative max risk", func(c *OptimizationConfig) { c.Constraints.MaxRisk = -1 }},
		{"zero beta ceiling", func(c *OptimizationConfig) { c.Constraints.MaxAvgBeta = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultOptimizationConfig()
			tt.modify(&cfg)

			err := ValidateConfig(cfg)
			require.Error(t, err)
			assert.True(t, opterrors.IsConfigurationError(err))

			_, err = NewOptimizer(cfg, nil)
			assert.Error(t, err)
		})
	}

	assert.NoError(t, ValidateConfig(DefaultOptimizationConfig()))
}

func TestNewUniverse_Validation(t *testing.T) {
	_, err := NewUniverse(nil, []float64{1, 2}, []float64{1}, []float64{1, 2})
	assert.True(t, opterrors.IsConfigurationError(err))

	_, err = NewUniverse([]string{"A"}, []float64{1, 2}, []float64{1, 1}, []float64{1, 2})
	assert.True(t, opterrors.IsConfigurationError(err))

	_, err = NewUniverse(nil, nil, nil, nil)
	assert.True(t, opterrors.IsConfigurationError(err))

	_, err = NewUniverse(nil, []float64{1}, []float64{1}, []float64{-1})
	assert.True(t, opterrors.IsConfigurationError(err))

	u, err := NewUniverse(nil, []float64{1}, []float64{1}, []float64{0})
	require.NoError(t, err)
	assert.Equal(t, "asset-0", u.Name(0))
}

func TestSolve_ReferenceCallShape(t *testing.T) {
	u := studyUniverse(t)

	chromosome, err := Solve(0.10, 30, u.Variations, u.Betas, u.Risks,
		DefaultMaxAvgBeta, DefaultPortfolioSizeLimit, DefaultMaxRisk, 50, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Len(t, chromosome, 13)

	_, err = Solve(0.10, 30, u.Variations, u.Betas[:3], u.Risks,
		DefaultMaxAvgBeta, DefaultPortfolioSizeLimit, DefaultMaxRisk, 50, nil)
	assert.True(t, opterrors.IsConfigurationError(err))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "init", StateInit.String())
	assert.Equal(t, "select-reproduce", StateSelectReproduce.String())
	assert.Equal(t, "unknown", State(42).String())
}
