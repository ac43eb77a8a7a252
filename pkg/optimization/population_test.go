package optimization

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	opterrors "github.com/ducminhle1904/portfolio-ga/internal/errors"
)

func TestNewPopulation_RejectsBadSizes(t *testing.T) {
	for _, size := range []int{0, -2, 3, 7} {
		_, err := NewPopulation(size, rand.New(rand.NewSource(1)))
		require.Error(t, err, "size %d", size)
		assert.True(t, opterrors.IsConfigurationError(err))
	}

	_, err := NewPopulation(4, nil)
	assert.True(t, opterrors.IsConfigurationError(err))
}

func TestPopulation_Initialize(t *testing.T) {
	u := studyUniverse(t)
	p, err := NewPopulation(10, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	p.Initialize(u, DefaultConstraints())

	require.Len(t, p.Candidates(), 10)
	assert.Same(t, p.Candidates()[0], p.Best())
	assert.Equal(t, 0, p.Generation())
	for _, c := range p.Candidates() {
		assert.Len(t, c.Chromosome, u.Size())
		assert.Equal(t, 0, c.Generation)
	}

	p.EvaluateAll()
	for _, c := range p.Candidates() {
		assert.True(t, c.Evaluated())
	}
}

func TestPopulation_SelectParentWorkedExample(t *testing.T) {
	tests := []struct {
		name     string
		draw     float64
		expected int
	}{
		{"draw 0.5 lands in the first slot", 0.05, 0},
		{"draw exactly on the first boundary", 0.5, 0},
		{"draw 6 reaches cumulative 6 at the second slot", 0.6, 1},
		{"draw 6.5 needs the third slot", 0.65, 2},
		{"draw near the top lands in the last slot", 0.99, 3},
		{"zero draw picks the first slot", 0.0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPopulation(4, &scriptedSource{floats: []float64{tt.draw}})
			require.NoError(t, err)
			p.SetCandidates(withFitness(5, 1, 1, 3))

			sum := p.EvaluationSum()
			require.Equal(t, 10.0, sum)

			assert.Equal(t, tt.expected, p.SelectParent(sum))
		})
	}
}

func TestPopulation_SelectParentFallsBackToUniform(t *testing.T) {
	tests := []struct {
		name     string
		fitness  []float64
		expected int
	}{
		{"all zero", []float64{0, 0, 0, 0}, 3},
		{"net loss", []float64{-5, 1, 1, 1}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := &scriptedSource{ints: []int{3}, floats: []float64{0.9}}
			p, err := NewPopulation(4, rng)
			require.NoError(t, err)
			p.SetCandidates(withFitness(tt.fitness...))

			assert.Equal(t, tt.expected, p.SelectParent(p.EvaluationSum()))
			assert.Equal(t, 0, rng.fi, "the roulette draw must not be consumed")
		})
	}
}

func TestPopulation_SelectParentUniformForEqualFitness(t *testing.T) {
	p, err := NewPopulation(4, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	p.SetCandidates(withFitness(2, 2, 2, 2))

	const trials = 20000
	counts := make([]int, 4)
	sum := p.EvaluationSum()
	for i := 0; i < trials; i++ {
		counts[p.SelectParent(sum)]++
	}

	for i, n := range counts {
		assert.InDelta(t, trials/4, n, trials/4*0.1, "slot %d picked %d times", i, n)
	}
}

func TestPopulation_TrackBestIsStrict(t *testing.T) {
	u := smallUniverse(t)
	p, err := NewPopulation(2, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	infeasible, _ := NewCandidateWithChromosome(u, smallConstraints(), 0, mustParse(t, "1000"))
	infeasible.Evaluate()
	empty, _ := NewCandidateWithChromosome(u, smallConstraints(), 0, mustParse(t, "0000"))
	empty.Evaluate()
	good, _ := NewCandidateWithChromosome(u, smallConstraints(), 1, mustParse(t, "0101"))
	good.Evaluate()

	p.SetCandidates([]*Candidate{infeasible, empty})
	assert.Same(t, infeasible, p.Best())

	assert.False(t, p.TrackBest(empty), "a feasible score below the sentinel does not win")
	assert.False(t, p.TrackBest(infeasible), "ties do not replace")
	assert.True(t, p.TrackBest(good))
	assert.Equal(t, 13.0, p.Best().Fitness)
	assert.NotSame(t, good, p.Best(), "best is kept as a copy")

	good.Chromosome[0] = true
	assert.Equal(t, "0101", p.Best().String())
}

func TestPopulation_AdvanceGeneration(t *testing.T) {
	u := studyUniverse(t)
	p, err := NewPopulation(20, rand.New(rand.NewSource(9)))
	require.NoError(t, err)
	p.Initialize(u, DefaultConstraints())
	p.EvaluateAll()
	p.TrackBestOf()
	old := p.Candidates()

	p.AdvanceGeneration(0.1)

	assert.Equal(t, 1, p.Generation())
	require.Len(t, p.Candidates(), 20)
	for _, c := range p.Candidates() {
		assert.Equal(t, 1, c.Generation)
		assert.Len(t, c.Chromosome, u.Size())
		for _, prev := range old {
			assert.NotSame(t, prev, c)
		}
	}
	seen := make(map[*Candidate]bool)
	for _, c := range p.Candidates() {
		assert.False(t, seen[c], "a candidate occupies two slots")
		seen[c] = true
	}
}

func TestPopulation_Statistics(t *testing.T) {
	p, err := NewPopulation(4, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	cands := withFitness(5, 1, 7, 3)
	cands[0].Feasible = true
	cands[2].Feasible = true
	p.SetCandidates(cands)

	assert.Equal(t, 7.0, p.GenerationBest().Fitness)
	assert.Equal(t, 1.0, p.GetWorst().Fitness)
	assert.Equal(t, 4.0, p.AverageFitness())
	assert.Equal(t, 2, p.FeasibleCount())

	elite := p.GetElite(2)
	require.Len(t, elite, 2)
	assert.Equal(t, 7.0, elite[0].Fitness)
	assert.Equal(t, 5.0, elite[1].Fitness)
	assert.Equal(t, 5.0, p.Candidates()[0].Fitness, "GetElite leaves the population order alone")
	assert.Len(t, p.GetElite(10), 4)

	p.SortByFitness()
	assert.Equal(t, []float64{7, 5, 3, 1}, []float64{
		p.Candidates()[0].Fitness, p.Candidates()[1].Fitness,
		p.Candidates()[2].Fitness, p.Candidates()[3].Fitness,
	})
}
