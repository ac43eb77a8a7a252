package optimization

import (
	"math"
	"sort"

	opterrors "github.com/ducminhle1904/portfolio-ga/internal/errors"
)

// Population owns one generation of candidates plus the best candidate seen so far
type Population struct {
	size       int
	candidates []*Candidate
	generation int
	best       *Candidate
	rng        Source
}

// NewPopulation creates an empty population engine.
// Reproduction works in pairs, so size must be positive and even.
func NewPopulation(size int, rng Source) (*Population, error) {
	if size <= 0 || size%2 != 0 {
		return nil, opterrors.NewConfigurationError("optimization", "NewPopulation", "population size must be positive and even").
			WithContext("size", size)
	}
	if rng == nil {
		return nil, opterrors.NewConfigurationError("optimization", "NewPopulation", "random source is required")
	}
	return &Population{
		size: size,
		rng:  rng,
	}, nil
}

// Initialize fills the population with random generation-0 candidates.
// Best points at the first candidate until something beats it; evaluate before trusting its fitness.
func (p *Population) Initialize(universe *Universe, constraints Constraints) {
	p.candidates = make([]*Candidate, p.size)
	for i := range p.candidates {
		p.candidates[i] = NewCandidate(universe, constraints, 0, p.rng)
	}
	p.generation = 0
	p.best = p.candidates[0]
}

// SetCandidates replaces the current generation; the best tracker is reset to the first entry
// when nothing has been tracked yet
func (p *Population) SetCandidates(candidates []*Candidate) {
	p.candidates = candidates
	p.size = len(candidates)
	if p.best == nil && len(candidates) > 0 {
		p.best = candidates[0]
	}
}

// EvaluateAll evaluates every candidate of the current generation
func (p *Population) EvaluateAll() {
	for _, c := range p.candidates {
		c.Evaluate()
	}
}

// TrackBest keeps a copy of c when its fitness strictly beats the best so far
func (p *Population) TrackBest(c *Candidate) bool {
	if p.best == nil || c.Fitness > p.best.Fitness {
		p.best = c.Clone()
		return true
	}
	return false
}

// TrackBestOf offers every candidate of the current generation to TrackBest
func (p *Population) TrackBestOf() bool {
	improved := false
	for _, c := range p.candidates {
		if p.TrackBest(c) {
			improved = true
		}
	}
	return improved
}

// EvaluationSum returns the total fitness of the current generation (the roulette wheel size)
func (p *Population) EvaluationSum() float64 {
	sum := 0.0
	for _, c := range p.candidates {
		sum += c.Fitness
	}
	return sum
}

// SelectParent picks an index by fitness-proportionate (roulette-wheel) selection.
// When the wheel has no positive area the pick is uniform.
func (p *Population) SelectParent(evaluationSum float64) int {
	if len(p.candidates) == 0 {
		return -1
	}
	if !(evaluationSum > 0) || math.IsInf(evaluationSum, 1) {
		return p.rng.Intn(len(p.candidates))
	}

	draw := p.rng.Float64() * evaluationSum
	return rouletteIndex(p.candidates, draw)
}

// AdvanceGeneration breeds the next generation and replaces the current one with it.
// Elitism lives only in the best tracker; no candidate is carried over.
func (p *Population) AdvanceGeneration(mutationRate float64) {
	evaluationSum := p.EvaluationSum()
	next := make([]*Candidate, 0, p.size)

	for i := 0; i < p.size/2; i++ {
		parent1 := p.SelectParent(evaluationSum)
		parent2 := p.SelectParent(evaluationSum)

		children := p.candidates[parent1].Crossover(p.candidates[parent2], p.rng)

		next = append(next, children[0].Mutate(mutationRate, p.rng))
		next = append(next, children[1].Mutate(mutationRate, p.rng))
	}

	p.candidates = next
	p.generation++
}

// Best returns the best candidate seen across all generations
func (p *Population) Best() *Candidate {
	return p.best
}

// Candidates returns the current generation
func (p *Population) Candidates() []*Candidate {
	return p.candidates
}

// Size returns the configured population size
func (p *Population) Size() int {
	return p.size
}

// Generation returns the index of the current generation
func (p *Population) Generation() int {
	return p.generation
}

// GenerationBest returns the fittest candidate of the current generation (first wins ties)
func (p *Population) GenerationBest() *Candidate {
	if len(p.candidates) == 0 {
		return nil
	}

	best := p.candidates[0]
	for _, c := range p.candidates[1:] {
		if c.Fitness > best.Fitness {
			best = c
		}
	}
	return best
}

// GetWorst returns the candidate with the lowest fitness
func (p *Population) GetWorst() *Candidate {
	if len(p.candidates) == 0 {
		return nil
	}

	worst := p.candidates[0]
	for _, c := range p.candidates[1:] {
		if c.Fitness < worst.Fitness {
			worst = c
		}
	}
	return worst
}

// SortByFitness sorts the population by fitness in descending order (best first).
// The sort is stable so equal fitness keeps breeding order.
func (p *Population) SortByFitness() {
	sort.SliceStable(p.candidates, func(i, j int) bool {
		return p.candidates[i].Fitness > p.candidates[j].Fitness
	})
}

// AverageFitness calculates the average fitness of the current generation
func (p *Population) AverageFitness() float64 {
	if len(p.candidates) == 0 {
		return 0.0
	}
	return p.EvaluationSum() / float64(len(p.candidates))
}

// FeasibleCount counts candidates that satisfy every constraint
func (p *Population) FeasibleCount() int {
	n := 0
	for _, c := range p.candidates {
		if c.Feasible {
			n++
		}
	}
	return n
}

// GetElite returns the top n candidates by fitness without reordering the population
func (p *Population) GetElite(n int) []*Candidate {
	if n > len(p.candidates) {
		n = len(p.candidates)
	}
	if n <= 0 {
		return nil
	}

	ranked := make([]*Candidate, len(p.candidates))
	copy(ranked, p.candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Fitness > ranked[j].Fitness
	})

	elite := make([]*Candidate, n)
	copy(elite, ranked[:n])
	return elite
}
