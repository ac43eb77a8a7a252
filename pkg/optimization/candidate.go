package optimization

import (
	"fmt"
	"strings"
)

// Candidate is one portfolio: bit i set means asset i is held
type Candidate struct {
	Chromosome []bool `json:"-"`
	Generation int    `json:"generation"`

	Fitness      float64 `json:"fitness"`
	AvgVariation float64 `json:"avg_variation"`
	AvgBeta      float64 `json:"avg_beta"`
	AvgRisk      float64 `json:"avg_risk"`
	RiskSum      float64 `json:"risk_sum"`
	Count        int     `json:"count"`
	Feasible     bool    `json:"feasible"`

	universe    *Universe
	constraints Constraints
	evaluated   bool
}

// NewCandidate creates a random candidate over the universe
func NewCandidate(universe *Universe, constraints Constraints, generation int, rng Source) *Candidate {
	return &Candidate{
		Chromosome:  randomBits(universe.Size(), rng),
		Generation:  generation,
		universe:    universe,
		constraints: constraints,
	}
}

// NewCandidateWithChromosome creates a candidate with a fixed bit pattern.
// The chromosome is copied.
func NewCandidateWithChromosome(universe *Universe, constraints Constraints, generation int, chromosome []bool) (*Candidate, error) {
	if len(chromosome) != universe.Size() {
		return nil, fmt.Errorf("chromosome length %d does not match universe size %d", len(chromosome), universe.Size())
	}
	bits := make([]bool, len(chromosome))
	copy(bits, chromosome)
	return &Candidate{
		Chromosome:  bits,
		Generation:  generation,
		universe:    universe,
		constraints: constraints,
	}, nil
}

// Evaluate recomputes fitness and the portfolio aggregates from the chromosome.
// A candidate that breaks any constraint gets PenaltyFitness regardless of its raw score.
func (c *Candidate) Evaluate() {
	score := 0.0
	betaSum := 0.0
	riskSum := 0.0
	count := 0

	for i, included := range c.Chromosome {
		if !included {
			continue
		}
		score += c.universe.Variations[i]
		betaSum += c.universe.Betas[i]
		riskSum += c.universe.Risks[i]
		count++
	}

	var avgBeta, avgRisk, avgVariation float64
	if count > 0 {
		avgBeta = betaSum / float64(count)
		avgRisk = riskSum / float64(count)
		avgVariation = score / float64(count)
	}

	feasible := avgBeta <= c.constraints.MaxAvgBeta &&
		count <= c.constraints.PortfolioSizeLimit &&
		avgRisk <= c.constraints.MaxRisk

	if feasible {
		c.Fitness = score
	} else {
		c.Fitness = PenaltyFitness
	}
	c.Feasible = feasible
	c.Count = count
	c.RiskSum = riskSum
	c.AvgBeta = avgBeta
	c.AvgRisk = avgRisk
	c.AvgVariation = avgVariation
	c.evaluated = true
}

// Crossover performs single-point crossover with other.
// The first child takes other's prefix and c's suffix, the second c's prefix and other's suffix.
// Children belong to the next generation after c and are not evaluated.
func (c *Candidate) Crossover(other *Candidate, rng Source) [2]*Candidate {
	if len(other.Chromosome) != len(c.Chromosome) {
		panic(fmt.Sprintf("crossover of chromosomes with different lengths: %d and %d", len(c.Chromosome), len(other.Chromosome)))
	}

	cut := rng.Intn(len(c.Chromosome) + 1)
	first, second := singlePointCrossover(c.Chromosome, other.Chromosome, cut)

	return [2]*Candidate{
		c.child(first),
		c.child(second),
	}
}

func (c *Candidate) child(chromosome []bool) *Candidate {
	return &Candidate{
		Chromosome:  chromosome,
		Generation:  c.Generation + 1,
		universe:    c.universe,
		constraints: c.constraints,
	}
}

// Mutate flips each bit with probability rate, in place, and returns c.
// Fitness is stale afterwards until Evaluate runs again.
func (c *Candidate) Mutate(rate float64, rng Source) *Candidate {
	if flipBits(c.Chromosome, rate, rng) > 0 {
		c.evaluated = false
	}
	return c
}

// Clone creates a deep copy of this candidate
func (c *Candidate) Clone() *Candidate {
	cp := *c
	cp.Chromosome = make([]bool, len(c.Chromosome))
	copy(cp.Chromosome, c.Chromosome)
	return &cp
}

// Evaluated reports whether the derived fields match the current chromosome
func (c *Candidate) Evaluated() bool {
	return c.evaluated
}

// Constraints returns the constraint set this candidate is judged against
func (c *Candidate) Constraints() Constraints {
	return c.constraints
}

// Included returns the indexes of the assets held
func (c *Candidate) Included() []int {
	idx := make([]int, 0, len(c.Chromosome))
	for i, included := range c.Chromosome {
		if included {
			idx = append(idx, i)
		}
	}
	return idx
}

// String renders the chromosome as a bitstring such as "0110"
func (c *Candidate) String() string {
	return FormatChromosome(c.Chromosome)
}

// FormatChromosome renders bits as a string of '0' and '1'
func FormatChromosome(bits []bool) string {
	var b strings.Builder
	b.Grow(len(bits))
	for _, bit := range bits {
		if bit {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// ParseChromosome is the inverse of FormatChromosome
func ParseChromosome(s string) ([]bool, error) {
	bits := make([]bool, len(s))
	for i, r := range s {
		switch r {
		case '0':
		case '1':
			bits[i] = true
		default:
			return nil, fmt.Errorf("invalid chromosome character %q at position %d", r, i)
		}
	}
	return bits, nil
}
