package optimization

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// scriptedSource replays fixed values so operator tests can pin every random draw
type scriptedSource struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (s *scriptedSource) Float64() float64 {
	if len(s.floats) == 0 {
		return 0
	}
	v := s.floats[s.fi%len(s.floats)]
	s.fi++
	return v
}

func (s *scriptedSource) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[s.ii%len(s.ints)]
	s.ii++
	return v % n
}

// studyUniverse is the thirteen-asset list of the B3 study
func studyUniverse(t *testing.T) *Universe {
	t.Helper()
	u, err := NewUniverse(
		[]string{"ITUB", "ITSA", "CSAN", "CSNA", "GGBR", "EMBR", "WEGE", "TAEE", "VALE", "LAME", "MGLU", "PRIO", "PETR"},
		[]float64{2.8, 2.019, 39.28, 58.33, 25.3, 288.04, 1.5, 31.84, 32.5, -8.146, -41.33, 290.64, 48.08},
		[]float64{1.06, 1.09, 0.94, 1.3, 1.6, 0.73, 0.52, 0.51, 0.51, 1.19, 0.99, 1.64, 1.56},
		[]float64{1.4, 1.009, 19.14, 29.165, 12.65, 144.02, 0.75, 15.92, 16.25, 4.073, 20.665, 145.32, 17},
	)
	require.NoError(t, err)
	return u
}

// smallUniverse has one asset per constraint to trip
func smallUniverse(t *testing.T) *Universe {
	t.Helper()
	u, err := NewUniverse(
		[]string{"HIBETA", "STEADY", "RISKY", "GROWTH"},
		[]float64{10, 5, -4, 8},
		[]float64{2.5, 1.0, 0.5, 1.2},
		[]float64{1, 2, 30, 3},
	)
	require.NoError(t, err)
	return u
}

func smallConstraints() Constraints {
	return Constraints{PortfolioSizeLimit: 2, MaxRisk: 10, MaxAvgBeta: 1.9}
}

func mustParse(t *testing.T, s string) []bool {
	t.Helper()
	bits, err := ParseChromosome(s)
	require.NoError(t, err)
	return bits
}

func withFitness(values ...float64) []*Candidate {
	out := make([]*Candidate, len(values))
	for i, v := range values {
		out[i] = &Candidate{Fitness: v, Chromosome: []bool{}}
	}
	return out
}
