package optimization

// randomBits returns n bits, each set with probability 0.5
func randomBits(n int, rng Source) []bool {
	bits := make([]bool, n)
	for i := range bits {
		bits[i] = rng.Float64() >= 0.5
	}
	return bits
}

// singlePointCrossover splits both parents at cut and swaps the tails.
// first = b[:cut]+a[cut:], second = a[:cut]+b[cut:]. Results never share storage with the parents.
func singlePointCrossover(a, b []bool, cut int) (first, second []bool) {
	first = make([]bool, len(a))
	second = make([]bool, len(a))
	copy(first[:cut], b[:cut])
	copy(first[cut:], a[cut:])
	copy(second[:cut], a[:cut])
	copy(second[cut:], b[cut:])
	return first, second
}

// flipBits flips every bit independently with probability rate and returns how many flipped
func flipBits(bits []bool, rate float64, rng Source) int {
	flipped := 0
	for i := range bits {
		if rng.Float64() < rate {
			bits[i] = !bits[i]
			flipped++
		}
	}
	return flipped
}

// rouletteIndex returns the first index whose cumulative fitness reaches draw.
// Falls back to the last index when floating point rounding keeps the sum below draw.
func rouletteIndex(candidates []*Candidate, draw float64) int {
	sumSoFar := 0.0
	for i, c := range candidates {
		sumSoFar += c.Fitness
		if sumSoFar >= draw {
			return i
		}
	}
	return len(candidates) - 1
}
