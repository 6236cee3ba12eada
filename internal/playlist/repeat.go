package playlist

import "math"

const bruteForceLimit = 1000

// commonDivisor guesses a common divisor of the non-zero weights. It tries the
// smallest weight first, then brute-forces downward for small integer sets.
// The result is a divisor but not necessarily the greatest one.
func (s *Store) commonDivisor() (float64, error) {
	weights := make(map[float64]struct{})
	for _, v := range s.entries {
		if v.Weight != 0 {
			weights[v.Weight] = struct{}{}
		}
	}
	if len(weights) == 0 {
		return 0, ErrNoCommonDivisor
	}

	minWeight := math.Inf(1)
	allIntegers := true
	for w := range weights {
		minWeight = math.Min(minWeight, w)
		if w != math.Trunc(w) {
			allIntegers = false
		}
	}
	divides := func(n float64) bool {
		for w := range weights {
			if math.Mod(w, n) != 0 {
				return false
			}
		}
		return true
	}
	if divides(minWeight) {
		return minWeight, nil
	}
	if allIntegers && minWeight < bruteForceLimit {
		for n := minWeight - 1; n >= 1; n-- {
			if divides(n) {
				return n, nil
			}
		}
	}
	return 0, ErrNoCommonDivisor
}

// RepeatedList flattens the store into a path list where each path appears
// weight/scale times (truncated), so a uniform pick from the list follows the
// weights. A scale <= 0 is guessed from the weights. Volumes are dropped.
func (s *Store) RepeatedList(scale float64) ([]string, error) {
	if scale <= 0 {
		var err error
		if scale, err = s.commonDivisor(); err != nil {
			return nil, err
		}
	}
	var out []string
	for _, path := range s.order {
		n := int(s.entries[path].Weight / scale)
		for range n {
			out = append(out, path)
		}
	}
	return out, nil
}
