package sweep

import "math/rand/v2"

// Range bounds one swept parameter.
type Range struct {
	Min float64
	Max float64
}

// Sampler draws Latin Hypercube samples: each dimension's unit interval is
// split into n equal strata and a random permutation assigns exactly one
// stratum to each sample, so the marginals cover the whole range evenly.
type Sampler struct {
	ranges []Range
	n      int
	perms  [][]float64
}

func NewSampler(ranges []Range, n int, rng *rand.Rand) *Sampler {
	s := &Sampler{ranges: ranges, n: n}
	s.perms = make([][]float64, len(ranges))
	for d := range ranges {
		values := make([]float64, n)
		for j := 0; j < n; j++ {
			values[j] = float64(j) / float64(n)
		}
		rng.Shuffle(n, func(i, j int) {
			values[i], values[j] = values[j], values[i]
		})
		s.perms[d] = values
	}
	return s
}

// All returns every sample; sample i holds one value per dimension, mapped
// into that dimension's range.
func (s *Sampler) All() [][]float64 {
	out := make([][]float64, s.n)
	for i := 0; i < s.n; i++ {
		sample := make([]float64, len(s.ranges))
		for d, r := range s.ranges {
			sample[d] = r.Min + s.perms[d][i]*(r.Max-r.Min)
		}
		out[i] = sample
	}
	return out
}
